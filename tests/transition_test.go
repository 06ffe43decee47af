// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	businessflow "github.com/peykmarket/backoffice/business_flow"
	"github.com/peykmarket/backoffice/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		role    models.Role
		from    models.AccountStatus
		to      models.AccountStatus
		allowed bool
	}{
		{"CourierApproval", models.RoleCourier, models.AccountStatusPending, models.AccountStatusApproved, true},
		{"CourierRejection", models.RoleCourier, models.AccountStatusPending, models.AccountStatusRejected, true},
		{"CourierSuspendApproved", models.RoleCourier, models.AccountStatusApproved, models.AccountStatusSuspended, true},
		{"CourierSuspendActive", models.RoleCourier, models.AccountStatusActive, models.AccountStatusSuspended, true},
		{"CourierReactivate", models.RoleCourier, models.AccountStatusSuspended, models.AccountStatusApproved, true},
		{"CourierRejectedIsTerminal", models.RoleCourier, models.AccountStatusRejected, models.AccountStatusApproved, false},
		{"CourierCannotSuspendPending", models.RoleCourier, models.AccountStatusPending, models.AccountStatusSuspended, false},
		{"CourierCannotApproveTwice", models.RoleCourier, models.AccountStatusApproved, models.AccountStatusApproved, false},
		{"CustomerSuspend", models.RoleCustomer, models.AccountStatusActive, models.AccountStatusSuspended, true},
		{"CustomerReactivate", models.RoleCustomer, models.AccountStatusSuspended, models.AccountStatusActive, true},
		{"CustomerHasNoApplicationPhase", models.RoleCustomer, models.AccountStatusPending, models.AccountStatusApproved, false},
		{"CustomerCannotBeRejected", models.RoleCustomer, models.AccountStatusActive, models.AccountStatusRejected, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := businessflow.CanTransition(tt.role, tt.from, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, businessflow.IsInvalidTransition(err))
			}
		})
	}

	t.Run("UnknownRole", func(t *testing.T) {
		err := businessflow.CanTransition(models.Role("vendor"), models.AccountStatusActive, models.AccountStatusSuspended)
		require.Error(t, err)
		assert.True(t, businessflow.IsInvalidRole(err))
	})
}

func TestInServiceStatus(t *testing.T) {
	assert.Equal(t, models.AccountStatusApproved, businessflow.InServiceStatus(models.RoleCourier))
	assert.Equal(t, models.AccountStatusActive, businessflow.InServiceStatus(models.RoleCustomer))
}

func TestLookupSuspensionReason(t *testing.T) {
	t.Run("KnownReason", func(t *testing.T) {
		reason, ok := businessflow.LookupSuspensionReason("Non-payment")
		require.True(t, ok)
		assert.Equal(t, businessflow.SeverityMedium, reason.Severity)
		assert.Equal(t, 7, reason.DefaultDurationDays)
	})

	t.Run("HighSeverityReason", func(t *testing.T) {
		reason, ok := businessflow.LookupSuspensionReason("Fraudulent Activity")
		require.True(t, ok)
		assert.Equal(t, businessflow.SeverityHigh, reason.Severity)
		assert.Equal(t, 30, reason.DefaultDurationDays)
	})

	t.Run("UnknownReason", func(t *testing.T) {
		reason, ok := businessflow.LookupSuspensionReason("Bad vibes")
		assert.False(t, ok)
		assert.Nil(t, reason)
	})
}

func TestValidDurationDays(t *testing.T) {
	for _, days := range businessflow.SuspensionDurationOptions {
		assert.True(t, businessflow.ValidDurationDays(days), "expected %d to be a valid option", days)
	}
	assert.False(t, businessflow.ValidDurationDays(2))
	assert.False(t, businessflow.ValidDurationDays(60))
	assert.False(t, businessflow.ValidDurationDays(-1))
}

func TestResolveDurationDays(t *testing.T) {
	nonPayment, ok := businessflow.LookupSuspensionReason("Non-payment")
	require.True(t, ok)

	t.Run("PermanentForcesZero", func(t *testing.T) {
		assert.Equal(t, 0, businessflow.ResolveDurationDays(nonPayment, 14, true))
	})

	t.Run("ZeroRequestFallsBackToReasonDefault", func(t *testing.T) {
		assert.Equal(t, 7, businessflow.ResolveDurationDays(nonPayment, 0, false))
	})

	t.Run("ExplicitRequestWins", func(t *testing.T) {
		assert.Equal(t, 3, businessflow.ResolveDurationDays(nonPayment, 3, false))
	})
}

func TestComputeLiftDate(t *testing.T) {
	t.Run("PermanentHasNoLiftDate", func(t *testing.T) {
		assert.Nil(t, businessflow.ComputeLiftDate(time.Now(), 0, true))
	})

	t.Run("CalendarDaysInUTC", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
		lift := businessflow.ComputeLiftDate(now, 7, false)
		require.NotNil(t, lift)
		assert.Equal(t, time.Date(2025, 3, 17, 23, 30, 0, 0, time.UTC), *lift)
	})

	t.Run("CrossesMonthBoundary", func(t *testing.T) {
		now := time.Date(2025, 1, 30, 8, 0, 0, 0, time.UTC)
		lift := businessflow.ComputeLiftDate(now, 3, false)
		require.NotNil(t, lift)
		assert.Equal(t, time.Date(2025, 2, 2, 8, 0, 0, 0, time.UTC), *lift)
	})

	t.Run("NonUTCInputNormalized", func(t *testing.T) {
		zone := time.FixedZone("UTC+3:30", int((3*time.Hour + 30*time.Minute).Seconds()))
		now := time.Date(2025, 6, 1, 1, 0, 0, 0, zone)
		lift := businessflow.ComputeLiftDate(now, 1, false)
		require.NotNil(t, lift)
		assert.Equal(t, time.UTC, lift.Location())
		assert.Equal(t, now.UTC().AddDate(0, 0, 1), *lift)
	})
}
