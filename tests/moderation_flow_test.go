// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/peykmarket/backoffice/app/dto"
	"github.com/peykmarket/backoffice/app/services"
	businessflow "github.com/peykmarket/backoffice/business_flow"
	"github.com/peykmarket/backoffice/models"
	"github.com/peykmarket/backoffice/repository"
	testingutil "github.com/peykmarket/backoffice/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type moderationTestEnv struct {
	flow           businessflow.ModerationFlow
	accounts       repository.AccountStore
	customerRepo   repository.CustomerRepository
	courierRepo    repository.CourierRepository
	suspensionRepo repository.SuspensionRepository
	historyRepo    repository.StatusHistoryRepository
	fixtures       *testingutil.TestFixtures
}

func newModerationTestEnv(testDB *testingutil.TestDB) *moderationTestEnv {
	customerRepo := repository.NewCustomerRepository(testDB.DB)
	courierRepo := repository.NewCourierRepository(testDB.DB)
	accounts := repository.NewAccountStore(customerRepo, courierRepo)
	suspensionRepo := repository.NewSuspensionRepository(testDB.DB)
	historyRepo := repository.NewStatusHistoryRepository(testDB.DB)
	notificationSvc := services.NewNotificationService(services.NewMockEmailProvider())

	return &moderationTestEnv{
		flow:           businessflow.NewModerationFlow(accounts, suspensionRepo, historyRepo, notificationSvc, nil, testDB.DB),
		accounts:       accounts,
		customerRepo:   customerRepo,
		courierRepo:    courierRepo,
		suspensionRepo: suspensionRepo,
		historyRepo:    historyRepo,
		fixtures:       testingutil.NewTestFixtures(testDB),
	}
}

var testActor = businessflow.Actor{ID: 1, Username: "admin.jafari"}

// linkedLookupFailingStore fails every email lookup, simulating the linked
// identity resolution being unavailable while direct reads still work.
type linkedLookupFailingStore struct {
	repository.AccountStore
}

func (s *linkedLookupFailingStore) ByEmail(ctx context.Context, role models.Role, email string) (*repository.AccountView, error) {
	return nil, errors.New("account lookup timed out")
}

// failingHistoryRepo rejects every audit append
type failingHistoryRepo struct {
	repository.StatusHistoryRepository
}

func (r *failingHistoryRepo) Save(ctx context.Context, entry *models.StatusHistoryEntry) error {
	return errors.New("history store unavailable")
}

func TestApproveCourier(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env := newModerationTestEnv(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("ApprovesPendingApplication", func(t *testing.T) {
			courier, err := env.fixtures.CreateTestCourier(models.AccountStatusPending)
			require.NoError(t, err)

			resp, err := env.flow.ApproveCourier(ctx, &dto.ApproveCourierRequest{CourierID: courier.ID}, testActor)
			require.NoError(t, err)
			assert.True(t, resp.PrimaryApplied)
			assert.Equal(t, string(models.AccountStatusApproved), resp.NewStatus)
			assert.Empty(t, resp.Warnings)

			reloaded, err := env.courierRepo.ByID(ctx, courier.ID)
			require.NoError(t, err)
			assert.Equal(t, models.AccountStatusApproved, reloaded.Status)
			assert.Equal(t, models.AccountStatusApproved, reloaded.ApplicationStatus)
			assert.Equal(t, models.BackgroundCheckApproved, reloaded.BackgroundCheckStatus)
			assert.NotNil(t, reloaded.ReviewedAt)

			history, err := env.historyRepo.ListByAccount(ctx, models.RoleCourier, courier.ID, 10, 0)
			require.NoError(t, err)
			require.Len(t, history, 1)
			assert.Equal(t, models.AccountStatusPending, history[0].OldStatus)
			assert.Equal(t, models.AccountStatusApproved, history[0].NewStatus)
			assert.Equal(t, "admin.jafari", history[0].ActionBy)
		})

		t.Run("CourierNotFound", func(t *testing.T) {
			_, err := env.flow.ApproveCourier(ctx, &dto.ApproveCourierRequest{CourierID: 999999}, testActor)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountNotFound(err))
		})

		t.Run("CannotApproveRejectedCourier", func(t *testing.T) {
			courier, err := env.fixtures.CreateTestCourier(models.AccountStatusRejected)
			require.NoError(t, err)

			_, err = env.flow.ApproveCourier(ctx, &dto.ApproveCourierRequest{CourierID: courier.ID}, testActor)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidTransition(err))
		})

		t.Run("MissingActorIsAWarningNotAnError", func(t *testing.T) {
			courier, err := env.fixtures.CreateTestCourier(models.AccountStatusPending)
			require.NoError(t, err)

			resp, err := env.flow.ApproveCourier(ctx, &dto.ApproveCourierRequest{CourierID: courier.ID}, businessflow.Actor{})
			require.NoError(t, err)
			assert.True(t, resp.PrimaryApplied)
			require.NotEmpty(t, resp.Warnings)
			assert.Equal(t, businessflow.WarnActorMissing, resp.Warnings[0].Code)

			history, err := env.historyRepo.ListByAccount(ctx, models.RoleCourier, courier.ID, 10, 0)
			require.NoError(t, err)
			require.Len(t, history, 1)
			assert.Equal(t, "unknown", history[0].ActionBy)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRejectCourier(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env := newModerationTestEnv(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("RejectsWithReason", func(t *testing.T) {
			courier, err := env.fixtures.CreateTestCourier(models.AccountStatusPending)
			require.NoError(t, err)

			resp, err := env.flow.RejectCourier(ctx, &dto.RejectCourierRequest{
				CourierID: courier.ID,
				Reason:    "Incomplete vehicle documents",
			}, testActor)
			require.NoError(t, err)
			assert.True(t, resp.PrimaryApplied)
			assert.Equal(t, string(models.AccountStatusRejected), resp.NewStatus)

			reloaded, err := env.courierRepo.ByID(ctx, courier.ID)
			require.NoError(t, err)
			assert.Equal(t, models.AccountStatusRejected, reloaded.Status)
			require.NotNil(t, reloaded.RejectionReason)
			assert.Equal(t, "Incomplete vehicle documents", *reloaded.RejectionReason)
			assert.NotNil(t, reloaded.ReviewedAt)
		})

		t.Run("ReasonIsMandatory", func(t *testing.T) {
			courier, err := env.fixtures.CreateTestCourier(models.AccountStatusPending)
			require.NoError(t, err)

			_, err = env.flow.RejectCourier(ctx, &dto.RejectCourierRequest{CourierID: courier.ID}, testActor)
			require.Error(t, err)
			assert.True(t, businessflow.IsReasonRequired(err))

			// Nothing was written
			reloaded, err := env.courierRepo.ByID(ctx, courier.ID)
			require.NoError(t, err)
			assert.Equal(t, models.AccountStatusPending, reloaded.Status)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSuspendAccount(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env := newModerationTestEnv(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("SuspendsCustomerWithDefaultDuration", func(t *testing.T) {
			customer, err := env.fixtures.CreateTestCustomer()
			require.NoError(t, err)

			resp, err := env.flow.Suspend(ctx, &dto.SuspendAccountRequest{
				AccountID: customer.ID,
				Role:      string(models.RoleCustomer),
				Reason:    "Non-payment",
			}, testActor)
			require.NoError(t, err)
			assert.True(t, resp.PrimaryApplied)
			assert.Nil(t, resp.LinkedApplied)
			require.NotNil(t, resp.SuspensionID)
			require.NotNil(t, resp.ScheduledLiftDate)

			record, err := env.suspensionRepo.ByID(ctx, *resp.SuspensionID)
			require.NoError(t, err)
			assert.Equal(t, 7, record.DurationDays)
			assert.False(t, record.IsPermanent)
			assert.Equal(t, "admin.jafari", record.SuspendedBy)

			reloaded, err := env.customerRepo.ByID(ctx, customer.ID)
			require.NoError(t, err)
			assert.Equal(t, models.AccountStatusSuspended, reloaded.Status)
		})

		t.Run("PermanentSuspensionHasNoLiftDate", func(t *testing.T) {
			customer, err := env.fixtures.CreateTestCustomer()
			require.NoError(t, err)

			resp, err := env.flow.Suspend(ctx, &dto.SuspendAccountRequest{
				AccountID:   customer.ID,
				Role:        string(models.RoleCustomer),
				Reason:      "Fraudulent Activity",
				IsPermanent: true,
			}, testActor)
			require.NoError(t, err)
			assert.Nil(t, resp.ScheduledLiftDate)

			record, err := env.suspensionRepo.ByID(ctx, *resp.SuspensionID)
			require.NoError(t, err)
			assert.True(t, record.IsPermanent)
			assert.Zero(t, record.DurationDays)
			assert.Nil(t, record.ScheduledLiftDate)
		})

		t.Run("CascadesToLinkedCourier", func(t *testing.T) {
			email := "linked.suspend@example.com"
			customer, err := env.fixtures.CreateTestCustomerWithEmail(email)
			require.NoError(t, err)
			courier, err := env.fixtures.CreateTestCourierWithEmail(models.AccountStatusApproved, email)
			require.NoError(t, err)

			resp, err := env.flow.Suspend(ctx, &dto.SuspendAccountRequest{
				AccountID: customer.ID,
				Role:      string(models.RoleCustomer),
				Reason:    "Abusive Behavior",
			}, testActor)
			require.NoError(t, err)
			assert.True(t, resp.PrimaryApplied)
			require.NotNil(t, resp.LinkedApplied)
			assert.True(t, *resp.LinkedApplied)

			linkedCourier, err := env.courierRepo.ByID(ctx, courier.ID)
			require.NoError(t, err)
			assert.Equal(t, models.AccountStatusSuspended, linkedCourier.Status)

			mirror, err := env.suspensionRepo.ActiveByAccount(ctx, models.RoleCourier, courier.ID)
			require.NoError(t, err)
			require.NotNil(t, mirror)
			assert.Equal(t, "Abusive Behavior", mirror.Reason)
			assert.Contains(t, mirror.Notes, "Associated customer suspended")

			history, err := env.historyRepo.ListByAccount(ctx, models.RoleCourier, courier.ID, 10, 0)
			require.NoError(t, err)
			require.Len(t, history, 1)
			assert.True(t, history[0].Cascaded)
			assert.Equal(t, "admin.jafari", history[0].ActionBy)
			assert.Contains(t, history[0].Reason, "Associated customer suspended")
		})

		t.Run("LinkedAlreadySuspendedIsAWarning", func(t *testing.T) {
			email := "linked.synced@example.com"
			customer, err := env.fixtures.CreateTestCustomerWithEmail(email)
			require.NoError(t, err)
			courier, err := env.fixtures.CreateTestCourierWithEmail(models.AccountStatusSuspended, email)
			require.NoError(t, err)
			_, err = env.fixtures.CreateTestSuspension(models.RoleCourier, courier.ID, "Policy Violation", 7)
			require.NoError(t, err)

			resp, err := env.flow.Suspend(ctx, &dto.SuspendAccountRequest{
				AccountID: customer.ID,
				Role:      string(models.RoleCustomer),
				Reason:    "Policy Violation",
			}, testActor)
			require.NoError(t, err)
			assert.True(t, resp.PrimaryApplied)
			require.NotNil(t, resp.LinkedApplied)
			assert.False(t, *resp.LinkedApplied)

			var codes []string
			for _, w := range resp.Warnings {
				codes = append(codes, w.Code)
			}
			assert.Contains(t, codes, businessflow.WarnLinkedAlreadySynced)
		})

		t.Run("AlreadySuspendedConflict", func(t *testing.T) {
			customer, err := env.fixtures.CreateTestCustomer()
			require.NoError(t, err)

			_, err = env.flow.Suspend(ctx, &dto.SuspendAccountRequest{
				AccountID: customer.ID,
				Role:      string(models.RoleCustomer),
				Reason:    "Non-payment",
			}, testActor)
			require.NoError(t, err)

			_, err = env.flow.Suspend(ctx, &dto.SuspendAccountRequest{
				AccountID: customer.ID,
				Role:      string(models.RoleCustomer),
				Reason:    "Policy Violation",
			}, testActor)
			require.Error(t, err)
			assert.True(t, businessflow.IsSuspensionAlreadyActive(err))
		})

		t.Run("UnknownReasonRejected", func(t *testing.T) {
			customer, err := env.fixtures.CreateTestCustomer()
			require.NoError(t, err)

			_, err = env.flow.Suspend(ctx, &dto.SuspendAccountRequest{
				AccountID: customer.ID,
				Role:      string(models.RoleCustomer),
				Reason:    "Bad vibes",
			}, testActor)
			require.Error(t, err)
			assert.True(t, businessflow.IsUnknownSuspensionReason(err))
		})

		t.Run("InvalidDurationRejected", func(t *testing.T) {
			customer, err := env.fixtures.CreateTestCustomer()
			require.NoError(t, err)

			_, err = env.flow.Suspend(ctx, &dto.SuspendAccountRequest{
				AccountID:    customer.ID,
				Role:         string(models.RoleCustomer),
				Reason:       "Non-payment",
				DurationDays: 5,
			}, testActor)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidDuration(err))
		})

		t.Run("LinkedLookupFailureDoesNotBlockPrimary", func(t *testing.T) {
			customer, err := env.fixtures.CreateTestCustomer()
			require.NoError(t, err)

			notificationSvc := services.NewNotificationService(services.NewMockEmailProvider())
			flow := businessflow.NewModerationFlow(
				&linkedLookupFailingStore{AccountStore: env.accounts},
				env.suspensionRepo, env.historyRepo, notificationSvc, nil, testDB.DB)

			resp, err := flow.Suspend(ctx, &dto.SuspendAccountRequest{
				AccountID: customer.ID,
				Role:      string(models.RoleCustomer),
				Reason:    "Non-payment",
			}, testActor)
			require.NoError(t, err)
			assert.True(t, resp.PrimaryApplied)
			assert.Nil(t, resp.LinkedApplied)

			var codes []string
			for _, w := range resp.Warnings {
				codes = append(codes, w.Code)
			}
			assert.Contains(t, codes, businessflow.WarnLinkedLookupFailed)

			reloaded, err := env.customerRepo.ByID(ctx, customer.ID)
			require.NoError(t, err)
			assert.Equal(t, models.AccountStatusSuspended, reloaded.Status)
		})

		t.Run("HistoryWriteFailureIsAWarning", func(t *testing.T) {
			customer, err := env.fixtures.CreateTestCustomer()
			require.NoError(t, err)

			notificationSvc := services.NewNotificationService(services.NewMockEmailProvider())
			flow := businessflow.NewModerationFlow(
				env.accounts, env.suspensionRepo,
				&failingHistoryRepo{StatusHistoryRepository: env.historyRepo},
				notificationSvc, nil, testDB.DB)

			resp, err := flow.Suspend(ctx, &dto.SuspendAccountRequest{
				AccountID: customer.ID,
				Role:      string(models.RoleCustomer),
				Reason:    "Non-payment",
			}, testActor)
			require.NoError(t, err)
			assert.True(t, resp.PrimaryApplied)

			var codes []string
			for _, w := range resp.Warnings {
				codes = append(codes, w.Code)
			}
			assert.Contains(t, codes, businessflow.WarnHistoryWriteFailed)

			reloaded, err := env.customerRepo.ByID(ctx, customer.ID)
			require.NoError(t, err)
			assert.Equal(t, models.AccountStatusSuspended, reloaded.Status)
		})

		t.Run("CannotSuspendPendingCourier", func(t *testing.T) {
			courier, err := env.fixtures.CreateTestCourier(models.AccountStatusPending)
			require.NoError(t, err)

			_, err = env.flow.Suspend(ctx, &dto.SuspendAccountRequest{
				AccountID: courier.ID,
				Role:      string(models.RoleCourier),
				Reason:    "Policy Violation",
			}, testActor)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidTransition(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestActivateAccount(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		env := newModerationTestEnv(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("ReinstatesSuspendedCustomer", func(t *testing.T) {
			customer, err := env.fixtures.CreateTestCustomer()
			require.NoError(t, err)
			suspendResp, err := env.flow.Suspend(ctx, &dto.SuspendAccountRequest{
				AccountID: customer.ID,
				Role:      string(models.RoleCustomer),
				Reason:    "Non-payment",
			}, testActor)
			require.NoError(t, err)

			resp, err := env.flow.Activate(ctx, &dto.ActivateAccountRequest{
				AccountID: customer.ID,
				Role:      string(models.RoleCustomer),
			}, businessflow.Actor{ID: 2, Username: "admin.naderi"})
			require.NoError(t, err)
			assert.True(t, resp.PrimaryApplied)
			assert.Equal(t, string(models.AccountStatusActive), resp.NewStatus)
			assert.Empty(t, resp.Warnings)

			reloaded, err := env.customerRepo.ByID(ctx, customer.ID)
			require.NoError(t, err)
			assert.Equal(t, models.AccountStatusActive, reloaded.Status)

			record, err := env.suspensionRepo.ByID(ctx, *suspendResp.SuspensionID)
			require.NoError(t, err)
			assert.Equal(t, models.SuspensionStatusLifted, record.Status)
			require.NotNil(t, record.LiftedBy)
			assert.Equal(t, "admin.naderi", *record.LiftedBy)
		})

		t.Run("SuspendedCourierReactivatesToApproved", func(t *testing.T) {
			courier, err := env.fixtures.CreateTestCourier(models.AccountStatusSuspended)
			require.NoError(t, err)
			_, err = env.fixtures.CreateTestSuspension(models.RoleCourier, courier.ID, "Excessive cancellations", 3)
			require.NoError(t, err)

			resp, err := env.flow.Activate(ctx, &dto.ActivateAccountRequest{
				AccountID: courier.ID,
				Role:      string(models.RoleCourier),
			}, testActor)
			require.NoError(t, err)
			assert.Equal(t, string(models.AccountStatusApproved), resp.NewStatus)

			reloaded, err := env.courierRepo.ByID(ctx, courier.ID)
			require.NoError(t, err)
			assert.Equal(t, models.AccountStatusApproved, reloaded.Status)
		})

		t.Run("ActivateInServiceAccountIsIdempotent", func(t *testing.T) {
			customer, err := env.fixtures.CreateTestCustomer()
			require.NoError(t, err)

			resp, err := env.flow.Activate(ctx, &dto.ActivateAccountRequest{
				AccountID: customer.ID,
				Role:      string(models.RoleCustomer),
			}, testActor)
			require.NoError(t, err)
			assert.False(t, resp.PrimaryApplied)
			assert.Equal(t, "No change required", resp.Message)
			require.NotEmpty(t, resp.Warnings)
			assert.Equal(t, businessflow.WarnAlreadyInService, resp.Warnings[0].Code)

			// No audit entry for a no-op
			history, err := env.historyRepo.ListByAccount(ctx, models.RoleCustomer, customer.ID, 10, 0)
			require.NoError(t, err)
			assert.Empty(t, history)
		})

		t.Run("MissingSuspensionRecordIsAWarning", func(t *testing.T) {
			customer, err := env.fixtures.CreateTestCustomer()
			require.NoError(t, err)
			require.NoError(t, env.customerRepo.UpdateStatus(ctx, customer.ID, models.AccountStatusSuspended))

			resp, err := env.flow.Activate(ctx, &dto.ActivateAccountRequest{
				AccountID: customer.ID,
				Role:      string(models.RoleCustomer),
			}, testActor)
			require.NoError(t, err)
			assert.True(t, resp.PrimaryApplied)

			var codes []string
			for _, w := range resp.Warnings {
				codes = append(codes, w.Code)
			}
			assert.Contains(t, codes, businessflow.WarnNoActiveSuspension)
		})

		t.Run("CascadesToLinkedCourier", func(t *testing.T) {
			email := "linked.activate@example.com"
			customer, err := env.fixtures.CreateTestCustomerWithEmail(email)
			require.NoError(t, err)
			courier, err := env.fixtures.CreateTestCourierWithEmail(models.AccountStatusApproved, email)
			require.NoError(t, err)

			_, err = env.flow.Suspend(ctx, &dto.SuspendAccountRequest{
				AccountID: customer.ID,
				Role:      string(models.RoleCustomer),
				Reason:    "Identity Mismatch",
			}, testActor)
			require.NoError(t, err)

			resp, err := env.flow.Activate(ctx, &dto.ActivateAccountRequest{
				AccountID: customer.ID,
				Role:      string(models.RoleCustomer),
			}, testActor)
			require.NoError(t, err)
			require.NotNil(t, resp.LinkedApplied)
			assert.True(t, *resp.LinkedApplied)

			linkedCourier, err := env.courierRepo.ByID(ctx, courier.ID)
			require.NoError(t, err)
			assert.Equal(t, models.AccountStatusApproved, linkedCourier.Status)

			open, err := env.suspensionRepo.ActiveByAccount(ctx, models.RoleCourier, courier.ID)
			require.NoError(t, err)
			assert.Nil(t, open)

			history, err := env.historyRepo.ListByAccount(ctx, models.RoleCourier, courier.ID, 10, 0)
			require.NoError(t, err)
			require.NotEmpty(t, history)
			assert.True(t, history[0].Cascaded)
			assert.Contains(t, history[0].Reason, "Associated customer reinstated")
		})

		return nil
	})
	require.NoError(t, err)
}
