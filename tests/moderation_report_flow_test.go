// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"bytes"
	"testing"
	"time"

	businessflow "github.com/peykmarket/backoffice/business_flow"
	"github.com/peykmarket/backoffice/models"
	"github.com/peykmarket/backoffice/repository"
	testingutil "github.com/peykmarket/backoffice/testing"
	"github.com/peykmarket/backoffice/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newReportFlow(testDB *testingutil.TestDB) businessflow.ModerationReportFlow {
	customerRepo := repository.NewCustomerRepository(testDB.DB)
	courierRepo := repository.NewCourierRepository(testDB.DB)
	accounts := repository.NewAccountStore(customerRepo, courierRepo)
	suspensionRepo := repository.NewSuspensionRepository(testDB.DB)
	historyRepo := repository.NewStatusHistoryRepository(testDB.DB)
	return businessflow.NewModerationReportFlow(accounts, suspensionRepo, historyRepo)
}

func TestGetAccountDetail(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newReportFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("CustomerWithLinkedCourierAndSuspension", func(t *testing.T) {
			email := "detail.person@example.com"
			customer, err := fixtures.CreateTestCustomerWithEmail(email)
			require.NoError(t, err)
			courier, err := fixtures.CreateTestCourierWithEmail(models.AccountStatusApproved, email)
			require.NoError(t, err)
			_, err = fixtures.CreateTestSuspension(models.RoleCustomer, customer.ID, "Non-payment", 7)
			require.NoError(t, err)

			detail, err := flow.GetAccountDetail(ctx, string(models.RoleCustomer), customer.ID)
			require.NoError(t, err)
			assert.Equal(t, customer.ID, detail.Account.ID)
			assert.Equal(t, string(models.RoleCustomer), detail.Account.Role)
			require.NotNil(t, detail.LinkedAccount)
			assert.Equal(t, courier.ID, detail.LinkedAccount.ID)
			assert.Equal(t, string(models.RoleCourier), detail.LinkedAccount.Role)
			require.NotNil(t, detail.ActiveSuspension)
			assert.Equal(t, "Non-payment", detail.ActiveSuspension.Reason)
		})

		t.Run("AccountWithoutLinkOrSuspension", func(t *testing.T) {
			courier, err := fixtures.CreateTestCourier(models.AccountStatusPending)
			require.NoError(t, err)

			detail, err := flow.GetAccountDetail(ctx, string(models.RoleCourier), courier.ID)
			require.NoError(t, err)
			assert.Nil(t, detail.LinkedAccount)
			assert.Nil(t, detail.ActiveSuspension)
			assert.Empty(t, detail.RecentHistory)
		})

		t.Run("NotFound", func(t *testing.T) {
			_, err := flow.GetAccountDetail(ctx, string(models.RoleCustomer), 999999)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountNotFound(err))
		})

		t.Run("InvalidRole", func(t *testing.T) {
			_, err := flow.GetAccountDetail(ctx, "vendor", 1)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidRole(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestListSuspensionReasons(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newReportFlow(testDB)
		ctx := testingutil.CreateTestContext()

		resp, err := flow.ListSuspensionReasons(ctx)
		require.NoError(t, err)
		assert.Len(t, resp.Reasons, len(businessflow.SuspensionReasonCatalog))
		assert.Equal(t, businessflow.SuspensionDurationOptions, resp.DurationOptions)

		var reasons []string
		for _, r := range resp.Reasons {
			reasons = append(reasons, r.Reason)
		}
		assert.Contains(t, reasons, "Non-payment")
		assert.Contains(t, reasons, "Fraudulent Activity")

		return nil
	})
	require.NoError(t, err)
}

func TestExportStatusHistoryXLSX(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newReportFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		historyRepo := repository.NewStatusHistoryRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		customer, err := fixtures.CreateTestCustomer()
		require.NoError(t, err)
		courier, err := fixtures.CreateTestCourier(models.AccountStatusApproved)
		require.NoError(t, err)

		require.NoError(t, historyRepo.Save(ctx, &models.StatusHistoryEntry{
			AccountID: customer.ID,
			Role:      models.RoleCustomer,
			OldStatus: models.AccountStatusActive,
			NewStatus: models.AccountStatusSuspended,
			Reason:    "Non-payment",
			ActionBy:  "admin.jafari",
		}))
		require.NoError(t, historyRepo.Save(ctx, &models.StatusHistoryEntry{
			AccountID: courier.ID,
			Role:      models.RoleCourier,
			OldStatus: models.AccountStatusApproved,
			NewStatus: models.AccountStatusSuspended,
			Reason:    "Policy Violation",
			ActionBy:  "admin.jafari",
		}))

		now := utils.UTCNow()

		t.Run("WritesBothRoleSheets", func(t *testing.T) {
			filename, content, err := flow.ExportStatusHistoryXLSX(ctx, now.Add(-time.Hour), now.Add(time.Hour))
			require.NoError(t, err)
			assert.Contains(t, filename, "status_history_")
			assert.NotEmpty(t, content)

			workbook, err := excelize.OpenReader(bytes.NewReader(content))
			require.NoError(t, err)
			defer workbook.Close()

			assert.Contains(t, workbook.GetSheetList(), "Customers")
			assert.Contains(t, workbook.GetSheetList(), "Couriers")

			customerRows, err := workbook.GetRows("Customers")
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(customerRows), 2, "header plus at least one entry")

			courierRows, err := workbook.GetRows("Couriers")
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(courierRows), 2)
		})

		t.Run("RejectsInvertedRange", func(t *testing.T) {
			_, _, err := flow.ExportStatusHistoryXLSX(ctx, now, now.Add(-time.Hour))
			assert.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestListStatusHistoryAndSuspensions(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newReportFlow(testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		historyRepo := repository.NewStatusHistoryRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		customer, err := fixtures.CreateTestCustomer()
		require.NoError(t, err)
		_, err = fixtures.CreateTestSuspension(models.RoleCustomer, customer.ID, "Non-payment", 7)
		require.NoError(t, err)
		require.NoError(t, historyRepo.Save(ctx, &models.StatusHistoryEntry{
			AccountID: customer.ID,
			Role:      models.RoleCustomer,
			OldStatus: models.AccountStatusActive,
			NewStatus: models.AccountStatusSuspended,
			Reason:    "Non-payment",
			ActionBy:  "admin.jafari",
		}))

		t.Run("ListStatusHistory", func(t *testing.T) {
			resp, err := flow.ListStatusHistory(ctx, string(models.RoleCustomer), customer.ID, 50, 0)
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, string(models.AccountStatusSuspended), resp.Items[0].NewStatus)
		})

		t.Run("ListSuspensions", func(t *testing.T) {
			resp, err := flow.ListSuspensions(ctx, string(models.RoleCustomer), customer.ID, 50, 0)
			require.NoError(t, err)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "Non-payment", resp.Items[0].Reason)
		})

		return nil
	})
	require.NoError(t, err)
}
