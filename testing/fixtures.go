// Package testing provides test utilities and database setup for testing the back office
package testing

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/peykmarket/backoffice/models"
	"github.com/peykmarket/backoffice/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// randomDigits returns a string of exactly n random digits
func randomDigits(n int) string {
	digits := make([]byte, n)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return string(digits)
}

// CreateTestCustomer creates an active test customer with a unique email and mobile
func (tf *TestFixtures) CreateTestCustomer() (*models.Customer, error) {
	suffix := randomDigits(9)
	return tf.createCustomer(fmt.Sprintf("sara.karimi.%s@example.com", suffix), suffix)
}

// CreateTestCustomerWithEmail creates an active test customer with a fixed email
func (tf *TestFixtures) CreateTestCustomerWithEmail(email string) (*models.Customer, error) {
	return tf.createCustomer(email, randomDigits(9))
}

func (tf *TestFixtures) createCustomer(email, suffix string) (*models.Customer, error) {
	customer := &models.Customer{
		UUID:            uuid.New(),
		FirstName:       "Sara",
		LastName:        "Karimi",
		Mobile:          fmt.Sprintf("+989%s", suffix),
		Email:           email,
		Status:          models.AccountStatusActive,
		IsEmailVerified: utils.ToPtr(true),
		IsActive:        utils.ToPtr(true),
		CreatedAt:       utils.UTCNow(),
		UpdatedAt:       utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create test customer: %w", err)
	}
	return customer, nil
}

// CreateTestCourier creates a test courier in the given lifecycle status
func (tf *TestFixtures) CreateTestCourier(status models.AccountStatus) (*models.Courier, error) {
	suffix := randomDigits(9)
	return tf.createCourier(status, fmt.Sprintf("reza.moradi.%s@example.com", suffix), suffix)
}

// CreateTestCourierWithEmail creates a test courier with a fixed email, for
// exercising cross-role linking against a customer sharing that email.
func (tf *TestFixtures) CreateTestCourierWithEmail(status models.AccountStatus, email string) (*models.Courier, error) {
	return tf.createCourier(status, email, randomDigits(9))
}

func (tf *TestFixtures) createCourier(status models.AccountStatus, email, suffix string) (*models.Courier, error) {
	backgroundCheck := models.BackgroundCheckPending
	if status.InService() || status == models.AccountStatusSuspended {
		backgroundCheck = models.BackgroundCheckApproved
	}

	courier := &models.Courier{
		UUID:                  uuid.New(),
		FirstName:             "Reza",
		LastName:              "Moradi",
		Mobile:                fmt.Sprintf("+989%s", suffix),
		Email:                 email,
		Status:                status,
		ApplicationStatus:     status,
		BackgroundCheckStatus: backgroundCheck,
		VehicleType:           utils.ToPtr("motorcycle"),
		VehiclePlate:          utils.ToPtr(fmt.Sprintf("12B%s", suffix[:3])),
		NationalID:            utils.ToPtr(randomDigits(10)),
		WorkZone:              utils.ToPtr("district-6"),
		IsActive:              utils.ToPtr(true),
		CreatedAt:             utils.UTCNow(),
		UpdatedAt:             utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(courier).Error; err != nil {
		return nil, fmt.Errorf("failed to create test courier: %w", err)
	}
	return courier, nil
}

// CreateTestAdmin creates an active admin with the given credentials
func (tf *TestFixtures) CreateTestAdmin(username, password string) (*models.Admin, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		UUID:         uuid.New(),
		Username:     username,
		Email:        fmt.Sprintf("%s@peyk.market", username),
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}
	return admin, nil
}

// CreateTestSuspension creates an active suspension record for an account
func (tf *TestFixtures) CreateTestSuspension(role models.Role, accountID uint, reason string, durationDays int) (*models.SuspensionRecord, error) {
	record := &models.SuspensionRecord{
		UUID:         uuid.New(),
		AccountID:    accountID,
		Role:         role,
		Reason:       reason,
		Notes:        "test suspension",
		DurationDays: durationDays,
		IsPermanent:  durationDays == 0,
		Status:       models.SuspensionStatusActive,
		SuspendedBy:  "test-admin",
		CreatedAt:    utils.UTCNow(),
	}
	if durationDays > 0 {
		record.ScheduledLiftDate = utils.ToPtr(utils.AddCalendarDays(record.CreatedAt, durationDays))
	}

	if err := tf.DB.DB.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create test suspension: %w", err)
	}
	return record, nil
}
