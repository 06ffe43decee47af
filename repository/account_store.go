// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"github.com/peykmarket/backoffice/models"
	"github.com/peykmarket/backoffice/utils"
)

// AccountStoreImpl implements AccountStore over the two role repositories.
// Role dispatch happens here and nowhere else.
type AccountStoreImpl struct {
	customers CustomerRepository
	couriers  CourierRepository
}

// NewAccountStore creates a role-dispatched account store
func NewAccountStore(customers CustomerRepository, couriers CourierRepository) AccountStore {
	return &AccountStoreImpl{
		customers: customers,
		couriers:  couriers,
	}
}

// ByID retrieves the account view for the given role and id
func (s *AccountStoreImpl) ByID(ctx context.Context, role models.Role, id uint) (*AccountView, error) {
	switch role {
	case models.RoleCustomer:
		customer, err := s.customers.ByID(ctx, id)
		if err != nil || customer == nil {
			return nil, err
		}
		return customerView(customer), nil
	case models.RoleCourier:
		courier, err := s.couriers.ByID(ctx, id)
		if err != nil || courier == nil {
			return nil, err
		}
		return courierView(courier), nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// ByEmail retrieves the account view for the given role and email
func (s *AccountStoreImpl) ByEmail(ctx context.Context, role models.Role, email string) (*AccountView, error) {
	switch role {
	case models.RoleCustomer:
		customer, err := s.customers.ByEmail(ctx, email)
		if err != nil || customer == nil {
			return nil, err
		}
		return customerView(customer), nil
	case models.RoleCourier:
		courier, err := s.couriers.ByEmail(ctx, email)
		if err != nil || courier == nil {
			return nil, err
		}
		return courierView(courier), nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// UpdateStatus applies a status change to the account of the given role
func (s *AccountStoreImpl) UpdateStatus(ctx context.Context, role models.Role, id uint, change StatusChange) error {
	switch role {
	case models.RoleCustomer:
		return s.customers.UpdateStatus(ctx, id, change.Status)
	case models.RoleCourier:
		courierChange := CourierStatusChange{
			Status: change.Status,
			// application_status historically mirrors status
			ApplicationStatus: change.Status,
			RejectionReason:   change.RejectionReason,
		}
		if change.ApproveBackgroundCheck {
			approved := models.BackgroundCheckApproved
			courierChange.BackgroundCheckStatus = &approved
		}
		if change.Status == models.AccountStatusApproved || change.Status == models.AccountStatusRejected {
			courierChange.ReviewedAt = utils.UTCNowPtr()
		}
		return s.couriers.UpdateStatus(ctx, id, courierChange)
	default:
		return fmt.Errorf("unknown role %q", role)
	}
}

func customerView(c *models.Customer) *AccountView {
	return &AccountView{
		ID:       c.ID,
		Role:     models.RoleCustomer,
		Email:    c.Email,
		Status:   c.Status,
		FullName: c.FirstName + " " + c.LastName,
	}
}

func courierView(c *models.Courier) *AccountView {
	applicationStatus := c.ApplicationStatus
	backgroundCheck := c.BackgroundCheckStatus
	return &AccountView{
		ID:                    c.ID,
		Role:                  models.RoleCourier,
		Email:                 c.Email,
		Status:                c.Status,
		ApplicationStatus:     &applicationStatus,
		BackgroundCheckStatus: &backgroundCheck,
		FullName:              c.FirstName + " " + c.LastName,
	}
}
