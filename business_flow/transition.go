// Package businessflow contains the business logic for account moderation.
package businessflow

import (
	"fmt"

	"github.com/peykmarket/backoffice/models"
)

// Transition tables per role. Couriers go through an application phase;
// customers only ever oscillate between active and suspended. "approved" and
// "active" are both in-service states for couriers, so a suspended courier
// reactivates to "approved".
var courierTransitions = map[models.AccountStatus][]models.AccountStatus{
	models.AccountStatusPending:   {models.AccountStatusApproved, models.AccountStatusRejected},
	models.AccountStatusApproved:  {models.AccountStatusSuspended},
	models.AccountStatusActive:    {models.AccountStatusSuspended},
	models.AccountStatusSuspended: {models.AccountStatusApproved},
}

var customerTransitions = map[models.AccountStatus][]models.AccountStatus{
	models.AccountStatusActive:    {models.AccountStatusSuspended},
	models.AccountStatusSuspended: {models.AccountStatusActive},
}

// CanTransition validates a requested status move against the table for the
// role. It returns ErrInvalidTransition (wrapped with detail) when the move
// is not listed; callers must not write anything in that case.
func CanTransition(role models.Role, from, to models.AccountStatus) error {
	var table map[models.AccountStatus][]models.AccountStatus
	switch role {
	case models.RoleCourier:
		table = courierTransitions
	case models.RoleCustomer:
		table = customerTransitions
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	for _, allowed := range table[from] {
		if allowed == to {
			return nil
		}
	}

	return fmt.Errorf("%w: %s cannot move from %s to %s", ErrInvalidTransition, role, from, to)
}

// InServiceStatus returns the status a reactivated account of the role lands
// in: "approved" preserves a courier's prior in-service state, customers use
// "active".
func InServiceStatus(role models.Role) models.AccountStatus {
	if role == models.RoleCourier {
		return models.AccountStatusApproved
	}
	return models.AccountStatusActive
}
