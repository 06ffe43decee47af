// Package businessflow contains the business logic for account moderation.
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Account-related errors
	ErrAccountNotFound = errors.New("account not found")
	ErrCourierNotFound = errors.New("courier not found")
	ErrInvalidRole     = errors.New("invalid role")

	// Transition errors
	ErrInvalidTransition = errors.New("transition not permitted from current status")

	// Suspension validation errors
	ErrReasonRequired          = errors.New("reason is required")
	ErrUnknownSuspensionReason = errors.New("suspension reason is not in the catalog")
	ErrInvalidDuration         = errors.New("duration is not one of the allowed options")

	// Concurrency errors
	ErrSuspensionAlreadyActive = errors.New("account already has an active suspension record")
	ErrAccountBusy             = errors.New("another moderation action is in flight for this account")

	// Persistence errors
	ErrPrimaryWriteFailed = errors.New("primary account write failed")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsAccountNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrCourierNotFound)
}

func IsInvalidRole(err error) bool {
	return errors.Is(err, ErrInvalidRole)
}

func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

func IsReasonRequired(err error) bool {
	return errors.Is(err, ErrReasonRequired)
}

func IsUnknownSuspensionReason(err error) bool {
	return errors.Is(err, ErrUnknownSuspensionReason)
}

func IsInvalidDuration(err error) bool {
	return errors.Is(err, ErrInvalidDuration)
}

func IsValidationError(err error) bool {
	return IsReasonRequired(err) || IsUnknownSuspensionReason(err) || IsInvalidDuration(err) || IsInvalidRole(err)
}

func IsSuspensionAlreadyActive(err error) bool {
	return errors.Is(err, ErrSuspensionAlreadyActive)
}

func IsAccountBusy(err error) bool {
	return errors.Is(err, ErrAccountBusy)
}

func IsPrimaryWriteFailed(err error) bool {
	return errors.Is(err, ErrPrimaryWriteFailed)
}
