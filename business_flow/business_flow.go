// Package businessflow contains the business logic for account moderation.
package businessflow

import (
	"context"

	"github.com/peykmarket/backoffice/utils"
)

// Actor is the admin identity performing a moderation action. It is always
// passed explicitly into flow calls; flows never read it from global state.
type Actor struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Identifier returns the string recorded as action_by / suspended_by.
// A missing actor degrades to "unknown" rather than blocking the action.
func (a Actor) Identifier() string {
	if a.Username == "" {
		return "unknown"
	}
	return a.Username
}

// IsZero reports whether no actor was supplied
func (a Actor) IsZero() bool {
	return a.ID == 0 && a.Username == ""
}

// Warning is a non-fatal problem encountered while moderating: a failed
// linked-account mirror, a failed history append, a failed notification.
// Warnings are returned to the caller, never swallowed.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Warning codes
const (
	WarnActorMissing        = "ACTOR_MISSING"
	WarnLinkedLookupFailed  = "LINKED_LOOKUP_FAILED"
	WarnLinkedMirrorFailed  = "LINKED_MIRROR_FAILED"
	WarnHistoryWriteFailed  = "HISTORY_WRITE_FAILED"
	WarnNotificationFailed  = "NOTIFICATION_FAILED"
	WarnNoActiveSuspension  = "NO_ACTIVE_SUSPENSION"
	WarnLockUnavailable     = "LOCK_UNAVAILABLE"
	WarnAlreadyInService    = "ALREADY_IN_SERVICE"
	WarnLinkedAlreadySynced = "LINKED_ALREADY_SYNCED"
)

// ModerationResult describes what a cascade operation actually did. The
// primary account's outcome is authoritative; LinkedApplied is nil when no
// linked identity exists or no mirror was attempted.
type ModerationResult struct {
	PrimaryApplied bool      `json:"primary_applied"`
	LinkedApplied  *bool     `json:"linked_applied,omitempty"`
	Warnings       []Warning `json:"warnings,omitempty"`
}

func (r *ModerationResult) warn(code, message string) {
	r.Warnings = append(r.Warnings, Warning{Code: code, Message: message})
}

// requestIDFromContext extracts the request id handlers stored on the context
func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(utils.RequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
