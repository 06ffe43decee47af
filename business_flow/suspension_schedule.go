// Package businessflow contains the business logic for account moderation.
package businessflow

import (
	"time"

	"github.com/peykmarket/backoffice/utils"
)

// Severity classifies how serious a suspension reason is
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SuspensionReason is one entry of the fixed reason catalog. Selecting a
// reason pre-fills the suspension duration with its default unless the
// caller chose permanent.
type SuspensionReason struct {
	Reason              string   `json:"reason"`
	Severity            Severity `json:"severity"`
	DefaultDurationDays int      `json:"default_duration_days"`
}

// SuspensionReasonCatalog is the fixed set of reasons admins can pick from
var SuspensionReasonCatalog = []SuspensionReason{
	{Reason: "Fraudulent Activity", Severity: SeverityHigh, DefaultDurationDays: 30},
	{Reason: "Identity Mismatch", Severity: SeverityHigh, DefaultDurationDays: 30},
	{Reason: "Abusive Behavior", Severity: SeverityHigh, DefaultDurationDays: 14},
	{Reason: "Policy Violation", Severity: SeverityMedium, DefaultDurationDays: 7},
	{Reason: "Non-payment", Severity: SeverityMedium, DefaultDurationDays: 7},
	{Reason: "Excessive cancellations", Severity: SeverityMedium, DefaultDurationDays: 3},
}

// SuspensionDurationOptions are the day counts callers may request; 0 plus
// IsPermanent=true means permanent.
var SuspensionDurationOptions = []int{1, 3, 7, 14, 30}

// LookupSuspensionReason finds a catalog entry by its reason string
func LookupSuspensionReason(reason string) (*SuspensionReason, bool) {
	for i := range SuspensionReasonCatalog {
		if SuspensionReasonCatalog[i].Reason == reason {
			return &SuspensionReasonCatalog[i], true
		}
	}
	return nil, false
}

// ValidDurationDays reports whether days is one of the allowed options
func ValidDurationDays(days int) bool {
	for _, option := range SuspensionDurationOptions {
		if option == days {
			return true
		}
	}
	return false
}

// ResolveDurationDays decides the effective duration of a suspension.
// Permanent forces zero days; a zero request falls back to the reason's
// default.
func ResolveDurationDays(reason *SuspensionReason, requestedDays int, isPermanent bool) int {
	if isPermanent {
		return 0
	}
	if requestedDays == 0 {
		return reason.DefaultDurationDays
	}
	return requestedDays
}

// ComputeLiftDate returns the date a temporary suspension is scheduled to
// end, or nil for permanent suspensions. Calendar-day arithmetic in UTC.
func ComputeLiftDate(now time.Time, durationDays int, isPermanent bool) *time.Time {
	if isPermanent {
		return nil
	}
	lift := utils.AddCalendarDays(now, durationDays)
	return &lift
}
