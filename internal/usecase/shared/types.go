package shared

import "time"

// Operation names used for metrics labels and log fields
const (
	OpGenerateSlots     = "generate_slots"
	OpCheckAvailability = "check_availability"
	OpResolveConflict   = "resolve_conflict"
	OpSuggestSlots      = "suggest_slots"

	OpCreateBooking    = "create_booking"
	OpForceSchedule    = "force_schedule"
	OpMoveBooking      = "move_booking"
	OpTransitionStatus = "transition_status"
	OpApplyResolution  = "apply_resolution"
)

// Commit outcomes
const (
	OutcomeCommitted = "committed"
	OutcomeConflict  = "conflict"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

type MetricsRecorder interface {
	RecordQuery(operation string, elapsed time.Duration, err error)
	RecordProposals(operation string, count int)
	RecordCommit(operation, outcome string)
}

type NopMetrics struct{}

func (NopMetrics) RecordQuery(string, time.Duration, error) {}
func (NopMetrics) RecordProposals(string, int)              {}
func (NopMetrics) RecordCommit(string, string)              {}
