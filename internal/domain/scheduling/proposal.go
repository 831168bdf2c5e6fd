package scheduling

import (
	"bay-scheduler/internal/domain/booking"

	"github.com/google/uuid"
)

type ProposalKind string

const (
	KindSuggestion     ProposalKind = "suggestion"
	KindAsRequested    ProposalKind = "as-requested"
	KindMoveExisting   ProposalKind = "move-existing"
	KindMoveRequest    ProposalKind = "move-request"
	KindSwitchResource ProposalKind = "switch-resource"
)

// Label is a presentation band for suggestions. It never influences ranking.
type Label string

const (
	LabelOptimal       Label = "optimal"
	LabelEfficient     Label = "efficient"
	LabelNextAvailable Label = "next-available"
	LabelAlternative   Label = "alternative"
)

type Rationale struct {
	Reasons  []string
	Benefits []string
	Warnings []string
}

// SubScores is the normalized breakdown behind a suggestion score.
type SubScores struct {
	TimeOfDay   float64
	LoadBalance float64
	Gap         float64
	Efficiency  float64
	Preference  float64
	Adjustment  float64
}

// Move relocates an existing booking as part of a resolution.
type Move struct {
	BookingID  uuid.UUID
	ResourceID string
	From       booking.TimeWindow
	To         booking.TimeWindow
}

// Proposal is a scored recommendation. Proposals are computed per query and must not be reused once
// the booking set changes.
type Proposal struct {
	Kind       ProposalKind
	ResourceID string
	Window     booking.TimeWindow
	Score      float64
	Label      Label
	Rationale  Rationale
	SubScores  *SubScores
	// Moves lists existing bookings that have to be relocated first (move-existing only).
	Moves []Move
}

// ForceOption knowingly creates an overlap. Callers must obtain an explicit confirmation that is
// distinct from accepting a ranked proposal.
type ForceOption struct {
	ResourceID           string
	Window               booking.TimeWindow
	Overlaps             []uuid.UUID
	Warning              string
	RequiresConfirmation bool
}

// Resolution is the resolver output for one requested booking.
type Resolution struct {
	Conflict  bool
	Blocking  []*booking.Booking
	Proposals []Proposal
	Force     *ForceOption
}
