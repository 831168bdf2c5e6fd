package scheduling

import (
	"fmt"
	"math"
	"sort"
	"time"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/domain/resource"

	"github.com/google/uuid"
)

const (
	DefaultGranularityHours = 0.5
	DefaultHorizonDays      = 3
)

// base scores keep the fixed class order: move-existing > move-request > switch-resource
var kindBase = map[ProposalKind]float64{
	KindMoveExisting:   0.9,
	KindMoveRequest:    0.75,
	KindSwitchResource: 0.6,
}

// displacement can lower a score by at most this much, which never crosses a class band
const maxDisplacementPenalty = 0.1

type ResolverConfig struct {
	GranularityHours float64
	// HorizonDays bounds forward searches: 0 means the requested day only.
	HorizonDays int
}

type Resolver struct {
	granularity int
	horizonDays int
}

func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	if cfg.GranularityHours == 0 {
		cfg.GranularityHours = DefaultGranularityHours
	}
	granularity, err := hoursToMinutes("granularity", cfg.GranularityHours)
	if err != nil {
		return nil, err
	}
	if cfg.HorizonDays < 0 {
		return nil, fmt.Errorf("%w: horizon days cannot be negative", ErrInvalidInput)
	}
	return &Resolver{granularity: granularity, horizonDays: cfg.HorizonDays}, nil
}

// Resolve enumerates ranked alternatives for a requested booking that collides with existing ones.
// It never mutates the snapshot and never returns an error for "nothing fits": the proposal list is
// then empty and only the force option remains.
func (r *Resolver) Resolve(req ConflictRequest, snapshot booking.Snapshot, reg *resource.Registry) (Resolution, error) {
	res, err := req.validate(reg)
	if err != nil {
		return Resolution{}, err
	}
	loc := reg.Location()

	blocking := BlockingSet(res.ID(), req.Window, snapshot, uuid.Nil)
	if len(blocking) == 0 {
		return Resolution{
			Conflict: false,
			Proposals: []Proposal{{
				Kind:       KindAsRequested,
				ResourceID: res.ID(),
				Window:     req.Window,
				Score:      1,
				Rationale: Rationale{
					Reasons: []string{fmt.Sprintf("%s is free for the requested time", res.Label())},
				},
			}},
		}, nil
	}

	var proposals []Proposal
	if p, ok := r.moveExisting(req, res, blocking, snapshot, loc); ok {
		proposals = append(proposals, p)
	}
	if p, ok := r.moveRequest(req, res, snapshot, loc); ok {
		proposals = append(proposals, p)
	}
	if p, ok := r.switchResource(req, res, snapshot, reg); ok {
		proposals = append(proposals, p)
	}

	sort.SliceStable(proposals, func(i, j int) bool {
		return proposals[i].Score > proposals[j].Score
	})

	return Resolution{
		Conflict:  true,
		Blocking:  blocking,
		Proposals: proposals,
		Force:     forceOption(req, blocking),
	}, nil
}

func (r *Resolver) moveExisting(req ConflictRequest, res *resource.Resource, blocking []*booking.Booking, snapshot booking.Snapshot, loc *time.Location) (Proposal, bool) {
	for _, b := range blocking {
		// work already on the lift cannot be relocated
		if b.Status() == booking.StatusInProgress {
			return Proposal{}, false
		}
	}

	working := snapshot
	moves := make([]Move, 0, len(blocking))
	var warnings []string
	var displaced time.Duration

	for _, b := range blocking {
		bound := latest(req.Window.End(), b.Window().End())
		target, ok := r.nextFree(res, durationMinutes(b.Window().Duration()), bound, working, b.ID(), loc)
		if !ok {
			return Proposal{}, false
		}
		working = working.WithMoved(b.ID(), res.ID(), target)
		moves = append(moves, Move{
			BookingID:  b.ID(),
			ResourceID: res.ID(),
			From:       b.Window(),
			To:         target,
		})
		displaced += target.Start().Sub(b.Window().Start())

		if !b.Priority().Less(req.Priority) {
			warnings = append(warnings, fmt.Sprintf("moves a %s-priority booking for a %s-priority request", b.Priority(), req.Priority))
		}
		if !sameDay(b.Window().Start(), target.Start(), loc) {
			warnings = append(warnings, fmt.Sprintf("booking %s moves to %s", shortID(b.ID()), target.Start().In(loc).Format("Mon 2006-01-02")))
		}
		if b.Status() == booking.StatusConfirmed {
			warnings = append(warnings, fmt.Sprintf("booking %s is already confirmed with the customer", shortID(b.ID())))
		}
	}

	first := moves[0].To
	reasons := []string{fmt.Sprintf("keeps the requested %s on %s", req.Window.In(loc), res.Label())}
	for _, m := range moves {
		reasons = append(reasons, fmt.Sprintf("moves booking %s from %s to %s", shortID(m.BookingID), m.From.In(loc), m.To.In(loc)))
	}

	return Proposal{
		Kind:       KindMoveExisting,
		ResourceID: res.ID(),
		Window:     req.Window,
		Score:      bandScore(KindMoveExisting, displaced),
		Rationale: Rationale{
			Reasons:  reasons,
			Benefits: []string{"the new request starts exactly when asked", fmt.Sprintf("displaced work resumes at %s", first.Start().In(loc).Format("15:04"))},
			Warnings: warnings,
		},
		Moves: moves,
	}, true
}

func (r *Resolver) moveRequest(req ConflictRequest, res *resource.Resource, snapshot booking.Snapshot, loc *time.Location) (Proposal, bool) {
	target, ok := r.nextFree(res, durationMinutes(req.Window.Duration()), req.Window.Start(), snapshot, uuid.Nil, loc)
	if !ok {
		return Proposal{}, false
	}

	delay := target.Start().Sub(req.Window.Start())
	var warnings []string
	if delay > 0 {
		warnings = append(warnings, fmt.Sprintf("starts %s later than requested", delay))
	}
	if !sameDay(req.Window.Start(), target.Start(), loc) {
		warnings = append(warnings, "moves the request to a later day")
	}

	return Proposal{
		Kind:       KindMoveRequest,
		ResourceID: res.ID(),
		Window:     target,
		Score:      bandScore(KindMoveRequest, delay),
		Rationale: Rationale{
			Reasons:  []string{fmt.Sprintf("next free window on %s after the conflict", res.Label())},
			Benefits: []string{"no existing booking is disturbed"},
			Warnings: warnings,
		},
	}, true
}

func (r *Resolver) switchResource(req ConflictRequest, res *resource.Resource, snapshot booking.Snapshot, reg *resource.Registry) (Proposal, bool) {
	alt, ok := reg.Alternate(res.ID())
	if !ok || !alt.Supports(req.Capabilities) {
		return Proposal{}, false
	}
	open, closing, ok := alt.OpenClose(req.Window.Start(), reg.Location())
	if !ok {
		return Proposal{}, false
	}
	if req.Window.Start().Before(open) || req.Window.End().After(closing) {
		return Proposal{}, false
	}
	if !IsAvailable(alt.ID(), req.Window, snapshot, uuid.Nil) {
		return Proposal{}, false
	}

	return Proposal{
		Kind:       KindSwitchResource,
		ResourceID: alt.ID(),
		Window:     req.Window,
		Score:      bandScore(KindSwitchResource, 0),
		Rationale: Rationale{
			Reasons:  []string{fmt.Sprintf("%s is free for the requested time", alt.Label())},
			Benefits: []string{"keeps the requested time", "no existing booking is disturbed"},
			Warnings: []string{fmt.Sprintf("work moves from %s to %s", res.Label(), alt.Label())},
		},
	}, true
}

// nextFree walks the slot grid from notBefore, day by day up to the horizon, and returns the first
// window of the given length that is free in snapshot (ignoring exclude).
func (r *Resolver) nextFree(res *resource.Resource, duration int, notBefore time.Time, snapshot booking.Snapshot, exclude uuid.UUID, loc *time.Location) (booking.TimeWindow, bool) {
	for day := 0; day <= r.horizonDays; day++ {
		date := dayOffset(notBefore, day, loc)
		for _, slot := range generate(res, date, duration, r.granularity, loc, notBefore) {
			if IsAvailable(res.ID(), slot, snapshot, exclude) {
				return slot, true
			}
		}
	}
	return booking.TimeWindow{}, false
}

func forceOption(req ConflictRequest, blocking []*booking.Booking) *ForceOption {
	ids := make([]uuid.UUID, len(blocking))
	for i, b := range blocking {
		ids[i] = b.ID()
	}
	return &ForceOption{
		ResourceID:           req.ResourceID,
		Window:               req.Window,
		Overlaps:             ids,
		Warning:              fmt.Sprintf("force-scheduling double-books %s with %d existing booking(s)", req.ResourceID, len(ids)),
		RequiresConfirmation: true,
	}
}

// bandScore subtracts up to maxDisplacementPenalty, one hundredth per hour of displacement.
func bandScore(kind ProposalKind, displaced time.Duration) float64 {
	penalty := math.Min(maxDisplacementPenalty, math.Max(0, displaced.Hours())*0.01)
	return round4(kindBase[kind] - penalty)
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
