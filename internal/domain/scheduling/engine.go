package scheduling

import (
	"fmt"
	"sort"
	"time"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/domain/resource"

	"github.com/google/uuid"
)

// Weights of the normalized sub-scores. They are expected to sum to 1.
type Weights struct {
	TimeOfDay   float64
	LoadBalance float64
	Gap         float64
	Efficiency  float64
	Preference  float64
}

func (w Weights) sum() float64 {
	return w.TimeOfDay + w.LoadBalance + w.Gap + w.Efficiency + w.Preference
}

type EngineConfig struct {
	Weights                Weights
	MinScore               float64
	TopK                   int
	GranularityHours       float64
	HighPriorityBonus      float64
	PreferredResourceBonus float64
	LunchPenalty           float64
	LunchPenaltyEnabled    bool
	LunchStartMinute       int
	LunchEndMinute         int
	OptimalThreshold       float64
	EfficientThreshold     float64
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Weights: Weights{
			TimeOfDay:   0.25,
			LoadBalance: 0.20,
			Gap:         0.20,
			Efficiency:  0.20,
			Preference:  0.15,
		},
		MinScore:               0.3,
		TopK:                   8,
		GranularityHours:       DefaultGranularityHours,
		HighPriorityBonus:      0.15,
		PreferredResourceBonus: 0.1,
		LunchPenalty:           0.1,
		LunchPenaltyEnabled:    false,
		LunchStartMinute:       12 * 60,
		LunchEndMinute:         13 * 60,
		OptimalThreshold:       0.8,
		EfficientThreshold:     0.6,
	}
}

// Engine recommends slots for a new job. It holds static configuration only; every call is a pure
// function of its arguments, so one Engine can serve concurrent callers.
type Engine struct {
	cfg EngineConfig
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	if s := cfg.Weights.sum(); s <= 0 || s > 1.0001 {
		return nil, fmt.Errorf("%w: weights must sum to a value in (0, 1], got %.3f", ErrInvalidInput, s)
	}
	if cfg.MinScore < 0 || cfg.MinScore > 1 {
		return nil, fmt.Errorf("%w: minimum score must be within [0, 1]", ErrInvalidInput)
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive", ErrInvalidInput)
	}
	if _, err := hoursToMinutes("granularity", cfg.GranularityHours); err != nil {
		return nil, err
	}
	if cfg.LunchPenaltyEnabled {
		if err := (ClockRange{From: cfg.LunchStartMinute, To: cfg.LunchEndMinute}).validate(); err != nil {
			return nil, err
		}
	}
	return &Engine{cfg: cfg}, nil
}

func (e *Engine) Config() EngineConfig { return e.cfg }

type candidate struct {
	proposal Proposal
	position int
}

// Suggest scores every free slot on every capable resource for req.Date and returns the best TopK,
// sorted by descending score (ties: earlier start, then registry order).
func (e *Engine) Suggest(req SuggestRequest, snapshot booking.Snapshot, reg *resource.Registry) ([]Proposal, error) {
	duration, err := req.validate()
	if err != nil {
		return nil, err
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	granularityHours := e.cfg.GranularityHours
	if req.Preferences.GranularityHours != 0 {
		granularityHours = req.Preferences.GranularityHours
	}
	granularity, err := hoursToMinutes("granularity", granularityHours)
	if err != nil {
		return nil, err
	}
	if req.Preferences.PreferredTime != nil {
		if err := req.Preferences.PreferredTime.validate(); err != nil {
			return nil, err
		}
	}
	if req.Preferences.ResourceID != "" {
		if _, err := lookupResource(reg, req.Preferences.ResourceID); err != nil {
			return nil, err
		}
	}

	loc := reg.Location()
	eligible := make([]*resource.Resource, 0, reg.Len())
	for _, res := range reg.All() {
		if res.Supports(req.Capabilities) {
			eligible = append(eligible, res)
		}
	}

	counts := make(map[string]int, len(eligible))
	peerMax := 0
	for _, res := range eligible {
		n := snapshot.CountOnDay(res.ID(), req.Date, loc)
		counts[res.ID()] = n
		if n > peerMax {
			peerMax = n
		}
	}

	var candidates []candidate
	for _, res := range eligible {
		dayBookings := sameDayOccupying(snapshot, res.ID(), req.Date, loc)
		for _, slot := range generate(res, req.Date, duration, granularity, loc, req.Now) {
			if !IsAvailable(res.ID(), slot, snapshot, uuid.Nil) {
				continue
			}
			p := e.score(req, res, slot, dayBookings, dayLoad{count: counts[res.ID()], peerMax: peerMax, peers: len(eligible)}, loc)
			if p.Score < e.cfg.MinScore {
				continue
			}
			candidates = append(candidates, candidate{proposal: p, position: reg.Position(res.ID())})
		}
	}

	e.classify(candidates)

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.proposal.Score != b.proposal.Score {
			return a.proposal.Score > b.proposal.Score
		}
		if !a.proposal.Window.Start().Equal(b.proposal.Window.Start()) {
			return a.proposal.Window.Start().Before(b.proposal.Window.Start())
		}
		return a.position < b.position
	})

	if len(candidates) > e.cfg.TopK {
		candidates = candidates[:e.cfg.TopK]
	}
	out := make([]Proposal, len(candidates))
	for i, c := range candidates {
		out[i] = c.proposal
	}
	return out, nil
}

func (e *Engine) score(
	req SuggestRequest,
	res *resource.Resource,
	slot booking.TimeWindow,
	dayBookings []*booking.Booking,
	load dayLoad,
	loc *time.Location,
) Proposal {
	w := e.cfg.Weights
	start := minuteOfDay(slot.Start(), loc)

	sub := SubScores{
		TimeOfDay:   timeOfDayScore(start),
		LoadBalance: loadBalanceScore(load),
		Efficiency:  efficiencyScore(req.Preferences.Efficiency, res.ID()),
		Preference:  preferenceScore(req.Preferences.PreferredTime, start),
	}
	var gapMinutes int
	sub.Gap, gapMinutes = gapScore(slot, dayBookings)

	var why Rationale
	if req.Priority >= booking.PriorityHigh {
		sub.Adjustment += e.cfg.HighPriorityBonus
		why.Benefits = append(why.Benefits, fmt.Sprintf("%s priority boost applied", req.Priority))
	}
	if req.Preferences.ResourceID != "" && req.Preferences.ResourceID == res.ID() {
		sub.Adjustment += e.cfg.PreferredResourceBonus
		why.Benefits = append(why.Benefits, fmt.Sprintf("%s is the preferred resource", res.Label()))
	}
	if e.cfg.LunchPenaltyEnabled && overlapsClock(slot, e.cfg.LunchStartMinute, e.cfg.LunchEndMinute, loc) {
		sub.Adjustment -= e.cfg.LunchPenalty
		why.Warnings = append(why.Warnings, "overlaps the lunch hour")
	}

	total := w.TimeOfDay*sub.TimeOfDay +
		w.LoadBalance*sub.LoadBalance +
		w.Gap*sub.Gap +
		w.Efficiency*sub.Efficiency +
		w.Preference*sub.Preference +
		sub.Adjustment

	explain(&why, res, sub, load.count, gapMinutes)

	return Proposal{
		Kind:       KindSuggestion,
		ResourceID: res.ID(),
		Window:     slot,
		Score:      round4(clamp01(total)),
		Rationale:  why,
		SubScores:  &sub,
	}
}

func explain(why *Rationale, res *resource.Resource, sub SubScores, count, gapMinutes int) {
	var reasons, benefits, warnings []string

	if sub.TimeOfDay >= 0.9 {
		reasons = append(reasons, "early start keeps the rest of the day open")
	} else if sub.TimeOfDay <= 0.35 {
		warnings = append(warnings, "late-day start risks running past closing")
	}

	if sub.LoadBalance >= 0.8 {
		reasons = append(reasons, fmt.Sprintf("%s has a light load (%d booking(s) that day)", res.Label(), count))
	} else if sub.LoadBalance <= 0.4 {
		warnings = append(warnings, fmt.Sprintf("%s is already busy (%d booking(s) that day)", res.Label(), count))
	}

	switch {
	case gapMinutes < 0:
	case sub.Gap >= 1.0:
		benefits = append(benefits, fmt.Sprintf("sits %d minutes from an adjacent booking, minimizing idle time", gapMinutes))
	case sub.Gap <= 0.2:
		warnings = append(warnings, fmt.Sprintf("leaves a %d minute idle gap", gapMinutes))
	}

	if sub.Efficiency >= 0.8 {
		reasons = append(reasons, fmt.Sprintf("strong historical efficiency on %s", res.Label()))
	} else if sub.Efficiency <= 0.3 {
		warnings = append(warnings, fmt.Sprintf("weak historical efficiency on %s", res.Label()))
	}

	if sub.Preference >= 1.0 {
		benefits = append(benefits, "inside the preferred time range")
	} else if sub.Preference < neutralScore {
		warnings = append(warnings, "outside the preferred time range")
	}

	why.Reasons = append(reasons, why.Reasons...)
	why.Benefits = append(benefits, why.Benefits...)
	why.Warnings = append(warnings, why.Warnings...)
}

// classify assigns presentation labels. It runs on the thresholded set and leaves ordering untouched.
func (e *Engine) classify(candidates []candidate) {
	earliest := -1
	for i, c := range candidates {
		if earliest < 0 || c.proposal.Window.Start().Before(candidates[earliest].proposal.Window.Start()) {
			earliest = i
		}
	}
	for i := range candidates {
		p := &candidates[i].proposal
		switch {
		case p.Score >= e.cfg.OptimalThreshold:
			p.Label = LabelOptimal
		case p.Score >= e.cfg.EfficientThreshold:
			p.Label = LabelEfficient
		case i == earliest:
			p.Label = LabelNextAvailable
		default:
			p.Label = LabelAlternative
		}
	}
}
