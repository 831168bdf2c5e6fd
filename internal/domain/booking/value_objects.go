package booking

import (
	"fmt"
	"strings"
	"time"
)

// TimeWindow is a half-open [start, end) interval with end strictly after start.
type TimeWindow struct {
	start time.Time
	end   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if start.IsZero() || end.IsZero() {
		return TimeWindow{}, fmt.Errorf("%w: start and end are required", ErrInvalidWindow)
	}
	if !end.After(start) {
		return TimeWindow{}, fmt.Errorf("%w: end %s must be after start %s",
			ErrInvalidWindow, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return TimeWindow{start: start, end: end}, nil
}

// MustTimeWindow is for fixed, known-valid windows such as test fixtures.
func MustTimeWindow(start, end time.Time) TimeWindow {
	w, err := NewTimeWindow(start, end)
	if err != nil {
		panic(err)
	}
	return w
}

func (w TimeWindow) Start() time.Time { return w.start }
func (w TimeWindow) End() time.Time   { return w.end }

func (w TimeWindow) Duration() time.Duration {
	return w.end.Sub(w.start)
}

func (w TimeWindow) IsZero() bool {
	return w.start.IsZero() && w.end.IsZero()
}

// Overlaps uses half-open semantics: touching endpoints do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.start.Before(other.end) && w.end.After(other.start)
}

// Contains reports whether other lies fully inside w.
func (w TimeWindow) Contains(other TimeWindow) bool {
	return !other.start.Before(w.start) && !other.end.After(w.end)
}

// Equal compares instants, not wall-clock labels.
func (w TimeWindow) Equal(other TimeWindow) bool {
	return w.start.Equal(other.start) && w.end.Equal(other.end)
}

// Gap returns the idle time between two non-overlapping windows, or zero when they overlap.
func (w TimeWindow) Gap(other TimeWindow) time.Duration {
	switch {
	case !other.start.Before(w.end):
		return other.start.Sub(w.end)
	case !w.start.Before(other.end):
		return w.start.Sub(other.end)
	default:
		return 0
	}
}

func (w TimeWindow) Shift(d time.Duration) TimeWindow {
	return TimeWindow{start: w.start.Add(d), end: w.end.Add(d)}
}

func (w TimeWindow) In(loc *time.Location) TimeWindow {
	return TimeWindow{start: w.start.In(loc), end: w.end.In(loc)}
}

func (w TimeWindow) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
}

func (w TimeWindow) String() string {
	return w.start.Format("2006-01-02 15:04") + "-" + w.end.Format("15:04")
}

// Priority is ordered low < medium < high < urgent.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

var priorityNames = map[Priority]string{
	PriorityLow:    "low",
	PriorityMedium: "medium",
	PriorityHigh:   "high",
	PriorityUrgent: "urgent",
}

func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range priorityNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

func (p Priority) IsValid() bool {
	_, ok := priorityNames[p]
	return ok
}

func (p Priority) Less(other Priority) bool {
	return p < other
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "unknown"
}
