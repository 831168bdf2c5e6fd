package scheduling

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/domain/resource"
)

var (
	ErrInvalidInput    = errors.New("invalid scheduling input")
	ErrUnknownResource = errors.New("unknown resource")
)

// SchedulingRequest is the job-side constraint set for one scheduling attempt.
type SchedulingRequest struct {
	DurationHours float64
	Capabilities  []string
	Priority      booking.Priority
	JobRef        string
}

func (r SchedulingRequest) validate() (int, error) {
	minutes, err := hoursToMinutes("duration", r.DurationHours)
	if err != nil {
		return 0, err
	}
	if !r.Priority.IsValid() {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, booking.ErrInvalidPriority)
	}
	return minutes, nil
}

// ClockRange is a time-of-day range in minutes after local midnight, [From, To).
type ClockRange struct {
	From int
	To   int
}

func (c ClockRange) validate() error {
	if c.From < 0 || c.To > resource.MinutesPerDay || c.From >= c.To {
		return fmt.Errorf("%w: preferred time range must satisfy 0 <= from < to <= 24:00", ErrInvalidInput)
	}
	return nil
}

// Preferences carries optional operator/customer preferences for the suggestion engine.
type Preferences struct {
	ResourceID       string
	PreferredTime    *ClockRange
	GranularityHours float64
	// Efficiency is historical performance per resource id in [0,1]; missing entries score neutral.
	Efficiency map[string]float64
}

// SuggestRequest asks for the best slots on Date across all resources.
type SuggestRequest struct {
	SchedulingRequest
	Date        time.Time
	Preferences Preferences
	// Now, when set, excludes slots that start before it.
	Now time.Time
}

// ConflictRequest is a concrete booking the operator tried to place.
type ConflictRequest struct {
	ResourceID   string
	Window       booking.TimeWindow
	Priority     booking.Priority
	Capabilities []string
	JobRef       string
}

func (r ConflictRequest) validate(reg *resource.Registry) (*resource.Resource, error) {
	if r.Window.IsZero() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, booking.ErrInvalidWindow)
	}
	if !r.Priority.IsValid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, booking.ErrInvalidPriority)
	}
	return lookupResource(reg, r.ResourceID)
}

func lookupResource(reg *resource.Registry, id string) (*resource.Resource, error) {
	res, err := reg.ByID(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, id)
	}
	return res, nil
}

// hoursToMinutes converts fractional hours to whole minutes; all slot arithmetic is done in minutes.
func hoursToMinutes(field string, hours float64) (int, error) {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number of hours", ErrInvalidInput, field)
	}
	minutes := int(math.Round(hours * 60))
	if minutes < 1 {
		return 0, fmt.Errorf("%w: %s must be at least one minute", ErrInvalidInput, field)
	}
	return minutes, nil
}

func durationMinutes(d time.Duration) int {
	return int(math.Ceil(d.Minutes()))
}
