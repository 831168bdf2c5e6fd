package request

import (
	"fmt"
	"strings"
	"time"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/domain/resource"
	"bay-scheduler/internal/domain/scheduling"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// SlotsQuery binds GET /api/resources/:id/slots. GranularityHours falls back to the configured default.
type SlotsQuery struct {
	Date             string  `form:"date" binding:"required"`
	DurationHours    float64 `form:"durationHours" binding:"required,gt=0"`
	GranularityHours float64 `form:"granularityHours" binding:"omitempty,gt=0"`
}

type AvailabilityRequest struct {
	ResourceID       string     `json:"resourceId" binding:"required"`
	Start            time.Time  `json:"start" binding:"required"`
	End              time.Time  `json:"end" binding:"required"`
	ExcludeBookingID *uuid.UUID `json:"excludeBookingId,omitempty"`
}

func (r AvailabilityRequest) Exclude() uuid.UUID {
	if r.ExcludeBookingID == nil {
		return uuid.Nil
	}
	return *r.ExcludeBookingID
}

type ResolveRequest struct {
	ResourceID   string    `json:"resourceId" binding:"required"`
	Start        time.Time `json:"start" binding:"required"`
	End          time.Time `json:"end" binding:"required"`
	Priority     string    `json:"priority" binding:"required,oneof=low medium high urgent"`
	JobRef       string    `json:"jobRef" binding:"max=255"`
	Capabilities []string  `json:"capabilities,omitempty"`
}

func (r ResolveRequest) ToDomain() (scheduling.ConflictRequest, error) {
	window, err := booking.NewTimeWindow(r.Start, r.End)
	if err != nil {
		return scheduling.ConflictRequest{}, err
	}
	priority, err := booking.ParsePriority(r.Priority)
	if err != nil {
		return scheduling.ConflictRequest{}, err
	}
	return scheduling.ConflictRequest{
		ResourceID:   strings.TrimSpace(r.ResourceID),
		Window:       window,
		Priority:     priority,
		Capabilities: r.Capabilities,
		JobRef:       r.JobRef,
	}, nil
}

type TimeRangeRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

type SuggestRequest struct {
	Date                string             `json:"date" binding:"required"`
	DurationHours       float64            `json:"durationHours" binding:"required,gt=0"`
	Priority            string             `json:"priority" binding:"required,oneof=low medium high urgent"`
	JobRef              string             `json:"jobRef" binding:"max=255"`
	Capabilities        []string           `json:"capabilities,omitempty"`
	PreferredResourceID string             `json:"preferredResourceId,omitempty"`
	PreferredTime       *TimeRangeRequest  `json:"preferredTime,omitempty"`
	GranularityHours    float64            `json:"granularityHours,omitempty" binding:"omitempty,gt=0"`
	Efficiency          map[string]float64 `json:"efficiency,omitempty" binding:"omitempty,dive,min=0,max=1"`
}

// ToDomain interprets Date as a calendar day in the shop's time zone.
func (r SuggestRequest) ToDomain(loc *time.Location) (scheduling.SuggestRequest, error) {
	date, err := ParseDate(r.Date, loc)
	if err != nil {
		return scheduling.SuggestRequest{}, err
	}
	priority, err := booking.ParsePriority(r.Priority)
	if err != nil {
		return scheduling.SuggestRequest{}, err
	}

	prefs := scheduling.Preferences{
		ResourceID:       strings.TrimSpace(r.PreferredResourceID),
		GranularityHours: r.GranularityHours,
		Efficiency:       r.Efficiency,
	}
	if r.PreferredTime != nil {
		from, ferr := parseClock(r.PreferredTime.From)
		if ferr != nil {
			return scheduling.SuggestRequest{}, ferr
		}
		to, terr := parseClock(r.PreferredTime.To)
		if terr != nil {
			return scheduling.SuggestRequest{}, terr
		}
		prefs.PreferredTime = &scheduling.ClockRange{From: from, To: to}
	}

	return scheduling.SuggestRequest{
		SchedulingRequest: scheduling.SchedulingRequest{
			DurationHours: r.DurationHours,
			Capabilities:  r.Capabilities,
			Priority:      priority,
			JobRef:        r.JobRef,
		},
		Date:        date,
		Preferences: prefs,
	}, nil
}

func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return d, nil
}

func parseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" {
		return resource.MinutesPerDay, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("time of day must be HH:MM: %w", err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
