//go:build unit || e2e

package builder

import (
	"time"

	"bay-scheduler/internal/domain/booking"
	reqdto "bay-scheduler/internal/handler/dto/request"

	"github.com/google/uuid"
)

// TestDay is a Monday, inside the default registry's operating week.
var TestDay = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

// At returns hh:mm on TestDay in UTC.
func At(hour, minute int) time.Time {
	return time.Date(TestDay.Year(), TestDay.Month(), TestDay.Day(), hour, minute, 0, 0, time.UTC)
}

// Window builds a valid window or panics; test fixtures only.
func Window(start, end time.Time) booking.TimeWindow {
	return booking.MustTimeWindow(start, end)
}

type BookingBuilder struct {
	ID         uuid.UUID
	ResourceID string
	Start      time.Time
	End        time.Time
	Priority   booking.Priority
	JobRef     string
	Status     booking.Status
	Forced     bool
	Version    int
	CreatedAt  time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		ID:         uuid.New(),
		ResourceID: "bay-1",
		Start:      At(9, 0),
		End:        At(11, 0),
		Priority:   booking.PriorityMedium,
		JobRef:     "job-1001",
		Status:     booking.StatusScheduled,
		Version:    1,
		CreatedAt:  TestDay.Add(-24 * time.Hour),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() *booking.Booking {
	return booking.Reconstruct(
		b.ID,
		b.ResourceID,
		booking.MustTimeWindow(b.Start, b.End),
		b.Priority,
		b.JobRef,
		b.Status,
		b.Forced,
		b.Version,
		b.CreatedAt,
		b.CreatedAt,
	)
}

func (b *BookingBuilder) BuildNew() (*booking.Booking, error) {
	window, err := booking.NewTimeWindow(b.Start, b.End)
	if err != nil {
		return nil, err
	}
	return booking.NewBooking(b.ResourceID, window, b.Priority, b.JobRef, b.CreatedAt)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		ResourceID: b.ResourceID,
		Start:      b.Start,
		End:        b.End,
		Priority:   b.Priority.String(),
		JobRef:     b.JobRef,
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithID(id uuid.UUID) *BookingBuilder {
	b.ID = id
	return b
}

func (b *BookingBuilder) WithResourceID(id string) *BookingBuilder {
	b.ResourceID = id
	return b
}

func (b *BookingBuilder) WithWindow(start, end time.Time) *BookingBuilder {
	b.Start = start
	b.End = end
	return b
}

func (b *BookingBuilder) WithPriority(p booking.Priority) *BookingBuilder {
	b.Priority = p
	return b
}

func (b *BookingBuilder) WithStatus(s booking.Status) *BookingBuilder {
	b.Status = s
	return b
}

func (b *BookingBuilder) WithVersion(v int) *BookingBuilder {
	b.Version = v
	return b
}

func (b *BookingBuilder) AsForced() *BookingBuilder {
	b.Forced = true
	return b
}

func (b *BookingBuilder) AsInProgress() *BookingBuilder {
	b.Status = booking.StatusInProgress
	return b
}

func (b *BookingBuilder) AsCancelled() *BookingBuilder {
	b.Status = booking.StatusCancelled
	return b
}
