package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidWindow     = errors.New("invalid time window")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEmptyResourceID   = errors.New("resource id cannot be empty")
	ErrJobRefTooLong     = errors.New("job reference is too long (max 255 characters)")
)

const MaxJobRefLength = 255

// Booking is one reservation of a resource. Storage is owned by the caller; the scheduling core only
// reads bookings through a Snapshot.
type Booking struct {
	id         uuid.UUID
	resourceID string
	window     TimeWindow
	priority   Priority
	jobRef     string
	status     Status
	forced     bool
	version    int
	createdAt  time.Time
	updatedAt  time.Time
}

func NewBooking(resourceID string, window TimeWindow, priority Priority, jobRef string, now time.Time) (*Booking, error) {
	resourceID = strings.TrimSpace(resourceID)
	if resourceID == "" {
		return nil, ErrEmptyResourceID
	}
	if window.IsZero() {
		return nil, ErrInvalidWindow
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, priority)
	}
	jobRef = strings.TrimSpace(jobRef)
	if len(jobRef) > MaxJobRefLength {
		return nil, ErrJobRefTooLong
	}

	return &Booking{
		id:         uuid.New(),
		resourceID: resourceID,
		window:     window,
		priority:   priority,
		jobRef:     jobRef,
		status:     StatusScheduled,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// NewForcedBooking creates a booking that was knowingly committed over an overlap.
func NewForcedBooking(resourceID string, window TimeWindow, priority Priority, jobRef string, now time.Time) (*Booking, error) {
	b, err := NewBooking(resourceID, window, priority, jobRef, now)
	if err != nil {
		return nil, err
	}
	b.forced = true
	return b, nil
}

func Reconstruct(
	id uuid.UUID,
	resourceID string,
	window TimeWindow,
	priority Priority,
	jobRef string,
	status Status,
	forced bool,
	version int,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:         id,
		resourceID: resourceID,
		window:     window,
		priority:   priority,
		jobRef:     jobRef,
		status:     status,
		forced:     forced,
		version:    version,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// WithWindow returns a copy moved to a new window (and optionally another resource), bumping the version.
func (b *Booking) WithWindow(resourceID string, window TimeWindow, now time.Time) *Booking {
	moved := *b
	if resourceID != "" {
		moved.resourceID = resourceID
	}
	moved.window = window
	moved.version = b.version + 1
	moved.updatedAt = now
	return &moved
}

// Transition returns a copy in the next lifecycle state.
func (b *Booking) Transition(next Status, now time.Time) (*Booking, error) {
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	if !b.status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.status, next)
	}
	changed := *b
	changed.status = next
	changed.version = b.version + 1
	changed.updatedAt = now
	return &changed, nil
}

func (b *Booking) Occupies() bool {
	return b.status.Occupies()
}

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) ResourceID() string   { return b.resourceID }
func (b *Booking) Window() TimeWindow   { return b.window }
func (b *Booking) Priority() Priority   { return b.priority }
func (b *Booking) JobRef() string       { return b.jobRef }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) Forced() bool         { return b.forced }
func (b *Booking) Version() int         { return b.version }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }
