package booking

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Snapshot is a read-only view of the booking set taken by the caller before a scheduling query.
// Derivations (WithMoved, WithAdded) return new snapshots and never alias the receiver's slice.
type Snapshot struct {
	bookings []*Booking
}

func NewSnapshot(bookings ...*Booking) Snapshot {
	list := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if b != nil {
			list = append(list, b)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].window.start.Before(list[j].window.start)
	})
	return Snapshot{bookings: list}
}

func (s Snapshot) Len() int { return len(s.bookings) }

func (s Snapshot) All() []*Booking {
	out := make([]*Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

func (s Snapshot) ByID(id uuid.UUID) (*Booking, bool) {
	for _, b := range s.bookings {
		if b.id == id {
			return b, true
		}
	}
	return nil, false
}

// Occupying lists bookings on resourceID that hold capacity, ordered by start, skipping exclude.
func (s Snapshot) Occupying(resourceID string, exclude uuid.UUID) []*Booking {
	var out []*Booking
	for _, b := range s.bookings {
		if b.resourceID != resourceID || !b.Occupies() {
			continue
		}
		if exclude != uuid.Nil && b.id == exclude {
			continue
		}
		out = append(out, b)
	}
	return out
}

// OccupyingWithin narrows Occupying to bookings intersecting window.
func (s Snapshot) OccupyingWithin(resourceID string, window TimeWindow, exclude uuid.UUID) []*Booking {
	var out []*Booking
	for _, b := range s.Occupying(resourceID, exclude) {
		if b.window.Overlaps(window) {
			out = append(out, b)
		}
	}
	return out
}

// CountOnDay counts occupying bookings on resourceID that start on the calendar day of day in loc.
func (s Snapshot) CountOnDay(resourceID string, day time.Time, loc *time.Location) int {
	y, m, d := day.In(loc).Date()
	n := 0
	for _, b := range s.Occupying(resourceID, uuid.Nil) {
		by, bm, bd := b.window.start.In(loc).Date()
		if by == y && bm == m && bd == d {
			n++
		}
	}
	return n
}

// WithMoved returns a snapshot in which booking id occupies window on resourceID instead.
func (s Snapshot) WithMoved(id uuid.UUID, resourceID string, window TimeWindow) Snapshot {
	list := make([]*Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if b.id == id {
			b = b.WithWindow(resourceID, window, b.updatedAt)
		}
		list = append(list, b)
	}
	return NewSnapshot(list...)
}

func (s Snapshot) WithAdded(b *Booking) Snapshot {
	list := make([]*Booking, 0, len(s.bookings)+1)
	list = append(list, s.bookings...)
	list = append(list, b)
	return NewSnapshot(list...)
}

// OverlapPair names two occupying bookings on the same resource whose windows intersect.
type OverlapPair struct {
	A *Booking
	B *Booking
}

// Overlaps lists every intersecting pair of occupying bookings. A valid shop floor returns none,
// except where an operator explicitly force-scheduled.
func (s Snapshot) Overlaps() []OverlapPair {
	var out []OverlapPair
	for i, a := range s.bookings {
		if !a.Occupies() {
			continue
		}
		for _, b := range s.bookings[i+1:] {
			if !b.Occupies() || a.resourceID != b.resourceID {
				continue
			}
			if a.window.Overlaps(b.window) {
				out = append(out, OverlapPair{A: a, B: b})
			}
		}
	}
	return out
}
