package scheduling

import (
	"bay-scheduler/internal/domain/booking"

	"github.com/google/uuid"
)

// IsAvailable reports whether window on resourceID is free of occupying bookings in snapshot.
// excludeBookingID (uuid.Nil for none) is ignored so a booking can be checked against its own new time.
func IsAvailable(resourceID string, window booking.TimeWindow, snapshot booking.Snapshot, excludeBookingID uuid.UUID) bool {
	for _, b := range snapshot.Occupying(resourceID, excludeBookingID) {
		if b.Window().Overlaps(window) {
			return false
		}
	}
	return true
}

// BlockingSet lists the occupying bookings on resourceID that intersect window, ordered by start.
func BlockingSet(resourceID string, window booking.TimeWindow, snapshot booking.Snapshot, excludeBookingID uuid.UUID) []*booking.Booking {
	return snapshot.OccupyingWithin(resourceID, window, excludeBookingID)
}
