package shared

import (
	"context"

	"bay-scheduler/internal/domain/booking"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Bookings() BookingRepository
}

type BookingRepository interface {
	// LockResource serializes writers on one resource until the transaction ends.
	LockResource(ctx context.Context, resourceID string) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// FindOccupying lists occupying bookings on resourceID intersecting window, skipping exclude.
	FindOccupying(ctx context.Context, resourceID string, window booking.TimeWindow, exclude uuid.UUID) ([]*booking.Booking, error)
	Create(ctx context.Context, b *booking.Booking) error
	// Update writes b only if the stored version still equals expectedVersion.
	Update(ctx context.Context, b *booking.Booking, expectedVersion int) error
}
