package readstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/infra"
	"bay-scheduler/internal/infra/converter"
	"bay-scheduler/internal/infra/db"
	"bay-scheduler/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	listBetweenSQL = `SELECT ` + converter.BookingColumns + `
FROM bookings
WHERE window_range && $1::tstzrange
  AND ($2::text[] IS NULL OR status = ANY($2))
ORDER BY lower(window_range), id`

	findBookingSQL = `SELECT ` + converter.BookingColumns + `
FROM bookings
WHERE id = $1`
)

type BookingReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewBookingReadStore(dbtx db.DBTX, logger *slog.Logger) *BookingReadStore {
	return &BookingReadStore{db: dbtx, logger: logger}
}

func (s *BookingReadStore) ListBetween(ctx context.Context, from, to time.Time, statuses []booking.Status) ([]*booking.Booking, error) {
	span, err := booking.NewTimeWindow(from, to)
	if err != nil {
		return nil, err
	}
	var filter []string
	if statuses != nil {
		filter = pgconv.StatusStrings(statuses)
	}

	rows, err := s.db.Query(ctx, listBetweenSQL, span.ToTstzrange(), filter)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to list bookings", err)
	}
	list, err := converter.ScanBookings(rows)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to scan bookings", err)
	}
	return list, nil
}

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := converter.ScanBooking(s.db.QueryRow(ctx, findBookingSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "booking not found", err)
	}
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to load booking", err)
	}
	return b, nil
}
