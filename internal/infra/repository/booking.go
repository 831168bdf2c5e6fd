package repository

import (
	"context"
	"errors"
	"log/slog"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/infra"
	"bay-scheduler/internal/infra/converter"
	"bay-scheduler/internal/infra/db"
	"bay-scheduler/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeExclusionViolation = "23P01"
)

const (
	lockResourceSQL = `SELECT pg_advisory_xact_lock(hashtext($1))`

	findBookingForUpdateSQL = `SELECT ` + converter.BookingColumns + `
FROM bookings
WHERE id = $1
FOR UPDATE`

	findOccupyingSQL = `SELECT ` + converter.BookingColumns + `
FROM bookings
WHERE resource_id = $1
  AND status = ANY($2)
  AND window_range && $3::tstzrange
  AND id <> $4
ORDER BY lower(window_range), id`

	insertBookingSQL = `INSERT INTO bookings
    (id, resource_id, window_range, priority, job_ref, status, forced, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	updateBookingSQL = `UPDATE bookings
SET resource_id = $2, window_range = $3, status = $4, version = $5, updated_at = $6
WHERE id = $1 AND version = $7`
)

// BookingRepository is the write side of the bookings table, bound to one transaction.
type BookingRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewBookingRepository(dbtx db.DBTX, logger *slog.Logger) *BookingRepository {
	return &BookingRepository{db: dbtx, logger: logger}
}

func (r *BookingRepository) LockResource(ctx context.Context, resourceID string) error {
	if _, err := r.db.Exec(ctx, lockResourceSQL, resourceID); err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to lock resource", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := converter.ScanBooking(r.db.QueryRow(ctx, findBookingForUpdateSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "booking not found", err)
	}
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load booking", err)
	}
	return b, nil
}

func (r *BookingRepository) FindOccupying(ctx context.Context, resourceID string, window booking.TimeWindow, exclude uuid.UUID) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx, findOccupyingSQL,
		resourceID,
		pgconv.StatusStrings(booking.OccupyingStatuses()),
		window.ToTstzrange(),
		exclude,
	)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to query occupying bookings", err)
	}
	list, err := converter.ScanBookings(rows)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan occupying bookings", err)
	}
	return list, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.db.Exec(ctx, insertBookingSQL,
		b.ID(),
		b.ResourceID(),
		pgconv.RangeFromWindow(b.Window()),
		b.Priority().String(),
		b.JobRef(),
		b.Status().String(),
		b.Forced(),
		b.Version(),
		b.CreatedAt(),
		b.UpdatedAt(),
	)
	if err != nil {
		return r.writeErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking, expectedVersion int) error {
	tag, err := r.db.Exec(ctx, updateBookingSQL,
		b.ID(),
		b.ResourceID(),
		pgconv.RangeFromWindow(b.Window()),
		b.Status().String(),
		b.Version(),
		b.UpdatedAt(),
		expectedVersion,
	)
	if err != nil {
		return r.writeErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindConflict, "booking version changed", nil)
	}
	return nil
}

func (r *BookingRepository) writeErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeExclusionViolation:
			return infra.WrapRepoErr(r.logger, infra.KindConflict, "booking overlaps an existing booking", err)
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, msg, err)
		}
	}
	return infra.WrapRepoErr(r.logger, infra.KindDBFailure, msg, err)
}
