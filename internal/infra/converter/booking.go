package converter

import (
	"fmt"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// BookingColumns is the select list ScanBooking expects, in order.
const BookingColumns = "id, resource_id, window_range, priority, job_ref, status, forced, version, created_at, updated_at"

func ScanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id         uuid.UUID
		resourceID string
		window     pgtype.Range[pgtype.Timestamptz]
		priority   string
		jobRef     string
		status     string
		forced     bool
		version    int32
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)
	if err := row.Scan(&id, &resourceID, &window, &priority, &jobRef, &status, &forced, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return BookingFromRow(id, resourceID, window, priority, jobRef, status, forced, version, createdAt, updatedAt)
}

func BookingFromRow(
	id uuid.UUID,
	resourceID string,
	window pgtype.Range[pgtype.Timestamptz],
	priority, jobRef, status string,
	forced bool,
	version int32,
	createdAt, updatedAt pgtype.Timestamptz,
) (*booking.Booking, error) {
	w, err := pgconv.WindowFromRange(window)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", id, err)
	}
	p, err := booking.ParsePriority(priority)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", id, err)
	}
	s := booking.Status(status)
	if !s.IsValid() {
		return nil, fmt.Errorf("booking %s: %w: %q", id, booking.ErrInvalidStatus, status)
	}
	return booking.Reconstruct(
		id,
		resourceID,
		w,
		p,
		jobRef,
		s,
		forced,
		int(version),
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func ScanBookings(rows pgx.Rows) ([]*booking.Booking, error) {
	defer rows.Close()
	var out []*booking.Booking
	for rows.Next() {
		b, err := ScanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
