//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bay-scheduler/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// InsertBooking writes b as-is. Overlapping non-forced rows still hit the exclusion constraint.
func InsertBooking(t *testing.T, db DBLike, b *booking.Booking) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, `
		INSERT INTO bookings (id, resource_id, window_range, priority, job_ref, status, forced, version, created_at, updated_at)
		VALUES ($1, $2, $3::tstzrange, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID(), b.ResourceID(), b.Window().ToTstzrange(), b.Priority().String(), b.JobRef(),
		b.Status().String(), b.Forced(), b.Version(), b.CreatedAt(), b.UpdatedAt())
	require.NoError(t, err)

	return b.ID()
}

// BookingVersion reads the stored version, or 0 when the row is missing.
func BookingVersion(t *testing.T, db DBLike, id uuid.UUID) int {
	t.Helper()

	var version int
	err := db.QueryRow(context.Background(), "SELECT version FROM bookings WHERE id = $1", id).Scan(&version)
	if err != nil {
		return 0
	}
	return version
}

func CountOverlaps(t *testing.T, db DBLike, resourceID string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), `
		SELECT count(*)
		FROM bookings a
		JOIN bookings b ON a.id < b.id
		  AND a.resource_id = b.resource_id
		  AND a.window_range && b.window_range
		WHERE a.resource_id = $1
		  AND NOT a.forced AND NOT b.forced
		  AND a.status IN ('scheduled', 'confirmed', 'in-progress')
		  AND b.status IN ('scheduled', 'confirmed', 'in-progress')`, resourceID).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
