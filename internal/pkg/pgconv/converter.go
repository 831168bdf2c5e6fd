package pgconv

import (
	"errors"
	"time"

	"bay-scheduler/internal/domain/booking"

	"github.com/jackc/pgx/v5/pgtype"
)

var ErrUnboundedRange = errors.New("tstzrange must have finite lower and upper bounds")

func TimeFromPgtype(pt pgtype.Timestamptz) time.Time {
	return pt.Time
}

// WindowFromRange converts a scanned tstzrange. Stored ranges are always '[)', but inclusive upper
// bounds are tolerated since the window only carries instants.
func WindowFromRange(r pgtype.Range[pgtype.Timestamptz]) (booking.TimeWindow, error) {
	if !r.Valid || r.LowerType == pgtype.Unbounded || r.UpperType == pgtype.Unbounded {
		return booking.TimeWindow{}, ErrUnboundedRange
	}
	return booking.NewTimeWindow(r.Lower.Time, r.Upper.Time)
}

func RangeFromWindow(w booking.TimeWindow) pgtype.Range[pgtype.Timestamptz] {
	return pgtype.Range[pgtype.Timestamptz]{
		Lower:     pgtype.Timestamptz{Time: w.Start(), Valid: true},
		Upper:     pgtype.Timestamptz{Time: w.End(), Valid: true},
		LowerType: pgtype.Inclusive,
		UpperType: pgtype.Exclusive,
		Valid:     true,
	}
}

func StatusStrings(statuses []booking.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}
