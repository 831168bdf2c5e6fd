//go:build unit

package booking_test

import (
	"testing"
	"time"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeWindow(t *testing.T) {
	t.Run("rejects zero and negative durations", func(t *testing.T) {
		_, err := booking.NewTimeWindow(builder.At(9, 0), builder.At(9, 0))
		require.ErrorIs(t, err, booking.ErrInvalidWindow)

		_, err = booking.NewTimeWindow(builder.At(10, 0), builder.At(9, 0))
		require.ErrorIs(t, err, booking.ErrInvalidWindow)

		_, err = booking.NewTimeWindow(time.Time{}, builder.At(9, 0))
		require.ErrorIs(t, err, booking.ErrInvalidWindow)
	})

	t.Run("half-open overlap", func(t *testing.T) {
		nine := builder.Window(builder.At(9, 0), builder.At(10, 0))
		ten := builder.Window(builder.At(10, 0), builder.At(11, 0))
		nineThirty := builder.Window(builder.At(9, 30), builder.At(10, 30))

		assert.False(t, nine.Overlaps(ten), "touching endpoints must not conflict")
		assert.False(t, ten.Overlaps(nine))
		assert.True(t, nine.Overlaps(nineThirty))
		assert.True(t, nineThirty.Overlaps(ten))
	})

	t.Run("equality on instants", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*60*60)
		a := builder.Window(builder.At(9, 0), builder.At(10, 0))
		b := builder.Window(builder.At(9, 0).In(tokyo), builder.At(10, 0).In(tokyo))
		assert.True(t, a.Equal(b))
	})

	t.Run("gap between windows", func(t *testing.T) {
		a := builder.Window(builder.At(9, 0), builder.At(10, 0))
		b := builder.Window(builder.At(10, 45), builder.At(11, 0))
		assert.Equal(t, 45*time.Minute, a.Gap(b))
		assert.Equal(t, 45*time.Minute, b.Gap(a))
	})

	t.Run("tstzrange literal is half-open", func(t *testing.T) {
		w := builder.Window(builder.At(9, 0), builder.At(10, 0))
		assert.Equal(t, "[2026-10-19T09:00:00Z,2026-10-19T10:00:00Z)", w.ToTstzrange())
	})
}

func TestPriority(t *testing.T) {
	p, err := booking.ParsePriority(" Urgent ")
	require.NoError(t, err)
	assert.Equal(t, booking.PriorityUrgent, p)

	_, err = booking.ParsePriority("critical")
	require.ErrorIs(t, err, booking.ErrInvalidPriority)

	assert.True(t, booking.PriorityLow.Less(booking.PriorityMedium))
	assert.True(t, booking.PriorityMedium.Less(booking.PriorityHigh))
	assert.True(t, booking.PriorityHigh.Less(booking.PriorityUrgent))
	assert.False(t, booking.PriorityUrgent.Less(booking.PriorityUrgent))
}

func TestStatusLifecycle(t *testing.T) {
	cases := []struct {
		from booking.Status
		to   booking.Status
		ok   bool
	}{
		{booking.StatusScheduled, booking.StatusConfirmed, true},
		{booking.StatusConfirmed, booking.StatusInProgress, true},
		{booking.StatusInProgress, booking.StatusCompleted, true},
		{booking.StatusScheduled, booking.StatusCancelled, true},
		{booking.StatusConfirmed, booking.StatusNoShow, true},
		{booking.StatusInProgress, booking.StatusCancelled, true},
		{booking.StatusScheduled, booking.StatusInProgress, false},
		{booking.StatusScheduled, booking.StatusCompleted, false},
		{booking.StatusConfirmed, booking.StatusScheduled, false},
		{booking.StatusCompleted, booking.StatusCancelled, false},
		{booking.StatusCancelled, booking.StatusScheduled, false},
		{booking.StatusNoShow, booking.StatusConfirmed, false},
	}
	for _, c := range cases {
		t.Run(string(c.from)+" to "+string(c.to), func(t *testing.T) {
			assert.Equal(t, c.ok, c.from.CanTransitionTo(c.to))
		})
	}

	t.Run("only non-terminal states occupy", func(t *testing.T) {
		for _, s := range booking.OccupyingStatuses() {
			assert.True(t, s.Occupies(), s)
		}
		assert.False(t, booking.StatusCompleted.Occupies())
		assert.False(t, booking.StatusCancelled.Occupies())
		assert.False(t, booking.StatusNoShow.Occupies())
	})
}

func TestBooking(t *testing.T) {
	t.Run("new booking starts scheduled at version 1", func(t *testing.T) {
		b, err := builder.NewBookingBuilder().BuildNew()
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, b.ID())
		assert.Equal(t, booking.StatusScheduled, b.Status())
		assert.Equal(t, 1, b.Version())
		assert.False(t, b.Forced())
	})

	t.Run("validation", func(t *testing.T) {
		_, err := builder.NewBookingBuilder().WithResourceID("  ").BuildNew()
		require.ErrorIs(t, err, booking.ErrEmptyResourceID)

		_, err = builder.NewBookingBuilder().WithPriority(booking.Priority(9)).BuildNew()
		require.ErrorIs(t, err, booking.ErrInvalidPriority)

		_, err = builder.NewBookingBuilder().WithWindow(builder.At(11, 0), builder.At(9, 0)).BuildNew()
		require.ErrorIs(t, err, booking.ErrInvalidWindow)
	})

	t.Run("transition bumps version and leaves the original untouched", func(t *testing.T) {
		original := builder.NewBookingBuilder().BuildDomain()
		now := builder.At(8, 0)

		confirmed, err := original.Transition(booking.StatusConfirmed, now)
		require.NoError(t, err)

		assert.Equal(t, booking.StatusConfirmed, confirmed.Status())
		assert.Equal(t, 2, confirmed.Version())
		assert.Equal(t, now, confirmed.UpdatedAt())
		assert.Equal(t, booking.StatusScheduled, original.Status())
	})

	t.Run("illegal transition", func(t *testing.T) {
		b := builder.NewBookingBuilder().AsCancelled().BuildDomain()
		_, err := b.Transition(booking.StatusConfirmed, builder.At(8, 0))
		require.ErrorIs(t, err, booking.ErrInvalidTransition)

		_, err = b.Transition(booking.Status("parked"), builder.At(8, 0))
		require.ErrorIs(t, err, booking.ErrInvalidStatus)
	})
}

func TestSnapshot(t *testing.T) {
	a := builder.NewBookingBuilder().WithWindow(builder.At(9, 0), builder.At(10, 0)).BuildDomain()
	b := builder.NewBookingBuilder().WithWindow(builder.At(10, 0), builder.At(11, 0)).BuildDomain()
	cancelled := builder.NewBookingBuilder().WithWindow(builder.At(9, 30), builder.At(10, 30)).AsCancelled().BuildDomain()
	other := builder.NewBookingBuilder().WithResourceID("bay-2").WithWindow(builder.At(9, 0), builder.At(10, 0)).BuildDomain()

	snap := booking.NewSnapshot(b, cancelled, a, other)

	t.Run("adjacent bookings are not overlaps", func(t *testing.T) {
		assert.Empty(t, snap.Overlaps())
	})

	t.Run("occupying skips terminal and excluded bookings", func(t *testing.T) {
		got := snap.Occupying("bay-1", uuid.Nil)
		require.Len(t, got, 2)
		assert.Equal(t, a.ID(), got[0].ID())
		assert.Equal(t, b.ID(), got[1].ID())

		got = snap.Occupying("bay-1", a.ID())
		require.Len(t, got, 1)
		assert.Equal(t, b.ID(), got[0].ID())
	})

	t.Run("derived snapshots do not alias", func(t *testing.T) {
		moved := snap.WithMoved(a.ID(), "bay-1", builder.Window(builder.At(10, 30), builder.At(11, 30)))

		require.Len(t, moved.Overlaps(), 1)
		assert.Empty(t, snap.Overlaps())

		original, ok := snap.ByID(a.ID())
		require.True(t, ok)
		assert.Equal(t, builder.At(9, 0), original.Window().Start())
	})

	t.Run("count on day", func(t *testing.T) {
		assert.Equal(t, 2, snap.CountOnDay("bay-1", builder.TestDay, time.UTC))
		assert.Equal(t, 1, snap.CountOnDay("bay-2", builder.TestDay, time.UTC))
		assert.Equal(t, 0, snap.CountOnDay("bay-1", builder.TestDay.AddDate(0, 0, 1), time.UTC))
	})
}
