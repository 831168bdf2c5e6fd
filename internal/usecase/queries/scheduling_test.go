//go:build unit

package queries_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/domain/resource"
	"bay-scheduler/internal/domain/scheduling"
	"bay-scheduler/internal/infra"
	"bay-scheduler/internal/infra/memstore"
	"bay-scheduler/internal/pkg/clock"
	"bay-scheduler/internal/pkg/errs"
	"bay-scheduler/internal/usecase/queries"
	"bay-scheduler/internal/usecase/shared"
	"bay-scheduler/tests/common/builder"
	queriesmock "bay-scheduler/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type proposalSpy struct {
	shared.NopMetrics
	proposals map[string]int
	queries   map[string]int
}

func (s *proposalSpy) RecordQuery(op string, _ time.Duration, _ error) { s.queries[op]++ }
func (s *proposalSpy) RecordProposals(op string, n int)               { s.proposals[op] = n }

type SchedulingQueriesTestSuite struct {
	suite.Suite
	store   *memstore.Store
	spy     *proposalSpy
	queries queries.SchedulingQueries
	ctx     context.Context
}

func newQueries(t require.TestingT, store queries.BookingReadStore, metrics shared.MetricsRecorder) queries.SchedulingQueries {
	resolver, err := scheduling.NewResolver(scheduling.ResolverConfig{GranularityHours: 0.5, HorizonDays: 3})
	require.NoError(t, err)
	engine, err := scheduling.NewEngine(scheduling.DefaultEngineConfig())
	require.NoError(t, err)
	return queries.NewSchedulingQueries(
		store,
		resource.DefaultRegistry(time.UTC),
		resolver,
		engine,
		3,
		metrics,
		clock.NewMockClock(builder.At(7, 0)),
	)
}

func (s *SchedulingQueriesTestSuite) SetupTest() {
	s.store = memstore.NewStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.spy = &proposalSpy{proposals: map[string]int{}, queries: map[string]int{}}
	s.queries = newQueries(s.T(), s.store, s.spy)
	s.ctx = context.Background()
}

func TestSchedulingQueriesSuite(t *testing.T) {
	suite.Run(t, new(SchedulingQueriesTestSuite))
}

func (s *SchedulingQueriesTestSuite) TestListResources() {
	views := s.queries.ListResources(s.ctx)
	s.Require().Len(views, 2)

	s.Equal("bay-1", views[0].ID)
	s.Equal("Bay 1", views[0].Label)
	s.ElementsMatch([]string{"lift", "diagnostics"}, views[0].Capabilities)
	s.Require().Len(views[0].OperatingHours, 6)
	s.Equal(queries.DayHoursView{Day: "monday", Open: "08:00", Close: "17:00"}, views[0].OperatingHours[0])
	s.Equal("saturday", views[0].OperatingHours[5].Day)

	s.Equal("bay-2", views[1].ID)
}

func (s *SchedulingQueriesTestSuite) TestGenerateSlots() {
	s.Run("success: two-hour jobs on a nine-hour day", func() {
		slots, err := s.queries.GenerateSlots(s.ctx, "bay-1", builder.TestDay, 2, 0.5)
		s.Require().NoError(err)
		s.Require().Len(slots, 15)
		s.True(slots[0].Equal(builder.Window(builder.At(8, 0), builder.At(10, 0))))
		s.True(slots[14].Equal(builder.Window(builder.At(15, 0), builder.At(17, 0))))
	})

	s.Run("success: ignores existing bookings", func() {
		s.store.Seed(builder.NewBookingBuilder().BuildDomain())
		slots, err := s.queries.GenerateSlots(s.ctx, "bay-1", builder.TestDay, 2, 0.5)
		s.Require().NoError(err)
		s.Len(slots, 15)
	})

	s.Run("success: closed day yields nothing", func() {
		slots, err := s.queries.GenerateSlots(s.ctx, "bay-1", builder.TestDay.AddDate(0, 0, -1), 1, 0.5)
		s.Require().NoError(err)
		s.Empty(slots)
	})

	s.Run("error: unknown resource", func() {
		_, err := s.queries.GenerateSlots(s.ctx, "bay-9", builder.TestDay, 1, 0.5)
		s.True(errs.Is(err, errs.ErrResourceNotFound), "got %v", err)
	})

	s.Run("error: non-positive duration", func() {
		_, err := s.queries.GenerateSlots(s.ctx, "bay-1", builder.TestDay, 0, 0.5)
		s.True(errs.Is(err, errs.ErrDomainValidation), "got %v", err)
	})
}

func (s *SchedulingQueriesTestSuite) TestCheckAvailability() {
	existing := builder.NewBookingBuilder().BuildDomain()
	s.store.Seed(
		existing,
		builder.NewBookingBuilder().
			WithWindow(builder.At(13, 0), builder.At(14, 0)).
			AsCancelled().
			BuildDomain(),
	)

	testCases := []struct {
		name         string
		resourceID   string
		window       booking.TimeWindow
		exclude      uuid.UUID
		wantAvailble bool
		wantBlocking []uuid.UUID
	}{
		{
			name:         "overlap blocks",
			resourceID:   "bay-1",
			window:       builder.Window(builder.At(10, 0), builder.At(12, 0)),
			wantBlocking: []uuid.UUID{existing.ID()},
		},
		{
			name:         "touching end is free",
			resourceID:   "bay-1",
			window:       builder.Window(builder.At(11, 0), builder.At(12, 0)),
			wantAvailble: true,
		},
		{
			name:         "excluded booking does not block itself",
			resourceID:   "bay-1",
			window:       builder.Window(builder.At(10, 0), builder.At(12, 0)),
			exclude:      existing.ID(),
			wantAvailble: true,
		},
		{
			name:         "cancelled booking does not block",
			resourceID:   "bay-1",
			window:       builder.Window(builder.At(13, 0), builder.At(14, 0)),
			wantAvailble: true,
		},
		{
			name:         "other resource is independent",
			resourceID:   "bay-2",
			window:       builder.Window(builder.At(9, 0), builder.At(11, 0)),
			wantAvailble: true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			view, err := s.queries.CheckAvailability(s.ctx, tc.resourceID, tc.window, tc.exclude)
			s.Require().NoError(err)
			s.Equal(tc.wantAvailble, view.Available)

			var got []uuid.UUID
			for _, b := range view.Blocking {
				got = append(got, b.ID())
			}
			if diff := cmp.Diff(tc.wantBlocking, got); diff != "" {
				s.Failf("blocking mismatch", "(-want +got):\n%s", diff)
			}
		})
	}

	s.Run("error: unknown resource", func() {
		_, err := s.queries.CheckAvailability(s.ctx, "bay-9", builder.Window(builder.At(9, 0), builder.At(10, 0)), uuid.Nil)
		s.True(errs.Is(err, errs.ErrResourceNotFound), "got %v", err)
	})
}

func (s *SchedulingQueriesTestSuite) TestResolveConflict() {
	s.Run("free window comes back as requested", func() {
		res, err := s.queries.ResolveConflict(s.ctx, scheduling.ConflictRequest{
			ResourceID: "bay-1",
			Window:     builder.Window(builder.At(9, 0), builder.At(10, 0)),
			Priority:   booking.PriorityMedium,
		})
		s.Require().NoError(err)
		s.False(res.Conflict)
		s.Require().Len(res.Proposals, 1)
		s.Equal(scheduling.KindAsRequested, res.Proposals[0].Kind)
		s.Nil(res.Force)
	})

	s.Run("conflict lists alternatives and a force option", func() {
		existing := builder.NewBookingBuilder().BuildDomain()
		s.store.Seed(existing)

		res, err := s.queries.ResolveConflict(s.ctx, scheduling.ConflictRequest{
			ResourceID: "bay-1",
			Window:     builder.Window(builder.At(10, 0), builder.At(11, 0)),
			Priority:   booking.PriorityUrgent,
			JobRef:     "job-urgent",
		})
		s.Require().NoError(err)
		s.True(res.Conflict)
		s.Require().Len(res.Blocking, 1)
		s.Equal(existing.ID(), res.Blocking[0].ID())
		s.NotEmpty(res.Proposals)
		for i := 1; i < len(res.Proposals); i++ {
			s.GreaterOrEqual(res.Proposals[i-1].Score, res.Proposals[i].Score)
		}
		s.Require().NotNil(res.Force)
		s.True(res.Force.RequiresConfirmation)
		s.Equal([]uuid.UUID{existing.ID()}, res.Force.Overlaps)
		s.Equal(len(res.Proposals), s.spy.proposals[shared.OpResolveConflict])
	})

	s.Run("error: unknown resource", func() {
		_, err := s.queries.ResolveConflict(s.ctx, scheduling.ConflictRequest{
			ResourceID: "bay-9",
			Window:     builder.Window(builder.At(9, 0), builder.At(10, 0)),
			Priority:   booking.PriorityMedium,
		})
		s.True(errs.Is(err, errs.ErrResourceNotFound), "got %v", err)
	})

	s.Run("error: missing window", func() {
		_, err := s.queries.ResolveConflict(s.ctx, scheduling.ConflictRequest{
			ResourceID: "bay-1",
			Priority:   booking.PriorityMedium,
		})
		s.True(errs.Is(err, errs.ErrDomainValidation), "got %v", err)
	})
}

func (s *SchedulingQueriesTestSuite) TestSuggestSlots() {
	s.store.Seed(builder.NewBookingBuilder().BuildDomain())

	s.Run("success: ranked, capped and free", func() {
		proposals, err := s.queries.SuggestSlots(s.ctx, scheduling.SuggestRequest{
			SchedulingRequest: scheduling.SchedulingRequest{
				DurationHours: 1,
				Priority:      booking.PriorityMedium,
			},
			Date: builder.TestDay,
		})
		s.Require().NoError(err)
		s.NotEmpty(proposals)
		s.LessOrEqual(len(proposals), scheduling.DefaultEngineConfig().TopK)

		busy := builder.Window(builder.At(9, 0), builder.At(11, 0))
		for i, p := range proposals {
			s.Equal(scheduling.KindSuggestion, p.Kind)
			s.GreaterOrEqual(p.Score, scheduling.DefaultEngineConfig().MinScore)
			if p.ResourceID == "bay-1" {
				s.False(p.Window.Overlaps(busy), "proposal %d overlaps the existing booking", i)
			}
			if i > 0 {
				s.GreaterOrEqual(proposals[i-1].Score, p.Score)
			}
		}
		s.Equal(len(proposals), s.spy.proposals[shared.OpSuggestSlots])
	})

	s.Run("success: capability filter narrows resources", func() {
		proposals, err := s.queries.SuggestSlots(s.ctx, scheduling.SuggestRequest{
			SchedulingRequest: scheduling.SchedulingRequest{
				DurationHours: 1,
				Priority:      booking.PriorityMedium,
				Capabilities:  []string{"alignment"},
			},
			Date: builder.TestDay,
		})
		s.Require().NoError(err)
		for _, p := range proposals {
			s.Equal("bay-2", p.ResourceID)
		}
	})

	s.Run("error: date is required", func() {
		_, err := s.queries.SuggestSlots(s.ctx, scheduling.SuggestRequest{
			SchedulingRequest: scheduling.SchedulingRequest{DurationHours: 1, Priority: booking.PriorityMedium},
		})
		s.True(errs.Is(err, errs.ErrDomainValidation), "got %v", err)
	})

	s.Run("error: unknown preferred resource", func() {
		_, err := s.queries.SuggestSlots(s.ctx, scheduling.SuggestRequest{
			SchedulingRequest: scheduling.SchedulingRequest{DurationHours: 1, Priority: booking.PriorityMedium},
			Date:              builder.TestDay,
			Preferences:       scheduling.Preferences{ResourceID: "bay-9"},
		})
		s.True(errs.Is(err, errs.ErrResourceNotFound), "got %v", err)
	})
}

func (s *SchedulingQueriesTestSuite) TestListAndGetBookings() {
	today := builder.NewBookingBuilder().BuildDomain()
	cancelled := builder.NewBookingBuilder().
		WithWindow(builder.At(13, 0), builder.At(14, 0)).
		AsCancelled().
		BuildDomain()
	tomorrow := builder.NewBookingBuilder().
		WithWindow(builder.At(9, 0).AddDate(0, 0, 1), builder.At(10, 0).AddDate(0, 0, 1)).
		BuildDomain()
	s.store.Seed(today, cancelled, tomorrow)

	list, err := s.queries.ListBookings(s.ctx, builder.TestDay)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(today.ID(), list[0].ID())
	s.Equal(cancelled.ID(), list[1].ID())

	got, err := s.queries.GetBooking(s.ctx, tomorrow.ID())
	s.Require().NoError(err)
	s.Equal(tomorrow.ID(), got.ID())

	_, err = s.queries.GetBooking(s.ctx, uuid.New())
	s.True(errs.Is(err, errs.ErrBookingNotFound), "got %v", err)
}

func TestSchedulingQueries_StoreFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockBookingReadStore(ctrl)
	q := newQueries(t, store, shared.NopMetrics{})
	ctx := context.Background()
	dbErr := infra.WrapRepoErr(slog.New(slog.NewTextHandler(io.Discard, nil)), infra.KindDBFailure, "list failed", errs.New("connection reset"))

	t.Run("availability surfaces database failures", func(t *testing.T) {
		store.EXPECT().
			ListBetween(gomock.Any(), builder.At(9, 0), builder.At(10, 0), booking.OccupyingStatuses()).
			Return(nil, dbErr)

		_, err := q.CheckAvailability(ctx, "bay-1", builder.Window(builder.At(9, 0), builder.At(10, 0)), uuid.Nil)
		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed), "got %v", err)
	})

	t.Run("resolver snapshot spans the horizon", func(t *testing.T) {
		store.EXPECT().
			ListBetween(gomock.Any(), builder.TestDay, builder.TestDay.AddDate(0, 0, 4), booking.OccupyingStatuses()).
			Return(nil, nil)

		res, err := q.ResolveConflict(ctx, scheduling.ConflictRequest{
			ResourceID: "bay-1",
			Window:     builder.Window(builder.At(9, 0), builder.At(10, 0)),
			Priority:   booking.PriorityMedium,
		})
		require.NoError(t, err)
		assert.False(t, res.Conflict)
	})

	t.Run("listing surfaces database failures", func(t *testing.T) {
		store.EXPECT().
			ListBetween(gomock.Any(), builder.TestDay, builder.TestDay.AddDate(0, 0, 1), gomock.Nil()).
			Return(nil, dbErr)

		_, err := q.ListBookings(ctx, builder.TestDay)
		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed), "got %v", err)
	})

	t.Run("lookup distinguishes missing rows from failures", func(t *testing.T) {
		missing := uuid.New()
		store.EXPECT().
			FindByID(gomock.Any(), missing).
			Return(nil, infra.WrapRepoErr(slog.Default(), infra.KindNotFound, "booking not found", nil))
		store.EXPECT().
			FindByID(gomock.Any(), gomock.Not(missing)).
			Return(nil, dbErr)

		_, err := q.GetBooking(ctx, missing)
		assert.True(t, errs.Is(err, errs.ErrBookingNotFound), "got %v", err)

		_, err = q.GetBooking(ctx, uuid.New())
		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed), "got %v", err)
		assert.False(t, errs.Is(err, errs.ErrBookingNotFound))
	})
}
