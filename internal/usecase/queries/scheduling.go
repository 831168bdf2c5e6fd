package queries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/domain/resource"
	"bay-scheduler/internal/domain/scheduling"
	"bay-scheduler/internal/infra"
	"bay-scheduler/internal/pkg/clock"
	"bay-scheduler/internal/pkg/errs"
	"bay-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

// BookingReadStore loads bookings whose window intersects [from, to). A nil status list means every status.
type BookingReadStore interface {
	ListBetween(ctx context.Context, from, to time.Time, statuses []booking.Status) ([]*booking.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
}

// ResourceView is the read model of a bay. OperatingHours is ordered Sunday first.
type ResourceView struct {
	ID             string
	Label          string
	Capabilities   []string
	OperatingHours []DayHoursView
}

type DayHoursView struct {
	Day   string
	Open  string
	Close string
}

type AvailabilityView struct {
	ResourceID string
	Window     booking.TimeWindow
	Available  bool
	Blocking   []*booking.Booking
}

//go:generate mockgen -source=scheduling.go -destination=../../../tests/mock/queries/scheduling.go -package=queriesmock
type SchedulingQueries interface {
	ListResources(ctx context.Context) []ResourceView
	GenerateSlots(ctx context.Context, resourceID string, date time.Time, durationHours, granularityHours float64) ([]booking.TimeWindow, error)
	CheckAvailability(ctx context.Context, resourceID string, window booking.TimeWindow, exclude uuid.UUID) (*AvailabilityView, error)
	ResolveConflict(ctx context.Context, req scheduling.ConflictRequest) (*scheduling.Resolution, error)
	SuggestSlots(ctx context.Context, req scheduling.SuggestRequest) ([]scheduling.Proposal, error)
	ListBookings(ctx context.Context, date time.Time) ([]*booking.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
}

type schedulingQueriesImpl struct {
	store    BookingReadStore
	registry *resource.Registry
	resolver *scheduling.Resolver
	engine   *scheduling.Engine
	horizon  int
	metrics  shared.MetricsRecorder
	clock    clock.Clock
}

func NewSchedulingQueries(
	store BookingReadStore,
	registry *resource.Registry,
	resolver *scheduling.Resolver,
	engine *scheduling.Engine,
	horizonDays int,
	metrics shared.MetricsRecorder,
	clk clock.Clock,
) SchedulingQueries {
	return &schedulingQueriesImpl{
		store:    store,
		registry: registry,
		resolver: resolver,
		engine:   engine,
		horizon:  horizonDays,
		metrics:  metrics,
		clock:    clk,
	}
}

func (q *schedulingQueriesImpl) ListResources(_ context.Context) []ResourceView {
	all := q.registry.All()
	views := make([]ResourceView, 0, len(all))
	for _, r := range all {
		views = append(views, toResourceView(r))
	}
	return views
}

func toResourceView(r *resource.Resource) ResourceView {
	week := r.WeeklyHours()
	hours := make([]DayHoursView, 0, len(week))
	for day := time.Sunday; day <= time.Saturday; day++ {
		h, ok := week[day]
		if !ok {
			continue
		}
		hours = append(hours, DayHoursView{
			Day:   strings.ToLower(day.String()),
			Open:  clockString(h.Open),
			Close: clockString(h.Close),
		})
	}
	return ResourceView{
		ID:             r.ID(),
		Label:          r.Label(),
		Capabilities:   r.Capabilities(),
		OperatingHours: hours,
	}
}

func clockString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func (q *schedulingQueriesImpl) GenerateSlots(
	ctx context.Context,
	resourceID string,
	date time.Time,
	durationHours, granularityHours float64,
) ([]booking.TimeWindow, error) {
	started := q.clock.Now()
	res, err := q.registry.ByID(resourceID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrResourceNotFound)
	}
	slots, err := scheduling.GenerateSlots(res, date, durationHours, granularityHours, q.registry.Location())
	q.metrics.RecordQuery(shared.OpGenerateSlots, q.clock.Now().Sub(started), err)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	return slots, nil
}

func (q *schedulingQueriesImpl) CheckAvailability(
	ctx context.Context,
	resourceID string,
	window booking.TimeWindow,
	exclude uuid.UUID,
) (*AvailabilityView, error) {
	started := q.clock.Now()
	if _, err := q.registry.ByID(resourceID); err != nil {
		return nil, errs.Mark(err, errs.ErrResourceNotFound)
	}
	if window.IsZero() {
		return nil, errs.Mark(booking.ErrInvalidWindow, errs.ErrDomainValidation)
	}

	snap, err := q.snapshot(ctx, window.Start(), window.End())
	if err != nil {
		return nil, err
	}
	blocking := scheduling.BlockingSet(resourceID, window, snap, exclude)
	q.metrics.RecordQuery(shared.OpCheckAvailability, q.clock.Now().Sub(started), nil)

	return &AvailabilityView{
		ResourceID: resourceID,
		Window:     window,
		Available:  len(blocking) == 0,
		Blocking:   blocking,
	}, nil
}

func (q *schedulingQueriesImpl) ResolveConflict(ctx context.Context, req scheduling.ConflictRequest) (*scheduling.Resolution, error) {
	started := q.clock.Now()
	if req.Window.IsZero() {
		return nil, errs.Mark(booking.ErrInvalidWindow, errs.ErrDomainValidation)
	}

	// the snapshot has to cover every day the resolver may search forward into
	from, _ := dayBounds(req.Window.Start(), q.registry.Location())
	_, to := dayBounds(req.Window.End().AddDate(0, 0, q.horizon), q.registry.Location())
	snap, err := q.snapshot(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resolution, err := q.resolver.Resolve(req, snap, q.registry)
	q.metrics.RecordQuery(shared.OpResolveConflict, q.clock.Now().Sub(started), err)
	if err != nil {
		return nil, markSchedulingErr(err)
	}
	q.metrics.RecordProposals(shared.OpResolveConflict, len(resolution.Proposals))
	return &resolution, nil
}

func (q *schedulingQueriesImpl) SuggestSlots(ctx context.Context, req scheduling.SuggestRequest) ([]scheduling.Proposal, error) {
	started := q.clock.Now()
	if req.Date.IsZero() {
		return nil, errs.Mark(scheduling.ErrInvalidInput, errs.ErrDomainValidation)
	}
	if req.Now.IsZero() {
		req.Now = q.clock.Now()
	}

	from, to := dayBounds(req.Date, q.registry.Location())
	snap, err := q.snapshot(ctx, from, to)
	if err != nil {
		return nil, err
	}

	proposals, err := q.engine.Suggest(req, snap, q.registry)
	q.metrics.RecordQuery(shared.OpSuggestSlots, q.clock.Now().Sub(started), err)
	if err != nil {
		return nil, markSchedulingErr(err)
	}
	q.metrics.RecordProposals(shared.OpSuggestSlots, len(proposals))
	return proposals, nil
}

func (q *schedulingQueriesImpl) ListBookings(ctx context.Context, date time.Time) ([]*booking.Booking, error) {
	from, to := dayBounds(date, q.registry.Location())
	list, err := q.store.ListBetween(ctx, from, to, nil)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return list, nil
}

func (q *schedulingQueriesImpl) GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, markStoreErr(err)
	}
	return b, nil
}

// snapshot takes a fresh view of occupying bookings; proposals are always computed against it and never cached.
func (q *schedulingQueriesImpl) snapshot(ctx context.Context, from, to time.Time) (booking.Snapshot, error) {
	list, err := q.store.ListBetween(ctx, from, to, booking.OccupyingStatuses())
	if err != nil {
		return booking.Snapshot{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return booking.NewSnapshot(list...), nil
}

func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := t.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func markSchedulingErr(err error) error {
	switch {
	case errs.Is(err, scheduling.ErrUnknownResource):
		return errs.Mark(err, errs.ErrResourceNotFound)
	default:
		return errs.Mark(err, errs.ErrDomainValidation)
	}
}

func markStoreErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, errs.ErrBookingNotFound)
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}
