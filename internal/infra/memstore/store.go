package memstore

import (
	"context"
	"log/slog"
	"maps"
	"sort"
	"sync"
	"time"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/infra"
	"bay-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

// Store keeps bookings in memory. Write transactions are serialized by one lock and work on a staged copy
// that replaces the committed map only when fn succeeds.
type Store struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*booking.Booking
	logger   *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		bookings: make(map[uuid.UUID]*booking.Booking),
		logger:   logger,
	}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memTx{staged: maps.Clone(s.bookings), logger: s.logger}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.bookings = tx.staged
	return nil
}

func (s *Store) ListBetween(_ context.Context, from, to time.Time, statuses []booking.Status) ([]*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return between(s.bookings, from, to, statuses), nil
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "booking not found", nil)
	}
	return b, nil
}

// Seed inserts bookings as-is, bypassing overlap checks. Test fixtures only.
func (s *Store) Seed(bookings ...*booking.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range bookings {
		s.bookings[b.ID()] = b
	}
}

type memTx struct {
	staged map[uuid.UUID]*booking.Booking
	logger *slog.Logger
}

func (t *memTx) Bookings() shared.BookingRepository {
	return &bookingRepo{tx: t}
}

type bookingRepo struct {
	tx *memTx
}

// LockResource is a no-op: Within already holds the store lock.
func (r *bookingRepo) LockResource(context.Context, string) error {
	return nil
}

func (r *bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.tx.staged[id]
	if !ok {
		return nil, infra.WrapRepoErr(r.tx.logger, infra.KindNotFound, "booking not found", nil)
	}
	return b, nil
}

func (r *bookingRepo) FindOccupying(_ context.Context, resourceID string, window booking.TimeWindow, exclude uuid.UUID) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, b := range between(r.tx.staged, window.Start(), window.End(), booking.OccupyingStatuses()) {
		if b.ResourceID() == resourceID && b.ID() != exclude {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if _, exists := r.tx.staged[b.ID()]; exists {
		return infra.WrapRepoErr(r.tx.logger, infra.KindDuplicateKey, "booking already exists", nil)
	}
	if err := r.checkExclusion(b); err != nil {
		return err
	}
	r.tx.staged[b.ID()] = b
	return nil
}

func (r *bookingRepo) Update(_ context.Context, b *booking.Booking, expectedVersion int) error {
	current, ok := r.tx.staged[b.ID()]
	if !ok {
		return infra.WrapRepoErr(r.tx.logger, infra.KindNotFound, "booking not found", nil)
	}
	if current.Version() != expectedVersion {
		return infra.WrapRepoErr(r.tx.logger, infra.KindConflict, "booking version changed", nil)
	}
	if err := r.checkExclusion(b); err != nil {
		return err
	}
	r.tx.staged[b.ID()] = b
	return nil
}

// checkExclusion mirrors the database exclusion constraint: non-forced occupying bookings on one
// resource never overlap each other.
func (r *bookingRepo) checkExclusion(b *booking.Booking) error {
	if b.Forced() || !b.Occupies() {
		return nil
	}
	for _, other := range r.tx.staged {
		if other.ID() == b.ID() || other.Forced() || !other.Occupies() || other.ResourceID() != b.ResourceID() {
			continue
		}
		if other.Window().Overlaps(b.Window()) {
			return infra.WrapRepoErr(r.tx.logger, infra.KindConflict, "booking overlaps an existing booking", nil)
		}
	}
	return nil
}

func between(all map[uuid.UUID]*booking.Booking, from, to time.Time, statuses []booking.Status) []*booking.Booking {
	span, err := booking.NewTimeWindow(from, to)
	if err != nil {
		return nil
	}
	var out []*booking.Booking
	for _, b := range all {
		if !b.Window().Overlaps(span) || !hasStatus(b.Status(), statuses) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Window().Start().Equal(out[j].Window().Start()) {
			return out[i].Window().Start().Before(out[j].Window().Start())
		}
		return out[i].ID().String() < out[j].ID().String()
	})
	return out
}

func hasStatus(s booking.Status, statuses []booking.Status) bool {
	if statuses == nil {
		return true
	}
	for _, want := range statuses {
		if s == want {
			return true
		}
	}
	return false
}
