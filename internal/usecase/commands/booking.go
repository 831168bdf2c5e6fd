package commands

import (
	"context"
	"log/slog"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/domain/resource"
	"bay-scheduler/internal/domain/scheduling"
	"bay-scheduler/internal/infra"
	"bay-scheduler/internal/pkg/clock"
	"bay-scheduler/internal/pkg/errs"
	"bay-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrMissingCapability  = errs.New("resource lacks a required capability")
	ErrBookingNotMovable  = errs.New("booking can no longer be moved")
	ErrUnsupportedKind    = errs.New("proposal kind cannot be applied")
	ErrStaleProposal      = errs.New("proposal no longer matches the booking set")
	ErrCompensationFailed = errs.New("failed to undo applied moves")
)

type CreateBookingInput struct {
	ResourceID   string
	Window       booking.TimeWindow
	Priority     booking.Priority
	JobRef       string
	Capabilities []string
}

type ForceScheduleInput struct {
	CreateBookingInput
	// Confirmed must be an explicit operator acknowledgement of the double booking.
	Confirmed bool
}

type MoveBookingInput struct {
	BookingID       uuid.UUID
	ResourceID      string
	Window          booking.TimeWindow
	ExpectedVersion int
}

type TransitionInput struct {
	BookingID       uuid.UUID
	Status          booking.Status
	ExpectedVersion int
}

// ApplyResolutionInput is a proposal the operator accepted for the original request.
type ApplyResolutionInput struct {
	Request    CreateBookingInput
	Kind       scheduling.ProposalKind
	ResourceID string
	Window     booking.TimeWindow
	Moves      []scheduling.Move
}

type ApplyResolutionResult struct {
	Booking *booking.Booking
	Moved   []*booking.Booking
}

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/booking.go -package=commandsmock
type BookingCommands interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*booking.Booking, error)
	ForceSchedule(ctx context.Context, in ForceScheduleInput) (*booking.Booking, error)
	MoveBooking(ctx context.Context, in MoveBookingInput) (*booking.Booking, error)
	TransitionStatus(ctx context.Context, in TransitionInput) (*booking.Booking, error)
	ApplyResolution(ctx context.Context, in ApplyResolutionInput) (*ApplyResolutionResult, error)
}

type bookingUseCaseImpl struct {
	uow      shared.UnitOfWork
	registry *resource.Registry
	metrics  shared.MetricsRecorder
	clock    clock.Clock
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	registry *resource.Registry,
	metrics shared.MetricsRecorder,
	clk clock.Clock,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:      uow,
		registry: registry,
		metrics:  metrics,
		clock:    clk,
	}
}

func (uc *bookingUseCaseImpl) CreateBooking(ctx context.Context, in CreateBookingInput) (*booking.Booking, error) {
	b, err := uc.create(ctx, in)
	uc.record(shared.OpCreateBooking, err)
	return b, err
}

func (uc *bookingUseCaseImpl) create(ctx context.Context, in CreateBookingInput) (*booking.Booking, error) {
	if err := uc.validatePlacement(in.ResourceID, in.Window, in.Capabilities); err != nil {
		return nil, err
	}
	b, err := booking.NewBooking(in.ResourceID, in.Window, in.Priority, in.JobRef, uc.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Bookings()
		if lerr := repo.LockResource(ctx, b.ResourceID()); lerr != nil {
			return lerr
		}
		// the caller's proposal was computed on a snapshot that may be stale by now
		blocking, ferr := repo.FindOccupying(ctx, b.ResourceID(), b.Window(), uuid.Nil)
		if ferr != nil {
			return ferr
		}
		if len(blocking) > 0 {
			return errs.Wrapf(errs.ErrCommitConflict, "%s overlaps %d booking(s)", b.Window(), len(blocking))
		}
		return repo.Create(ctx, b)
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}

	slog.InfoContext(ctx, "booking created",
		"booking_id", b.ID().String(),
		"resource_id", b.ResourceID(),
		"window", b.Window().String(),
		"priority", b.Priority().String())
	return b, nil
}

func (uc *bookingUseCaseImpl) ForceSchedule(ctx context.Context, in ForceScheduleInput) (*booking.Booking, error) {
	b, err := uc.force(ctx, in)
	uc.record(shared.OpForceSchedule, err)
	return b, err
}

func (uc *bookingUseCaseImpl) force(ctx context.Context, in ForceScheduleInput) (*booking.Booking, error) {
	if !in.Confirmed {
		return nil, errs.ErrForceNotConfirmed
	}
	if err := uc.validatePlacement(in.ResourceID, in.Window, in.Capabilities); err != nil {
		return nil, err
	}
	b, err := booking.NewForcedBooking(in.ResourceID, in.Window, in.Priority, in.JobRef, uc.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	var overlapping []*booking.Booking
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Bookings()
		if lerr := repo.LockResource(ctx, b.ResourceID()); lerr != nil {
			return lerr
		}
		var ferr error
		overlapping, ferr = repo.FindOccupying(ctx, b.ResourceID(), b.Window(), uuid.Nil)
		if ferr != nil {
			return ferr
		}
		return repo.Create(ctx, b)
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}

	ids := make([]string, len(overlapping))
	for i, o := range overlapping {
		ids[i] = o.ID().String()
	}
	slog.WarnContext(ctx, "booking force-scheduled over existing work",
		"booking_id", b.ID().String(),
		"resource_id", b.ResourceID(),
		"window", b.Window().String(),
		"overlaps", ids)
	return b, nil
}

func (uc *bookingUseCaseImpl) MoveBooking(ctx context.Context, in MoveBookingInput) (*booking.Booking, error) {
	b, err := uc.move(ctx, in.BookingID, in.ResourceID, in.Window, func(current *booking.Booking) error {
		if in.ExpectedVersion != 0 && current.Version() != in.ExpectedVersion {
			return errs.Wrapf(errs.ErrCommitConflict, "booking is at version %d, expected %d", current.Version(), in.ExpectedVersion)
		}
		return nil
	})
	uc.record(shared.OpMoveBooking, err)
	return b, err
}

// move relocates one booking in its own transaction. check runs against the locked, current row.
func (uc *bookingUseCaseImpl) move(
	ctx context.Context,
	id uuid.UUID,
	resourceID string,
	window booking.TimeWindow,
	check func(current *booking.Booking) error,
) (*booking.Booking, error) {
	if err := uc.validatePlacement(resourceID, window, nil); err != nil {
		return nil, err
	}

	var moved *booking.Booking
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Bookings()
		if lerr := repo.LockResource(ctx, resourceID); lerr != nil {
			return lerr
		}
		current, ferr := repo.FindByID(ctx, id)
		if ferr != nil {
			return ferr
		}
		if cerr := check(current); cerr != nil {
			return cerr
		}
		if !current.Occupies() || current.Status() == booking.StatusInProgress {
			return errs.Wrapf(ErrBookingNotMovable, "booking is %s", current.Status())
		}

		blocking, ferr := repo.FindOccupying(ctx, resourceID, window, current.ID())
		if ferr != nil {
			return ferr
		}
		if len(blocking) > 0 {
			return errs.Wrapf(errs.ErrCommitConflict, "%s overlaps %d booking(s)", window, len(blocking))
		}

		moved = current.WithWindow(resourceID, window, uc.clock.Now())
		return repo.Update(ctx, moved, current.Version())
	})
	if err != nil {
		return nil, mapRepoErr(err)
	}

	slog.InfoContext(ctx, "booking moved",
		"booking_id", moved.ID().String(),
		"resource_id", moved.ResourceID(),
		"window", moved.Window().String(),
		"version", moved.Version())
	return moved, nil
}

func (uc *bookingUseCaseImpl) TransitionStatus(ctx context.Context, in TransitionInput) (*booking.Booking, error) {
	var next *booking.Booking
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Bookings()
		current, ferr := repo.FindByID(ctx, in.BookingID)
		if ferr != nil {
			return ferr
		}
		if in.ExpectedVersion != 0 && current.Version() != in.ExpectedVersion {
			return errs.Wrapf(errs.ErrCommitConflict, "booking is at version %d, expected %d", current.Version(), in.ExpectedVersion)
		}
		var terr error
		next, terr = current.Transition(in.Status, uc.clock.Now())
		if terr != nil {
			return errs.Mark(terr, errs.ErrDomainValidation)
		}
		return repo.Update(ctx, next, current.Version())
	})
	if err != nil {
		err = mapRepoErr(err)
		uc.record(shared.OpTransitionStatus, err)
		return nil, err
	}
	uc.record(shared.OpTransitionStatus, nil)

	slog.InfoContext(ctx, "booking status changed",
		"booking_id", next.ID().String(),
		"status", next.Status().String(),
		"version", next.Version())
	return next, nil
}

// ApplyResolution commits each step separately: moves first, in proposal order, then the request itself.
// A failed request booking rolls the applied moves back in reverse order.
func (uc *bookingUseCaseImpl) ApplyResolution(ctx context.Context, in ApplyResolutionInput) (*ApplyResolutionResult, error) {
	result, err := uc.applyResolution(ctx, in)
	uc.record(shared.OpApplyResolution, err)
	return result, err
}

func (uc *bookingUseCaseImpl) applyResolution(ctx context.Context, in ApplyResolutionInput) (*ApplyResolutionResult, error) {
	switch in.Kind {
	case scheduling.KindAsRequested, scheduling.KindMoveRequest, scheduling.KindSwitchResource:
		if len(in.Moves) > 0 {
			return nil, errs.Wrapf(ErrUnsupportedKind, "%s carries no moves", in.Kind)
		}
	case scheduling.KindMoveExisting:
		if len(in.Moves) == 0 {
			return nil, errs.Wrap(ErrUnsupportedKind, "move-existing without moves")
		}
	default:
		return nil, errs.Wrapf(ErrUnsupportedKind, "%q", in.Kind)
	}

	req := in.Request
	req.ResourceID = in.ResourceID
	req.Window = in.Window

	applied := make([]scheduling.Move, 0, len(in.Moves))
	moved := make([]*booking.Booking, 0, len(in.Moves))
	for _, m := range in.Moves {
		b, err := uc.relocate(ctx, m.BookingID, m.From, m.ResourceID, m.To)
		if err != nil {
			return nil, uc.compensate(ctx, applied, err)
		}
		applied = append(applied, m)
		moved = append(moved, b)
	}

	created, err := uc.create(ctx, req)
	if err != nil {
		return nil, uc.compensate(ctx, applied, err)
	}
	return &ApplyResolutionResult{Booking: created, Moved: moved}, nil
}

// relocate moves a booking only while it still sits where the proposal saw it. Displaced bookings stay
// on their own resource, which is also where compensation puts them back.
func (uc *bookingUseCaseImpl) relocate(ctx context.Context, id uuid.UUID, from booking.TimeWindow, resourceID string, to booking.TimeWindow) (*booking.Booking, error) {
	return uc.move(ctx, id, resourceID, to, func(current *booking.Booking) error {
		if current.ResourceID() != resourceID {
			return errs.Wrapf(ErrUnsupportedKind, "booking %s is on %s, move-existing cannot take it to %s",
				current.ID(), current.ResourceID(), resourceID)
		}
		if !current.Window().Equal(from) {
			return errs.Wrapf(errs.Mark(ErrStaleProposal, errs.ErrCommitConflict),
				"booking %s is at %s, proposal expected %s", current.ID(), current.Window(), from)
		}
		return nil
	})
}

// compensate moves applied bookings back. relocate only accepts moves within the booking's own resource,
// so m.ResourceID is also where it came from.
func (uc *bookingUseCaseImpl) compensate(ctx context.Context, applied []scheduling.Move, cause error) error {
	for i := len(applied) - 1; i >= 0; i-- {
		m := applied[i]
		if _, err := uc.relocate(ctx, m.BookingID, m.To, m.ResourceID, m.From); err != nil {
			slog.ErrorContext(ctx, "failed to undo booking move",
				"booking_id", m.BookingID.String(),
				"error", err.Error(),
				"cause", cause.Error())
			return errs.Mark(errs.Wrap(cause, "applying resolution"), ErrCompensationFailed)
		}
	}
	if len(applied) > 0 {
		slog.WarnContext(ctx, "resolution rolled back", "moves", len(applied), "cause", cause.Error())
	}
	return cause
}

func (uc *bookingUseCaseImpl) validatePlacement(resourceID string, window booking.TimeWindow, capabilities []string) error {
	if window.IsZero() {
		return errs.Mark(booking.ErrInvalidWindow, errs.ErrDomainValidation)
	}
	res, err := uc.registry.ByID(resourceID)
	if err != nil {
		return errs.Mark(err, errs.ErrResourceNotFound)
	}
	if !res.Supports(capabilities) {
		return errs.Mark(errs.Wrapf(ErrMissingCapability, "%s", res.ID()), errs.ErrDomainValidation)
	}
	open, closing, ok := res.OpenClose(window.Start(), uc.registry.Location())
	if !ok || window.Start().Before(open) || window.End().After(closing) {
		return errs.Wrapf(errs.ErrOutsideHours, "%s on %s", window, res.ID())
	}
	return nil
}

func (uc *bookingUseCaseImpl) record(op string, err error) {
	uc.metrics.RecordCommit(op, outcomeOf(err))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return shared.OutcomeCommitted
	case errs.Is(err, errs.ErrCommitConflict):
		return shared.OutcomeConflict
	case errs.Is(err, errs.ErrDatabaseOperationFailed), errs.Is(err, ErrCompensationFailed):
		return shared.OutcomeFailed
	default:
		return shared.OutcomeRejected
	}
}

func mapRepoErr(err error) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, errs.ErrBookingNotFound)
	case infra.IsKind(err, infra.KindConflict):
		return errs.Mark(err, errs.ErrCommitConflict)
	case infra.IsKind(err, infra.KindDBFailure), infra.IsKind(err, infra.KindDuplicateKey):
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	default:
		return err
	}
}
