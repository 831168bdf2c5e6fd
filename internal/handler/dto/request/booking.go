package request

import (
	"strings"
	"time"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/domain/scheduling"
	"bay-scheduler/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ResourceID   string    `json:"resourceId" binding:"required,max=64"`
	Start        time.Time `json:"start" binding:"required"`
	End          time.Time `json:"end" binding:"required"`
	Priority     string    `json:"priority" binding:"required,oneof=low medium high urgent"`
	JobRef       string    `json:"jobRef" binding:"max=255"`
	Capabilities []string  `json:"capabilities,omitempty" binding:"omitempty,dive,required"`
}

func (r CreateBookingRequest) ToInput() (commands.CreateBookingInput, error) {
	window, err := booking.NewTimeWindow(r.Start, r.End)
	if err != nil {
		return commands.CreateBookingInput{}, err
	}
	priority, err := booking.ParsePriority(r.Priority)
	if err != nil {
		return commands.CreateBookingInput{}, err
	}
	return commands.CreateBookingInput{
		ResourceID:   strings.TrimSpace(r.ResourceID),
		Window:       window,
		Priority:     priority,
		JobRef:       strings.TrimSpace(r.JobRef),
		Capabilities: r.Capabilities,
	}, nil
}

// ForceScheduleRequest must carry "confirm": true; the double booking is otherwise refused.
type ForceScheduleRequest struct {
	CreateBookingRequest
	Confirm bool `json:"confirm"`
}

func (r ForceScheduleRequest) ToInput() (commands.ForceScheduleInput, error) {
	in, err := r.CreateBookingRequest.ToInput()
	if err != nil {
		return commands.ForceScheduleInput{}, err
	}
	return commands.ForceScheduleInput{CreateBookingInput: in, Confirmed: r.Confirm}, nil
}

type MoveBookingRequest struct {
	ResourceID      string    `json:"resourceId" binding:"required,max=64"`
	Start           time.Time `json:"start" binding:"required"`
	End             time.Time `json:"end" binding:"required"`
	ExpectedVersion int       `json:"expectedVersion" binding:"min=0"`
}

func (r MoveBookingRequest) ToInput(id uuid.UUID) (commands.MoveBookingInput, error) {
	window, err := booking.NewTimeWindow(r.Start, r.End)
	if err != nil {
		return commands.MoveBookingInput{}, err
	}
	return commands.MoveBookingInput{
		BookingID:       id,
		ResourceID:      strings.TrimSpace(r.ResourceID),
		Window:          window,
		ExpectedVersion: r.ExpectedVersion,
	}, nil
}

type TransitionStatusRequest struct {
	Status          string `json:"status" binding:"required,oneof=scheduled confirmed in-progress completed cancelled no-show"`
	ExpectedVersion int    `json:"expectedVersion" binding:"min=0"`
}

func (r TransitionStatusRequest) ToInput(id uuid.UUID) commands.TransitionInput {
	return commands.TransitionInput{
		BookingID:       id,
		Status:          booking.Status(r.Status),
		ExpectedVersion: r.ExpectedVersion,
	}
}

type WindowRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

func (w WindowRequest) ToDomain() (booking.TimeWindow, error) {
	return booking.NewTimeWindow(w.Start, w.End)
}

type MoveRequest struct {
	BookingID  uuid.UUID     `json:"bookingId" binding:"required"`
	ResourceID string        `json:"resourceId" binding:"required"`
	From       WindowRequest `json:"from" binding:"required"`
	To         WindowRequest `json:"to" binding:"required"`
}

// ApplyResolutionRequest echoes a proposal returned by /api/scheduling/resolve together with the
// booking it was computed for.
type ApplyResolutionRequest struct {
	Request    CreateBookingRequest `json:"request" binding:"required"`
	Kind       string               `json:"kind" binding:"required,oneof=as-requested move-existing move-request switch-resource"`
	ResourceID string               `json:"resourceId" binding:"required"`
	Window     WindowRequest        `json:"window" binding:"required"`
	Moves      []MoveRequest        `json:"moves,omitempty" binding:"omitempty,dive"`
}

func (r ApplyResolutionRequest) ToInput() (commands.ApplyResolutionInput, error) {
	req, err := r.Request.ToInput()
	if err != nil {
		return commands.ApplyResolutionInput{}, err
	}
	window, err := r.Window.ToDomain()
	if err != nil {
		return commands.ApplyResolutionInput{}, err
	}
	moves := make([]scheduling.Move, 0, len(r.Moves))
	for _, m := range r.Moves {
		from, ferr := m.From.ToDomain()
		if ferr != nil {
			return commands.ApplyResolutionInput{}, ferr
		}
		to, terr := m.To.ToDomain()
		if terr != nil {
			return commands.ApplyResolutionInput{}, terr
		}
		moves = append(moves, scheduling.Move{
			BookingID:  m.BookingID,
			ResourceID: m.ResourceID,
			From:       from,
			To:         to,
		})
	}
	return commands.ApplyResolutionInput{
		Request:    req,
		Kind:       scheduling.ProposalKind(r.Kind),
		ResourceID: strings.TrimSpace(r.ResourceID),
		Window:     window,
		Moves:      moves,
	}, nil
}
