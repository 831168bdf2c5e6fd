package response

import (
	"time"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/usecase/commands"

	"github.com/google/uuid"
)

type WindowResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func FromWindow(w booking.TimeWindow) WindowResponse {
	return WindowResponse{Start: w.Start(), End: w.End()}
}

func FromWindows(ws []booking.TimeWindow) []WindowResponse {
	res := make([]WindowResponse, len(ws))
	for i, w := range ws {
		res[i] = FromWindow(w)
	}
	return res
}

type BookingResponse struct {
	ID         uuid.UUID      `json:"id"`
	ResourceID string         `json:"resourceId"`
	Window     WindowResponse `json:"window"`
	Priority   string         `json:"priority"`
	JobRef     string         `json:"jobRef"`
	Status     string         `json:"status"`
	Forced     bool           `json:"forced"`
	Version    int            `json:"version"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func FromBooking(b *booking.Booking) *BookingResponse {
	return &BookingResponse{
		ID:         b.ID(),
		ResourceID: b.ResourceID(),
		Window:     FromWindow(b.Window()),
		Priority:   b.Priority().String(),
		JobRef:     b.JobRef(),
		Status:     b.Status().String(),
		Forced:     b.Forced(),
		Version:    b.Version(),
		CreatedAt:  b.CreatedAt(),
		UpdatedAt:  b.UpdatedAt(),
	}
}

func FromBookings(list []*booking.Booking) []*BookingResponse {
	res := make([]*BookingResponse, len(list))
	for i, b := range list {
		res[i] = FromBooking(b)
	}
	return res
}

type ApplyResolutionResponse struct {
	Booking *BookingResponse   `json:"booking"`
	Moved   []*BookingResponse `json:"moved"`
}

func FromApplyResolution(r *commands.ApplyResolutionResult) *ApplyResolutionResponse {
	return &ApplyResolutionResponse{
		Booking: FromBooking(r.Booking),
		Moved:   FromBookings(r.Moved),
	}
}
