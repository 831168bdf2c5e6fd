package api

import (
	"net/http"
	"time"

	reqdto "bay-scheduler/internal/handler/dto/request"
	resdto "bay-scheduler/internal/handler/dto/response"
	"bay-scheduler/internal/handler/httperr"
	"bay-scheduler/internal/usecase/commands"
	"bay-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.SchedulingQueries
	loc  *time.Location
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.SchedulingQueries, loc *time.Location) *BookingHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingHandler{cmds: cmds, q: q, loc: loc}
}

// @Summary List bookings
// @Description Every booking intersecting a calendar day, in start order
// @Tags bookings
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD, shop time zone)"
// @Success 200 {array} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	date, err := reqdto.ParseDate(c.Query("date"), h.loc)
	if err != nil {
		abortWithBindError(c, err)
		return
	}
	list, err := h.q.ListBookings(c.Request.Context(), date)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": resdto.FromBookings(list)})
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := h.q.GetBooking(c.Request.Context(), id)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBooking(b))
}

// @Summary Create booking
// @Description Commit a booking. Responds 409 conflict_on_commit when the window was taken since the client looked.
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.CreateBookingRequest true "Create booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		abortWithBindError(c, err)
		return
	}
	b, err := h.cmds.CreateBooking(c.Request.Context(), in)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.Header("Location", "/api/bookings/"+b.ID().String())
	c.JSON(http.StatusCreated, resdto.FromBooking(b))
}

// @Summary Force-schedule booking
// @Description Knowingly double-book a window. Requires "confirm": true.
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.ForceScheduleRequest true "Force schedule request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 428 {object} map[string]string
// @Router /bookings/force [post]
func (h *BookingHandler) Force(c *gin.Context) {
	var req reqdto.ForceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		abortWithBindError(c, err)
		return
	}
	b, err := h.cmds.ForceSchedule(c.Request.Context(), in)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.Header("Location", "/api/bookings/"+b.ID().String())
	c.JSON(http.StatusCreated, resdto.FromBooking(b))
}

// @Summary Move booking
// @Description Move a booking to another window or resource. expectedVersion 0 skips the version check.
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.MoveBookingRequest true "Move booking request"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/{id}/window [patch]
func (h *BookingHandler) Move(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req reqdto.MoveBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	in, err := req.ToInput(id)
	if err != nil {
		abortWithBindError(c, err)
		return
	}
	b, err := h.cmds.MoveBooking(c.Request.Context(), in)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBooking(b))
}

// @Summary Change booking status
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.TransitionStatusRequest true "Status transition"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/status [post]
func (h *BookingHandler) TransitionStatus(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req reqdto.TransitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	b, err := h.cmds.TransitionStatus(c.Request.Context(), req.ToInput(id))
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBooking(b))
}

// @Summary Apply resolution
// @Description Apply a proposal returned by /scheduling/resolve: displaced bookings move first, then the request is booked.
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.ApplyResolutionRequest true "Accepted proposal"
// @Success 201 {object} resdto.ApplyResolutionResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /resolutions [post]
func (h *BookingHandler) ApplyResolution(c *gin.Context) {
	var req reqdto.ApplyResolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		abortWithBindError(c, err)
		return
	}
	result, err := h.cmds.ApplyResolution(c.Request.Context(), in)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.Header("Location", "/api/bookings/"+result.Booking.ID().String())
	c.JSON(http.StatusCreated, resdto.FromApplyResolution(result))
}

func bookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}
