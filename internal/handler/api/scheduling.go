package api

import (
	"net/http"
	"strings"
	"time"

	reqdto "bay-scheduler/internal/handler/dto/request"
	resdto "bay-scheduler/internal/handler/dto/response"
	"bay-scheduler/internal/handler/httperr"
	"bay-scheduler/internal/pkg/config"
	"bay-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type SchedulingHandler struct {
	q                  queries.SchedulingQueries
	loc                *time.Location
	defaultGranularity float64
}

func NewSchedulingHandler(q queries.SchedulingQueries, loc *time.Location, cfg config.SchedulingConfig) *SchedulingHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &SchedulingHandler{q: q, loc: loc, defaultGranularity: cfg.GranularityHours}
}

// @Summary List resources
// @Description List the bays known to the scheduler with capabilities and operating hours
// @Tags scheduling
// @Produce json
// @Success 200 {array} resdto.ResourceResponse
// @Router /resources [get]
func (h *SchedulingHandler) ListResources(c *gin.Context) {
	res, err := resdto.FromResourceViews(h.q.ListResources(c.Request.Context()))
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": res})
}

// @Summary Generate slots
// @Description Candidate windows of a resource on a date, regardless of existing bookings
// @Tags scheduling
// @Produce json
// @Param id path string true "Resource ID"
// @Param date query string true "Date (YYYY-MM-DD, shop time zone)"
// @Param durationHours query number true "Job duration in hours"
// @Param granularityHours query number false "Start-time step in hours"
// @Success 200 {object} resdto.SlotsResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /resources/{id}/slots [get]
func (h *SchedulingHandler) GenerateSlots(c *gin.Context) {
	var query reqdto.SlotsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWithBindError(c, err)
		return
	}
	date, err := reqdto.ParseDate(query.Date, h.loc)
	if err != nil {
		abortWithBindError(c, err)
		return
	}
	granularity := query.GranularityHours
	if granularity == 0 {
		granularity = h.defaultGranularity
	}

	resourceID := strings.TrimSpace(c.Param("id"))
	slots, err := h.q.GenerateSlots(c.Request.Context(), resourceID, date, query.DurationHours, granularity)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.SlotsResponse{
		ResourceID: resourceID,
		Date:       date.Format(reqdto.DateLayout),
		Slots:      resdto.FromWindows(slots),
	})
}

// @Summary Check availability
// @Description Report whether a window on a resource is free, with the bookings blocking it
// @Tags scheduling
// @Accept json
// @Produce json
// @Param request body reqdto.AvailabilityRequest true "Availability request"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /availability [post]
func (h *SchedulingHandler) CheckAvailability(c *gin.Context) {
	var req reqdto.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	window, err := reqdto.WindowRequest{Start: req.Start, End: req.End}.ToDomain()
	if err != nil {
		abortWithBindError(c, err)
		return
	}
	view, err := h.q.CheckAvailability(c.Request.Context(), strings.TrimSpace(req.ResourceID), window, req.Exclude())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary Resolve conflict
// @Description Ranked ways to place a booking whose window is taken, plus a force option
// @Tags scheduling
// @Accept json
// @Produce json
// @Param request body reqdto.ResolveRequest true "Requested booking"
// @Success 200 {object} resdto.ResolutionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /scheduling/resolve [post]
func (h *SchedulingHandler) ResolveConflict(c *gin.Context) {
	var req reqdto.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	conflict, err := req.ToDomain()
	if err != nil {
		abortWithBindError(c, err)
		return
	}
	resolution, err := h.q.ResolveConflict(c.Request.Context(), conflict)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromResolution(resolution))
}

// @Summary Suggest slots
// @Description Best-scored slots across all capable resources for a day
// @Tags scheduling
// @Accept json
// @Produce json
// @Param request body reqdto.SuggestRequest true "Suggestion request"
// @Success 200 {array} resdto.ProposalResponse
// @Failure 400 {object} map[string]string
// @Router /scheduling/suggest [post]
func (h *SchedulingHandler) SuggestSlots(c *gin.Context) {
	var req reqdto.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	suggest, err := req.ToDomain(h.loc)
	if err != nil {
		abortWithBindError(c, err)
		return
	}
	proposals, err := h.q.SuggestSlots(c.Request.Context(), suggest)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": resdto.FromProposals(proposals)})
}
