//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/domain/scheduling"
	"bay-scheduler/internal/handler/api"
	resdto "bay-scheduler/internal/handler/dto/response"
	"bay-scheduler/internal/pkg/config"
	"bay-scheduler/internal/pkg/errs"
	"bay-scheduler/internal/usecase/queries"
	"bay-scheduler/tests/common/builder"
	"bay-scheduler/tests/common/httptest"
	"bay-scheduler/tests/common/testutil"
	queriesmock "bay-scheduler/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SchedulingHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockSchedulingQueries
	handler     *api.SchedulingHandler
}

func (s *SchedulingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockSchedulingQueries(s.mockCtrl)
	s.handler = api.NewSchedulingHandler(s.mockQueries, time.UTC, config.SchedulingConfig{GranularityHours: 0.5})

	s.router.GET("/resources", s.handler.ListResources)
	s.router.GET("/resources/:id/slots", s.handler.GenerateSlots)
	s.router.POST("/availability", s.handler.CheckAvailability)
	s.router.POST("/scheduling/resolve", s.handler.ResolveConflict)
	s.router.POST("/scheduling/suggest", s.handler.SuggestSlots)
}

func (s *SchedulingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSchedulingHandlerSuite(t *testing.T) {
	suite.Run(t, new(SchedulingHandlerTestSuite))
}

func (s *SchedulingHandlerTestSuite) TestListResources() {
	s.mockQueries.EXPECT().ListResources(gomock.Any()).Return([]queries.ResourceView{{
		ID:             "bay-1",
		Label:          "Bay 1",
		Capabilities:   []string{"diagnostics", "lift"},
		OperatingHours: []queries.DayHoursView{{Day: "monday", Open: "08:00", Close: "17:00"}},
	}}).Times(1)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources", nil, "")

	var body struct {
		Resources []resdto.ResourceResponse `json:"resources"`
	}
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)

	want := []resdto.ResourceResponse{{
		ID:             "bay-1",
		Label:          "Bay 1",
		Capabilities:   []string{"diagnostics", "lift"},
		OperatingHours: []resdto.DayHoursResponse{{Day: "monday", Open: "08:00", Close: "17:00"}},
	}}
	if diff := cmp.Diff(want, body.Resources); diff != "" {
		s.Failf("resources mismatch", "(-want +got):\n%s", diff)
	}
}

func (s *SchedulingHandlerTestSuite) TestGenerateSlots() {
	slots := []booking.TimeWindow{
		builder.Window(builder.At(8, 0), builder.At(10, 0)),
		builder.Window(builder.At(8, 30), builder.At(10, 30)),
	}

	s.Run("success: granularity falls back to the configured default", func() {
		s.mockQueries.EXPECT().
			GenerateSlots(gomock.Any(), "bay-1", builder.TestDay, 2.0, 0.5).
			Return(slots, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/bay-1/slots?date=2026-10-19&durationHours=2", nil, "")

		var body resdto.SlotsResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("bay-1", body.ResourceID)
		s.Equal("2026-10-19", body.Date)
		s.Len(body.Slots, 2)
	})

	s.Run("success: explicit granularity", func() {
		s.mockQueries.EXPECT().
			GenerateSlots(gomock.Any(), "bay-1", builder.TestDay, 1.5, 1.0).
			Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/bay-1/slots?date=2026-10-19&durationHours=1.5&granularityHours=1", nil, "")
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"resourceId":"bay-1","date":"2026-10-19","slots":[]}`, rec.Body.String())
	})

	validation := []struct {
		name  string
		query string
	}{
		{"missing date", "?durationHours=2"},
		{"missing duration", "?date=2026-10-19"},
		{"zero duration", "?date=2026-10-19&durationHours=0"},
		{"negative granularity", "?date=2026-10-19&durationHours=2&granularityHours=-1"},
		{"malformed date", "?date=2026-13-40&durationHours=2"},
	}
	for _, tc := range validation {
		s.Run("error: 400 "+tc.name, func() {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/bay-1/slots"+tc.query, nil, "")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
		})
	}

	s.Run("error: 404 for unknown resource", func() {
		s.mockQueries.EXPECT().GenerateSlots(gomock.Any(), "bay-9", gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrResourceNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/bay-9/slots?date=2026-10-19&durationHours=2", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})
}

func (s *SchedulingHandlerTestSuite) TestCheckAvailability() {
	blocker := builder.NewBookingBuilder().BuildDomain()
	reqBody := map[string]any{
		"resourceId": "bay-1",
		"start":      builder.At(10, 0),
		"end":        builder.At(12, 0),
	}

	s.Run("success: reports blocking bookings", func() {
		window := builder.Window(builder.At(10, 0), builder.At(12, 0))
		s.mockQueries.EXPECT().
			CheckAvailability(gomock.Any(), "bay-1", window, uuid.Nil).
			Return(&queries.AvailabilityView{ResourceID: "bay-1", Window: window, Blocking: []*booking.Booking{blocker}}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/availability", reqBody, "")

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.False(body.Available)
		s.Require().Len(body.Blocking, 1)
		s.Equal(blocker.ID(), body.Blocking[0].ID)
	})

	s.Run("success: exclude id is forwarded", func() {
		s.mockQueries.EXPECT().
			CheckAvailability(gomock.Any(), "bay-1", gomock.Any(), blocker.ID()).
			Return(&queries.AvailabilityView{ResourceID: "bay-1", Available: true}, nil).Times(1)

		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("excludeBookingId", blocker.ID().String()))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/availability", body, "")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("error: 400 when end precedes start", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("end", builder.At(9, 0)))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/availability", body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *SchedulingHandlerTestSuite) TestResolveConflict() {
	blocker := builder.NewBookingBuilder().BuildDomain()
	reqBody := map[string]any{
		"resourceId": "bay-1",
		"start":      builder.At(10, 0),
		"end":        builder.At(11, 0),
		"priority":   "urgent",
	}

	s.Run("success: proposals and force option", func() {
		s.mockQueries.EXPECT().
			ResolveConflict(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req scheduling.ConflictRequest) (*scheduling.Resolution, error) {
				s.Equal(booking.PriorityUrgent, req.Priority)
				return &scheduling.Resolution{
					Conflict: true,
					Blocking: []*booking.Booking{blocker},
					Proposals: []scheduling.Proposal{{
						Kind:       scheduling.KindMoveExisting,
						ResourceID: "bay-1",
						Window:     req.Window,
						Score:      0.89,
						Moves: []scheduling.Move{{
							BookingID:  blocker.ID(),
							ResourceID: "bay-1",
							From:       blocker.Window(),
							To:         builder.Window(builder.At(11, 0), builder.At(13, 0)),
						}},
					}},
					Force: &scheduling.ForceOption{
						ResourceID:           "bay-1",
						Window:               req.Window,
						Overlaps:             []uuid.UUID{blocker.ID()},
						RequiresConfirmation: true,
					},
				}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/scheduling/resolve", reqBody, "")

		var body resdto.ResolutionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Conflict)
		s.Require().Len(body.Proposals, 1)
		s.Equal("move-existing", body.Proposals[0].Kind)
		s.Require().Len(body.Proposals[0].Moves, 1)
		s.Equal(blocker.ID(), body.Proposals[0].Moves[0].BookingID)
		s.Require().NotNil(body.Force)
		s.True(body.Force.RequiresConfirmation)
	})

	s.Run("error: 400 for unknown priority", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("priority", "critical"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/scheduling/resolve", body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 404 for unknown resource", func() {
		s.mockQueries.EXPECT().ResolveConflict(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(scheduling.ErrUnknownResource, errs.ErrResourceNotFound)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/scheduling/resolve", reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})
}

func (s *SchedulingHandlerTestSuite) TestSuggestSlots() {
	reqBody := map[string]any{
		"date":          "2026-10-19",
		"durationHours": 1.5,
		"priority":      "high",
		"preferredTime": map[string]any{"from": "09:00", "to": "12:00"},
		"efficiency":    map[string]any{"bay-1": 0.9},
	}

	s.Run("success: preferences are converted", func() {
		s.mockQueries.EXPECT().
			SuggestSlots(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, req scheduling.SuggestRequest) ([]scheduling.Proposal, error) {
				s.True(req.Date.Equal(builder.TestDay))
				s.Equal(1.5, req.DurationHours)
				s.Equal(booking.PriorityHigh, req.Priority)
				s.Equal(&scheduling.ClockRange{From: 9 * 60, To: 12 * 60}, req.Preferences.PreferredTime)
				s.Equal(0.9, req.Preferences.Efficiency["bay-1"])
				return []scheduling.Proposal{{
					Kind:       scheduling.KindSuggestion,
					ResourceID: "bay-1",
					Window:     builder.Window(builder.At(9, 0), builder.At(10, 30)),
					Score:      0.82,
					Label:      scheduling.LabelOptimal,
					SubScores:  &scheduling.SubScores{TimeOfDay: 1},
				}}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/scheduling/suggest", reqBody, "")

		var body struct {
			Suggestions []resdto.ProposalResponse `json:"suggestions"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body.Suggestions, 1)
		s.Equal("optimal", body.Suggestions[0].Label)
		s.Require().NotNil(body.Suggestions[0].SubScores)
		s.Equal(1.0, body.Suggestions[0].SubScores.TimeOfDay)
		s.Empty(body.Suggestions[0].Rationale.Reasons)
	})

	validation := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing date", testutil.Field("date", nil)},
		{"missing duration", testutil.Field("durationHours", nil)},
		{"efficiency above one", testutil.Field("efficiency", map[string]any{"bay-1": 1.2})},
		{"malformed preferred time", testutil.Field("preferredTime", map[string]any{"from": "9am", "to": "12:00"})},
	}
	for _, tc := range validation {
		s.Run("error: 400 "+tc.name, func() {
			body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/scheduling/suggest", body, "")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
		})
	}

	s.Run("error: 422 for an inverted preferred time", func() {
		s.mockQueries.EXPECT().SuggestSlots(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(scheduling.ErrInvalidInput, errs.ErrDomainValidation)).Times(1)
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("preferredTime", map[string]any{"from": "12:00", "to": "09:00"}))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/scheduling/suggest", body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Invalid request")
	})
}
