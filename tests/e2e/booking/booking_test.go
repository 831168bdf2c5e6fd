//go:build e2e

package booking_test

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"bay-scheduler/internal/domain/booking"
	"bay-scheduler/internal/handler/api"
	"bay-scheduler/internal/handler/dto/response"
	"bay-scheduler/tests/common/builder"
	"bay-scheduler/tests/common/dbtest"
	"bay-scheduler/tests/common/httptest"
	"bay-scheduler/tests/common/testutil"
	"bay-scheduler/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL    = "/api/bookings"
	bookingURL     = "/api/bookings/%s"
	forceURL       = "/api/bookings/force"
	moveURL        = "/api/bookings/%s/window"
	statusURL      = "/api/bookings/%s/status"
	resolveURL     = "/api/scheduling/resolve"
	suggestURL     = "/api/scheduling/suggest"
	resolutionsURL = "/api/resolutions"
	operator       = "e2e-operator"
)

type BookingSuite struct {
	e2e.SharedSuite
	day time.Time
}

func (s *BookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func (s *BookingSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.day = nextMonday(time.Now().UTC())
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

// suggestions skip past slots, so every scenario runs on a Monday at least a week ahead
func nextMonday(now time.Time) time.Time {
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func (s *BookingSuite) at(hour, minute int) time.Time {
	return s.day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func (s *BookingSuite) createBody(resourceID string, start, end time.Time, priority booking.Priority) map[string]any {
	dto := builder.NewBookingBuilder().
		WithResourceID(resourceID).
		WithWindow(start, end).
		WithPriority(priority).
		BuildCreateRequestDTO()
	return testutil.DtoMap(s.T(), dto)
}

func (s *BookingSuite) mustCreate(resourceID string, start, end time.Time) response.BookingResponse {
	t := s.T()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, s.createBody(resourceID, start, end, booking.PriorityMedium), operator)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created response.BookingResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
	return created
}

// =============================================================================
// TestCreateBooking
// =============================================================================

func (s *BookingSuite) TestCreateBooking() {
	s.Run("Normal case: booking is stored and readable", func() {
		t := s.T()

		created := s.mustCreate("bay-1", s.at(9, 0), s.at(11, 0))
		require.Equal(t, "scheduled", created.Status)
		require.Equal(t, 1, created.Version)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(bookingURL, created.ID), nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"?date="+s.day.Format("2006-01-02"), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var list struct {
			Bookings []response.BookingResponse `json:"bookings"`
		}
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &list))
		require.Len(t, list.Bookings, 1)
		require.Equal(t, created.ID, list.Bookings[0].ID)
	})

	s.Run("Abnormal case: overlapping commit is rejected with conflict_on_commit", func() {
		t := s.T()
		s.mustCreate("bay-1", s.at(9, 0), s.at(11, 0))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createBody("bay-1", s.at(10, 0), s.at(12, 0), booking.PriorityUrgent), operator)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, api.ConflictOnCommitMessage)
	})

	s.Run("Normal case: back-to-back bookings share a boundary", func() {
		s.mustCreate("bay-1", s.at(9, 0), s.at(11, 0))
		s.mustCreate("bay-1", s.at(11, 0), s.at(12, 0))
		require.Zero(s.T(), dbtest.CountOverlaps(s.T(), s.DB, "bay-1"))
	})

	s.Run("Abnormal case: outside operating hours", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			s.createBody("bay-1", s.at(16, 0), s.at(18, 0), booking.PriorityMedium), operator)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})

	s.Run("Concurrency: exactly one of many identical requests wins", func() {
		t := s.T()
		body := s.createBody("bay-2", s.at(13, 0), s.at(15, 0), booking.PriorityHigh)

		const writers = 10
		codes := make([]int, writers)
		var wg sync.WaitGroup
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				codes[i] = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, body, operator).Code
			}()
		}
		wg.Wait()

		wins, conflicts := 0, 0
		for _, c := range codes {
			switch c {
			case http.StatusCreated:
				wins++
			case http.StatusConflict:
				conflicts++
			}
		}
		require.Equal(t, 1, wins, "codes: %v", codes)
		require.Equal(t, writers-1, conflicts, "codes: %v", codes)
		require.Zero(t, dbtest.CountOverlaps(t, s.DB, "bay-2"))
	})
}

// =============================================================================
// TestForceSchedule
// =============================================================================

func (s *BookingSuite) TestForceSchedule() {
	s.Run("Force requires confirmation and then double-books", func() {
		t := s.T()
		s.mustCreate("bay-1", s.at(9, 0), s.at(11, 0))

		body := s.createBody("bay-1", s.at(10, 0), s.at(11, 0), booking.PriorityUrgent)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, forceURL, body, operator)
		require.Equal(t, http.StatusPreconditionRequired, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, forceURL, testutil.DtoMap(t, body, testutil.Field("confirm", true)), operator)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var forced response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &forced))
		require.True(t, forced.Forced)
	})
}

// =============================================================================
// TestMoveAndTransition
// =============================================================================

func (s *BookingSuite) TestMoveAndTransition() {
	s.Run("Move checks the expected version", func() {
		t := s.T()
		created := s.mustCreate("bay-1", s.at(9, 0), s.at(11, 0))
		url := fmt.Sprintf(moveURL, created.ID)
		body := map[string]any{
			"resourceId":      "bay-1",
			"start":           s.at(13, 0),
			"end":             s.at(15, 0),
			"expectedVersion": 1,
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, url, body, operator)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Equal(t, 2, dbtest.BookingVersion(t, s.DB, created.ID))

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, url, body, operator)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, api.ConflictOnCommitMessage)
	})

	s.Run("Cancelling releases the window", func() {
		t := s.T()
		created := s.mustCreate("bay-1", s.at(9, 0), s.at(11, 0))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(statusURL, created.ID),
			map[string]any{"status": "cancelled", "expectedVersion": 1}, operator)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		s.mustCreate("bay-1", s.at(9, 0), s.at(11, 0))
	})

	s.Run("In-progress work cannot be moved", func() {
		t := s.T()
		inProgress := builder.NewBookingBuilder().
			WithWindow(s.at(9, 0), s.at(11, 0)).
			AsInProgress().
			BuildDomain()
		dbtest.InsertBooking(t, s.DB, inProgress)

		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, fmt.Sprintf(moveURL, inProgress.ID()),
			map[string]any{"resourceId": "bay-1", "start": s.at(13, 0), "end": s.at(15, 0)}, operator)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "cannot be moved")
	})

	s.Run("Unknown booking is 404", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, fmt.Sprintf(bookingURL, uuid.New()), nil, "")
		require.Equal(s.T(), http.StatusNotFound, w.Code)
	})
}

// =============================================================================
// TestResolveAndApply
// =============================================================================

func (s *BookingSuite) TestResolveAndApply() {
	s.Run("Urgent request displaces a medium booking", func() {
		t := s.T()
		blocker := s.mustCreate("bay-1", s.at(9, 0), s.at(11, 0))

		resolveBody := map[string]any{
			"resourceId": "bay-1",
			"start":      s.at(9, 30),
			"end":        s.at(11, 30),
			"priority":   "urgent",
			"jobRef":     "job-urgent",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, resolveURL, resolveBody, operator)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resolution response.ResolutionResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &resolution))
		require.True(t, resolution.Conflict)
		require.NotNil(t, resolution.Force)
		require.NotEmpty(t, resolution.Proposals)

		var chosen *response.ProposalResponse
		for i := range resolution.Proposals {
			if resolution.Proposals[i].Kind == "move-existing" {
				chosen = &resolution.Proposals[i]
				break
			}
		}
		require.NotNil(t, chosen, "expected a move-existing proposal: %+v", resolution.Proposals)
		require.Equal(t, blocker.ID, chosen.Moves[0].BookingID)

		moves := make([]map[string]any, len(chosen.Moves))
		for i, m := range chosen.Moves {
			moves[i] = map[string]any{
				"bookingId":  m.BookingID,
				"resourceId": m.ResourceID,
				"from":       map[string]any{"start": m.From.Start, "end": m.From.End},
				"to":         map[string]any{"start": m.To.Start, "end": m.To.End},
			}
		}
		applyBody := map[string]any{
			"request":    s.createBody("bay-1", s.at(9, 30), s.at(11, 30), booking.PriorityUrgent),
			"kind":       chosen.Kind,
			"resourceId": chosen.ResourceID,
			"window":     map[string]any{"start": chosen.Window.Start, "end": chosen.Window.End},
			"moves":      moves,
		}
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, resolutionsURL, applyBody, operator)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var applied response.ApplyResolutionResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &applied))
		require.Len(t, applied.Moved, 1)
		require.Equal(t, 2, dbtest.BookingVersion(t, s.DB, blocker.ID))
		require.Zero(t, dbtest.CountOverlaps(t, s.DB, "bay-1"))

		// the same proposal cannot be applied twice
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, resolutionsURL, applyBody, operator)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, api.ConflictOnCommitMessage)
	})
}

// =============================================================================
// TestSuggestAndMetrics
// =============================================================================

func (s *BookingSuite) TestSuggestAndMetrics() {
	s.Run("Suggestions avoid booked windows", func() {
		t := s.T()
		s.mustCreate("bay-1", s.at(8, 0), s.at(12, 0))
		s.mustCreate("bay-2", s.at(8, 0), s.at(12, 0))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, suggestURL, map[string]any{
			"date":          s.day.Format("2006-01-02"),
			"durationHours": 2,
			"priority":      "medium",
		}, operator)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body struct {
			Suggestions []response.ProposalResponse `json:"suggestions"`
		}
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.NotEmpty(t, body.Suggestions)
		for _, p := range body.Suggestions {
			require.False(t, p.Window.Start.Before(s.at(12, 0)), "suggestion %s overlaps the morning", p.Window.Start)
		}
	})

	s.Run("Metrics endpoint exposes commit outcomes", func() {
		t := s.T()
		s.mustCreate("bay-1", s.at(9, 0), s.at(10, 0))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, "/metrics", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		require.True(t, strings.Contains(w.Body.String(), "bay_scheduler_commits_total"))
	})
}
