//go:build unit

package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bay-scheduler/internal/usecase/shared"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RecordsSchedulingMetrics(t *testing.T) {
	r := NewRecorder()

	r.RecordQuery(shared.OpSuggestSlots, 12*time.Millisecond, nil)
	r.RecordQuery(shared.OpSuggestSlots, 3*time.Millisecond, errors.New("boom"))
	r.RecordProposals(shared.OpSuggestSlots, 8)
	r.RecordCommit(shared.OpCreateBooking, shared.OutcomeCommitted)
	r.RecordCommit(shared.OpCreateBooking, shared.OutcomeConflict)
	r.RecordCommit(shared.OpCreateBooking, shared.OutcomeConflict)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.queryErrors.WithLabelValues(shared.OpSuggestSlots)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.commits.WithLabelValues(shared.OpCreateBooking, shared.OutcomeCommitted)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.commits.WithLabelValues(shared.OpCreateBooking, shared.OutcomeConflict)))
}

func TestRecorder_HandlerExposesRegistry(t *testing.T) {
	r := NewRecorder()
	r.RecordCommit(shared.OpMoveBooking, shared.OutcomeRejected)
	r.ObserveHTTPRequest(http.MethodGet, "/api/resources", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `bay_scheduler_commits_total{operation="move_booking",outcome="rejected"} 1`))
	assert.True(t, strings.Contains(body, `http_requests_total{method="GET",path="/api/resources",status="200"} 1`))
}

func TestRecorder_NilIsSafe(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.RecordQuery(shared.OpGenerateSlots, time.Millisecond, nil)
		r.RecordProposals(shared.OpGenerateSlots, 1)
		r.RecordCommit(shared.OpCreateBooking, shared.OutcomeFailed)
		r.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
