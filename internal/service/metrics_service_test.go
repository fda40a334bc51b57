package service

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *MetricsService) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Code, rec.Body.String()
}

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()

	m.ObserveConflictCheck("check", schedule.SeverityError)
	m.ObserveConflictCheck("check", schedule.SeverityError)
	m.ObserveTransition(model.SessionStatusScheduled, model.SessionStatusCancelled)
	m.AddGeneratedSessions(3)
	m.AddGeneratedSessions(0)
	m.ObserveGenerationRun(nil)

	code, body := scrape(t, m)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `conflict_checks_total{kind="check",severity="error"} 2`)
	assert.Contains(t, body, `session_status_transitions_total{from="scheduled",to="cancelled"} 1`)
	assert.Contains(t, body, "generated_sessions_total 3")
	assert.Contains(t, body, `session_generation_runs_total{outcome="success"} 1`)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService

	assert.NotPanics(t, func() {
		m.ObserveConflictCheck("check", schedule.SeverityNone)
		m.ObserveTransition(model.SessionStatusScheduled, model.SessionStatusCompleted)
		m.AddGeneratedSessions(1)
		m.ObserveGenerationRun(errStub)
	})

	code, _ := scrape(t, m)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}
