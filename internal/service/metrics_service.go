package service

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omarhammouda0/session-smart-buddy/internal/model"
	"github.com/omarhammouda0/session-smart-buddy/internal/schedule"
)

// MetricsService собирает метрики Prometheus по проверкам и занятиям.
// Методы безопасны на nil-получателе.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	conflictChecks    *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	generatedSessions prometheus.Counter
	generationRuns    *prometheus.CounterVec
}

// NewMetricsService регистрирует коллекторы
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	conflictChecks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conflict_checks_total",
		Help: "Conflict checks by kind and resulting severity",
	}, []string{"kind", "severity"})

	statusTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_status_transitions_total",
		Help: "Session status transitions",
	}, []string{"from", "to"})

	generatedSessions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "generated_sessions_total",
		Help: "Sessions materialised from weekly schedules",
	})

	generationRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_generation_runs_total",
		Help: "Background generation runs by outcome",
	}, []string{"outcome"})

	registry.MustRegister(
		conflictChecks,
		statusTransitions,
		generatedSessions,
		generationRuns,
		collectors.NewGoCollector(),
	)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		conflictChecks:    conflictChecks,
		statusTransitions: statusTransitions,
		generatedSessions: generatedSessions,
		generationRuns:    generationRuns,
	}
}

// Handler отдаёт метрики в формате Prometheus
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveConflictCheck учитывает проверку конфликта
func (m *MetricsService) ObserveConflictCheck(kind string, severity schedule.Severity) {
	if m == nil {
		return
	}
	m.conflictChecks.WithLabelValues(kind, severity.String()).Inc()
}

// ObserveTransition учитывает смену статуса занятия
func (m *MetricsService) ObserveTransition(from, to model.SessionStatus) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(string(from), string(to)).Inc()
}

// AddGeneratedSessions учитывает созданные по расписанию занятия
func (m *MetricsService) AddGeneratedSessions(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.generatedSessions.Add(float64(n))
}

// ObserveGenerationRun учитывает запуск фоновой генерации
func (m *MetricsService) ObserveGenerationRun(err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.generationRuns.WithLabelValues(outcome).Inc()
}
