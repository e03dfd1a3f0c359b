// Package metrics exposes Prometheus metrics for question sources and
// gameplay.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trivia"

// Metrics holds the application's collectors.
type Metrics struct {
	registry *prometheus.Registry

	SourceRequests *prometheus.CounterVec
	SourceDuration *prometheus.HistogramVec
	SourceInFlight *prometheus.GaugeVec
	Answers        *prometheus.CounterVec
	GamesStarted   prometheus.Counter
	GamesFinished  prometheus.Counter
	GamesAbandoned prometheus.Counter
	AnswerTimeUsed prometheus.Histogram
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SourceRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "source",
				Name:      "requests_total",
				Help:      "Total number of question source requests",
			},
			[]string{"source", "endpoint", "status"},
		),
		SourceDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "source",
				Name:      "request_duration_seconds",
				Help:      "Question source request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"source", "endpoint"},
		),
		SourceInFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "source",
				Name:      "requests_in_flight",
				Help:      "Number of question source requests in flight",
			},
			[]string{"source"},
		),
		Answers: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "game",
				Name:      "answers_total",
				Help:      "Answers recorded, by outcome",
			},
			[]string{"outcome"}, // correct, incorrect, timeout
		),
		GamesStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "started_total",
			Help:      "Games that entered play",
		}),
		GamesFinished: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "finished_total",
			Help:      "Games that reached the results screen",
		}),
		GamesAbandoned: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "abandoned_total",
			Help:      "Games quit before the last question",
		}),
		AnswerTimeUsed: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "answer_time_seconds",
			Help:      "Time used per question in seconds",
			Buckets:   []float64{1, 2, 5, 10, 15, 20, 25, 30},
		}),
	}
}

// ObserveRequest records one finished source request.
func (m *Metrics) ObserveRequest(source, endpoint, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.SourceRequests.WithLabelValues(source, endpoint, status).Inc()
	m.SourceDuration.WithLabelValues(source, endpoint).Observe(d.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns its decrement.
func (m *Metrics) TrackInFlight(source string) func() {
	if m == nil {
		return func() {}
	}
	g := m.SourceInFlight.WithLabelValues(source)
	g.Inc()
	return g.Dec
}

// ObserveAnswer records one answer outcome.
func (m *Metrics) ObserveAnswer(selected string, correct bool, used time.Duration) {
	if m == nil {
		return
	}
	outcome := "incorrect"
	switch {
	case selected == "":
		outcome = "timeout"
	case correct:
		outcome = "correct"
	}
	m.Answers.WithLabelValues(outcome).Inc()
	m.AnswerTimeUsed.Observe(used.Seconds())
}

// GameStarted counts a game entering play.
func (m *Metrics) GameStarted() {
	if m != nil {
		m.GamesStarted.Inc()
	}
}

// GameFinished counts a game reaching results.
func (m *Metrics) GameFinished() {
	if m != nil {
		m.GamesFinished.Inc()
	}
}

// GameAbandoned counts a game quit mid-play.
func (m *Metrics) GameAbandoned() {
	if m != nil {
		m.GamesAbandoned.Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
