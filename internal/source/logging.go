// Package source builds the configured trivia.Source and decorates it
// with logging, request-log persistence and metrics.
package source

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/trivia/internal/metrics"
	"github.com/abhisek/trivia/internal/store"
	"github.com/abhisek/trivia/internal/trivia"
)

// LoggingSource records every call to the wrapped source.
type LoggingSource struct {
	inner   trivia.Source
	log     *zap.Logger
	repo    store.RequestRepo
	metrics *metrics.Metrics
}

var _ trivia.Source = (*LoggingSource)(nil)

// WithLogging wraps src. Any of log, repo and m may be nil.
func WithLogging(src trivia.Source, log *zap.Logger, repo store.RequestRepo, m *metrics.Metrics) *LoggingSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingSource{inner: src, log: log, repo: repo, metrics: m}
}

func (l *LoggingSource) Name() string { return l.inner.Name() }

func (l *LoggingSource) ListCategories(ctx context.Context) ([]trivia.Category, error) {
	done := l.metrics.TrackInFlight(l.inner.Name())
	start := time.Now()
	cats, err := l.inner.ListCategories(ctx)
	done()
	l.record(ctx, "categories", start, len(cats), err)
	return cats, err
}

func (l *LoggingSource) FetchQuestions(ctx context.Context, s trivia.Settings) ([]trivia.Question, error) {
	done := l.metrics.TrackInFlight(l.inner.Name())
	start := time.Now()
	qs, err := l.inner.FetchQuestions(ctx, s)
	done()
	l.record(ctx, "questions", start, len(qs), err,
		zap.String("category", s.Category),
		zap.String("difficulty", string(s.Difficulty)),
		zap.Int("amount", s.Amount),
		zap.String("type", string(s.Type)),
	)
	return qs, err
}

func (l *LoggingSource) record(ctx context.Context, endpoint string, start time.Time, items int, err error, fields ...zap.Field) {
	latency := time.Since(start)
	kind := ErrorKind(err)
	status := kind
	if err == nil {
		status = "ok"
	}

	fields = append(fields,
		zap.String("source", l.inner.Name()),
		zap.String("endpoint", endpoint),
		zap.Duration("latency", latency),
		zap.Int("items", items),
	)
	if err != nil {
		l.log.Warn("source request failed", append(fields, zap.String("kind", kind), zap.Error(err))...)
	} else {
		l.log.Info("source request", fields...)
	}

	l.metrics.ObserveRequest(l.inner.Name(), endpoint, status, latency)

	if l.repo == nil {
		return
	}
	ev := store.RequestEvent{
		Timestamp: start,
		Source:    l.inner.Name(),
		Endpoint:  endpoint,
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
		Items:     items,
		ErrorKind: kind,
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	// The request log must never fail a fetch.
	if logErr := l.repo.AppendRequest(context.WithoutCancel(ctx), ev); logErr != nil {
		l.log.Warn("failed to append request event", zap.Error(logErr))
	}
}

// ErrorKind classifies err for logs and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, trivia.ErrNoMatchingQuestions):
		return "no_match"
	case errors.Is(err, trivia.ErrProviderUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}
