// Package store persists question-source request telemetry in SQLite.
// Game sessions and scores are never written here.
package store

import (
	"context"
	"time"
)

// RequestEvent is one call to a question source.
type RequestEvent struct {
	ID           int64
	Timestamp    time.Time
	Source       string // "opentdb", "ai:anthropic", ...
	Endpoint     string // "categories" or "questions"
	LatencyMs    int64
	Success      bool
	Items        int    // categories or questions returned
	ErrorKind    string // "unavailable", "no_match", "other"
	ErrorMessage string
}

// QueryOpts configures request log queries.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	Source string    // exact match when set
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// RequestStats aggregates the log per source and endpoint.
type RequestStats struct {
	Source       string
	Endpoint     string
	Total        int
	Failures     int
	AvgLatencyMs float64
}

// SuccessRate returns the share of successful requests in [0, 1].
func (s RequestStats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Total-s.Failures) / float64(s.Total)
}

// RequestRepo reads and writes the request log.
type RequestRepo interface {
	// AppendRequest records a request. Timestamp defaults to now.
	AppendRequest(ctx context.Context, ev RequestEvent) error

	// ListRequests returns matching events, newest first.
	ListRequests(ctx context.Context, opts QueryOpts) ([]RequestEvent, error)

	// Stats aggregates the whole log.
	Stats(ctx context.Context) ([]RequestStats, error)

	// Prune deletes all but the keep most recent events.
	Prune(ctx context.Context, keep int) (int64, error)
}
