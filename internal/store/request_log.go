package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// requestRepo implements RequestRepo with raw SQL.
type requestRepo struct {
	db *sql.DB
}

func (r *requestRepo) AppendRequest(ctx context.Context, ev RequestEvent) error {
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO request_events
			(timestamp_ms, source, endpoint, latency_ms, success, items, error_kind, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.UnixMilli(), ev.Source, ev.Endpoint, ev.LatencyMs, boolToInt(ev.Success),
		ev.Items, ev.ErrorKind, ev.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

func (r *requestRepo) ListRequests(ctx context.Context, opts QueryOpts) ([]RequestEvent, error) {
	var (
		where []string
		args  []any
	)
	if opts.Source != "" {
		where = append(where, "source = ?")
		args = append(args, opts.Source)
	}
	if !opts.From.IsZero() {
		where = append(where, "timestamp_ms >= ?")
		args = append(args, opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		where = append(where, "timestamp_ms <= ?")
		args = append(args, opts.To.UnixMilli())
	}

	q := `SELECT id, timestamp_ms, source, endpoint, latency_ms, success, items, error_kind, error_message
		FROM request_events`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var out []RequestEvent
	for rows.Next() {
		var (
			ev      RequestEvent
			tsMs    int64
			success int
		)
		if err := rows.Scan(&ev.ID, &tsMs, &ev.Source, &ev.Endpoint, &ev.LatencyMs,
			&success, &ev.Items, &ev.ErrorKind, &ev.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan request event: %w", err)
		}
		ev.Timestamp = time.UnixMilli(tsMs)
		ev.Success = success != 0
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *requestRepo) Stats(ctx context.Context) ([]RequestStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT source, endpoint, COUNT(*),
		       SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END),
		       AVG(latency_ms)
		FROM request_events
		GROUP BY source, endpoint
		ORDER BY source, endpoint`)
	if err != nil {
		return nil, fmt.Errorf("query request stats: %w", err)
	}
	defer rows.Close()

	var out []RequestStats
	for rows.Next() {
		var s RequestStats
		if err := rows.Scan(&s.Source, &s.Endpoint, &s.Total, &s.Failures, &s.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan request stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *requestRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM request_events
		WHERE id NOT IN (SELECT id FROM request_events ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune request events: %w", err)
	}
	return res.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
