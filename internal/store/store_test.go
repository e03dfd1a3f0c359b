package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWALOnFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trivia.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trivia.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		s.Close()
	}
}

func TestAppendAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.RequestRepo()
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	events := []RequestEvent{
		{Timestamp: base, Source: "opentdb", Endpoint: "categories", LatencyMs: 120, Success: true, Items: 24},
		{Timestamp: base.Add(time.Minute), Source: "opentdb", Endpoint: "questions", LatencyMs: 300, Success: false,
			ErrorKind: "no_match", ErrorMessage: "opentdb response code 1 (no results)"},
		{Timestamp: base.Add(2 * time.Minute), Source: "ai:mock", Endpoint: "questions", LatencyMs: 5, Success: true, Items: 10},
	}
	for _, ev := range events {
		if err := repo.AppendRequest(ctx, ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.ListRequests(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Source != "ai:mock" {
		t.Errorf("first event source = %q, want newest first", all[0].Source)
	}
	if !all[2].Timestamp.Equal(base) {
		t.Errorf("timestamp = %v, want %v", all[2].Timestamp, base)
	}
	if all[1].Success || all[1].ErrorKind != "no_match" {
		t.Errorf("failure event round-trip = %+v", all[1])
	}

	limited, err := repo.ListRequests(ctx, QueryOpts{Limit: 1, Source: "opentdb"})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].Endpoint != "questions" {
		t.Errorf("limited = %+v", limited)
	}

	ranged, err := repo.ListRequests(ctx, QueryOpts{From: base.Add(30 * time.Second), To: base.Add(90 * time.Second)})
	if err != nil {
		t.Fatalf("list ranged: %v", err)
	}
	if len(ranged) != 1 || ranged[0].Endpoint != "questions" || ranged[0].Source != "opentdb" {
		t.Errorf("ranged = %+v", ranged)
	}
}

func TestAppendDefaultsTimestamp(t *testing.T) {
	s := openTestStore(t)
	repo := s.RequestRepo()
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	if err := repo.AppendRequest(ctx, RequestEvent{Source: "opentdb", Endpoint: "categories", Success: true}); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := repo.ListRequests(ctx, QueryOpts{})
	if err != nil || len(got) != 1 {
		t.Fatalf("list: %v (%d events)", err, len(got))
	}
	if got[0].Timestamp.Before(before) {
		t.Errorf("timestamp %v not defaulted to now", got[0].Timestamp)
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.RequestRepo()
	ctx := context.Background()

	for _, ev := range []RequestEvent{
		{Source: "opentdb", Endpoint: "questions", LatencyMs: 100, Success: true},
		{Source: "opentdb", Endpoint: "questions", LatencyMs: 300, Success: false},
		{Source: "opentdb", Endpoint: "categories", LatencyMs: 50, Success: true},
	} {
		if err := repo.AppendRequest(ctx, ev); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d groups, want 2", len(stats))
	}
	q := stats[1]
	if q.Endpoint != "questions" || q.Total != 2 || q.Failures != 1 {
		t.Errorf("questions stats = %+v", q)
	}
	if q.AvgLatencyMs != 200 {
		t.Errorf("avg latency = %v, want 200", q.AvgLatencyMs)
	}
	if q.SuccessRate() != 0.5 {
		t.Errorf("success rate = %v, want 0.5", q.SuccessRate())
	}
	if (RequestStats{}).SuccessRate() != 0 {
		t.Error("empty stats must report zero success rate")
	}
}

func TestPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.RequestRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.AppendRequest(ctx, RequestEvent{Source: "opentdb", Endpoint: "questions", Items: i}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	n, err := repo.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 3 {
		t.Errorf("pruned %d, want 3", n)
	}
	left, _ := repo.ListRequests(ctx, QueryOpts{})
	if len(left) != 2 || left[0].Items != 4 || left[1].Items != 3 {
		t.Errorf("remaining = %+v", left)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if want := filepath.Join(dir, "trivia", "trivia.db"); p != want {
		t.Errorf("path = %q, want %q", p, want)
	}
}
