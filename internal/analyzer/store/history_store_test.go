package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(Config{Path: filepath.Join(t.TempDir(), "nested", "history.db")})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &Record{
		Origin:     OriginHTTP,
		SourceHash: "aaa",
		Bytes:      10,
		Tokens:     5,
		Statements: 1,
		Duration:   2 * time.Millisecond,
		CreatedAt:  time.Now().Add(-time.Minute),
	}
	second := &Record{
		Origin:      OriginGRPC,
		RequestID:   "req-1",
		SourceHash:  "bbb",
		Bytes:       20,
		Diagnostics: 2,
		Kinds:       map[string]int{"syntax": 2},
		FirstError:  "at line 1: unexpected token SEMICOLON",
		Cached:      true,
	}

	for _, rec := range []*Record{first, second} {
		if err := s.Record(ctx, rec); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if first.ID == "" || second.ID == "" {
		t.Fatal("Record() should assign ids")
	}

	records, err := s.Recent(ctx, Filter{Limit: 10})
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	got := records[0]
	if got.ID != second.ID {
		t.Errorf("records[0].ID = %v, want newest %v", got.ID, second.ID)
	}
	if got.Origin != OriginGRPC || got.RequestID != "req-1" {
		t.Errorf("Origin/RequestID = %v/%v, want grpc/req-1", got.Origin, got.RequestID)
	}
	if got.Kinds["syntax"] != 2 {
		t.Errorf("Kinds = %v, want syntax=2", got.Kinds)
	}
	if got.FirstError != second.FirstError {
		t.Errorf("FirstError = %q, want %q", got.FirstError, second.FirstError)
	}
	if !got.Cached || got.OK() {
		t.Errorf("Cached/OK = %v/%v, want true/false", got.Cached, got.OK())
	}
	if records[1].Duration != 2*time.Millisecond {
		t.Errorf("Duration = %v, want 2ms", records[1].Duration)
	}
}

func TestRecentFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, origin := range []Origin{OriginHTTP, OriginHTTP, OriginCLI} {
		rec := &Record{Origin: origin, SourceHash: "h", Diagnostics: i % 2}
		if err := s.Record(ctx, rec); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 3},
		{"origin", Filter{Origin: OriginHTTP}, 2},
		{"failed only", Filter{FailedOnly: true}, 1},
		{"limit", Filter{Limit: 2}, 2},
		{"offset", Filter{Limit: 2, Offset: 2}, 1},
		{"since future", Filter{Since: time.Now().Add(time.Hour)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := s.Recent(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Recent() error = %v", err)
			}
			if len(records) != tt.want {
				t.Errorf("len(records) = %d, want %d", len(records), tt.want)
			}
		})
	}
}

func TestRecordRequiresHash(t *testing.T) {
	s := newTestStore(t)

	err := s.Record(context.Background(), &Record{Origin: OriginCLI})
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("Record() error = %v, want invalid input", err)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if empty.Total != 0 || !empty.Oldest.IsZero() {
		t.Errorf("Stats() on empty store = %+v", empty)
	}

	s.Record(ctx, &Record{Origin: OriginCLI, SourceHash: "a", Bytes: 10})
	s.Record(ctx, &Record{Origin: OriginCLI, SourceHash: "b", Bytes: 30, Diagnostics: 1})

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 2 || stats.Failed != 1 {
		t.Errorf("Total/Failed = %d/%d, want 2/1", stats.Total, stats.Failed)
	}
	if stats.AvgBytes != 20 {
		t.Errorf("AvgBytes = %v, want 20", stats.AvgBytes)
	}
	if stats.Newest.IsZero() || stats.Newest.Before(stats.Oldest) {
		t.Errorf("Oldest/Newest = %v/%v", stats.Oldest, stats.Newest)
	}
}

func TestPrune(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.Record(ctx, &Record{Origin: OriginCLI, SourceHash: "old", CreatedAt: time.Now().Add(-48 * time.Hour)})
	s.Record(ctx, &Record{Origin: OriginCLI, SourceHash: "new"})

	removed, err := s.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune() removed %d, want 1", removed)
	}

	records, _ := s.Recent(ctx, Filter{})
	if len(records) != 1 || records[0].SourceHash != "new" {
		t.Errorf("remaining records = %v, want only the new one", records)
	}

	if _, err := s.Prune(ctx, 0); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("Prune(0) error = %v, want invalid input", err)
	}
}

func TestPingAndClose(t *testing.T) {
	s, err := NewSQLiteStore(Config{Path: filepath.Join(t.TempDir(), "history.db")})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}

	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Ping(context.Background()); !mdwerror.HasCode(err, mdwerror.CodeStorageError) {
		t.Errorf("Ping() after close error = %v, want storage error", err)
	}
}
