package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
)

// Origin names the surface an analysis came from
type Origin string

const (
	OriginHTTP      Origin = "http"
	OriginWebSocket Origin = "websocket"
	OriginGRPC      Origin = "grpc"
	OriginCLI       Origin = "cli"
)

// Record is one stored analysis
type Record struct {
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	Origin      Origin         `json:"origin"`
	RequestID   string         `json:"request_id,omitempty"`
	SourceHash  string         `json:"source_hash"`
	Bytes       int            `json:"bytes"`
	Tokens      int            `json:"tokens"`
	Statements  int            `json:"statements"`
	Diagnostics int            `json:"diagnostics"`
	Kinds       map[string]int `json:"kinds,omitempty"`
	FirstError  string         `json:"first_error,omitempty"`
	Duration    time.Duration  `json:"duration"`
	Cached      bool           `json:"cached"`
}

// OK reports whether the analysis had no diagnostics
func (r *Record) OK() bool {
	return r.Diagnostics == 0
}

// Filter defines criteria for listing records
type Filter struct {
	Origin     Origin
	Since      time.Time
	FailedOnly bool
	Limit      int
	Offset     int
}

// Stats summarizes the stored history
type Stats struct {
	Total       int64     `json:"total"`
	Failed      int64     `json:"failed"`
	AvgBytes    float64   `json:"avg_bytes"`
	AvgDuration float64   `json:"avg_duration_ms"`
	Oldest      time.Time `json:"oldest,omitempty"`
	Newest      time.Time `json:"newest,omitempty"`
}

// HistoryStore defines the interface for analysis history persistence
type HistoryStore interface {
	Record(ctx context.Context, rec *Record) error
	Recent(ctx context.Context, filter Filter) ([]*Record, error)
	Stats(ctx context.Context) (*Stats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// SQLiteStore implements HistoryStore using SQLite
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// Config holds configuration for the SQLite store
type Config struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/history.db",
	}
}

// NewSQLiteStore opens (and creates) the history database
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		cfg = DefaultConfig()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, storageError(err, "failed to create directory", "store.Open").WithDetail("path", cfg.Path)
	}

	// WAL lets readers run while the servers record
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, storageError(err, "failed to open database", "store.Open").WithDetail("path", cfg.Path)
	}

	store := &SQLiteStore{db: db, path: cfg.Path}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, storageError(err, "failed to initialize schema", "store.Open").WithDetail("path", cfg.Path)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		origin TEXT NOT NULL,
		request_id TEXT,
		source_hash TEXT NOT NULL,
		bytes INTEGER NOT NULL,
		tokens INTEGER NOT NULL,
		statements INTEGER NOT NULL,
		diagnostics INTEGER NOT NULL,
		kinds TEXT,
		first_error TEXT,
		duration_ns INTEGER NOT NULL,
		cached INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_analyses_origin ON analyses(origin);
	CREATE INDEX IF NOT EXISTS idx_analyses_source_hash ON analyses(source_hash);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database file
func (s *SQLiteStore) Path() string {
	return s.path
}

// Record stores one analysis. ID and CreatedAt are filled in when empty.
func (s *SQLiteStore) Record(ctx context.Context, rec *Record) error {
	if rec.SourceHash == "" {
		return mdwerror.New("record without source hash").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("store.Record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	// Timestamps are compared as text, keep them in one zone
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	var kindsJSON []byte
	if len(rec.Kinds) > 0 {
		kindsJSON, _ = json.Marshal(rec.Kinds)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, created_at, origin, request_id, source_hash, bytes, tokens,
			statements, diagnostics, kinds, first_error, duration_ns, cached)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.CreatedAt, rec.Origin, nullString(rec.RequestID), rec.SourceHash, rec.Bytes, rec.Tokens,
		rec.Statements, rec.Diagnostics, nullString(string(kindsJSON)), nullString(rec.FirstError),
		int64(rec.Duration), rec.Cached)
	if err != nil {
		return storageError(err, "failed to insert analysis", "store.Record")
	}

	return nil
}

// Recent lists records, newest first
func (s *SQLiteStore) Recent(ctx context.Context, filter Filter) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, created_at, origin, request_id, source_hash, bytes, tokens, statements,
		diagnostics, kinds, first_error, duration_ns, cached FROM analyses WHERE 1=1`
	var args []interface{}

	if filter.Origin != "" {
		query += " AND origin = ?"
		args = append(args, filter.Origin)
	}
	if !filter.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.Since.UTC())
	}
	if filter.FailedOnly {
		query += " AND diagnostics > 0"
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(err, "failed to query analyses", "store.Recent")
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		var rec Record
		var requestID, kinds, firstError sql.NullString
		var durationNS int64

		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Origin, &requestID, &rec.SourceHash,
			&rec.Bytes, &rec.Tokens, &rec.Statements, &rec.Diagnostics, &kinds, &firstError,
			&durationNS, &rec.Cached); err != nil {
			return nil, storageError(err, "failed to scan analysis", "store.Recent")
		}

		rec.RequestID = requestID.String
		rec.FirstError = firstError.String
		rec.Duration = time.Duration(durationNS)
		if kinds.Valid {
			json.Unmarshal([]byte(kinds.String), &rec.Kinds)
		}

		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "failed to read analyses", "store.Recent")
	}

	return records, nil
}

// Stats returns aggregate numbers over all records
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	var avgBytes, avgDuration sql.NullFloat64
	var oldest, newest sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN diagnostics > 0 THEN 1 ELSE 0 END), 0),
			AVG(bytes), AVG(duration_ns),
			MIN(created_at), MAX(created_at)
		FROM analyses
	`).Scan(&stats.Total, &stats.Failed, &avgBytes, &avgDuration, &oldest, &newest)
	if err != nil {
		return nil, storageError(err, "failed to compute stats", "store.Stats")
	}

	stats.AvgBytes = avgBytes.Float64
	stats.AvgDuration = avgDuration.Float64 / float64(time.Millisecond)
	stats.Oldest = parseTime(oldest.String)
	stats.Newest = parseTime(newest.String)

	return &stats, nil
}

// Prune deletes records older than the given age
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, mdwerror.Newf("invalid prune age: %s", olderThan).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("store.Prune")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := s.db.ExecContext(ctx, "DELETE FROM analyses WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, storageError(err, "failed to prune analyses", "store.Prune")
	}

	return result.RowsAffected()
}

// Ping verifies the database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageError(err, "history database unreachable", "store.Ping")
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func storageError(err error, message, operation string) *mdwerror.Error {
	return mdwerror.Wrap(err, message).
		WithCode(mdwerror.CodeStorageError).
		WithOperation(operation)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// go-sqlite3 returns aggregates over DATETIME columns as text
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05Z07:00",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
