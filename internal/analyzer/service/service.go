package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
	mdwlog "github.com/msto63/lexzig/foundation/core/log"
	"github.com/msto63/lexzig/foundation/lexzig"
	"github.com/msto63/lexzig/foundation/lexzig/diag"
	"github.com/msto63/lexzig/foundation/lexzig/lexer"
	"github.com/msto63/lexzig/internal/analyzer/store"
	"github.com/msto63/lexzig/pkg/core/cache"
	"github.com/msto63/lexzig/pkg/core/logging"
)

// Request is one analysis request from any surface
type Request struct {
	Code      string
	Origin    store.Origin
	RequestID string
}

// Service is the analyzer service shared by the HTTP, websocket, gRPC and
// CLI surfaces. It is safe for concurrent use.
type Service struct {
	engine  *lexzig.Engine
	cache   *cache.ResultCache
	history store.HistoryStore
	logger  *logging.Logger
	limit   int
}

// Config holds service configuration
type Config struct {
	Engine lexzig.Options

	// CacheSize of zero disables the result cache
	CacheSize int
	CacheTTL  time.Duration

	// DefaultHistoryLimit applies when History is called without a limit
	DefaultHistoryLimit int

	Logger *mdwlog.Logger
}

// NewService creates a new analyzer service. history may be nil.
func NewService(cfg Config, history store.HistoryStore) (*Service, error) {
	base := cfg.Logger
	if base == nil {
		base = mdwlog.Discard()
	}
	if cfg.Engine.Logger == nil {
		cfg.Engine.Logger = base
	}

	engine, err := lexzig.NewEngine(cfg.Engine)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to create engine").WithOperation("service.New")
	}

	s := &Service{
		engine:  engine,
		history: history,
		logger:  logging.Wrap(base.WithField("component", "analyzer-service"), "analyzer-service"),
		limit:   cfg.DefaultHistoryLimit,
	}
	if s.limit <= 0 {
		s.limit = 20
	}
	if cfg.CacheSize > 0 {
		s.cache = cache.NewResultCache(cache.Config{
			MaxItems: cfg.CacheSize,
			TTL:      cfg.CacheTTL,
		}, engine.Options())
	}

	return s, nil
}

// Engine returns the underlying engine
func (s *Service) Engine() *lexzig.Engine {
	return s.engine
}

// HistoryEnabled reports whether analyses are recorded
func (s *Service) HistoryEnabled() bool {
	return s.history != nil
}

// Analyze tokenizes and parses the request code. Diagnostics are part of
// the result. The error is set for rejected input or a cancelled context.
func (s *Service) Analyze(ctx context.Context, req Request) (*lexzig.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	result, cached := s.lookup(req.Code)
	if !cached {
		var err error
		result, err = s.engine.Analyze(req.Code)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Set(req.Code, result)
		}
	}

	s.record(ctx, req, result, time.Since(start), cached)
	return result, nil
}

// Tokenize returns the tokens and lexical diagnostics of the request code
func (s *Service) Tokenize(ctx context.Context, req Request) ([]lexer.Token, diag.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if result, ok := s.lookup(req.Code); ok {
		return result.Tokens, lexicalOnly(result.Diagnostics), nil
	}
	return s.engine.Tokenize(req.Code)
}

// History lists recent analyses. It fails with CodeNotFound when no
// history store is configured.
func (s *Service) History(ctx context.Context, filter store.Filter) ([]*store.Record, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled()
	}
	if filter.Limit <= 0 {
		filter.Limit = s.limit
	}
	return s.history.Recent(ctx, filter)
}

// HistoryStats summarizes the stored analyses
func (s *Service) HistoryStats(ctx context.Context) (*store.Stats, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled()
	}
	return s.history.Stats(ctx)
}

// PruneHistory deletes analyses older than the given age
func (s *Service) PruneHistory(ctx context.Context, olderThan time.Duration) (int64, error) {
	if s.history == nil {
		return 0, ErrHistoryDisabled()
	}
	n, err := s.history.Prune(ctx, olderThan)
	if err != nil {
		return 0, err
	}
	s.logger.Info("History pruned", "removed", n, "older_than", olderThan)
	return n, nil
}

// Ping checks the history store, if any
func (s *Service) Ping(ctx context.Context) error {
	if s.history == nil {
		return nil
	}
	return s.history.Ping(ctx)
}

// CacheStats returns the result cache counters
func (s *Service) CacheStats() cache.Stats {
	if s.cache == nil {
		return cache.Stats{}
	}
	return s.cache.Stats()
}

// Close releases the cache and the history store
func (s *Service) Close() error {
	if s.cache != nil {
		s.cache.Close()
	}
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}

// ErrHistoryDisabled is returned by history operations without a store
func ErrHistoryDisabled() error {
	return mdwerror.New("analysis history is disabled").
		WithCode(mdwerror.CodeNotFound).
		WithOperation("service.History")
}

// HashSource returns the hex sha256 of a source text
func HashSource(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func (s *Service) lookup(code string) (*lexzig.Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	// Oversized input is never cached, the engine rejects it
	if len(code) > s.engine.Options().MaxInputLength {
		return nil, false
	}
	return s.cache.Get(code)
}

func (s *Service) record(ctx context.Context, req Request, result *lexzig.Result, took time.Duration, cached bool) {
	if s.history == nil {
		return
	}

	rec := &store.Record{
		Origin:      req.Origin,
		RequestID:   req.RequestID,
		SourceHash:  HashSource(req.Code),
		Bytes:       len(req.Code),
		Tokens:      len(result.Tokens),
		Statements:  len(result.Program.Stmts),
		Diagnostics: len(result.Diagnostics),
		Duration:    took,
		Cached:      cached,
	}
	if rec.Origin == "" {
		rec.Origin = store.OriginCLI
	}
	if len(result.Diagnostics) > 0 {
		rec.FirstError = result.Diagnostics[0].Error()
		rec.Kinds = make(map[string]int)
		for _, d := range result.Diagnostics {
			rec.Kinds[d.Kind.String()]++
		}
	}

	// History is best effort, the analysis already succeeded
	if err := s.history.Record(ctx, rec); err != nil {
		s.logger.WithRequestID(req.RequestID).LogError(
			mdwerror.Wrap(err, "failed to record analysis").
				WithCode(mdwerror.CodeStorageError).
				WithSeverity(mdwerror.SeverityMedium).
				WithOperation("service.record"),
		)
	}
}

func lexicalOnly(diags diag.List) diag.List {
	var out diag.List
	for _, d := range diags {
		if d.Kind == diag.Lexical {
			out = append(out, d)
		}
	}
	return out
}
