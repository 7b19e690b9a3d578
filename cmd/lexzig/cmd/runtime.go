package cmd

import (
	"io"
	"os"

	mdwlog "github.com/msto63/lexzig/foundation/core/log"
	"github.com/msto63/lexzig/foundation/lexzig"
	"github.com/msto63/lexzig/internal/analyzer/service"
	"github.com/msto63/lexzig/internal/analyzer/store"
	"github.com/msto63/lexzig/pkg/core/config"
	"github.com/msto63/lexzig/pkg/core/logging"
)

// loadConfig reads --config when given, otherwise the environment and
// the default locations
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadFromEnv()
}

// newLogger builds the command logger. Interactive commands keep quiet
// below warn unless --verbose is set.
func newLogger(cfg *config.Config, name string, quiet bool, w io.Writer) (*mdwlog.Logger, error) {
	level := cfg.General.LogLevel
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "warn"
	}
	if w == nil {
		w = os.Stderr
	}

	return logging.NewLogger(logging.LoggerConfig{
		ServiceName: name,
		Level:       level,
		Format:      cfg.General.LogFormat,
		LogFile:     cfg.General.LogFile,
		Output:      w,
	})
}

// newService creates the analyzer service. The history store is opened
// only when withHistory is set and history is enabled in cfg.
func newService(cfg *config.Config, logger *mdwlog.Logger, withHistory bool) (*service.Service, error) {
	var history store.HistoryStore
	if withHistory && cfg.History.Enabled {
		s, err := store.NewSQLiteStore(store.Config{Path: cfg.History.Path})
		if err != nil {
			return nil, err
		}
		history = s
	}

	svc, err := service.NewService(service.Config{
		Engine: lexzig.Options{
			Logger:              logger,
			MaxInputLength:      cfg.Analyzer.MaxInputLength,
			MaxDepth:            cfg.Analyzer.MaxDepth,
			DisableLiteralCheck: cfg.Analyzer.DisableLiteralCheck,
		},
		CacheSize:           cfg.Analyzer.CacheSize,
		CacheTTL:            cfg.Analyzer.CacheTTL.Duration,
		DefaultHistoryLimit: cfg.History.DefaultLimit,
		Logger:              logger,
	}, history)
	if err != nil {
		if history != nil {
			history.Close()
		}
		return nil, err
	}
	return svc, nil
}
