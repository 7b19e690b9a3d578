package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
	mdwlog "github.com/msto63/lexzig/foundation/core/log"
)

// Environment variables consulted by LoadFromEnv and Load
const (
	EnvConfigPath  = "LEXZIG_CONFIG"
	EnvLogLevel    = "LEXZIG_LOG_LEVEL"
	EnvHTTPPort    = "LEXZIG_HTTP_PORT"
	EnvGRPCPort    = "LEXZIG_GRPC_PORT"
	EnvHistoryPath = "LEXZIG_HISTORY_PATH"
)

// Config holds the complete application configuration
type Config struct {
	General  GeneralConfig  `toml:"general" yaml:"general"`
	Server   ServerConfig   `toml:"server" yaml:"server"`
	GRPC     GRPCConfig     `toml:"grpc" yaml:"grpc"`
	Analyzer AnalyzerConfig `toml:"analyzer" yaml:"analyzer"`
	History  HistoryConfig  `toml:"history" yaml:"history"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name" yaml:"name"`
	Environment string `toml:"environment" yaml:"environment"`
	DataDir     string `toml:"data_dir" yaml:"data_dir"`
	LogLevel    string `toml:"log_level" yaml:"log_level"`
	LogFormat   string `toml:"log_format" yaml:"log_format"`
	LogFile     string `toml:"log_file" yaml:"log_file"`
}

// ServerConfig holds the HTTP API settings
type ServerConfig struct {
	Host           string     `toml:"host" yaml:"host"`
	Port           int        `toml:"port" yaml:"port"`
	ReadTimeout    Duration   `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   Duration   `toml:"write_timeout" yaml:"write_timeout"`
	MaxRequestSize int64      `toml:"max_request_size" yaml:"max_request_size"`
	CORS           CORSConfig `toml:"cors" yaml:"cors"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	Enabled        bool     `toml:"enabled" yaml:"enabled"`
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods []string `toml:"allowed_methods" yaml:"allowed_methods"`
}

// GRPCConfig holds the gRPC API settings
type GRPCConfig struct {
	Enabled          bool   `toml:"enabled" yaml:"enabled"`
	Host             string `toml:"host" yaml:"host"`
	Port             int    `toml:"port" yaml:"port"`
	EnableReflection bool   `toml:"enable_reflection" yaml:"enable_reflection"`
	MaxRecvMsgSize   int    `toml:"max_recv_msg_size" yaml:"max_recv_msg_size"`
}

// AnalyzerConfig holds engine and result cache settings
type AnalyzerConfig struct {
	MaxInputLength      int      `toml:"max_input_length" yaml:"max_input_length"`
	MaxDepth            int      `toml:"max_depth" yaml:"max_depth"`
	DisableLiteralCheck bool     `toml:"disable_literal_check" yaml:"disable_literal_check"`
	CacheSize           int      `toml:"cache_size" yaml:"cache_size"`
	CacheTTL            Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// HistoryConfig holds the analysis history store settings
type HistoryConfig struct {
	Enabled      bool     `toml:"enabled" yaml:"enabled"`
	Path         string   `toml:"path" yaml:"path"`
	Retention    Duration `toml:"retention" yaml:"retention"`
	DefaultLimit int      `toml:"default_limit" yaml:"default_limit"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar such as "30s"
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	return d.UnmarshalText([]byte(node.Value))
}

// MarshalYAML formats the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Format represents the configuration file format
type Format int

const (
	// FormatTOML represents TOML format (default)
	FormatTOML Format = iota
	// FormatYAML represents YAML format
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// DetectFormat chooses the format from the file extension
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// DefaultConfig returns the configuration used when no file is found
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		code := mdwerror.CodeConfigError
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return nil, mdwerror.Wrap(err, "failed to read config file").
			WithCode(code).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	format := DetectFormat(path)
	cfg, err := Parse(content, format)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config file").
			WithOperation("config.Load").
			WithDetail("path", path).
			WithDetail("format", format.String())
	}
	return cfg, nil
}

// Parse decodes configuration content, applies defaults and environment
// overrides and validates the result
func Parse(content []byte, format Format) (*Config, error) {
	var cfg Config

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, mdwerror.Wrap(err, "invalid YAML").WithCode(mdwerror.CodeConfigError)
		}
	default:
		md, err := toml.Decode(string(content), &cfg)
		if err != nil {
			return nil, mdwerror.Wrap(err, "invalid TOML").WithCode(mdwerror.CodeConfigError)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, mdwerror.Newf("unknown configuration key: %s", undecoded[0].String()).
				WithCode(mdwerror.CodeInvalidConfig)
		}
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by LEXZIG_CONFIG or the first default
// location that exists. Without any file the defaults are used.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	cfg := DefaultConfig()
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPaths lists the locations searched by LoadFromEnv
func DefaultPaths() []string {
	paths := []string{
		"./configs/lexzig.toml",
		"./configs/lexzig.yaml",
		"./lexzig.toml",
		"./lexzig.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "lexzig", "config.toml"))
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "lexzig"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 15 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 30 * time.Second
	}
	if c.Server.MaxRequestSize == 0 {
		c.Server.MaxRequestSize = 2 << 20
	}
	if len(c.Server.CORS.AllowedOrigins) == 0 {
		c.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.Server.CORS.AllowedMethods) == 0 {
		c.Server.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}

	// gRPC
	if c.GRPC.Host == "" {
		c.GRPC.Host = "0.0.0.0"
	}
	if c.GRPC.Port == 0 {
		c.GRPC.Port = 9300
	}
	if c.GRPC.MaxRecvMsgSize == 0 {
		c.GRPC.MaxRecvMsgSize = 4 << 20
	}

	// Analyzer
	if c.Analyzer.MaxInputLength == 0 {
		c.Analyzer.MaxInputLength = 1 << 20
	}
	if c.Analyzer.CacheSize == 0 {
		c.Analyzer.CacheSize = 256
	}
	if c.Analyzer.CacheTTL.Duration == 0 {
		c.Analyzer.CacheTTL.Duration = 10 * time.Minute
	}

	// History
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.General.DataDir, "history.db")
	}
	if c.History.Retention.Duration == 0 {
		c.History.Retention.Duration = 30 * 24 * time.Hour
	}
	if c.History.DefaultLimit == 0 {
		c.History.DefaultLimit = 20
	}
}

// expandEnvVars expands ${VAR} references in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.General.LogFile = os.ExpandEnv(c.General.LogFile)
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// applyEnvOverrides applies the LEXZIG_* variables on top of the file
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.General.LogLevel = v
	}
	if v := os.Getenv(EnvHTTPPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvHTTPPort, v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv(EnvGRPCPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return envError(EnvGRPCPort, v, err)
		}
		c.GRPC.Port = port
		c.GRPC.Enabled = true
	}
	if v := os.Getenv(EnvHistoryPath); v != "" {
		c.History.Path = v
		c.History.Enabled = true
	}
	return nil
}

func envError(name, value string, err error) error {
	return mdwerror.Wrap(err, "invalid environment override").
		WithCode(mdwerror.CodeInvalidConfig).
		WithOperation("config.applyEnvOverrides").
		WithDetail("variable", name).
		WithDetail("value", value)
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	var problems []string

	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("general.log_level: %v", err))
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		problems = append(problems, fmt.Sprintf("general.log_format: %v", err))
	}
	if !validPort(c.Server.Port) {
		problems = append(problems, fmt.Sprintf("server.port: %d out of range", c.Server.Port))
	}
	if c.Server.MaxRequestSize < 0 {
		problems = append(problems, "server.max_request_size: must not be negative")
	}
	if c.GRPC.Enabled && !validPort(c.GRPC.Port) {
		problems = append(problems, fmt.Sprintf("grpc.port: %d out of range", c.GRPC.Port))
	}
	if c.GRPC.Enabled && c.GRPC.Port == c.Server.Port && c.GRPC.Host == c.Server.Host {
		problems = append(problems, "grpc.port: collides with server.port")
	}
	if c.Analyzer.MaxInputLength < 0 {
		problems = append(problems, "analyzer.max_input_length: must not be negative")
	}
	if c.Analyzer.MaxDepth < 0 {
		problems = append(problems, "analyzer.max_depth: must not be negative")
	}
	if c.Analyzer.CacheSize < 0 {
		problems = append(problems, "analyzer.cache_size: must not be negative")
	}
	if c.History.DefaultLimit < 0 {
		problems = append(problems, "history.default_limit: must not be negative")
	}

	if len(problems) == 0 {
		return nil
	}
	return mdwerror.New("invalid configuration: "+strings.Join(problems, "; ")).
		WithCode(mdwerror.CodeInvalidConfig).
		WithOperation("config.Validate").
		WithDetail("problems", problems)
}

func validPort(port int) bool {
	return port > 0 && port <= 65535
}

// Address returns the HTTP listen address
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Address returns the gRPC listen address
func (g GRPCConfig) Address() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}
