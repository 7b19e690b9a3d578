package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_YAML(t *testing.T) {
	var holder struct {
		Timeout Duration `yaml:"timeout"`
	}

	if err := yaml.Unmarshal([]byte("timeout: 45s\n"), &holder); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if holder.Timeout.Duration != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", holder.Timeout.Duration)
	}

	out, err := yaml.Marshal(holder)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != "timeout: 45s\n" {
		t.Errorf("Marshal() = %q, want %q", out, "timeout: 45s\n")
	}

	if err := yaml.Unmarshal([]byte("timeout: [1, 2]\n"), &holder); err == nil {
		t.Error("Unmarshal() of a sequence should fail")
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"lexzig.toml", FormatTOML},
		{"lexzig.yaml", FormatYAML},
		{"LEXZIG.YML", FormatYAML},
		{"config", FormatTOML},
	}

	for _, tt := range tests {
		if got := DetectFormat(tt.path); got != tt.want {
			t.Errorf("DetectFormat(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.General.Name != "lexzig" {
		t.Errorf("General.Name = %v, want lexzig", cfg.General.Name)
	}
	if cfg.General.LogLevel != "info" {
		t.Errorf("General.LogLevel = %v, want info", cfg.General.LogLevel)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %v, want 8000", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout.Duration != 15*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout.Duration)
	}
	if cfg.GRPC.Port != 9300 {
		t.Errorf("GRPC.Port = %v, want 9300", cfg.GRPC.Port)
	}
	if cfg.GRPC.Enabled {
		t.Error("GRPC.Enabled = true, want false")
	}
	if cfg.Analyzer.MaxInputLength != 1<<20 {
		t.Errorf("Analyzer.MaxInputLength = %v, want %v", cfg.Analyzer.MaxInputLength, 1<<20)
	}
	if cfg.Analyzer.CacheSize != 256 {
		t.Errorf("Analyzer.CacheSize = %v, want 256", cfg.Analyzer.CacheSize)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.History.Path != filepath.Join("./data", "history.db") {
		t.Errorf("History.Path = %v, want data/history.db", cfg.History.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexzig.toml")
	content := `
[general]
log_level = "debug"
data_dir = "${LEXZIG_TEST_DIR}"

[server]
port = 8080
read_timeout = "5s"

[analyzer]
max_depth = 64
disable_literal_check = true

[history]
enabled = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("LEXZIG_TEST_DIR", dir)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogLevel != "debug" {
		t.Errorf("General.LogLevel = %v, want debug", cfg.General.LogLevel)
	}
	if cfg.General.DataDir != dir {
		t.Errorf("General.DataDir = %v, want %v", cfg.General.DataDir, dir)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %v, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout.Duration != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout.Duration)
	}
	if cfg.Server.WriteTimeout.Duration != 30*time.Second {
		t.Errorf("Server.WriteTimeout = %v, want 30s", cfg.Server.WriteTimeout.Duration)
	}
	if cfg.Analyzer.MaxDepth != 64 || !cfg.Analyzer.DisableLiteralCheck {
		t.Errorf("Analyzer = %+v, want max_depth 64 and literal check disabled", cfg.Analyzer)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true")
	}
	if cfg.History.Path != filepath.Join(dir, "history.db") {
		t.Errorf("History.Path = %v, want %v", cfg.History.Path, filepath.Join(dir, "history.db"))
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexzig.yaml")
	content := `
general:
  log_format: json
grpc:
  enabled: true
  port: 9400
analyzer:
  cache_ttl: 1m
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogFormat != "json" {
		t.Errorf("General.LogFormat = %v, want json", cfg.General.LogFormat)
	}
	if !cfg.GRPC.Enabled || cfg.GRPC.Port != 9400 {
		t.Errorf("GRPC = %+v, want enabled on 9400", cfg.GRPC)
	}
	if cfg.Analyzer.CacheTTL.Duration != time.Minute {
		t.Errorf("Analyzer.CacheTTL = %v, want 1m", cfg.Analyzer.CacheTTL.Duration)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
		code mdwerror.Code
	}{
		{"missing file", filepath.Join(dir, "missing.toml"), mdwerror.CodeNotFound},
		{"invalid toml", write("broken.toml", "[server\nport = 1"), mdwerror.CodeConfigError},
		{"invalid yaml", write("broken.yaml", "server: [\n"), mdwerror.CodeConfigError},
		{"unknown key", write("unknown.toml", "[server]\nporty = 1\n"), mdwerror.CodeInvalidConfig},
		{"unknown yaml key", write("unknown.yaml", "server:\n  porty: 1\n"), mdwerror.CodeConfigError},
		{"port out of range", write("port.toml", "[server]\nport = 70000\n"), mdwerror.CodeInvalidConfig},
		{"bad log level", write("level.toml", "[general]\nlog_level = \"loud\"\n"), mdwerror.CodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !mdwerror.HasCode(err, tt.code) {
				t.Errorf("Load() code = %v, want %v", mdwerror.GetCode(err), tt.code)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvHTTPPort, "8123")
	t.Setenv(EnvGRPCPort, "9123")
	t.Setenv(EnvHistoryPath, "/tmp/lexzig-history.db")

	cfg, err := Parse([]byte(""), FormatTOML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.General.LogLevel != "warn" {
		t.Errorf("General.LogLevel = %v, want warn", cfg.General.LogLevel)
	}
	if cfg.Server.Port != 8123 {
		t.Errorf("Server.Port = %v, want 8123", cfg.Server.Port)
	}
	if !cfg.GRPC.Enabled || cfg.GRPC.Port != 9123 {
		t.Errorf("GRPC = %+v, want enabled on 9123", cfg.GRPC)
	}
	if !cfg.History.Enabled || cfg.History.Path != "/tmp/lexzig-history.db" {
		t.Errorf("History = %+v, want enabled at /tmp/lexzig-history.db", cfg.History)
	}

	t.Setenv(EnvHTTPPort, "eighty")
	if _, err := Parse([]byte(""), FormatTOML); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("Parse() error = %v, want invalid config", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("[server]\nport = 8888\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv(EnvConfigPath, path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Server.Port != 8888 {
		t.Errorf("Server.Port = %v, want 8888", cfg.Server.Port)
	}
}

func TestValidate_PortCollision(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GRPC.Enabled = true
	cfg.GRPC.Port = cfg.Server.Port

	if err := cfg.Validate(); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("Validate() error = %v, want invalid config", err)
	}
}

func TestAddress(t *testing.T) {
	cfg := DefaultConfig()

	if got := cfg.Server.Address(); got != "0.0.0.0:8000" {
		t.Errorf("Server.Address() = %v, want 0.0.0.0:8000", got)
	}
	if got := cfg.GRPC.Address(); got != "0.0.0.0:9300" {
		t.Errorf("GRPC.Address() = %v, want 0.0.0.0:9300", got)
	}
}
