package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
	mdwlog "github.com/msto63/lexzig/foundation/core/log"
	"github.com/msto63/lexzig/pkg/core/config"
	"github.com/msto63/lexzig/pkg/core/health"
)

// setupConfig points the commands at a config file in a temp dir
func setupConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "lexzig.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv(config.EnvConfigPath, path)
	return dir
}

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.zig")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}
	return path
}

func resetFlags() {
	cfgFile, verbose = "", false
	analyzeOpts = outputOptions{}
	replOpts = replOptions{}
	watchOpts = outputOptions{}
	historyLimit, historyPrune, historyFailed, historyOrigin, historyJSON = 0, "", false, "", false
	versionJSON = false
	servePort, serveGRPCPort, serveGRPC, serveHistory = 0, 0, false, false
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRoot_File(t *testing.T) {
	setupConfig(t, "")
	path := writeSource(t, "var x = 5;")

	stdout, stderr, err := run(t, "", path)
	if err != nil {
		t.Fatalf("Execute() error = %v (stderr %q)", err, stderr)
	}
	want := `Program([AssignmentStmt(Identifier("x"), Integer(5))])` + "\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestRoot_Repl(t *testing.T) {
	setupConfig(t, "")

	stdout, _, err := run(t, "var x = 1;\n:tokens\nx\nq\n")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout, `Program([AssignmentStmt(Identifier("x"), Integer(1))])`) {
		t.Errorf("stdout = %q, want tree", stdout)
	}
	if !strings.Contains(stdout, "IDENT") {
		t.Errorf("stdout = %q, want token listing", stdout)
	}
	if strings.Contains(stdout, "Welcome") {
		t.Error("banner printed for piped input")
	}
}

func TestAnalyze(t *testing.T) {
	setupConfig(t, "")
	good := writeSource(t, "const a = 1 + 2;")
	bad := writeSource(t, "var = 1;\nvar y = 2;\nconst = 3;\n")

	t.Run("tree", func(t *testing.T) {
		stdout, _, err := run(t, "", "analyze", good)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		want := `Program([AssignmentStmt(Identifier("a"), BinOp(Integer(1), "+", Integer(2)))])` + "\n"
		if stdout != want {
			t.Errorf("stdout = %q, want %q", stdout, want)
		}
	})

	t.Run("diagnostics", func(t *testing.T) {
		stdout, stderr, err := run(t, "", "analyze", bad)
		if !errors.Is(err, errDiagnostics) {
			t.Fatalf("Execute() error = %v, want errDiagnostics", err)
		}
		if stdout != "" {
			t.Errorf("stdout = %q, want empty", stdout)
		}
		want := "ERROR: at line 1: unexpected token EQUAL\nERROR: at line 3: unexpected token EQUAL\n"
		if stderr != want {
			t.Errorf("stderr = %q, want %q", stderr, want)
		}
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := run(t, "", "analyze", "--json", good)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		var env struct {
			Tokens []map[string]interface{} `json:"tokens"`
			AST    map[string]interface{}   `json:"ast"`
		}
		if err := json.Unmarshal([]byte(stdout), &env); err != nil {
			t.Fatalf("Unmarshal() error = %v (stdout %q)", err, stdout)
		}
		if len(env.Tokens) != 7 || env.AST["type"] != "Program" {
			t.Errorf("envelope = %+v, want 7 tokens and a Program", env)
		}
	})

	t.Run("tokens", func(t *testing.T) {
		stdout, _, err := run(t, "", "tokens", good)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		if len(lines) != 7 || !strings.HasPrefix(lines[0], "CONST") {
			t.Errorf("stdout = %q, want 7 token lines", stdout)
		}
	})

	t.Run("stdin", func(t *testing.T) {
		stdout, _, err := run(t, "x = 1;", "analyze", "-")
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if !strings.HasPrefix(stdout, "Program(") {
			t.Errorf("stdout = %q, want program", stdout)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := run(t, "", "analyze", filepath.Join(t.TempDir(), "nope.zig"))
		if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
			t.Errorf("Execute() error = %v, want not found", err)
		}
	})
}

func TestHistory(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		setupConfig(t, "")
		_, _, err := run(t, "", "history")
		if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
			t.Errorf("Execute() error = %v, want not found", err)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		dir := t.TempDir()
		setupConfig(t, "[general]\ndata_dir = \""+filepath.ToSlash(dir)+"\"\n\n[history]\nenabled = true\n")

		if _, _, err := run(t, "", "analyze", writeSource(t, "var x = 1;")); err != nil {
			t.Fatalf("analyze error = %v", err)
		}
		run(t, "", "analyze", writeSource(t, "var = 1;"))

		stdout, _, err := run(t, "", "history")
		if err != nil {
			t.Fatalf("history error = %v", err)
		}
		if !strings.Contains(stdout, "ORIGIN") || strings.Count(stdout, "cli") != 2 {
			t.Errorf("stdout = %q, want two cli entries", stdout)
		}
		if !strings.Contains(stdout, "2 analyses, 1 with diagnostics") {
			t.Errorf("stdout = %q, want summary line", stdout)
		}

		stdout, _, err = run(t, "", "history", "--failed", "--json")
		if err != nil {
			t.Fatalf("history --json error = %v", err)
		}
		var resp struct {
			Records []struct {
				Origin     string `json:"origin"`
				FirstError string `json:"first_error"`
			} `json:"records"`
		}
		if err := json.Unmarshal([]byte(stdout), &resp); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if len(resp.Records) != 1 || resp.Records[0].FirstError != "at line 1: unexpected token EQUAL" {
			t.Errorf("records = %+v, want the failed analysis", resp.Records)
		}

		stdout, _, err = run(t, "", "history", "--prune", "1h")
		if err != nil {
			t.Fatalf("history --prune error = %v", err)
		}
		if stdout != "Removed 0 entries older than 1h\n" {
			t.Errorf("stdout = %q", stdout)
		}

		if _, _, err := run(t, "", "history", "--prune", "soon"); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
			t.Errorf("Execute() error = %v, want invalid input", err)
		}
	})
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"30d", 30 * 24 * time.Hour, false},
		{"72h", 72 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"0d", 0, true},
		{"-1h", 0, true},
		{"xd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseAge(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAge(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseAge(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestVersion(t *testing.T) {
	setupConfig(t, "")

	stdout, _, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(stdout, "LexZig v0.1.0\n") {
		t.Errorf("stdout = %q", stdout)
	}

	stdout, _, err = run(t, "", "version", "--json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout, `"version": "0.1.0"`) {
		t.Errorf("stdout = %q, want JSON version", stdout)
	}
}

func TestApplyServeFlags(t *testing.T) {
	resetFlags()
	defer resetFlags()

	cfg := config.DefaultConfig()
	servePort = 8081
	serveGRPCPort = 9401
	serveHistory = true

	if err := applyServeFlags(cfg); err != nil {
		t.Fatalf("applyServeFlags() error = %v", err)
	}
	if cfg.Server.Port != 8081 || cfg.GRPC.Port != 9401 || !cfg.GRPC.Enabled || !cfg.History.Enabled {
		t.Errorf("cfg = %+v / %+v / %+v", cfg.Server, cfg.GRPC, cfg.History)
	}

	serveGRPCPort = 8081
	if err := applyServeFlags(cfg); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("applyServeFlags() error = %v, want port collision", err)
	}
}

func TestWatchFile(t *testing.T) {
	path := writeSource(t, "var x = 1;")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, mdwlog.Discard(), func(source string) {
			seen <- source
		})
	}()

	wait := func(want string) {
		t.Helper()
		select {
		case got := <-seen:
			if got != want {
				t.Errorf("analyzed %q, want %q", got, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}

	wait("var x = 1;")

	if err := os.WriteFile(path, []byte("var x = 2;"), 0644); err != nil {
		t.Fatalf("Failed to update source: %v", err)
	}
	wait("var x = 2;")

	// Changes to other files in the directory are ignored
	other := filepath.Join(filepath.Dir(path), "other.zig")
	if err := os.WriteFile(other, []byte("const y = 3;"), 0644); err != nil {
		t.Fatalf("Failed to write other file: %v", err)
	}
	select {
	case got := <-seen:
		t.Errorf("analyzed %q after unrelated change", got)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchFile() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not stop")
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, io.ErrUnexpectedEOF)
	if buf.String() != "Error: unexpected EOF\n" {
		t.Errorf("printError() = %q", buf.String())
	}
}

func TestGRPCHealthCheck(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	_, port, _ := net.SplitHostPort(lis.Addr().String())

	tests := []struct {
		name    string
		address string
	}{
		{"loopback", lis.Addr().String()},
		{"wildcard ipv4", "0.0.0.0:" + port},
		{"wildcard ipv6", "[::]:" + port},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := grpcHealthCheck(tt.address)
			if checker.Name() != "grpc" {
				t.Errorf("Name() = %v, want grpc", checker.Name())
			}
			if res := checker.Check(context.Background()); res.Status != health.StatusHealthy {
				t.Errorf("Check() = %+v, want healthy", res)
			}
		})
	}

	lis.Close()
	if res := grpcHealthCheck("127.0.0.1:" + port).Check(context.Background()); res.Status != health.StatusUnhealthy {
		t.Errorf("Check() after close = %+v, want unhealthy", res)
	}
}
