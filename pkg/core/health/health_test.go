package health

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/msto63/lexzig/foundation/lexzig"
)

func TestNewChecker(t *testing.T) {
	checker := NewChecker("test-checker", func(ctx context.Context) CheckResult {
		return CheckResult{
			Status:  StatusHealthy,
			Message: "test passed",
		}
	})

	if checker.Name() != "test-checker" {
		t.Errorf("Name() = %v, want test-checker", checker.Name())
	}

	result := checker.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}
	if result.Message != "test passed" {
		t.Errorf("Message = %v, want 'test passed'", result.Message)
	}
}

func healthyChecker(name string) Checker {
	return NewChecker(name, func(ctx context.Context) CheckResult {
		return CheckResult{Name: name, Status: StatusHealthy}
	})
}

func TestRegistry_RegisterAndCheck(t *testing.T) {
	registry := NewRegistry("lexzig", "1.0.0")
	registry.Register(healthyChecker("b"))
	registry.Register(healthyChecker("a"))

	report := registry.Check(context.Background())

	if report.Service != "lexzig" || report.Version != "1.0.0" {
		t.Errorf("Service/Version = %v/%v, want lexzig/1.0.0", report.Service, report.Version)
	}
	if report.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", report.Status)
	}
	if len(report.Checks) != 2 {
		t.Fatalf("len(Checks) = %v, want 2", len(report.Checks))
	}
	if report.Checks[0].Name != "a" || report.Checks[1].Name != "b" {
		t.Errorf("Checks not sorted by name: %v, %v", report.Checks[0].Name, report.Checks[1].Name)
	}
	if report.Checks[0].Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry("lexzig", "1.0.0")
	registry.Register(healthyChecker("temp"))
	registry.Unregister("temp")

	if report := registry.Check(context.Background()); len(report.Checks) != 0 {
		t.Errorf("len(Checks) = %v, want 0", len(report.Checks))
	}
}

func TestRegistry_OverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unknown counts as degraded", []Status{StatusHealthy, ""}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("lexzig", "1.0.0")
			for i, s := range tt.statuses {
				status := s
				registry.RegisterFunc(string(rune('a'+i)), func(ctx context.Context) CheckResult {
					return CheckResult{Status: status}
				})
			}

			report := registry.Check(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if report.Healthy() != (tt.want != StatusUnhealthy) {
				t.Errorf("Healthy() = %v for status %v", report.Healthy(), report.Status)
			}
		})
	}
}

func TestRegistry_ConcurrentChecks(t *testing.T) {
	registry := NewRegistry("lexzig", "1.0.0")
	var running int32
	var peak int32

	for i := 0; i < 4; i++ {
		registry.RegisterFunc(string(rune('a'+i)), func(ctx context.Context) CheckResult {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return CheckResult{Status: StatusHealthy}
		})
	}

	report := registry.CheckWithTimeout(time.Second)
	if len(report.Checks) != 4 {
		t.Errorf("len(Checks) = %v, want 4", len(report.Checks))
	}
	if atomic.LoadInt32(&peak) < 2 {
		t.Errorf("peak concurrency = %v, want checks to run in parallel", peak)
	}
}

func TestReport_String(t *testing.T) {
	report := &Report{Service: "lexzig", Status: StatusHealthy, Uptime: time.Second}
	want := "Service: lexzig, Status: healthy, Uptime: 1s, Checks: 0"
	if got := report.String(); got != want {
		t.Errorf("String() = %v, want %v", got, want)
	}
}

func TestParserCheck(t *testing.T) {
	engine, err := lexzig.NewEngine()
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	result := ParserCheck(engine).Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy (message: %s)", result.Status, result.Message)
	}
}

func TestParserCheck_InputRejected(t *testing.T) {
	engine, err := lexzig.NewEngine(lexzig.Options{MaxInputLength: 4})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	result := ParserCheck(engine).Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", result.Status)
	}
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func TestPingCheck(t *testing.T) {
	ok := PingCheck("history", fakePinger{}, StatusDegraded).Check(context.Background())
	if ok.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", ok.Status)
	}

	failed := PingCheck("history", fakePinger{err: errors.New("locked")}, StatusDegraded).Check(context.Background())
	if failed.Status != StatusDegraded || failed.Message != "locked" {
		t.Errorf("Status/Message = %v/%v, want degraded/locked", failed.Status, failed.Message)
	}
}

func TestTCPCheck(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	addr := ln.Addr().String()

	result := TCPCheck("grpc", addr, time.Second).Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy (%s)", result.Status, result.Message)
	}

	ln.Close()
	result = TCPCheck("grpc", addr, 100*time.Millisecond).Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy after close", result.Status)
	}
}
