// File: error_test.go
// Title: Error Module Tests
// Description: Tests for error creation, wrapping, codes and severity.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive test coverage
// - 2026-10-18 v0.2.0: Analyzer codes

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	msg := "test error message"
	err := New(msg)

	if err.Error() != msg {
		t.Errorf("Error() = %q, want %q", err.Error(), msg)
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should not be zero")
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		message  string
		wantNil  bool
		wantMsg  string
		wantCode Code
	}{
		{
			name:    "wrap nil error",
			message: "wrapper message",
			wantNil: true,
		},
		{
			name:     "wrap standard error",
			err:      errors.New("original error"),
			message:  "wrapper message",
			wantMsg:  "wrapper message: original error",
			wantCode: CodeUnknown,
		},
		{
			name:     "wrap structured error keeps code",
			err:      New("disk full").WithCode(CodeStorageError),
			message:  "record analysis",
			wantMsg:  "record analysis: disk full",
			wantCode: CodeStorageError,
		},
		{
			name:     "wrap fmt wrapped structured error",
			err:      fmt.Errorf("outer: %w", New("bad token").WithCode(CodeSyntax)),
			message:  "parse",
			wantMsg:  "parse: outer: bad token",
			wantCode: CodeSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, tt.message)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Wrap() = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got.Error(), tt.wantMsg)
			}
			if got.Code() != tt.wantCode {
				t.Errorf("Code() = %v, want %v", got.Code(), tt.wantCode)
			}
			if !errors.Is(got, tt.err) {
				t.Error("errors.Is should find the wrapped error")
			}
		})
	}
}

func TestWithCodeDerivesSeverity(t *testing.T) {
	err := New("x").WithCode(CodeSyntax)
	if err.Severity() != SeverityLow {
		t.Errorf("Severity() = %v, want low", err.Severity())
	}

	err = New("x").WithSeverity(SeverityCritical).WithCode(CodeSyntax)
	if err.Severity() != SeverityCritical {
		t.Errorf("explicit severity overwritten, got %v", err.Severity())
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeSyntax, 400},
		{CodeLexical, 400},
		{CodeTypeMismatch, 400},
		{CodeInvalidInput, 400},
		{CodeNotFound, 404},
		{CodeInputTooLarge, 413},
		{CodeStorageError, 503},
		{CodeInternal, 500},
	}
	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Errorf("%s.HTTPStatus() = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestHelpers(t *testing.T) {
	inner := New("inner").WithCode(CodeTypeMismatch)
	outer := Wrap(inner, "outer").WithCode(CodeInternal)

	if !HasCode(outer, CodeTypeMismatch) {
		t.Error("HasCode should look through the chain")
	}
	if GetCode(outer) != CodeInternal {
		t.Errorf("GetCode() = %v, want %v", GetCode(outer), CodeInternal)
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("plain errors should report CodeUnknown")
	}
	if !CodeSyntax.IsDiagnostic() || CodeInternal.IsDiagnostic() {
		t.Error("IsDiagnostic misclassifies codes")
	}
}

func TestMarshalJSON(t *testing.T) {
	err := New("unexpected token").
		WithCode(CodeSyntax).
		WithDetail("line", 3).
		WithOperation("parser.Parse")

	data, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("Marshal failed: %v", marshalErr)
	}

	var decoded map[string]interface{}
	if jsonErr := json.Unmarshal(data, &decoded); jsonErr != nil {
		t.Fatalf("Unmarshal failed: %v", jsonErr)
	}
	if decoded["code"] != "SYNTAX_ERROR" {
		t.Errorf("code = %v, want SYNTAX_ERROR", decoded["code"])
	}
	if decoded["operation"] != "parser.Parse" {
		t.Errorf("operation = %v", decoded["operation"])
	}
	details, ok := decoded["details"].(map[string]interface{})
	if !ok || details["line"] != float64(3) {
		t.Errorf("details = %v", decoded["details"])
	}
}
