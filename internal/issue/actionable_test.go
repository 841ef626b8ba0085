// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name: "operation only",
			err: &ActionableError{
				Operation: "resolve deployment spec",
			},
			expected: "failed to resolve deployment spec",
		},
		{
			name: "operation with resource",
			err: &ActionableError{
				Operation: "resolve deployment spec",
				Resource:  "./qtdeploy.spec",
			},
			expected: "failed to resolve deployment spec: ./qtdeploy.spec",
		},
		{
			name: "operation with cause",
			err: &ActionableError{
				Operation: "parse descriptor",
				Cause:     errors.New("unexpected end of JSON input"),
			},
			expected: "failed to parse descriptor: unexpected end of JSON input",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "resolve deployment spec",
				Resource:  "./qtdeploy.spec",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to resolve deployment spec: ./qtdeploy.spec: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &ActionableError{
		Operation: "test",
		Cause:     cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap() should return the cause error")
	}

	errNoCause := &ActionableError{Operation: "test"}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	cause := errors.New("specific error")
	wrapped := &ActionableError{
		Operation: "test",
		Cause:     cause,
	}

	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name: "suggestions rendered as bullets",
			err: &ActionableError{
				Operation:   "resolve deployment spec",
				Suggestions: []string{"Run 'qtdeploy init'", "Check the file path"},
			},
			contains: []string{"• Run 'qtdeploy init'", "• Check the file path"},
		},
		{
			name: "non-verbose hides error chain",
			err: &ActionableError{
				Operation: "resolve deployment spec",
				Cause:     errors.New("inner"),
			},
			verbose:  false,
			excludes: []string{"Error chain:"},
		},
		{
			name: "verbose shows error chain",
			err: &ActionableError{
				Operation: "resolve deployment spec",
				Cause:     errors.New("inner"),
			},
			verbose:  true,
			contains: []string{"Error chain:", "1. inner"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Format(tt.verbose)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Format() missing %q in:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("Format() should not contain %q in:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestErrorContext_Builder(t *testing.T) {
	cause := errors.New("disk full")
	err := NewErrorContext().
		WithOperation("write deployment spec").
		WithResource("/tmp/qtdeploy.spec").
		WithSuggestion("Free up disk space").
		Wrap(cause).
		Build()

	if err == nil {
		t.Fatal("Build() returned nil with operation set")
	}
	if err.Operation != "write deployment spec" {
		t.Errorf("Operation = %q", err.Operation)
	}
	if err.Resource != "/tmp/qtdeploy.spec" {
		t.Errorf("Resource = %q", err.Resource)
	}
	if !err.HasSuggestions() {
		t.Error("expected suggestions")
	}
	if !errors.Is(err, cause) {
		t.Error("cause not wrapped")
	}
}

func TestErrorContext_BuildRequiresOperation(t *testing.T) {
	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return nil error")
	}
}

func TestWrapWithOperation(t *testing.T) {
	if WrapWithOperation(nil, "anything") != nil {
		t.Error("wrapping nil should return nil")
	}

	cause := errors.New("boom")
	err := WrapWithOperation(cause, "run bundler")
	if err == nil || !errors.Is(err, cause) {
		t.Error("wrapped error should carry the cause")
	}
}
