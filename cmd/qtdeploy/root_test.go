// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"qtdeploy-cli/internal/issue"
)

func TestExitError_Unwrap(t *testing.T) {
	underlying := errors.New("bundler exploded")
	err := error(&ExitError{Code: 2, Err: underlying})

	if !errors.Is(err, underlying) {
		t.Error("expected errors.Is to find the underlying error")
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatal("expected errors.As to match *ExitError")
	}
	if exitErr.Code != 2 {
		t.Errorf("expected code 2, got %d", exitErr.Code)
	}
}

func TestExitError_MessageWithoutCause(t *testing.T) {
	err := &ExitError{Code: 3}
	if got := err.Error(); !strings.Contains(got, "3") {
		t.Errorf("expected message to carry the code, got %q", got)
	}
}

func TestFormatErrorForDisplay_PlainError(t *testing.T) {
	err := fmt.Errorf("resolution failed: %w", errors.New("boom"))
	if got := formatErrorForDisplay(err, false); got != err.Error() {
		t.Errorf("plain errors should format verbatim, got %q", got)
	}
}

func TestFormatErrorForDisplay_ActionableError(t *testing.T) {
	err := issue.NewErrorContext().
		WithOperation("resolving deployment settings").
		WithSuggestion("run qtdeploy init first").
		Wrap(errors.New("no spec file")).
		BuildError()

	got := formatErrorForDisplay(err, false)
	if !strings.Contains(got, "resolving deployment settings") {
		t.Errorf("expected the operation in the output, got %q", got)
	}
	if !strings.Contains(got, "run qtdeploy init first") {
		t.Errorf("expected the suggestion in the output, got %q", got)
	}
}

func TestSplitCommaList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"spaces trimmed", " nuitka , zstandard ", []string{"nuitka", "zstandard"}},
		{"empty entries dropped", "a,,b,", []string{"a", "b"}},
		{"single", "nuitka", []string{"nuitka"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitCommaList(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
