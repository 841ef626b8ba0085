// SPDX-License-Identifier: MPL-2.0

// Package scanner detects which Qt modules a set of QML files imports by
// driving the external qmlimportscanner tool.
package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
)

// ToolName is the external scanner binary.
const ToolName = "qmlimportscanner"

// ErrToolNotFound is returned when qmlimportscanner is neither next to the
// interpreter nor on PATH.
var ErrToolNotFound = errors.New(ToolName + " not found")

type (
	// Scanner reports the Qt module names referenced by the given QML files.
	Scanner interface {
		Scan(ctx context.Context, qmlFiles []string) ([]string, error)
	}

	// ExecScanner runs the qmlimportscanner binary and parses its JSON output.
	ExecScanner struct {
		// Tool is the scanner executable. Empty means ToolName looked up on
		// PATH, preferring the directory of Interpreter first so a venv's
		// tooling wins over a system install.
		Tool string
		// Interpreter is the Python interpreter the deployment uses.
		Interpreter string
	}

	importEntry struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
)

// NewExecScanner creates a scanner that locates qmlimportscanner relative to
// the given interpreter before falling back to PATH.
func NewExecScanner(interpreter string) *ExecScanner {
	return &ExecScanner{Interpreter: interpreter}
}

// Scan runs the scanner over qmlFiles and returns the imported module names.
// It must not be called with an empty file list; resolution skips scanning
// entirely when there is nothing to scan.
func (s *ExecScanner) Scan(ctx context.Context, qmlFiles []string) ([]string, error) {
	if len(qmlFiles) == 0 {
		return nil, fmt.Errorf("no QML files to scan")
	}

	tool, err := s.resolveTool()
	if err != nil {
		return nil, err
	}

	args := append([]string{"-qmlFiles"}, qmlFiles...)
	out, err := exec.CommandContext(ctx, tool, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", tool, err)
	}

	return parseImports(out)
}

func (s *ExecScanner) resolveTool() (string, error) {
	if s.Tool != "" {
		return s.Tool, nil
	}

	// A venv interpreter keeps its Qt tooling next to itself.
	if s.Interpreter != "" {
		candidate := filepath.Join(filepath.Dir(s.Interpreter), ToolName)
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}

	path, err := exec.LookPath(ToolName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrToolNotFound, err)
	}
	return path, nil
}

// parseImports extracts module names from qmlimportscanner's JSON array.
// Entries without a name (e.g. directory imports) are skipped; duplicates
// are collapsed while preserving first-seen order.
func parseImports(raw []byte) ([]string, error) {
	var entries []importEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s output: %w", ToolName, err)
	}

	seen := make(map[string]bool)
	var modules []string
	for _, e := range entries {
		if e.Name == "" || e.Type != "module" {
			continue
		}
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		modules = append(modules, e.Name)
	}

	return modules, nil
}
