// SPDX-License-Identifier: MPL-2.0

// Package python wraps the Python interpreter used for deployment: locating
// one, detecting virtual environments, and installing the bundler packages.
package python

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

type (
	// Executable is a wrapper around a concrete Python interpreter.
	Executable struct {
		// Path is the interpreter binary.
		Path string
		// DryRun suppresses all side-effecting invocations.
		DryRun bool

		logger *log.Logger
	}
)

// NewExecutable wraps the interpreter at path.
func NewExecutable(path string, dryRun bool) *Executable {
	return &Executable{
		Path:   path,
		DryRun: dryRun,
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "deploy"}),
	}
}

// Discover locates a usable interpreter: the active virtual environment
// first, then python3 (or python) on PATH.
func Discover() (string, error) {
	if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		candidate := venvInterpreter(venv)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	for _, name := range []string{"python3", "python"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no python interpreter found on PATH")
}

// venvInterpreter returns the interpreter path inside a venv root.
func venvInterpreter(root string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(root, "Scripts", "python.exe")
	}
	return filepath.Join(root, "bin", "python3")
}

// InVenv reports whether the interpreter belongs to the active virtual
// environment.
func (e *Executable) InVenv() bool {
	venv := os.Getenv("VIRTUAL_ENV")
	if venv == "" {
		return false
	}

	rel, err := filepath.Rel(venv, e.Path)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(rel, "..")
}

// Install installs the given packages with pip. Skipped on dry-run.
func (e *Executable) Install(ctx context.Context, packages []string) error {
	if len(packages) == 0 {
		return nil
	}
	if e.DryRun {
		e.logger.Info("dry-run: skipping package installation", "packages", strings.Join(packages, ","))
		return nil
	}

	args := append([]string{"-m", "pip", "install"}, packages...)
	cmd := exec.CommandContext(ctx, e.Path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	e.logger.Info("installing deployment packages", "packages", strings.Join(packages, ","))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to install packages %v: %w", packages, err)
	}

	return nil
}

// HasModule reports whether the interpreter can import the given module.
func (e *Executable) HasModule(ctx context.Context, module string) bool {
	script := fmt.Sprintf(
		"import importlib.util, sys; sys.exit(0 if importlib.util.find_spec(%q) else 1)", module)
	return exec.CommandContext(ctx, e.Path, "-c", script).Run() == nil
}
