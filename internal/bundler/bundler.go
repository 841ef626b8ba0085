// SPDX-License-Identifier: MPL-2.0

// Package bundler assembles and runs the nuitka command that turns the
// resolved deployment settings into a standalone executable.
package bundler

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"qtdeploy-cli/internal/deploy"
)

// DeploymentDirName is the working directory nuitka builds into, created
// under the project directory and purged by Cleanup.
const DeploymentDirName = "deployment"

// Bundler drives the external nuitka compiler.
type Bundler struct {
	// DryRun makes Run return the assembled command without executing it.
	DryRun bool

	logger *log.Logger
}

// New creates a Bundler.
func New(dryRun bool) *Bundler {
	return &Bundler{
		DryRun: dryRun,
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "deploy"}),
	}
}

// DeploymentDir returns the nuitka output directory for the settings.
func DeploymentDir(s *deploy.Settings) string {
	return filepath.Join(s.ProjectDir, DeploymentDirName)
}

// ExeSuffix returns the platform suffix of the generated executable.
func ExeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ".bin"
}

// Command assembles the full bundler argv for the resolved settings.
func Command(s *deploy.Settings) []string {
	args := []string{
		s.Interpreter,
		"-m", "nuitka",
		s.SourceFile,
		"--follow-imports",
		"--onefile",
		"--enable-plugin=pyside6",
		"--output-dir=" + DeploymentDir(s),
	}

	if s.ExtraArgs != "" {
		args = append(args, strings.Fields(s.ExtraArgs)...)
	}

	if s.Icon != "" {
		args = append(args, iconFlag(s.Icon))
	}

	// Excluded plugins are dropped at the shared-library level; the pyside6
	// plugin would otherwise bundle every Qt module the import scan touches.
	for _, plugin := range s.ExcludedPlugins {
		args = append(args, fmt.Sprintf("--noinclude-dlls=*/%s*", plugin))
	}

	return args
}

// CommandString returns the assembled command as a single shell-style string.
func CommandString(s *deploy.Settings) string {
	return strings.Join(Command(s), " ")
}

// iconFlag returns the platform-specific nuitka icon option.
func iconFlag(icon string) string {
	switch runtime.GOOS {
	case "windows":
		return "--windows-icon-from-ico=" + icon
	case "darwin":
		return "--macos-app-icon=" + icon
	default:
		return "--linux-icon=" + icon
	}
}

// Run executes the bundler (or just reports the command on dry-run) and
// returns the command string that was, or would have been, executed.
func (b *Bundler) Run(ctx context.Context, s *deploy.Settings) (string, error) {
	cmdStr := CommandString(s)

	if b.DryRun {
		return cmdStr, nil
	}

	b.logger.Info("running bundler", "command", cmdStr)

	args := Command(s)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = s.ProjectDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return cmdStr, fmt.Errorf("bundler failed: %w", err)
	}

	return cmdStr, nil
}

// Finalize copies the generated executable into the output directory and
// returns its final path.
func (b *Bundler) Finalize(s *deploy.Settings) (string, error) {
	base := filepath.Base(s.SourceFile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	generated := filepath.Join(DeploymentDir(s), stem+ExeSuffix())

	info, err := os.Stat(generated)
	if err != nil {
		return "", fmt.Errorf("generated executable not found at %s: %w", generated, err)
	}

	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	final := filepath.Join(s.OutputDir, stem+ExeSuffix())
	if err := copyFile(generated, final, info.Mode()); err != nil {
		return "", err
	}

	b.logger.Info("executable created", "path", final)
	return final, nil
}

// Cleanup purges the deployment build directory.
func (b *Bundler) Cleanup(s *deploy.Settings) error {
	dir := DeploymentDir(s)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if !b.DryRun {
			b.logger.Info("nothing to clean", "dir", dir)
		}
		return nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to purge %s: %w", dir, err)
	}

	b.logger.Info("deployment directory purged", "dir", dir)
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	return out.Close()
}
