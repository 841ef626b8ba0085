// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"qtdeploy-cli/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Qml.AssetThreshold != 500 {
		t.Errorf("expected default asset threshold 500, got %d", cfg.Qml.AssetThreshold)
	}

	if cfg.Qml.DependencyDirMarker != "site-packages" {
		t.Errorf("expected default dependency marker site-packages, got %s", cfg.Qml.DependencyDirMarker)
	}

	if len(cfg.Qml.ExcludedPluginCatalog) == 0 {
		t.Error("expected non-empty excluded plugin catalog")
	}

	for _, plugin := range cfg.Qml.ExcludedPluginCatalog {
		if plugin == "QtCore" {
			t.Error("QtCore must never be in the excluded plugin catalog")
		}
	}

	if !strings.Contains(cfg.Bundler.ExtraArgs, "--quiet") {
		t.Errorf("expected --quiet in default extra args, got %s", cfg.Bundler.ExtraArgs)
	}

	if cfg.UI.Verbose {
		t.Error("expected verbose to be false by default")
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Qml.AssetThreshold != 500 {
		t.Errorf("defaults not applied, threshold = %d", cfg.Qml.AssetThreshold)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.toml"), `
[qml]
asset_threshold = 50
excluded_plugin_catalog = ["QtWebEngine"]
`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Qml.AssetThreshold != 50 {
		t.Errorf("threshold = %d, want 50", cfg.Qml.AssetThreshold)
	}
	if len(cfg.Qml.ExcludedPluginCatalog) != 1 || cfg.Qml.ExcludedPluginCatalog[0] != "QtWebEngine" {
		t.Errorf("catalog = %v, want [QtWebEngine]", cfg.Qml.ExcludedPluginCatalog)
	}
	// Untouched sections keep their defaults.
	if cfg.Qml.DependencyDirMarker != "site-packages" {
		t.Errorf("marker = %s, want default", cfg.Qml.DependencyDirMarker)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.toml"),
	})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_InvalidThreshold(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.toml"), `
[qml]
asset_threshold = 0
`)

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err == nil {
		t.Fatal("expected validation error for zero threshold")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestGenerateTOML_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	defaults := DefaultConfig()
	defaults.Qml.AssetThreshold = 123
	testutil.MustWriteFile(t, filepath.Join(dir, "config.toml"), GenerateTOML(defaults))

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() of generated TOML: %v", err)
	}

	if cfg.Qml.AssetThreshold != 123 {
		t.Errorf("threshold = %d, want 123", cfg.Qml.AssetThreshold)
	}
	if len(cfg.Qml.ExcludedPluginCatalog) != len(defaults.Qml.ExcludedPluginCatalog) {
		t.Errorf("catalog length = %d, want %d",
			len(cfg.Qml.ExcludedPluginCatalog), len(defaults.Qml.ExcludedPluginCatalog))
	}
}

func TestConfigDir_Override(t *testing.T) {
	SetConfigDirOverride("/custom/dir")
	defer Reset()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if dir != "/custom/dir" {
		t.Errorf("ConfigDir() = %s, want /custom/dir", dir)
	}
}
