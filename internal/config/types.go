// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config is the tool-level configuration for qtdeploy.
	Config struct {
		// Bundler holds defaults passed to the external bundler.
		Bundler BundlerConfig `mapstructure:"bundler"`
		// Qml holds QML discovery policy.
		Qml QmlConfig `mapstructure:"qml"`
		// UI holds user interface settings.
		UI UIConfig `mapstructure:"ui"`
	}

	// BundlerConfig holds defaults for the external bundler invocation.
	BundlerConfig struct {
		// ExtraArgs are appended to every bundler command line unless the
		// deployment spec overrides them.
		ExtraArgs string `mapstructure:"extra_args"`
		// Packages are the Python packages installed before bundling.
		Packages []string `mapstructure:"packages"`
	}

	// QmlConfig holds the QML asset discovery policy.
	QmlConfig struct {
		// ExcludedPluginCatalog lists the heavy Qt plugins that are dropped
		// from the bundle when the application does not reference them.
		ExcludedPluginCatalog []string `mapstructure:"excluded_plugin_catalog"`
		// AssetThreshold is the discovered-file count above which discovery
		// warns, or aborts when the excess sits under DependencyDirMarker.
		AssetThreshold int `mapstructure:"asset_threshold"`
		// DependencyDirMarker is the path fragment identifying files that
		// belong to an installed-package tree rather than the project.
		DependencyDirMarker string `mapstructure:"dependency_dir_marker"`
	}

	// UIConfig holds user interface settings.
	UIConfig struct {
		// Verbose enables verbose output by default.
		Verbose bool `mapstructure:"verbose"`
	}

	// InvalidConfigError is returned when configuration validation fails.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		Field  string
		Reason string
	}
)

// Error returns the error message for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// Unwrap returns the sentinel for errors.Is() checks.
func (e *InvalidConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// DefaultConfig returns the built-in configuration defaults.
//
// The excluded-plugin catalog mirrors the heavy Qt modules whose binaries
// dominate bundle size; small always-needed plugins such as QtCore are
// intentionally not listed so discovery never has to check for them.
func DefaultConfig() *Config {
	return &Config{
		Bundler: BundlerConfig{
			ExtraArgs: "--quiet --noinclude-qt-translations",
			Packages:  []string{"nuitka", "ordered_set", "zstandard"},
		},
		Qml: QmlConfig{
			ExcludedPluginCatalog: []string{
				"QtQuick", "QtQuick3D", "QtCharts", "QtWebEngine", "QtTest", "QtSensors",
			},
			AssetThreshold:      500,
			DependencyDirMarker: "site-packages",
		},
		UI: UIConfig{
			Verbose: false,
		},
	}
}

// Validate checks configuration invariants that the file format cannot express.
func (c *Config) Validate() error {
	if c.Qml.AssetThreshold <= 0 {
		return &InvalidConfigError{
			Field:  "qml.asset_threshold",
			Reason: fmt.Sprintf("must be positive, got %d", c.Qml.AssetThreshold),
		}
	}
	if c.Qml.DependencyDirMarker == "" {
		return &InvalidConfigError{
			Field:  "qml.dependency_dir_marker",
			Reason: "must not be empty",
		}
	}
	return nil
}
