// SPDX-License-Identifier: MPL-2.0

// Package config handles tool-level configuration using Viper with TOML as
// the file format.
//
// Configuration is loaded from ~/.config/qtdeploy/config.toml (or XDG
// equivalent on Linux, ~/Library/Application Support/qtdeploy/config.toml on
// macOS, %APPDATA%\qtdeploy\config.toml on Windows). It carries the policy
// knobs of the deployment pipeline: the excluded-plugin catalog, the QML
// discovery threshold and dependency-directory marker, default bundler
// arguments, and UI verbosity.
//
// Per-project deployment state lives in the qtdeploy.spec file handled by
// internal/deploy, not here.
package config
