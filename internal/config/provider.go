// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects where the tool configuration is read from.
	// The zero value means the standard platform config directory.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific TOML file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath string
	}

	// Provider loads the tool configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	// tomlFileProvider reads config.toml from disk, falling back to the
	// built-in defaults when no file exists.
	tomlFileProvider struct{}
)

// NewProvider creates the file-backed configuration provider.
func NewProvider() Provider {
	return &tomlFileProvider{}
}

func (p *tomlFileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// configDirOverride redirects ConfigDir for tests, where
// os.UserHomeDir does not reliably follow the HOME environment
// variable on every platform.
var configDirOverride string

// SetConfigDirOverride points ConfigDir at a custom directory.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears the test override. Call from test cleanup.
func Reset() {
	configDirOverride = ""
}
