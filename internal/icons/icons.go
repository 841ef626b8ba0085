// SPDX-License-Identifier: MPL-2.0

// Package icons ships the default application icon used when a deployment
// spec does not configure one of its own.
package icons

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultIconName is the file name used when materializing the bundled icon.
const DefaultIconName = "qtdeploy_icon.png"

//go:embed qtdeploy_icon.png
var defaultIcon []byte

// Materialize writes the bundled default icon into dir and returns its path.
// The write is skipped when the file already exists with the right size.
func Materialize(dir string) (string, error) {
	path := filepath.Join(dir, DefaultIconName)

	if info, err := os.Stat(path); err == nil && info.Size() == int64(len(defaultIcon)) {
		return path, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create icon directory: %w", err)
	}
	if err := os.WriteFile(path, defaultIcon, 0o644); err != nil {
		return "", fmt.Errorf("failed to write default icon: %w", err)
	}

	return path, nil
}
