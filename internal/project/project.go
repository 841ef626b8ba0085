// SPDX-License-Identifier: MPL-2.0

// Package project parses .pyproject descriptor files: small JSON manifests
// listing the source and asset files that make up a Qt for Python project.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DescriptorExt is the file extension of project descriptor files.
const DescriptorExt = ".pyproject"

type (
	// Data is a parsed project descriptor. File entries are kept as written;
	// accessors resolve them against the descriptor's directory.
	Data struct {
		// DescriptorFile is the absolute path of the parsed descriptor.
		DescriptorFile string
		// Files are the entries listed in the descriptor, as written.
		Files []string
	}

	descriptorJSON struct {
		Files []string `json:"files"`
	}
)

// Load reads and parses the descriptor at path.
func Load(path string) (*Data, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve descriptor path %s: %w", path, err)
	}

	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor %s: %w", abs, err)
	}

	var parsed descriptorJSON
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor %s: %w", abs, err)
	}

	return &Data{
		DescriptorFile: abs,
		Files:          parsed.Files,
	}, nil
}

// Dir returns the directory containing the descriptor.
func (d *Data) Dir() string {
	return filepath.Dir(d.DescriptorFile)
}

// QmlFiles returns the absolute paths of the .qml entries.
func (d *Data) QmlFiles() []string {
	return d.filesWithExt(".qml")
}

// SubProjectFiles returns the absolute paths of nested descriptor entries.
// Callers decide how deep to recurse; the deployment resolver goes one level.
func (d *Data) SubProjectFiles() []string {
	return d.filesWithExt(DescriptorExt)
}

func (d *Data) filesWithExt(ext string) []string {
	var out []string
	for _, f := range d.Files {
		if strings.EqualFold(filepath.Ext(f), ext) {
			if filepath.IsAbs(f) {
				out = append(out, filepath.Clean(f))
			} else {
				out = append(out, filepath.Join(d.Dir(), f))
			}
		}
	}
	return out
}
