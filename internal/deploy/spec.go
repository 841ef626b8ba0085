// SPDX-License-Identifier: MPL-2.0

package deploy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	// SpecFileName is the canonical deployment spec file name.
	SpecFileName = "qtdeploy.spec"

	// SectionApp holds application identity and layout settings.
	SectionApp = "app"
	// SectionPython holds interpreter and package settings.
	SectionPython = "python"
	// SectionQt holds QML file and plugin settings.
	SectionQt = "qt"
	// SectionNuitka holds bundler pass-through settings.
	SectionNuitka = "nuitka"

	// commentPrefix marks comment lines in spec files.
	commentPrefix = "/"
)

// Spec is the in-memory view of a deployment spec file. Mutations stay in
// memory until Save rewrites the file wholesale; there is no incremental
// append.
type Spec struct {
	// Path is where the spec file lives (or will live on first Save).
	Path string
	// Existing reports whether the file was present on load. Several
	// resolution branches only trust file values from a pre-existing spec.
	Existing bool

	file *ini.File
}

// LoadSpec reads the spec file at path, or starts an empty spec bound to
// that path when the file does not exist yet.
func LoadSpec(path string) (*Spec, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve spec path %s: %w", path, err)
	}

	raw, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		return &Spec{Path: abs, file: ini.Empty()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file %s: %w", abs, err)
	}

	f, err := ini.Load(stripComments(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse spec file %s: %w", abs, err)
	}

	return &Spec{Path: abs, Existing: true, file: f}, nil
}

// stripComments removes lines whose first non-blank rune is the spec comment
// prefix, leaving standard INI content for the parser.
func stripComments(raw []byte) []byte {
	lines := strings.Split(string(raw), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), commentPrefix) {
			continue
		}
		kept = append(kept, line)
	}
	return []byte(strings.Join(kept, "\n"))
}

// Get returns the value of section.key. The second return is false when the
// section or key is absent, or the value is empty; absence is a recoverable
// state, not an error.
func (s *Spec) Get(section, key string) (string, bool) {
	sec, err := s.file.GetSection(section)
	if err != nil {
		return "", false
	}
	if !sec.HasKey(key) {
		return "", false
	}
	val := sec.Key(key).String()
	return val, val != ""
}

// Set stores value under section.key in memory, creating the section as
// needed. Within a section the key is unique; the last write wins.
func (s *Spec) Set(section, key, value string) {
	s.file.Section(section).Key(key).SetValue(value)
}

// GetList returns a comma-separated value split into its entries.
func (s *Spec) GetList(section, key string) ([]string, bool) {
	val, ok := s.Get(section, key)
	if !ok {
		return nil, false
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out, len(out) > 0
}

// SetList stores entries as a comma-separated value.
func (s *Spec) SetList(section, key string, entries []string) {
	s.Set(section, key, strings.Join(entries, ","))
}

// Save rewrites the spec file from the in-memory state. The write replaces
// the file contents; it never appends.
func (s *Spec) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create spec directory: %w", err)
	}
	if err := s.file.SaveTo(s.Path); err != nil {
		return fmt.Errorf("failed to write spec file %s: %w", s.Path, err)
	}
	s.Existing = true
	return nil
}

// DefaultSpecPath returns where the spec file for mainFile belongs: next to
// the main file when one is given, otherwise in the current directory.
func DefaultSpecPath(mainFile string) (string, error) {
	if mainFile != "" {
		abs, err := filepath.Abs(mainFile)
		if err != nil {
			return "", fmt.Errorf("failed to resolve main file path %s: %w", mainFile, err)
		}
		return filepath.Join(filepath.Dir(abs), SpecFileName), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(cwd, SpecFileName), nil
}
