// SPDX-License-Identifier: MPL-2.0

package deploy

import (
	"errors"
	"fmt"

	"qtdeploy-cli/internal/project"
)

var (
	// ErrMissingSetting is the sentinel error wrapped by MissingSettingError.
	ErrMissingSetting = errors.New("missing required setting")
	// ErrAmbiguousDescriptor is the sentinel error wrapped by AmbiguousDescriptorError.
	ErrAmbiguousDescriptor = errors.New("ambiguous project descriptor")
	// ErrTooManyAssets is the sentinel error wrapped by TooManyAssetsError.
	ErrTooManyAssets = errors.New("too many QML files")
)

type (
	// Settings is the fully resolved view of a deployment spec. It is
	// computed once per run and not mutated afterwards.
	Settings struct {
		// SourceFile is the absolute path of the application entry point.
		SourceFile string
		// Interpreter is the absolute path of the Python interpreter.
		Interpreter string
		// Title is the application display name.
		Title string
		// Icon is the absolute path of the application icon.
		Icon string
		// ProjectDir is the project root directory.
		ProjectDir string
		// OutputDir is where the final executable is placed.
		OutputDir string
		// Descriptor is the parsed project descriptor, nil when none exists.
		Descriptor *project.Data
		// QmlFiles are the absolute paths of the bundled QML assets.
		QmlFiles []string
		// ExcludedPlugins are the Qt plugins omitted from the bundle, sorted.
		ExcludedPlugins []string
		// ExtraArgs are additional bundler arguments from the spec.
		ExtraArgs string
		// Packages are the Python packages required for bundling.
		Packages []string
	}

	// MissingSettingError reports a mandatory field that was neither supplied
	// by the caller nor present in the spec file.
	// It wraps ErrMissingSetting for errors.Is() compatibility.
	MissingSettingError struct {
		Section string
		Key     string
	}

	// AmbiguousDescriptorError reports more than one descriptor file in the
	// project directory.
	// It wraps ErrAmbiguousDescriptor for errors.Is() compatibility.
	AmbiguousDescriptorError struct {
		Dir   string
		Count int
	}

	// TooManyAssetsError reports a QML discovery result that exceeded the
	// configured threshold inside a dependency-install subtree.
	// It wraps ErrTooManyAssets for errors.Is() compatibility.
	TooManyAssetsError struct {
		Count     int
		Threshold int
		Marker    string
	}
)

// Error returns the error message for MissingSettingError.
func (e *MissingSettingError) Error() string {
	return fmt.Sprintf("no %s.%s specified in spec file or as cli option", e.Section, e.Key)
}

// Unwrap returns the sentinel for errors.Is() checks.
func (e *MissingSettingError) Unwrap() error {
	return ErrMissingSetting
}

// Error returns the error message for AmbiguousDescriptorError.
func (e *AmbiguousDescriptorError) Error() string {
	return fmt.Sprintf("found %d %s files in %s, cannot choose one automatically",
		e.Count, project.DescriptorExt, e.Dir)
}

// Unwrap returns the sentinel for errors.Is() checks.
func (e *AmbiguousDescriptorError) Unwrap() error {
	return ErrAmbiguousDescriptor
}

// Error returns the error message for TooManyAssetsError.
func (e *TooManyAssetsError) Error() string {
	return fmt.Sprintf(
		"discovered %d QML files (threshold %d) from a %s tree; these are installed packages, not project assets",
		e.Count, e.Threshold, e.Marker)
}

// Unwrap returns the sentinel for errors.Is() checks.
func (e *TooManyAssetsError) Unwrap() error {
	return ErrTooManyAssets
}
