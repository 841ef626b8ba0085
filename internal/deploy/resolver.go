// SPDX-License-Identifier: MPL-2.0

package deploy

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"qtdeploy-cli/internal/project"
	"qtdeploy-cli/internal/scanner"
)

type (
	// Options carries the explicit caller inputs and policy knobs for a
	// resolution run. Explicit values always win over spec file values;
	// policy knobs come from the tool configuration so tests can substitute
	// alternate catalogs and thresholds.
	Options struct {
		// SourceFile is the explicit application entry point, may be empty.
		SourceFile string
		// Interpreter is the explicit Python interpreter, may be empty.
		Interpreter string
		// Scanner detects Qt plugin usage in QML files.
		Scanner scanner.Scanner
		// ExcludedPluginCatalog is the set of heavy plugins eligible for exclusion.
		ExcludedPluginCatalog []string
		// AssetThreshold bounds QML discovery before it warns or aborts.
		// Zero disables the check; the tool config always supplies a
		// positive value.
		AssetThreshold int
		// DependencyDirMarker identifies installed-package subtrees.
		// Empty downgrades the over-threshold abort to a warning.
		DependencyDirMarker string
		// DefaultIcon is used when the spec has no icon of its own.
		DefaultIcon string
		// DefaultExtraArgs seed nuitka.extra_args on first resolution.
		DefaultExtraArgs string
		// DefaultPackages seed python.packages on first resolution.
		DefaultPackages []string
		// Logger receives advisory output. Nil means a stderr logger.
		Logger *log.Logger
	}

	// resolver holds the state of a single resolution pass.
	resolver struct {
		spec   *Spec
		opts   Options
		logger *log.Logger
	}
)

// Resolve computes the full Settings for spec: every field prefers the
// explicit caller value, then the existing file value, then filesystem
// discovery. Each resolved field is written back into the spec in memory;
// the caller persists the file with an explicit spec.Save().
func Resolve(ctx context.Context, spec *Spec, opts Options) (*Settings, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "deploy"})
	}

	r := &resolver{spec: spec, opts: opts, logger: logger}
	return r.resolve(ctx)
}

func (r *resolver) resolve(ctx context.Context) (*Settings, error) {
	s := &Settings{}

	var err error
	if s.SourceFile, err = r.setOrFetchPath(SectionApp, "input_file", r.opts.SourceFile); err != nil {
		return nil, err
	}
	if s.Interpreter, err = r.setOrFetchPath(SectionPython, "python_path", r.opts.Interpreter); err != nil {
		return nil, err
	}

	r.resolveTitle(s)
	r.resolveIcon(s)
	r.resolveProjectDir(s)
	r.resolveOutputDir(s)

	if err = r.resolveDescriptor(s); err != nil {
		return nil, err
	}
	if err = r.resolveQmlFiles(s); err != nil {
		return nil, err
	}
	if err = r.resolveExcludedPlugins(ctx, s); err != nil {
		return nil, err
	}

	r.resolveBundlerExtras(s)

	return s, nil
}

// setOrFetchPath applies the set-or-fetch rule to a mandatory path field:
// an explicit value is stored and used, an existing file value is used,
// and absence of both is a fatal error naming the field. Explicit values
// resolve against the working directory, file values against the spec
// file's own directory, since that is what write-back made them relative to.
func (r *resolver) setOrFetchPath(section, key, explicit string) (string, error) {
	if explicit != "" {
		r.spec.Set(section, key, explicit)
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s.%s path %s: %w", section, key, explicit, err)
		}
		return abs, nil
	}

	if val, ok := r.spec.Get(section, key); ok {
		return r.specRelative(val), nil
	}
	return "", &MissingSettingError{Section: section, Key: key}
}

// specRelative turns a path read from the spec file into an absolute one,
// anchoring relative values at the spec file's directory.
func (r *resolver) specRelative(val string) string {
	if filepath.IsAbs(val) {
		return filepath.Clean(val)
	}
	return filepath.Join(filepath.Dir(r.spec.Path), val)
}

func (r *resolver) resolveTitle(s *Settings) {
	if title, ok := r.spec.Get(SectionApp, "title"); ok {
		s.Title = title
		return
	}

	// Default to the source file stem.
	base := filepath.Base(s.SourceFile)
	s.Title = strings.TrimSuffix(base, filepath.Ext(base))
	r.spec.Set(SectionApp, "title", s.Title)
}

func (r *resolver) resolveIcon(s *Settings) {
	if icon, ok := r.spec.Get(SectionApp, "icon"); ok {
		s.Icon = r.specRelative(icon)
	} else {
		s.Icon = r.opts.DefaultIcon
	}
	r.spec.Set(SectionApp, "icon", s.Icon)
}

func (r *resolver) resolveProjectDir(s *Settings) {
	if dir, ok := r.spec.Get(SectionApp, "project_dir"); ok {
		s.ProjectDir = r.specRelative(dir)
		return
	}

	// The only sensible default is the parent directory of the source file.
	s.ProjectDir = filepath.Dir(s.SourceFile)
	r.spec.Set(SectionApp, "project_dir", s.ProjectDir)

	// With the project dir known, the entry point is stored relative to it.
	if rel, err := filepath.Rel(s.ProjectDir, s.SourceFile); err == nil {
		r.spec.Set(SectionApp, "input_file", rel)
	}
}

func (r *resolver) resolveOutputDir(s *Settings) {
	if dir, ok := r.spec.Get(SectionApp, "exec_directory"); ok {
		s.OutputDir = r.specRelative(dir)
		return
	}

	s.OutputDir = s.ProjectDir
	r.spec.Set(SectionApp, "exec_directory", s.OutputDir)
}

func (r *resolver) resolveDescriptor(s *Settings) error {
	if file, ok := r.spec.Get(SectionApp, "project_file"); ok {
		if !filepath.IsAbs(file) {
			file = filepath.Join(s.ProjectDir, file)
		}
		data, err := project.Load(file)
		if err != nil {
			return err
		}
		s.Descriptor = data
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(s.ProjectDir, "*"+project.DescriptorExt))
	if err != nil {
		return fmt.Errorf("failed to scan %s for descriptors: %w", s.ProjectDir, err)
	}

	switch len(matches) {
	case 0:
		r.logger.Info("no project descriptor found, continuing without one",
			"dir", s.ProjectDir)
		return nil
	case 1:
		data, err := project.Load(matches[0])
		if err != nil {
			return err
		}
		s.Descriptor = data
		if rel, err := filepath.Rel(s.ProjectDir, data.DescriptorFile); err == nil {
			r.spec.Set(SectionApp, "project_file", rel)
		}
		r.logger.Info("project descriptor found and set in spec file",
			"file", data.DescriptorFile)
		return nil
	default:
		return &AmbiguousDescriptorError{Dir: s.ProjectDir, Count: len(matches)}
	}
}

func (r *resolver) resolveQmlFiles(s *Settings) error {
	// File values are only trusted when resolving from a pre-existing spec;
	// a freshly initialized one always goes through discovery.
	if entries, ok := r.spec.GetList(SectionQt, "qml_files"); ok && s.ProjectDir != "" && r.spec.Existing {
		for _, entry := range entries {
			if filepath.IsAbs(entry) {
				s.QmlFiles = append(s.QmlFiles, filepath.Clean(entry))
			} else {
				s.QmlFiles = append(s.QmlFiles, filepath.Join(s.ProjectDir, entry))
			}
		}
		return nil
	}

	var err error
	if s.Descriptor != nil {
		s.QmlFiles, err = r.qmlFilesFromDescriptor(s.Descriptor)
	} else {
		s.QmlFiles, err = r.qmlFilesFromGlob(s)
	}
	if err != nil {
		return err
	}

	if len(s.QmlFiles) > 0 {
		rels := make([]string, 0, len(s.QmlFiles))
		for _, f := range s.QmlFiles {
			if rel, err := filepath.Rel(s.ProjectDir, f); err == nil && !strings.HasPrefix(rel, "..") {
				rels = append(rels, rel)
			} else {
				rels = append(rels, f)
			}
		}
		r.spec.SetList(SectionQt, "qml_files", rels)
		r.logger.Info("QML files identified and set in spec file", "count", len(s.QmlFiles))
	}

	return nil
}

// qmlFilesFromDescriptor collects the QML files listed by the descriptor and
// by its nested descriptors, one level deep.
func (r *resolver) qmlFilesFromDescriptor(desc *project.Data) ([]string, error) {
	files := desc.QmlFiles()
	for _, sub := range desc.SubProjectFiles() {
		subData, err := project.Load(sub)
		if err != nil {
			return nil, err
		}
		files = append(files, subData.QmlFiles()...)
	}
	return files, nil
}

// qmlFilesFromGlob discovers QML files by a recursive walk under the source
// directory, minus any virtual-environment subtree, then applies the
// configured threshold policy.
func (r *resolver) qmlFilesFromGlob(s *Settings) ([]string, error) {
	sourceDir := filepath.Dir(s.SourceFile)

	files, err := globQml(sourceDir)
	if err != nil {
		return nil, err
	}

	// A venv rooted inside the source tree drags the QML files shipped with
	// installed packages into the recursive walk; subtract that subtree.
	venvRoot := filepath.Dir(filepath.Dir(s.Interpreter))
	if rel, err := filepath.Rel(sourceDir, venvRoot); err == nil && !strings.HasPrefix(rel, "..") {
		venvFiles, err := globQml(venvRoot)
		if err != nil {
			return nil, err
		}
		excluded := make(map[string]bool, len(venvFiles))
		for _, f := range venvFiles {
			excluded[f] = true
		}
		files = slices.DeleteFunc(files, func(f string) bool { return excluded[f] })
	}

	slices.Sort(files)

	if r.opts.AssetThreshold > 0 && len(files) > r.opts.AssetThreshold {
		if r.opts.DependencyDirMarker != "" && strings.Contains(files[len(files)-1], r.opts.DependencyDirMarker) {
			return nil, &TooManyAssetsError{
				Count:     len(files),
				Threshold: r.opts.AssetThreshold,
				Marker:    r.opts.DependencyDirMarker,
			}
		}
		r.logger.Warn("discovered an unusually large number of QML files, deployment may fail",
			"count", len(files), "threshold", r.opts.AssetThreshold)
	}

	return files, nil
}

// globQml walks root collecting every .qml file.
func globQml(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".qml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s for QML files: %w", root, err)
	}
	return files, nil
}

func (r *resolver) resolveExcludedPlugins(ctx context.Context, s *Settings) error {
	if entries, ok := r.spec.GetList(SectionQt, "excluded_qml_plugins"); ok && r.spec.Existing {
		s.ExcludedPlugins = entries
		return nil
	}

	// Nothing to scan means nothing to exclude, and no scanner invocation.
	if len(s.QmlFiles) == 0 {
		return nil
	}

	used, err := r.opts.Scanner.Scan(ctx, s.QmlFiles)
	if err != nil {
		return err
	}

	usedSet := make(map[string]bool, len(used))
	for _, m := range used {
		usedSet[m] = true
	}

	var excluded []string
	for _, plugin := range r.opts.ExcludedPluginCatalog {
		if !usedSet[plugin] {
			excluded = append(excluded, plugin)
		}
	}
	slices.Sort(excluded)
	s.ExcludedPlugins = excluded

	if len(excluded) > 0 {
		r.spec.SetList(SectionQt, "excluded_qml_plugins", excluded)
	}

	return nil
}

func (r *resolver) resolveBundlerExtras(s *Settings) {
	if extra, ok := r.spec.Get(SectionNuitka, "extra_args"); ok {
		s.ExtraArgs = extra
	} else {
		s.ExtraArgs = r.opts.DefaultExtraArgs
		r.spec.Set(SectionNuitka, "extra_args", s.ExtraArgs)
	}

	if packages, ok := r.spec.GetList(SectionPython, "packages"); ok {
		s.Packages = packages
	} else {
		s.Packages = r.opts.DefaultPackages
		r.spec.SetList(SectionPython, "packages", s.Packages)
	}
}
