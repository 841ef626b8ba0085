// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"qtdeploy-cli/internal/bundler"
	"qtdeploy-cli/internal/config"
	"qtdeploy-cli/internal/deploy"
	"qtdeploy-cli/internal/icons"
	"qtdeploy-cli/internal/issue"
	"qtdeploy-cli/internal/python"
	"qtdeploy-cli/internal/scanner"
)

var (
	specFile    string
	buildDryRun bool
	buildForce  bool
	buildKeep   bool
	buildName   string

	// buildCmd runs the full deployment pipeline.
	buildCmd = &cobra.Command{
		Use:   "build [main_file]",
		Short: "Deploy an application as a standalone executable",
		Long: `Deploy a Qt for Python application as a standalone executable.

Resolution prefers command-line values, then values already present in the
qtdeploy.spec file, then filesystem discovery. Everything that was resolved
is written back to the spec file, so a second run needs no arguments at all.

Examples:
  qtdeploy build main.py               Deploy main.py
  qtdeploy build                       Deploy using an existing qtdeploy.spec
  qtdeploy build -c other.spec         Deploy from a specific spec file
  qtdeploy build --dry-run main.py     Print the bundler command and stop
  qtdeploy build --name MyApp main.py  Override the application title`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBuild,
	}
)

func init() {
	buildCmd.Flags().StringVarP(&specFile, "spec", "c", "", "path to the deployment spec file")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "print the bundler command without running it")
	buildCmd.Flags().BoolVarP(&buildForce, "force", "f", false, "skip all confirmation prompts")
	buildCmd.Flags().BoolVar(&buildKeep, "keep-deployment-files", false, "keep the intermediate deployment directory")
	buildCmd.Flags().StringVar(&buildName, "name", "", "application name used for the executable")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	mainFile := ""
	if len(args) > 0 {
		mainFile = args[0]
	}

	spec, settings, err := resolveSettings(ctx, mainFile)
	if err != nil {
		return buildFailure(err)
	}

	py := python.NewExecutable(settings.Interpreter, buildDryRun)

	// Deploying against the system interpreter drags far more packages into
	// the bundle than a project venv would; give the user a way out.
	if !py.InVenv() && !buildForce && !buildDryRun {
		ok, err := confirm("You are not using a virtual environment. Proceed anyway?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(SubtitleStyle.Render("Deployment canceled."))
			return nil
		}
	}

	if err := py.Install(ctx, settings.Packages); err != nil {
		return err
	}

	if !buildDryRun && !py.HasModule(ctx, "nuitka") {
		renderIssue(issue.BundlerNotFoundId)
		return &ExitError{Code: 1, Err: fmt.Errorf("bundler not available for %s", settings.Interpreter)}
	}

	if err := spec.Save(); err != nil {
		return err
	}
	if verbose {
		fmt.Printf("%s Saved deployment spec to %s\n", SuccessStyle.Render("✓"), spec.Path)
	}

	b := bundler.New(buildDryRun)

	cmdStr, err := b.Run(ctx, settings)
	if err != nil {
		return err
	}

	if buildDryRun {
		fmt.Println(CmdStyle.Render(cmdStr))
		return nil
	}

	exe, err := b.Finalize(settings)
	if err != nil {
		return err
	}

	if !buildKeep {
		if err := b.Cleanup(settings); err != nil {
			return err
		}
	}

	fmt.Printf("%s Executable created at %s\n", SuccessStyle.Render("✓"), exe)
	return nil
}

// resolveSettings loads the spec file and resolves the full deployment
// settings from flags, file values and discovery. The returned spec holds
// every resolved value in memory; the caller decides when to persist it.
func resolveSettings(ctx context.Context, mainFile string) (*deploy.Spec, *deploy.Settings, error) {
	specPath := specFile
	if specPath == "" {
		var err error
		if specPath, err = deploy.DefaultSpecPath(mainFile); err != nil {
			return nil, nil, err
		}
	}

	spec, err := deploy.LoadSpec(specPath)
	if err != nil {
		return nil, nil, err
	}

	// Without a main file argument the spec file must already carry one.
	if mainFile == "" && !spec.Existing {
		renderIssue(issue.SpecNotFoundId)
		return nil, nil, &ExitError{Code: 1, Err: fmt.Errorf("no spec file found at %s", specPath)}
	}

	interpreter := ""
	if _, ok := spec.Get(deploy.SectionPython, "python_path"); !ok {
		if interpreter, err = python.Discover(); err != nil {
			renderIssue(issue.InterpreterNotFoundId)
			return nil, nil, &ExitError{Code: 1, Err: err}
		}
	}

	defaultIcon, err := materializeDefaultIcon()
	if err != nil {
		return nil, nil, err
	}

	opts := deploy.Options{
		SourceFile:            mainFile,
		Interpreter:           interpreter,
		ExcludedPluginCatalog: toolCfg.Qml.ExcludedPluginCatalog,
		AssetThreshold:        toolCfg.Qml.AssetThreshold,
		DependencyDirMarker:   toolCfg.Qml.DependencyDirMarker,
		DefaultIcon:           defaultIcon,
		DefaultExtraArgs:      toolCfg.Bundler.ExtraArgs,
		DefaultPackages:       toolCfg.Bundler.Packages,
	}
	if explicit, ok := spec.Get(deploy.SectionPython, "python_path"); ok && interpreter == "" {
		opts.Scanner = scanner.NewExecScanner(explicit)
	} else {
		opts.Scanner = scanner.NewExecScanner(interpreter)
	}

	settings, err := deploy.Resolve(ctx, spec, opts)
	if err != nil {
		return nil, nil, err
	}

	if buildName != "" {
		settings.Title = buildName
		spec.Set(deploy.SectionApp, "title", buildName)
	}

	return spec, settings, nil
}

// materializeDefaultIcon unpacks the bundled icon into the tool config
// directory so the bundler can reference it by path.
func materializeDefaultIcon() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return icons.Materialize(filepath.Join(dir, "icons"))
}

// buildFailure maps known resolution errors to their rendered issue cards
// and a non-zero exit.
func buildFailure(err error) error {
	switch {
	case errors.Is(err, deploy.ErrAmbiguousDescriptor):
		renderIssue(issue.AmbiguousDescriptorId)
	case errors.Is(err, deploy.ErrTooManyAssets):
		renderIssue(issue.TooManyAssetsId)
	case errors.Is(err, scanner.ErrToolNotFound):
		renderIssue(issue.ScannerNotFoundId)
	default:
		return err
	}
	return &ExitError{Code: 1, Err: err}
}

// renderCard is a seam for tests to exercise the rendering fallback.
var renderCard = func(card *issue.Issue) (string, error) {
	return card.Render("dark")
}

// renderIssue prints the actionable issue card for id to stderr, falling
// back to the raw card text when markdown rendering fails.
func renderIssue(id issue.Id) {
	card := issue.Get(id)
	rendered, err := renderCard(card)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:")+string(card.MarkdownMsg()))
		return
	}
	fmt.Fprint(os.Stderr, rendered)
}

// confirm asks a yes/no question on stdin, defaulting to yes.
func confirm(prompt string) (bool, error) {
	fmt.Printf("%s [Y/n] ", WarningStyle.Render(prompt))

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
