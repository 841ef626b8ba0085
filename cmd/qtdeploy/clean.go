// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"qtdeploy-cli/internal/bundler"
	"qtdeploy-cli/internal/deploy"
)

// cleanCmd purges the intermediate deployment directory.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the intermediate deployment directory",
	Long: `Remove the deployment directory left behind by a build that used
--keep-deployment-files, or by a build that was interrupted.

The project directory is taken from the qtdeploy.spec file; without a spec
file the current directory is assumed to be the project directory.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVarP(&specFile, "spec", "c", "", "path to the deployment spec file")
}

func runClean(cmd *cobra.Command, args []string) error {
	projectDir, err := cleanProjectDir()
	if err != nil {
		return err
	}

	target := filepath.Join(projectDir, bundler.DeploymentDirName)
	if _, err := os.Stat(target); os.IsNotExist(err) {
		fmt.Println(SubtitleStyle.Render("Nothing to clean."))
		return nil
	}

	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("failed to remove %s: %w", target, err)
	}

	fmt.Printf("%s Removed %s\n", SuccessStyle.Render("✓"), target)
	return nil
}

// cleanProjectDir derives the project directory from the spec file when one
// exists, falling back to the working directory.
func cleanProjectDir() (string, error) {
	specPath := specFile
	if specPath == "" {
		var err error
		if specPath, err = deploy.DefaultSpecPath(""); err != nil {
			return "", err
		}
	}

	spec, err := deploy.LoadSpec(specPath)
	if err != nil {
		return "", err
	}

	if dir, ok := spec.Get(deploy.SectionApp, "project_dir"); ok && spec.Existing {
		if abs, err := filepath.Abs(dir); err == nil {
			return abs, nil
		}
		return dir, nil
	}

	return os.Getwd()
}
