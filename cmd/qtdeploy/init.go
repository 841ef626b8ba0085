// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// initCmd resolves and saves the deployment spec without bundling.
var initCmd = &cobra.Command{
	Use:   "init [main_file]",
	Short: "Create the deployment spec file without building",
	Long: `Create the qtdeploy.spec file next to the application entry point.

All settings are resolved exactly as for a build: missing values are
discovered from the filesystem and written into the file. The bundler is
never invoked. Edit the resulting file and run 'qtdeploy build' to deploy.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&specFile, "spec", "c", "", "path to the deployment spec file")
}

func runInit(cmd *cobra.Command, args []string) error {
	mainFile := ""
	if len(args) > 0 {
		mainFile = args[0]
	}

	spec, _, err := resolveSettings(cmd.Context(), mainFile)
	if err != nil {
		return buildFailure(err)
	}

	if err := spec.Save(); err != nil {
		return err
	}

	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), spec.Path)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Review the generated spec file and adjust as needed")
	fmt.Println("  2. Run 'qtdeploy build' to deploy the application")

	return nil
}
