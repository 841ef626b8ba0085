// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"qtdeploy-cli/internal/config"
	"qtdeploy-cli/internal/issue"
)

// configCmd is the `qtdeploy config` command tree.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage qtdeploy configuration",
	Long: `Manage qtdeploy configuration.

Configuration is stored in:
  - Linux: ~/.config/qtdeploy/config.toml
  - macOS: ~/Library/Application Support/qtdeploy/config.toml
  - Windows: %APPDATA%\qtdeploy\config.toml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initToolConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), args[0], args[1])
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewProvider().Load(cmd.Context(), config.LoadOptions{})
			if err != nil {
				return err
			}

			fmt.Print(config.GenerateTOML(cfg))
			return nil
		},
	})
}

func showConfig(ctx context.Context) error {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{})
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	cfgDir, dirErr := config.ConfigDir()
	if dirErr == nil {
		cfgPath := filepath.Join(cfgDir, "config.toml")
		if _, statErr := os.Stat(cfgPath); statErr == nil {
			fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), cfgPath)
		} else {
			fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
		}
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s:\n", keyStyle.Render("bundler"))
	fmt.Printf("  extra_args: %s\n", valueStyle.Render(cfg.Bundler.ExtraArgs))
	fmt.Printf("  packages: %s\n", valueStyle.Render(strings.Join(cfg.Bundler.Packages, ", ")))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("qml"))
	fmt.Printf("  excluded_plugin_catalog: %s\n", valueStyle.Render(strings.Join(cfg.Qml.ExcludedPluginCatalog, ", ")))
	fmt.Printf("  asset_threshold: %s\n", valueStyle.Render(strconv.Itoa(cfg.Qml.AssetThreshold)))
	fmt.Printf("  dependency_dir_marker: %s\n", valueStyle.Render(cfg.Qml.DependencyDirMarker))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))

	return nil
}

func initToolConfig() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n",
		SuccessStyle.Render("✓"), filepath.Join(cfgDir, "config.toml"))
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, "config.toml"))
	return nil
}

func setConfigValue(ctx context.Context, key, value string) error {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{})
	if err != nil {
		return err
	}

	switch key {
	case "bundler.extra_args":
		cfg.Bundler.ExtraArgs = value

	case "bundler.packages":
		cfg.Bundler.Packages = splitCommaList(value)

	case "qml.excluded_plugin_catalog":
		cfg.Qml.ExcludedPluginCatalog = splitCommaList(value)

	case "qml.asset_threshold":
		n, convErr := strconv.Atoi(value)
		if convErr != nil {
			return fmt.Errorf("invalid qml.asset_threshold: %q is not a number", value)
		}
		cfg.Qml.AssetThreshold = n

	case "qml.dependency_dir_marker":
		cfg.Qml.DependencyDirMarker = value

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: bundler.extra_args, bundler.packages, qml.excluded_plugin_catalog, qml.asset_threshold, qml.dependency_dir_marker, ui.verbose", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

func splitCommaList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
