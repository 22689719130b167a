// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/texbundle/texbundle/internal/config"
	"github.com/texbundle/texbundle/internal/issue"
)

// Output formats accepted by `config show --format`.
const (
	formatCUE  = "cue"
	formatTOML = "toml"
	formatJSON = "json"
)

// newConfigCommand creates the `texbundle config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage texbundle configuration",
		Long: `Manage texbundle configuration.

Configuration is read from the first file found of:
  - the path given with --config
  - Linux: ~/.config/texbundle/config.cue
    macOS: ~/Library/Application Support/texbundle/config.cue
    Windows: %APPDATA%\texbundle\config.cue
  - ./texbundle.cue

Every key can be overridden with a TEXBUNDLE_ environment variable,
for example TEXBUNDLE_INCLUDE_DEPTH=3 or TEXBUNDLE_UI_VERBOSE=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app, flags, format)
		},
	}
	showCmd.Flags().StringVar(&format, "format", formatCUE, "output format: cue, toml or json")
	cfgCmd.AddCommand(showCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig(app.Fs)
			if err != nil {
				return app.fail(issue.WrapWithContext(err, "create configuration", path), issue.ConfigLoadFailedId, flags.verbose, config.ColorSchemeAuto.Style())
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("•"), CmdStyle.Render(path))
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd, app, flags)
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App, flags *rootFlags, format string) error {
	cfg, source, err := app.Config.LoadWithSource(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configFile})
	if err != nil {
		return app.fail(err, issue.ConfigLoadFailedId, flags.verbose, config.ColorSchemeAuto.Style())
	}

	var out []byte
	switch format {
	case formatCUE:
		header := "// source: (defaults)\n"
		if source != "" {
			header = "// source: " + source + "\n"
		}
		out = []byte(header + config.GenerateCUE(cfg))
	case formatTOML:
		if out, err = toml.Marshal(cfg); err != nil {
			return fmt.Errorf("encode configuration: %w", err)
		}
	case formatJSON:
		if out, err = json.MarshalIndent(cfg, "", "  "); err != nil {
			return fmt.Errorf("encode configuration: %w", err)
		}
		out = append(out, '\n')
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatCUE, formatTOML, formatJSON)
	}

	_, err = app.stdout.Write(out)
	return err
}

func showConfigPath(cmd *cobra.Command, app *App, flags *rootFlags) error {
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("Config file"), cfgPath)
	fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("Local file"), config.LocalConfigFile)

	_, source, err := app.Config.LoadWithSource(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configFile})
	switch {
	case err != nil:
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("In use"), ErrorStyle.Render("invalid ("+err.Error()+")"))
	case source == "":
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("In use"), SubtitleStyle.Render("(defaults)"))
	default:
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("In use"), source)
	}
	return nil
}
