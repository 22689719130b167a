// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/texbundle/texbundle/internal/cueutil"
	"github.com/texbundle/texbundle/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "texbundle"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFile is the per-project config file looked up in the working directory.
	LocalConfigFile = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment overrides (TEXBUNDLE_INCLUDE_DEPTH, TEXBUNDLE_UI_VERBOSE, ...).
	EnvPrefix = "TEXBUNDLE"

	schemaDefinition = "#Config"
)

//go:embed config_schema.cue
var configSchema string

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		GraphicsExtensions: []string{"pdf", "png", "jpg", "eps"},
		IncludeDepth:       2,
		FileList:           FileListConfig{Path: "rsync_include.txt"},
		Archive:            ArchiveConfig{CompressionLevel: -1},
		Locate:             LocateConfig{AutoSelectSingle: true, Pattern: "*.tex"},
		UI:                 UIConfig{ColorScheme: ColorSchemeAuto},
		Watch:              WatchConfig{Debounce: "500ms"},
	}
}

// ConfigDir returns the texbundle configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// ConfigFilePath returns the path of the user-level config file.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// newViper returns a Viper instance carrying every default and the
// TEXBUNDLE_ environment binding.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("graphics_extensions", defaults.GraphicsExtensions)
	v.SetDefault("include_depth", defaults.IncludeDepth)
	v.SetDefault("file_list.path", defaults.FileList.Path)
	v.SetDefault("archive.compression_level", defaults.Archive.CompressionLevel)
	v.SetDefault("locate.auto_select_single", defaults.Locate.AutoSelectSingle)
	v.SetDefault("locate.pattern", defaults.Locate.Pattern)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
	v.SetDefault("watch.clear_screen", defaults.Watch.ClearScreen)
	v.SetDefault("watch.ignore", defaults.Watch.Ignore)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	v := newViper()

	resolvedPath, err := resolveConfigPath(fsys, opts)
	if err != nil {
		return nil, "", err
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(fsys, v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'texbundle config show' to see the effective configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the schema, so the decoded result is
	// checked again in Go.
	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check " + EnvPrefix + "_* environment variables for typos").
			WithSuggestion("Run 'texbundle config init' to write a file with valid defaults").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// resolveConfigPath picks the file to load: the explicit path when set
// (it must exist), else the user config, else the local texbundle.cue.
// An empty result means defaults only.
func resolveConfigPath(fsys afero.Fs, opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(fsys, opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'texbundle config show' to see default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		cfgDir = dir
	}

	if p := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(fsys, p) {
		return p, nil
	}
	if fileExists(fsys, LocalConfigFile) {
		return LocalConfigFile, nil
	}
	return "", nil
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into
// Viper, preserving defaults and environment overrides.
func loadCUEIntoViper(fsys afero.Fs, v *viper.Viper, path string) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	configMap, err := cueutil.DecodeMap(configSchema, schemaDefinition, data, path)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

func fileExists(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default config file unless one already
// exists. It returns the file path and whether it was created.
func CreateDefaultConfig(fsys afero.Fs) (string, bool, error) {
	cfgPath, err := ConfigFilePath()
	if err != nil {
		return "", false, err
	}

	if fileExists(fsys, cfgPath) {
		return cfgPath, false, nil
	}

	if err := fsys.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := afero.WriteFile(fsys, cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// texbundle configuration file\n\n")

	sb.WriteString("graphics_extensions: [")
	for i, ext := range cfg.GraphicsExtensions {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", ext)
	}
	sb.WriteString("]\n")
	fmt.Fprintf(&sb, "include_depth: %d\n", cfg.IncludeDepth)

	fmt.Fprintf(&sb, "\nfile_list: {\n\tpath: %q\n}\n", cfg.FileList.Path)
	fmt.Fprintf(&sb, "\narchive: {\n\tcompression_level: %d\n}\n", cfg.Archive.CompressionLevel)

	sb.WriteString("\nlocate: {\n")
	fmt.Fprintf(&sb, "\tauto_select_single: %v\n", cfg.Locate.AutoSelectSingle)
	fmt.Fprintf(&sb, "\tpattern: %q\n", cfg.Locate.Pattern)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	sb.WriteString("\nwatch: {\n")
	fmt.Fprintf(&sb, "\tdebounce: %q\n", cfg.Watch.Debounce)
	fmt.Fprintf(&sb, "\tclear_screen: %v\n", cfg.Watch.ClearScreen)
	sb.WriteString("\tignore: [")
	for i, pat := range cfg.Watch.Ignore {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", pat)
	}
	sb.WriteString("]\n}\n")

	return sb.String()
}
