// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/texbundle/texbundle/internal/issue"
)

func loadFrom(t *testing.T, files map[string]string, opts LoadOptions) (*Config, string, error) {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for name, content := range files {
		if err := afero.WriteFile(fsys, name, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	opts.Fs = fsys
	if opts.ConfigDirPath == "" {
		opts.ConfigDirPath = "/home/user/.config/texbundle"
	}
	return NewProvider().LoadWithSource(context.Background(), opts)
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Parallel()

	cfg, src, err := loadFrom(t, nil, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if src != "" {
		t.Errorf("source = %q, want empty", src)
	}

	want := DefaultConfig()
	if !slices.Equal(cfg.GraphicsExtensions, want.GraphicsExtensions) {
		t.Errorf("GraphicsExtensions = %v, want %v", cfg.GraphicsExtensions, want.GraphicsExtensions)
	}
	if cfg.IncludeDepth != 2 {
		t.Errorf("IncludeDepth = %d, want 2", cfg.IncludeDepth)
	}
	if cfg.FileList.Path != "rsync_include.txt" {
		t.Errorf("FileList.Path = %q", cfg.FileList.Path)
	}
	if cfg.Archive.CompressionLevel != -1 {
		t.Errorf("CompressionLevel = %d, want -1", cfg.Archive.CompressionLevel)
	}
	if !cfg.Locate.AutoSelectSingle || cfg.Locate.Pattern != "*.tex" {
		t.Errorf("Locate = %+v", cfg.Locate)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
}

func TestLoadUserConfigOverridesDefaults(t *testing.T) {
	t.Parallel()

	cfgFile := "/home/user/.config/texbundle/config.cue"
	cfg, src, err := loadFrom(t, map[string]string{
		cfgFile: `
include_depth: 3
graphics_extensions: ["pdf", "svg"]
ui: verbose: true
`,
	}, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if src != cfgFile {
		t.Errorf("source = %q, want %q", src, cfgFile)
	}
	if cfg.IncludeDepth != 3 {
		t.Errorf("IncludeDepth = %d, want 3", cfg.IncludeDepth)
	}
	if !slices.Equal(cfg.GraphicsExtensions, []string{"pdf", "svg"}) {
		t.Errorf("GraphicsExtensions = %v", cfg.GraphicsExtensions)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}
	// Untouched keys keep their defaults.
	if cfg.FileList.Path != "rsync_include.txt" {
		t.Errorf("FileList.Path = %q", cfg.FileList.Path)
	}
}

func TestLoadFallsBackToLocalFile(t *testing.T) {
	t.Parallel()

	cfg, src, err := loadFrom(t, map[string]string{
		LocalConfigFile: `file_list: path: "files.txt"`,
	}, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if src != LocalConfigFile {
		t.Errorf("source = %q, want %q", src, LocalConfigFile)
	}
	if cfg.FileList.Path != "files.txt" {
		t.Errorf("FileList.Path = %q, want files.txt", cfg.FileList.Path)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		cfg, _, err := loadFrom(t, map[string]string{
			"/etc/tb.cue":   `archive: compression_level: 9`,
			LocalConfigFile: `archive: compression_level: 1`,
		}, LoadOptions{ConfigFilePath: "/etc/tb.cue"})
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Archive.CompressionLevel != 9 {
			t.Errorf("CompressionLevel = %d, want 9", cfg.Archive.CompressionLevel)
		}
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		_, _, err := loadFrom(t, nil, LoadOptions{ConfigFilePath: "/nope.cue"})
		var ae *issue.ActionableError
		if !errors.As(err, &ae) {
			t.Fatalf("error = %v, want *issue.ActionableError", err)
		}
		if ae.Resource != "/nope.cue" {
			t.Errorf("Resource = %q", ae.Resource)
		}
	})
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantSub string
	}{
		{"depth too large", "include_depth: 20", "include_depth"},
		{"unknown key", `colour: "red"`, "colour"},
		{"bad scheme", `ui: color_scheme: "neon"`, "color_scheme"},
		{"dotted extension", `graphics_extensions: [".pdf"]`, "graphics_extensions"},
		{"bad debounce", `watch: debounce: "soon"`, "debounce"},
		{"syntax", "include_depth: ", "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := loadFrom(t, map[string]string{
				"/home/user/.config/texbundle/config.cue": tt.content,
			}, LoadOptions{})
			if err == nil {
				t.Fatal("Load() error = nil, want schema error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error = %T, want *issue.ActionableError", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("TEXBUNDLE_INCLUDE_DEPTH", "4")
	t.Setenv("TEXBUNDLE_UI_VERBOSE", "true")

	cfg, _, err := loadFrom(t, nil, LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.IncludeDepth != 4 {
		t.Errorf("IncludeDepth = %d, want 4", cfg.IncludeDepth)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}
}

func TestLoadEnvironmentOverrideIsValidated(t *testing.T) {
	t.Setenv("TEXBUNDLE_INCLUDE_DEPTH", "0")

	_, _, err := loadFrom(t, nil, LoadOptions{})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProvider().Load(ctx, LoadOptions{Fs: afero.NewMemMapFs(), ConfigDirPath: "/x"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUERoundTrip(t *testing.T) {
	t.Parallel()

	def := DefaultConfig()
	def.Watch.Ignore = []string{"build/**"}
	cfg, _, err := loadFrom(t, map[string]string{
		"/home/user/.config/texbundle/config.cue": GenerateCUE(def),
	}, LoadOptions{})
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if !slices.Equal(cfg.Watch.Ignore, []string{"build/**"}) {
		t.Errorf("Watch.Ignore = %v", cfg.Watch.Ignore)
	}
	if cfg.Locate.Pattern != def.Locate.Pattern {
		t.Errorf("Locate.Pattern = %q", cfg.Locate.Pattern)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	fsys := afero.NewOsFs()
	path, created, err := CreateDefaultConfig(fsys)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if !created {
		t.Error("created = false on first call")
	}
	if !strings.HasPrefix(path, dir) {
		t.Errorf("path = %q, want under %q", path, dir)
	}

	_, created, err = CreateDefaultConfig(fsys)
	if err != nil {
		t.Fatalf("second CreateDefaultConfig() error = %v", err)
	}
	if created {
		t.Error("created = true on second call")
	}
}
