// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/texbundle/texbundle/internal/config"
	"github.com/texbundle/texbundle/internal/locate"
	"github.com/texbundle/texbundle/internal/tui"
)

type (
	// App is the composition root for the CLI layer. Command handlers reach
	// the filesystem, configuration and the interactive prompt through it.
	App struct {
		Config   ConfigProvider
		Fs       afero.Fs
		Prompter locate.Prompter
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// Fs is the root filesystem; -C narrows it with a BasePathFs.
		Fs       afero.Fs
		Prompter locate.Prompter
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		LoadWithSource(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Prompter == nil {
		cfg := tui.DefaultConfig()
		cfg.Output = deps.Stderr
		deps.Prompter = tui.NewPrompter(cfg)
	}

	return &App{
		Config:   deps.Config,
		Fs:       deps.Fs,
		Prompter: deps.Prompter,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
}

// docFs returns the filesystem the pipeline runs against: the root
// filesystem, or a view rooted at dir.
func (a *App) docFs(dir string) afero.Fs {
	if dir == "" || dir == "." {
		return a.Fs
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return afero.NewBasePathFs(a.Fs, dir)
}
