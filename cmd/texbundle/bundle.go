// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/texbundle/texbundle/internal/bundle"
	"github.com/texbundle/texbundle/internal/config"
	"github.com/texbundle/texbundle/internal/issue"
	"github.com/texbundle/texbundle/internal/locate"
	"github.com/texbundle/texbundle/internal/manifest"
	"github.com/texbundle/texbundle/internal/watch"
	"github.com/texbundle/texbundle/pkg/types"
)

// bundleRequest captures one invocation of the root command.
type bundleRequest struct {
	flags       rootFlags
	document    string
	archiveName string
}

// runBundle loads configuration, runs the pipeline once and, with --watch,
// keeps re-running it until the context is cancelled.
func runBundle(ctx context.Context, app *App, req bundleRequest) error {
	cfg, _, err := app.Config.LoadWithSource(ctx, config.LoadOptions{ConfigFilePath: req.flags.configFile})
	if err != nil {
		return app.fail(err, issue.ConfigLoadFailedId, req.flags.verbose, config.ColorSchemeAuto.Style())
	}
	verbose := req.flags.verbose || cfg.UI.Verbose
	style := cfg.UI.ColorScheme.Style()

	logger := log.NewWithOptions(app.stdout, log.Options{Prefix: "texbundle"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	fsys := app.docFs(req.flags.dir)
	opts := bundle.Options{
		Fs:          fsys,
		Document:    req.document,
		ArchiveName: req.archiveName,
		NoArchive:   req.flags.noArchive,
		Locator: &locate.DirLocator{
			Fs:               fsys,
			Pattern:          cfg.Locate.Pattern,
			Prompter:         app.Prompter,
			AutoSelectSingle: cfg.Locate.AutoSelectSingle,
		},
		Extensions:       cfg.GraphicsExtensions,
		IncludeDepth:     cfg.IncludeDepth,
		CompressionLevel: cfg.Archive.CompressionLevel,
		Logger:           logger,
	}
	if req.flags.outputList {
		opts.FileList = req.flags.fileOut
		if opts.FileList == "" {
			opts.FileList = cfg.FileList.Path
		}
	}

	res, err := bundle.Run(ctx, opts)
	if err != nil {
		return app.fail(err, issue.IssueOf(err), verbose, style)
	}
	renderResult(app.stdout, res)

	if req.flags.watch {
		// Later runs reuse the document chosen by the first one.
		opts.Document = res.Main
		return runWatch(ctx, app, cfg, req.flags, opts, logger)
	}

	if req.flags.strict && res.HasMissing() {
		err := issue.NewErrorContext().
			WithOperation("bundle " + res.Main).
			WithIssue(issue.MissingFilesId).
			Wrap(fmt.Errorf("%d referenced file(s) missing", missingCount(res))).
			BuildError()
		renderIssue(app.stderr, issue.MissingFilesId, style)
		return &ExitError{Code: types.ExitMissingFiles, Err: err}
	}

	return nil
}

// runWatch re-runs opts on every relevant change below the document
// directory. Rebuild failures are logged and watching continues.
func runWatch(ctx context.Context, app *App, cfg *config.Config, flags rootFlags, opts bundle.Options, logger *log.Logger) error {
	style := cfg.UI.ColorScheme.Style()
	debounce, err := cfg.Watch.DebounceDuration()
	if err != nil {
		return &ExitError{Code: types.ExitFailure, Err: err}
	}

	var outputs []string
	if opts.FileList != "" {
		outputs = append(outputs, opts.FileList)
	}
	if !opts.NoArchive {
		outputs = append(outputs, manifest.ArchiveName(opts.Document, opts.ArchiveName))
	}

	baseDir := flags.dir
	if baseDir == "" {
		baseDir = "."
	}
	w, err := watch.New(watch.Config{
		BaseDir:     baseDir,
		Extensions:  cfg.GraphicsExtensions,
		Outputs:     outputs,
		Ignore:      cfg.Watch.Ignore,
		Debounce:    debounce,
		ClearScreen: cfg.Watch.ClearScreen,
		Stdout:      app.stdout,
		Logger:      logger,
		OnChange: func(ctx context.Context, changed []string) error {
			logger.Info("Rebuilding", "changed", changed)
			res, err := bundle.Run(ctx, opts)
			if err != nil {
				return err
			}
			renderResult(app.stdout, res)
			return nil
		},
	})
	if err != nil {
		return app.fail(err, issue.WatchFailedId, flags.verbose, style)
	}

	logger.Info("Watching for changes", "dir", filepath.Clean(baseDir))
	if err := w.Run(ctx); err != nil {
		return app.fail(err, issue.WatchFailedId, flags.verbose, style)
	}
	return nil
}

// fail renders catalog guidance for id (if any) and the actionable details
// of err to stderr, then wraps err as a fatal ExitError.
func (a *App) fail(err error, id issue.Id, verbose bool, style string) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if id != 0 {
		renderIssue(a.stderr, id, style)
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) && (len(ae.Suggestions) > 0 || verbose) {
		fmt.Fprintln(a.stderr, WarningStyle.Render(ae.Format(verbose)))
	}
	return &ExitError{Code: types.ExitFailure, Err: err}
}

func missingCount(res *bundle.Result) int {
	n := len(res.MissingIncludes) + len(res.UnreadableIncludes) + len(manifest.Absent(res.Presence))
	if res.Scan != nil {
		n += len(res.Scan.Missing())
	}
	return n
}
