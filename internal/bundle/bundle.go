// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/texbundle/texbundle/internal/archive"
	"github.com/texbundle/texbundle/internal/issue"
	"github.com/texbundle/texbundle/internal/latex"
	"github.com/texbundle/texbundle/internal/locate"
	"github.com/texbundle/texbundle/internal/manifest"
)

// ErrNoLocator is returned when no main document was named (or it could not
// be found) and Options.Locator is nil.
var ErrNoLocator = errors.New("no document locator configured")

type (
	// Options configures a single pipeline run.
	Options struct {
		// Fs is the filesystem every path is resolved against.
		Fs afero.Fs
		// Document is the main document as given by the user, possibly
		// without ".tex". Empty means ask Locator.
		Document string
		// ArchiveName is the requested archive name; empty derives it from
		// the main document.
		ArchiveName string
		// NoArchive reports presence of each manifest entry instead of
		// writing an archive.
		NoArchive bool
		// FileList, when set, is the path the manifest is written to.
		FileList string
		// Locator finds the main document when Document does not resolve.
		Locator locate.DocumentLocator
		// Extensions is the graphics probe order; empty means the default.
		Extensions []string
		// IncludeDepth is the number of include levels expanded; zero means
		// the default.
		IncludeDepth int
		// CompressionLevel is the gzip level for the archive.
		CompressionLevel int
		// Logger receives diagnostics. Nil discards them.
		Logger *log.Logger
	}

	// Result describes what a run found and produced.
	Result struct {
		Main            string
		Includes        []string
		MissingIncludes []string
		// UnreadableIncludes exist but could not be read; they are left out
		// of the manifest.
		UnreadableIncludes []string
		Scan            *latex.ScanResult
		Manifest        manifest.Manifest
		// ArchivePath is set when an archive was written.
		ArchivePath string
		// Presence is set when NoArchive was requested.
		Presence []manifest.Presence
		// FileListPath is set when a file list was written.
		FileListPath string
	}
)

// HasMissing reports whether any include, asset or manifest entry was
// missing, or an include could not be read.
func (r *Result) HasMissing() bool {
	return len(r.MissingIncludes) > 0 ||
		len(r.UnreadableIncludes) > 0 ||
		(r.Scan != nil && len(r.Scan.Missing()) > 0) ||
		len(manifest.Absent(r.Presence)) > 0
}

// Run executes the pipeline once.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	main, err := resolveMain(ctx, opts, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Main document", "file", main)

	lines, err := latex.ReadLines(opts.Fs, main)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read main document").
			WithResource(main).
			Wrap(err).
			BuildError()
	}

	resolver := &latex.Resolver{Fs: opts.Fs, Depth: opts.IncludeDepth}
	exp := resolver.Expand(latex.Strip(lines))
	res := &Result{
		Main:               main,
		Includes:           exp.Files,
		MissingIncludes:    exp.Missing,
		UnreadableIncludes: exp.Unreadable,
	}
	reportStage(logger, "include", exp.Files, exp.Missing)
	for _, f := range exp.Unreadable {
		logger.Warn("Unreadable include file", "file", f)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scanner := &latex.Scanner{Fs: opts.Fs, Extensions: opts.Extensions}
	res.Scan = scanner.Scan(exp.Lines)
	reportStage(logger, "graphics", res.Scan.Graphics, res.Scan.MissingGraphics)
	reportStage(logger, "bibliography", res.Scan.Bibliography, res.Scan.MissingBibliography)

	res.Manifest = manifest.Build(main, exp.Files, res.Scan.Assets())

	if opts.NoArchive {
		res.Presence = res.Manifest.Verify(opts.Fs)
		for _, p := range res.Presence {
			if p.Present {
				logger.Info("Present", "file", p.Name)
			} else {
				logger.Warn("Absent", "file", p.Name)
			}
		}
	} else {
		path := manifest.ArchiveName(main, opts.ArchiveName)
		logger.Info("Writing tar file", "archive", path, "entries", len(res.Manifest))
		err := archive.Write(opts.Fs, path, res.Manifest, archive.Options{
			CompressionLevel: opts.CompressionLevel,
			OnAdd:            func(name string) { logger.Debug("Adding", "file", name) },
		})
		if err != nil {
			return res, issue.NewErrorContext().
				WithOperation("write archive").
				WithResource(path).
				WithIssue(issue.ArchiveWriteFailedId).
				WithSuggestion("Check that every listed file is readable").
				WithSuggestion("Check that the target directory is writable").
				Wrap(err).
				BuildError()
		}
		res.ArchivePath = path
	}

	if opts.FileList != "" {
		if err := res.Manifest.WriteList(opts.Fs, opts.FileList); err != nil {
			return res, issue.NewErrorContext().
				WithOperation("write file list").
				WithResource(opts.FileList).
				WithIssue(issue.FileListWriteFailedId).
				Wrap(err).
				BuildError()
		}
		res.FileListPath = opts.FileList
		logger.Info("Wrote file list", "path", opts.FileList, "entries", len(res.Manifest))
	}

	return res, nil
}

// resolveMain returns the main document: the named file, the named file
// with ".tex", or whatever the locator picks.
func resolveMain(ctx context.Context, opts Options, logger *log.Logger) (string, error) {
	if opts.Document != "" {
		if main, ok := locate.ResolveMain(opts.Fs, opts.Document); ok {
			return main, nil
		}
		logger.Warn(fmt.Sprintf("Neither %s nor %s.tex found", opts.Document, opts.Document))
	}

	if opts.Locator == nil {
		return "", issue.NewErrorContext().
			WithOperation("locate main document").
			WithResource(opts.Document).
			WithIssue(issue.NoDocumentFoundId).
			Wrap(ErrNoLocator).
			BuildError()
	}

	main, err := opts.Locator.Locate(ctx)
	switch {
	case err == nil:
		return main, nil
	case errors.Is(err, locate.ErrNoDocument):
		return "", issue.NewErrorContext().
			WithOperation("locate main document").
			WithIssue(issue.NoDocumentFoundId).
			WithSuggestion("Pass the main .tex file as the first argument").
			Wrap(err).
			BuildError()
	case errors.Is(err, locate.ErrInvalidSelection):
		return "", issue.NewErrorContext().
			WithOperation("select main document").
			WithIssue(issue.InvalidSelectionId).
			Wrap(err).
			BuildError()
	default:
		return "", fmt.Errorf("locate main document: %w", err)
	}
}

// reportStage logs each resolved file at debug level, each missing one as a
// warning, and a closing summary of everything missing from the stage.
func reportStage(logger *log.Logger, stage string, found, missing []string) {
	for _, f := range found {
		logger.Debug("Found "+stage+" file", "file", f)
	}
	for _, m := range missing {
		logger.Warn("Missing "+stage+" file", "file", m)
	}
	if len(missing) > 0 {
		logger.Warn(fmt.Sprintf("%d %s file(s) not found", len(missing), stage), "files", missing)
	}
}
