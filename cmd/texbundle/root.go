// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the texbundle command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/texbundle/texbundle/internal/manifest"
	"github.com/texbundle/texbundle/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the flag values of a single invocation.
type rootFlags struct {
	noArchive  bool
	outputList bool
	fileOut    string
	dir        string
	watch      bool
	strict     bool
	verbose    bool
	configFile string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "texbundle [main[.tex]] [archive]",
		Short: "Bundle a LaTeX document with everything it references",
		Long: TitleStyle.Render("texbundle") + SubtitleStyle.Render(" - bundle a LaTeX document for submission") + `

texbundle reads the main document, follows \input and \include two levels
deep, and collects the graphics (\includegraphics, \plotone, \plottwo,
\epsfig, \psfig, \epsfbox) and bibliography databases it references.
The result is written as a gzip-compressed tar archive, checked in place,
or listed in a plain text file for rsync --files-from.

When no main document is named, the *.tex files of the directory are
offered for selection.

` + SubtitleStyle.Render("Examples:") + `
  texbundle                       Pick the main document interactively
  texbundle paper                 Write paper.tar.gz
  texbundle paper submission      Write submission.tar.gz
  texbundle paper -n -o           Check files, write rsync_include.txt
  texbundle -C ~/papers/draft -w  Rebuild on every change`,
		Args:          cobra.RangeArgs(0, 2),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := bundleRequest{flags: *flags}
			if len(args) > 0 {
				req.document = args[0]
			}
			if len(args) > 1 {
				req.archiveName = args[1]
			}
			return runBundle(cmd.Context(), app, req)
		},
	}

	f := root.Flags()
	f.BoolVarP(&flags.noArchive, "notar", "n", false, "check that every file exists instead of writing an archive")
	f.BoolVarP(&flags.outputList, "ofiles", "o", false, "write the file list")
	f.StringVarP(&flags.fileOut, "fileout", "f", "", "file list path (default from config, "+manifest.DefaultFileList+")")
	f.StringVarP(&flags.dir, "dir", "C", "", "run in this directory")
	f.BoolVarP(&flags.watch, "watch", "w", false, "rebuild whenever a source, figure or bibliography changes")
	f.BoolVar(&flags.strict, "strict", false, "exit with status 2 when any referenced file is missing")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default is <config dir>/texbundle/config.cue)")

	root.AddCommand(newConfigCommand(app, flags))

	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the status carried by the error.
// It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}
