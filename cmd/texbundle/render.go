// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/texbundle/texbundle/internal/bundle"
	"github.com/texbundle/texbundle/internal/issue"
)

// renderResult prints the closing summary of a run.
func renderResult(w io.Writer, res *bundle.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, TitleStyle.Render(res.Main)+SubtitleStyle.Render(fmt.Sprintf("  %d file(s)", len(res.Manifest))))

	for _, p := range res.Presence {
		if p.Present {
			fmt.Fprintf(w, "  %s %s\n", SuccessStyle.Render("✓"), p.Name)
		} else {
			fmt.Fprintf(w, "  %s %s\n", ErrorStyle.Render("✗"), p.Name)
		}
	}

	missing := missingFiles(res)
	if len(missing) > 0 {
		fmt.Fprintln(w, WarningStyle.Render(fmt.Sprintf("Not found (%d):", len(missing))))
		for _, m := range missing {
			fmt.Fprintf(w, "  %s %s\n", ErrorStyle.Render("✗"), m)
		}
	}

	if res.ArchivePath != "" {
		fmt.Fprintf(w, "%s Wrote %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(res.ArchivePath))
	}
	if res.FileListPath != "" {
		fmt.Fprintf(w, "%s File names output to %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(res.FileListPath))
	}
}

// missingFiles lists unresolved includes, unreadable includes, then
// unresolved assets.
func missingFiles(res *bundle.Result) []string {
	out := slices.Concat(res.MissingIncludes, res.UnreadableIncludes)
	if res.Scan != nil {
		out = append(out, res.Scan.Missing()...)
	}
	return out
}

// renderIssue writes the glamour-rendered catalog entry for id to w.
func renderIssue(w io.Writer, id issue.Id, style string) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(style)
	if err != nil {
		log.Warn("failed to render issue catalog entry", "issueID", id, "err", err)
		return
	}
	fmt.Fprint(w, rendered)
}
