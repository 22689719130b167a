// SPDX-License-Identifier: MPL-2.0

// Package locate finds the main LaTeX document of a bundle.
//
// Resolution of an explicitly named document is pure (ResolveMain). Anything
// that needs the user's help goes through the DocumentLocator capability, so
// the bundling pipeline itself never talks to a terminal.
package locate

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// DefaultPattern selects candidate documents in the working directory.
const DefaultPattern = "*.tex"

var (
	// ErrNoDocument is returned when no candidate document exists.
	ErrNoDocument = errors.New("no LaTeX document found")
	// ErrInvalidSelection is returned when the user picks nothing usable.
	ErrInvalidSelection = errors.New("invalid document selection")
)

type (
	// DocumentLocator supplies a main document when none was named, or the
	// named one does not exist.
	DocumentLocator interface {
		Locate(ctx context.Context) (string, error)
	}

	// Prompter asks the user to pick one of options.
	Prompter interface {
		Choose(ctx context.Context, title string, options []string) (string, error)
	}

	// DirLocator scans a directory for candidate documents and, when there is
	// more than one, asks a Prompter to pick.
	DirLocator struct {
		// Fs is the directory to scan.
		Fs afero.Fs
		// Pattern is a doublestar glob selecting candidates. Empty means
		// DefaultPattern.
		Pattern string
		// Prompter is asked when a choice is needed. A nil Prompter turns
		// every required choice into ErrInvalidSelection.
		Prompter Prompter
		// AutoSelectSingle picks a lone candidate without prompting.
		AutoSelectSingle bool
	}
)

// ResolveMain maps a document name given by the user to an existing file: the
// name as written, then with ".tex" appended.
func ResolveMain(fsys afero.Fs, name string) (string, bool) {
	if isFile(fsys, name) {
		return name, true
	}
	if withTex := name + ".tex"; isFile(fsys, withTex) {
		return withTex, true
	}
	return "", false
}

// Candidates returns the sorted regular files matching the locator's pattern.
func (l *DirLocator) Candidates() ([]string, error) {
	pattern := l.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	matches, err := doublestar.Glob(afero.NewIOFS(l.Fs), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scan for documents matching %q: %w", pattern, err)
	}
	slices.Sort(matches)
	return matches, nil
}

// Locate returns the chosen main document.
func (l *DirLocator) Locate(ctx context.Context) (string, error) {
	candidates, err := l.Candidates()
	if err != nil {
		return "", err
	}

	switch {
	case len(candidates) == 0:
		return "", ErrNoDocument
	case len(candidates) == 1 && l.AutoSelectSingle:
		return candidates[0], nil
	case l.Prompter == nil:
		return "", fmt.Errorf("%w: %d candidates and no way to ask", ErrInvalidSelection, len(candidates))
	}

	title := fmt.Sprintf("Found %d apparent LaTeX files, choose one:", len(candidates))
	choice, err := l.Prompter.Choose(ctx, title, candidates)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}
	if !slices.Contains(candidates, choice) {
		return "", fmt.Errorf("%w: %q is not a candidate", ErrInvalidSelection, choice)
	}
	return choice, nil
}

func isFile(fsys afero.Fs, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && !info.IsDir()
}
