// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Theme represents the visual theme for prompts.
type Theme string

const (
	// ThemeDefault uses the default huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeBase16 uses the Base16 theme.
	ThemeBase16 Theme = "base16"
)

// Config holds common configuration for prompts.
type Config struct {
	// Theme specifies the visual theme to use.
	Theme Theme
	// Accessible enables huh's plain-text accessible mode.
	Accessible bool
	// Input is where answers are read from. nil means os.Stdin.
	Input io.Reader
	// Output is where the prompt is drawn. nil means os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the configuration used by the CLI. Accessible mode is
// switched on when stdin is not a terminal or ACCESSIBLE is set. Prompts go to
// stderr so they never end up in a redirected file list or report.
func DefaultConfig() Config {
	return Config{
		Theme:      ThemeCharm,
		Accessible: !isInputTerminal() || os.Getenv("ACCESSIBLE") != "",
		Input:      os.Stdin,
		Output:     os.Stderr,
	}
}

func isInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func huhTheme(t Theme) *huh.Theme {
	switch t {
	case ThemeCharm:
		return huh.ThemeCharm()
	case ThemeDracula:
		return huh.ThemeDracula()
	case ThemeBase16:
		return huh.ThemeBase16()
	default:
		return huh.ThemeBase()
	}
}
