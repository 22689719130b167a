// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive prompts texbundle shows on a terminal.
//
// Prompts are built on charmbracelet/huh. When stdin is not a terminal, or the
// ACCESSIBLE environment variable is set, huh's accessible mode is used so the
// prompt degrades to numbered plain-text questions on stderr.
package tui
