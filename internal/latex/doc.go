// SPDX-License-Identifier: MPL-2.0

// Package latex discovers the files a LaTeX document depends on.
//
// The work is a single linear pass over source lines:
//
//   - Strip removes comment text so that commented-out directives are never seen.
//   - Resolver.Expand replaces \input and \include lines with the (stripped)
//     contents of the referenced file, down to a bounded nesting depth.
//   - Scanner.Scan applies the graphics and bibliography directive rules to the
//     expanded lines and resolves each reference to a file on disk.
//
// All file access goes through an afero.Fs so the whole pass can run against an
// in-memory filesystem. Nothing in this package logs; missing files are reported
// in the returned results and left to the caller to diagnose.
package latex
