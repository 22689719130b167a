// SPDX-License-Identifier: MPL-2.0

// Package bundle runs the texbundle pipeline: resolve the main document, strip
// comments, expand includes, scan for graphics and bibliography files, then
// archive the resulting manifest or report which entries are present.
//
// Missing includes and assets are diagnosed through the logger and carried in
// the Result; only an unresolvable main document or an output failure is an
// error.
package bundle
