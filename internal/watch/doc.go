// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a bundle when its sources change.
//
// A Watcher registers every non-ignored directory below BaseDir with fsnotify
// and collects changes to LaTeX sources, bibliography databases and graphics.
// Changes arriving within the debounce window are coalesced into one OnChange
// call. Build artefacts and the bundle's own outputs never trigger a run.
package watch
