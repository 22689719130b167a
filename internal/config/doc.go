// SPDX-License-Identifier: MPL-2.0

// Package config handles texbundle configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/texbundle/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/texbundle/config.cue on macOS,
// %APPDATA%\texbundle\config.cue on Windows), falling back to ./texbundle.cue. The file
// is validated against the embedded config_schema.cue before being merged over the
// defaults; TEXBUNDLE_* environment variables override both.
package config
