// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// MinIncludeDepth and MaxIncludeDepth bound include_depth.
	MinIncludeDepth = 1
	MaxIncludeDepth = 8
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidValue is the sentinel error wrapped by InvalidValueError.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")

	extensionPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidValueError reports a single field with an unusable value.
	// It wraps ErrInvalidValue for errors.Is() compatibility.
	InvalidValueError struct {
		Field  string
		Value  any
		Reason string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// GraphicsExtensions is the probe order for extension-less graphics.
		GraphicsExtensions []string `json:"graphics_extensions" mapstructure:"graphics_extensions" toml:"graphics_extensions"`
		// IncludeDepth is the number of \input levels expanded.
		IncludeDepth int `json:"include_depth" mapstructure:"include_depth" toml:"include_depth"`
		// FileList configures the plain-text file list output
		FileList FileListConfig `json:"file_list" mapstructure:"file_list" toml:"file_list"`
		// Archive configures the tar.gz output
		Archive ArchiveConfig `json:"archive" mapstructure:"archive" toml:"archive"`
		// Locate configures main-document discovery
		Locate LocateConfig `json:"locate" mapstructure:"locate" toml:"locate"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
		// Watch configures --watch mode
		Watch WatchConfig `json:"watch" mapstructure:"watch" toml:"watch"`
	}

	// FileListConfig configures the file list written with --ofiles.
	FileListConfig struct {
		// Path is the default file list location
		Path string `json:"path" mapstructure:"path" toml:"path"`
	}

	// ArchiveConfig configures archive creation.
	ArchiveConfig struct {
		// CompressionLevel is the gzip level (-1 default, 0-9)
		CompressionLevel int `json:"compression_level" mapstructure:"compression_level" toml:"compression_level"`
	}

	// LocateConfig configures how the main document is found when it is not named.
	LocateConfig struct {
		// AutoSelectSingle skips the prompt when exactly one candidate exists
		AutoSelectSingle bool `json:"auto_select_single" mapstructure:"auto_select_single" toml:"auto_select_single"`
		// Pattern is the doublestar glob selecting candidates
		Pattern string `json:"pattern" mapstructure:"pattern" toml:"pattern"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug-level diagnostics
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
		// ColorScheme selects the style used for rendered issues
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
	}

	// WatchConfig configures --watch mode.
	WatchConfig struct {
		// Debounce is a Go duration string ("500ms")
		Debounce string `json:"debounce" mapstructure:"debounce" toml:"debounce"`
		// ClearScreen clears the terminal before each rebuild
		ClearScreen bool `json:"clear_screen" mapstructure:"clear_screen" toml:"clear_screen"`
		// Ignore lists extra doublestar patterns that never trigger a rebuild
		Ignore []string `json:"ignore" mapstructure:"ignore" toml:"ignore"`
	}
)

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// Validate returns an error if the ColorScheme is not one of the defined schemes.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// Style returns the glamour style name for the scheme.
func (c ColorScheme) Style() string {
	if c == ColorSchemeAuto {
		return "auto"
	}
	return string(c)
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface for InvalidValueError.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: invalid value %v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidValue for errors.Is() compatibility.
func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s): %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DebounceDuration parses Debounce.
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// Validate checks every field, including values that bypassed the CUE schema
// (defaults and environment overrides). All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(field string, value any, reason string) {
		errs = append(errs, &InvalidValueError{Field: field, Value: value, Reason: reason})
	}

	if len(c.GraphicsExtensions) == 0 {
		invalid("graphics_extensions", c.GraphicsExtensions, "at least one extension is required")
	}
	for _, ext := range c.GraphicsExtensions {
		if !extensionPattern.MatchString(ext) {
			invalid("graphics_extensions", ext, "extensions are alphanumeric and written without a dot")
		}
	}
	if c.IncludeDepth < MinIncludeDepth || c.IncludeDepth > MaxIncludeDepth {
		invalid("include_depth", c.IncludeDepth, fmt.Sprintf("must be between %d and %d", MinIncludeDepth, MaxIncludeDepth))
	}
	if strings.TrimSpace(c.FileList.Path) == "" {
		invalid("file_list.path", c.FileList.Path, "must not be empty")
	}
	if c.Archive.CompressionLevel < -1 || c.Archive.CompressionLevel > 9 {
		invalid("archive.compression_level", c.Archive.CompressionLevel, "must be between -1 and 9")
	}
	if !doublestar.ValidatePattern(c.Locate.Pattern) || strings.TrimSpace(c.Locate.Pattern) == "" {
		invalid("locate.pattern", c.Locate.Pattern, "must be a valid glob")
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if d, err := c.Watch.DebounceDuration(); err != nil || d <= 0 {
		invalid("watch.debounce", c.Watch.Debounce, "must be a positive duration")
	}
	for _, pat := range c.Watch.Ignore {
		if !doublestar.ValidatePattern(pat) {
			invalid("watch.ignore", pat, "must be a valid glob")
		}
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}
