// SPDX-License-Identifier: MPL-2.0

// Package types holds small value types shared by the texbundle packages.
package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitSuccess means the bundle was produced.
	ExitSuccess ExitCode = 0
	// ExitFailure is returned for fatal errors: no document, bad config,
	// unwritable output.
	ExitFailure ExitCode = 1
	// ExitMissingFiles is returned in strict mode when any referenced file
	// could not be found.
	ExitMissingFiles ExitCode = 2
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code in the POSIX range 0-255.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether c is ExitSuccess.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// String returns the decimal representation of c.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
