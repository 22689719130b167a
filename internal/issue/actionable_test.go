// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{"operation only", &ActionableError{Operation: "write archive"}, "failed to write archive"},
		{
			"operation with resource",
			&ActionableError{Operation: "write archive", Resource: "paper.tar.gz"},
			"failed to write archive: paper.tar.gz",
		},
		{
			"full context",
			&ActionableError{Operation: "load configuration", Resource: "texbundle.cue", Cause: errors.New("syntax error")},
			"failed to load configuration: texbundle.cue: syntax error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := NewErrorContext().WithOperation("scan").Wrap(fmt.Errorf("inner: %w", sentinel)).BuildError()
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is(err, sentinel) = false")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	root := errors.New("permission denied")
	err := &ActionableError{
		Operation:   "write archive",
		Resource:    "out.tar.gz",
		Suggestions: []string{"Check permissions", "Pick another name"},
		Cause:       fmt.Errorf("rename: %w", root),
	}

	plain := err.Format(false)
	if !strings.Contains(plain, "\n  • Check permissions") || !strings.Contains(plain, "\n  • Pick another name") {
		t.Errorf("Format(false) missing suggestions:\n%s", plain)
	}
	if strings.Contains(plain, "Error chain") {
		t.Errorf("Format(false) should not include the chain:\n%s", plain)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "1. rename: permission denied") || !strings.Contains(verbose, "2. permission denied") {
		t.Errorf("Format(true) chain incomplete:\n%s", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should be nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should be nil")
	}

	ctx := NewErrorContext().WithOperation("locate main document").WithSuggestion("first")
	a := ctx.Build()
	ctx.WithSuggestion("second")
	b := ctx.Build()

	if len(a.Suggestions) != 1 {
		t.Errorf("first build mutated by reuse: %v", a.Suggestions)
	}
	if len(b.Suggestions) != 2 {
		t.Errorf("second build suggestions = %v", b.Suggestions)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should be nil")
	}
	err := WrapWithContext(errors.New("boom"), "read", "main.tex")
	if err.Error() != "failed to read: main.tex: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIssueOf(t *testing.T) {
	t.Parallel()

	inner := NewErrorContext().WithOperation("write archive").WithIssue(ArchiveWriteFailedId).BuildError()
	outer := NewErrorContext().WithOperation("bundle").Wrap(inner).BuildError()

	tests := []struct {
		name string
		err  error
		want Id
	}{
		{"nil", nil, 0},
		{"plain error", errors.New("x"), 0},
		{"direct", inner, ArchiveWriteFailedId},
		{"nested", outer, ArchiveWriteFailedId},
		{"fmt wrapped", fmt.Errorf("ctx: %w", inner), ArchiveWriteFailedId},
		{"no id", WrapWithContext(errors.New("x"), "op", ""), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IssueOf(tt.err); got != tt.want {
				t.Errorf("IssueOf() = %d, want %d", got, tt.want)
			}
		})
	}
}
