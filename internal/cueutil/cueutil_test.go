// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	name?:  string & !=""
	level?: int & >=0 & <=3
	tags?:  [...string]
}
`

func TestDecodeMap(t *testing.T) {
	t.Parallel()

	m, err := DecodeMap(testSchema, "#Doc", []byte(`name: "x"
level: 2
tags: ["a", "b"]`), "doc.cue")
	if err != nil {
		t.Fatalf("DecodeMap() error: %v", err)
	}
	if m["name"] != "x" {
		t.Errorf("name = %v", m["name"])
	}
	tags, ok := m["tags"].([]any)
	if !ok || len(tags) != 2 {
		t.Errorf("tags = %#v", m["tags"])
	}
}

func TestDecodeMap_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantSub string
	}{
		{"syntax error", `name: `, "doc.cue"},
		{"out of range", `level: 7`, "level"},
		{"unknown field", `color: "red"`, "color"},
		{"wrong type", `name: 3`, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeMap(testSchema, "#Doc", []byte(tt.data), "doc.cue")
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestDecodeMap_MissingDefinition(t *testing.T) {
	t.Parallel()

	if _, err := DecodeMap(testSchema, "#Nope", []byte(`name: "x"`), "doc.cue"); err == nil {
		t.Error("expected an error for a missing definition")
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	if FormatError(nil, "x.cue") != nil {
		t.Error("FormatError(nil) should be nil")
	}

	err := FormatError(errors.New("boom"), "x.cue")
	if err == nil || !strings.Contains(err.Error(), "x.cue") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("FormatError() = %v", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"ui"}, "ui"},
		{[]string{"ui", "verbose"}, "ui.verbose"},
		{[]string{"watch", "ignore", "0"}, "watch.ignore[0]"},
		{[]string{"a", "1", "b", "2"}, "a[1].b[2]"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 10), 10, "f"); err != nil {
		t.Errorf("at the limit should pass: %v", err)
	}
	if err := CheckFileSize(make([]byte, 11), 10, "f"); err == nil {
		t.Error("over the limit should fail")
	}
}
