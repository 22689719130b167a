// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"testing"

	"github.com/spf13/afero"
)

func TestMemFS(t *testing.T) {
	t.Parallel()

	fsys := MemFS(t, map[string]string{"a.tex": "hello", "dir/b.tex": ""})

	got, err := afero.ReadFile(fsys, "a.tex")
	if err != nil || string(got) != "hello" {
		t.Errorf("a.tex = %q, %v", got, err)
	}
	if ok, err := afero.DirExists(fsys, "dir"); !ok || err != nil {
		t.Errorf("dir exists = %v, %v", ok, err)
	}
}

func TestMemFiles(t *testing.T) {
	t.Parallel()

	fsys := MemFiles(t, "x.tex", "y.pdf")
	for _, name := range []string{"x.tex", "y.pdf"} {
		if ok, _ := afero.Exists(fsys, name); !ok {
			t.Errorf("%s missing", name)
		}
	}
}
