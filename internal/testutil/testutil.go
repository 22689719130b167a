// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"testing"

	"github.com/spf13/afero"
)

// MemFS builds an in-memory filesystem from name to content pairs.
// Parent directories are created as needed.
// The test fails immediately if a file cannot be written.
func MemFS(t testing.TB, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		if err := afero.WriteFile(fsys, name, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return fsys
}

// MemFiles is MemFS for trees where only the names matter.
func MemFiles(t testing.TB, names ...string) afero.Fs {
	t.Helper()
	files := make(map[string]string, len(names))
	for _, name := range names {
		files[name] = "x"
	}
	return MemFS(t, files)
}
