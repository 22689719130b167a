// SPDX-License-Identifier: MPL-2.0

// Package manifest builds the ordered list of files that make up a bundle and
// implements the ways of consuming it that do not involve the archive itself:
// presence checks and the plain-text file list.
package manifest

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

const (
	// ArchiveSuffix is the suffix every archive name ends with.
	ArchiveSuffix = ".tar.gz"

	// DefaultFileList is the default path of the plain-text file list. The
	// name reflects its main use as an rsync --files-from input.
	DefaultFileList = "rsync_include.txt"

	tarSuffix = ".tar"
)

type (
	// Manifest is the ordered list of files to bundle: the main document,
	// then included sources, then assets. Duplicates are kept.
	Manifest []string

	// Presence records whether a manifest entry exists on disk.
	Presence struct {
		Name    string
		Present bool
	}
)

// Build assembles a manifest from its three parts.
func Build(main string, includes, assets []string) Manifest {
	m := make(Manifest, 0, 1+len(includes)+len(assets))
	m = append(m, main)
	m = append(m, includes...)
	m = append(m, assets...)
	return m
}

// ArchiveName returns the archive path for a bundle. With an empty requested
// name it is derived from main by replacing its extension; otherwise requested
// is normalised so that it ends in ".tar.gz" exactly once.
func ArchiveName(main, requested string) string {
	if requested == "" {
		return strings.TrimSuffix(main, filepath.Ext(main)) + ArchiveSuffix
	}
	switch {
	case strings.HasSuffix(requested, ArchiveSuffix):
		return requested
	case strings.HasSuffix(requested, tarSuffix):
		return requested + ".gz"
	default:
		return requested + ArchiveSuffix
	}
}

// Verify checks every entry against fsys, in manifest order.
func (m Manifest) Verify(fsys afero.Fs) []Presence {
	out := make([]Presence, len(m))
	for i, name := range m {
		info, err := fsys.Stat(name)
		out[i] = Presence{Name: name, Present: err == nil && !info.IsDir()}
	}
	return out
}

// Absent filters presence results down to the missing names.
func Absent(ps []Presence) []string {
	var missing []string
	for _, p := range ps {
		if !p.Present {
			missing = append(missing, p.Name)
		}
	}
	return missing
}

// Contains reports whether name is listed in the manifest.
func (m Manifest) Contains(name string) bool {
	return slices.Contains(m, name)
}

// String renders the manifest as newline-terminated lines.
func (m Manifest) String() string {
	var sb strings.Builder
	for _, name := range m {
		sb.WriteString(name)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteList writes the manifest to path on fsys, one name per line, replacing
// any previous content.
func (m Manifest) WriteList(fsys afero.Fs, path string) error {
	if err := writeFileAtomic(fsys, path, []byte(m.String())); err != nil {
		return fmt.Errorf("write file list %s: %w", path, err)
	}
	return nil
}

// writeFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers never observe a half-written list.
func writeFileAtomic(fsys afero.Fs, path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := afero.TempFile(fsys, dir, "."+base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fsys.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return err
	}
	if err := tmp.Close(); err != nil {
		fsys.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return err
	}
	if err := fsys.Chmod(tmpName, 0o644); err != nil {
		fsys.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return err
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		fsys.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return err
	}
	return nil
}
