// SPDX-License-Identifier: MPL-2.0

// Package archive writes and lists gzip-compressed tar archives.
//
// Entries are stored under the exact names they are given, in the order they
// are given, so an archive lists back to the same sequence it was built from,
// duplicates included.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

// ErrNotRegular is returned when an entry names something other than a
// regular file.
var ErrNotRegular = errors.New("not a regular file")

type (
	// Options tunes archive creation.
	Options struct {
		// CompressionLevel is a gzip level from -1 (default) to 9.
		CompressionLevel int
		// OnAdd, when set, is called after each entry is written.
		OnAdd func(name string)
	}

	// EntryError reports the entry that stopped archive creation.
	EntryError struct {
		Name string
		Err  error
	}
)

// Error implements the error interface.
func (e *EntryError) Error() string {
	return fmt.Sprintf("add %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EntryError) Unwrap() error { return e.Err }

// Write creates the archive at path on fsys containing names, read from fsys.
// The archive is assembled in a temporary file beside path and renamed into
// place only once every entry was written; on failure nothing is left behind
// and an existing archive at path is untouched.
func Write(fsys afero.Fs, path string, names []string, opts Options) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := afero.TempFile(fsys, dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create archive %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			fsys.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		}
	}()

	gz, err := gzip.NewWriterLevel(tmp, opts.CompressionLevel)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", path, err)
	}
	tw := tar.NewWriter(gz)

	for _, name := range names {
		if err := addFile(fsys, tw, name); err != nil {
			return &EntryError{Name: name, Err: err}
		}
		if opts.OnAdd != nil {
			opts.OnAdd(name)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finish tar stream: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("finish gzip stream: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	if err := fsys.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod archive: %w", err)
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		return fmt.Errorf("move archive into place: %w", err)
	}
	return nil
}

func addFile(fsys afero.Fs, tw *tar.Writer, name string) error {
	f, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return ErrNotRegular
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = filepath.ToSlash(name)
	hdr.Uname, hdr.Gname = "", ""

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if _, err := io.Copy(tw, f); err != nil {
		return err
	}
	return nil
}

// List returns the entry names of the archive at path, in archive order.
func List(fsys afero.Fs, path string) ([]string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", path, err)
	}
	defer gz.Close()

	var names []string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive %s: %w", path, err)
		}
		names = append(names, hdr.Name)
	}
	return names, nil
}
