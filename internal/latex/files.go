// SPDX-License-Identifier: MPL-2.0

package latex

import (
	"bufio"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// maxLineSize bounds a single source line. LaTeX sources with generated tables
// can have very long lines, so the bufio default of 64KiB is not enough.
const maxLineSize = 4 * 1024 * 1024

// ReadLines reads name from fsys and returns its lines without terminators.
// A trailing carriage return is dropped so CRLF sources behave like LF ones.
func ReadLines(fsys afero.Fs, name string) ([]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return lines, nil
}

// FileExists reports whether name is an existing regular file (or symlink to
// one) on fsys.
func FileExists(fsys afero.Fs, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && !info.IsDir()
}

// HasExtension reports whether the last path element of name carries an
// extension. A leading dot (".hidden") does not count as one.
func HasExtension(name string) bool {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.LastIndexByte(base, '.') > 0
}
