// SPDX-License-Identifier: MPL-2.0

package latex

import (
	"slices"
	"strings"

	"github.com/spf13/afero"
)

const bibSuffix = ".bib"

// DefaultGraphicsExtensions is the order in which extensions are probed for a
// graphics reference written without one.
var DefaultGraphicsExtensions = []string{"pdf", "png", "jpg", "eps"}

type (
	// Scanner collects graphics and bibliography files referenced by
	// expanded source lines.
	Scanner struct {
		// Fs is the filesystem references are resolved against.
		Fs afero.Fs
		// Extensions overrides DefaultGraphicsExtensions when non-empty.
		// Entries are written without the leading dot.
		Extensions []string
	}

	// ScanResult holds the files found by Scanner.Scan, each list in line order.
	ScanResult struct {
		Graphics            []string
		Bibliography        []string
		MissingGraphics     []string
		MissingBibliography []string
	}
)

// Scan resolves every graphics and bibliography reference in lines. Missing
// files never stop the scan; they are collected in the Missing* lists.
func (s *Scanner) Scan(lines []string) *ScanResult {
	res := &ScanResult{}

	for _, line := range lines {
		for _, d := range MatchGraphics(line) {
			for _, name := range d.Names {
				if file, ok := s.resolveGraphic(name); ok {
					res.Graphics = append(res.Graphics, file)
				} else {
					res.MissingGraphics = append(res.MissingGraphics, name)
				}
			}
		}
	}

	for _, line := range lines {
		for _, d := range MatchBibliography(line) {
			for _, key := range d.Names {
				file := key
				if !strings.HasSuffix(file, bibSuffix) {
					file += bibSuffix
				}
				if FileExists(s.Fs, file) {
					res.Bibliography = append(res.Bibliography, file)
				} else {
					res.MissingBibliography = append(res.MissingBibliography, file)
				}
			}
		}
	}

	return res
}

// Assets returns the resolved graphics followed by the resolved bibliography
// files.
func (r *ScanResult) Assets() []string {
	return slices.Concat(r.Graphics, r.Bibliography)
}

// Missing returns every unresolved reference, graphics first.
func (r *ScanResult) Missing() []string {
	return slices.Concat(r.MissingGraphics, r.MissingBibliography)
}

func (s *Scanner) resolveGraphic(name string) (string, bool) {
	if HasExtension(name) {
		return name, FileExists(s.Fs, name)
	}
	exts := s.Extensions
	if len(exts) == 0 {
		exts = DefaultGraphicsExtensions
	}
	for _, ext := range exts {
		candidate := name + "." + strings.TrimPrefix(ext, ".")
		if FileExists(s.Fs, candidate) {
			return candidate, true
		}
	}
	return "", false
}
