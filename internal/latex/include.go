// SPDX-License-Identifier: MPL-2.0

package latex

import "github.com/spf13/afero"

const (
	// DefaultIncludeDepth is the number of include levels expanded by default:
	// files included by the main document, and files included by those.
	DefaultIncludeDepth = 2

	// texSuffix is appended to an include name that does not exist as written.
	texSuffix = ".tex"
)

type (
	// Resolver expands include directives.
	Resolver struct {
		// Fs is the filesystem include names are resolved against.
		Fs afero.Fs
		// Depth is the number of nesting levels to expand. Include directives
		// found below that level are passed through untouched. Zero or negative
		// values fall back to DefaultIncludeDepth.
		Depth int
	}

	// Expansion is the outcome of Resolver.Expand.
	Expansion struct {
		// Files lists every resolved include in discovery order: a file is
		// followed by the files it includes before its next sibling.
		Files []string
		// Lines is the input with each resolved include line replaced by the
		// stripped contents of the included file.
		Lines []string
		// Missing lists include names that matched no file, in discovery order.
		Missing []string
		// Unreadable lists resolved files that could not be read, for example
		// because a line exceeds the reader's limit. Like missing includes,
		// their directive lines are dropped.
		Unreadable []string
	}
)

// Expand walks lines (already stripped of comments) and inlines every include
// directive that resolves to a file, recursing into included files until the
// depth limit is reached. A directive whose target cannot be found is recorded
// in Missing, one whose target cannot be read in Unreadable, and in both cases
// its line is dropped.
func (r *Resolver) Expand(lines []string) *Expansion {
	depth := r.Depth
	if depth <= 0 {
		depth = DefaultIncludeDepth
	}
	exp := &Expansion{Lines: make([]string, 0, len(lines))}
	r.expand(lines, depth, exp)
	return exp
}

func (r *Resolver) expand(lines []string, depth int, exp *Expansion) {
	for _, line := range lines {
		d, ok := MatchInput(line)
		if !ok || depth == 0 {
			exp.Lines = append(exp.Lines, line)
			continue
		}

		name := d.Names[0]
		source, found := ResolveSource(r.Fs, name)
		if !found {
			exp.Missing = append(exp.Missing, name)
			continue
		}

		included, err := ReadLines(r.Fs, source)
		if err != nil {
			exp.Unreadable = append(exp.Unreadable, source)
			continue
		}
		exp.Files = append(exp.Files, source)
		r.expand(Strip(included), depth-1, exp)
	}
}

// ResolveSource maps a source name to an existing file: the name as written,
// then the name with ".tex" appended.
func ResolveSource(fsys afero.Fs, name string) (string, bool) {
	if FileExists(fsys, name) {
		return name, true
	}
	if withTex := name + texSuffix; FileExists(fsys, withTex) {
		return withTex, true
	}
	return "", false
}
