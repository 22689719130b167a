// SPDX-License-Identifier: MPL-2.0

package latex

import (
	"regexp"
	"strings"
)

const (
	// KindInput is \input{name} or \include{name}; it pulls another source file in.
	KindInput Kind = iota + 1
	// KindGraphics is \includegraphics[opts]{name}.
	KindGraphics
	// KindPlotOne is the AASTeX \plotone{name}.
	KindPlotOne
	// KindPlotTwo is the AASTeX \plottwo{left}{right}.
	KindPlotTwo
	// KindEpsFig is \epsfig{figure=name,...}.
	KindEpsFig
	// KindPsFig is \psfig{figure=name,...}.
	KindPsFig
	// KindEpsfBox is \epsfbox{name}.
	KindEpsfBox
	// KindBibliography is \bibliography{key1,key2}.
	KindBibliography
)

// namePattern matches a file name as written in a directive argument: it starts
// with a word character and continues with word characters, '.', '+', '-' or '/'.
const namePattern = `\w[\w.+\-/]*`

type (
	// Kind identifies one of the directives this package understands. The set is
	// closed; there is no way to register additional kinds.
	Kind int

	// Directive is a single directive occurrence extracted from a line.
	Directive struct {
		Kind Kind
		// Names are the file names (or bibliography keys) taken from the
		// directive arguments, in source order. PlotTwo yields two names,
		// Bibliography one per key, every other kind exactly one.
		Names []string
	}

	rule struct {
		kind Kind
		re   *regexp.Regexp
	}
)

var (
	inputRule = rule{KindInput, regexp.MustCompile(
		`\\(?:input|include)(?:\s*\{\s*(` + namePattern + `)\s*\}|\s+(` + namePattern + `))`)}

	// graphicsRules is evaluated in order; the first rule that matches a line
	// is the only one applied to it.
	graphicsRules = []rule{
		{KindGraphics, regexp.MustCompile(`\\includegraphics\*?\s*(?:\[[^\]]*\]\s*)*\{\s*(` + namePattern + `)\s*\}`)},
		{KindPlotOne, regexp.MustCompile(`\\plotone\s*\{\s*(` + namePattern + `)\s*\}`)},
		{KindPlotTwo, regexp.MustCompile(`\\plottwo\s*\{\s*(` + namePattern + `)\s*\}\s*\{\s*(` + namePattern + `)\s*\}`)},
		{KindEpsFig, regexp.MustCompile(`\\epsfig\s*\{\s*figure\s*=\s*(` + namePattern + `)[^}]*\}`)},
		{KindPsFig, regexp.MustCompile(`\\psfig\s*\{\s*figure\s*=\s*(` + namePattern + `)[^}]*\}`)},
		{KindEpsfBox, regexp.MustCompile(`\\epsfbox\s*(?:\[[^\]]*\]\s*)?\{\s*(` + namePattern + `)\s*\}`)},
	}

	bibliographyRule = rule{KindBibliography, regexp.MustCompile(`\\bibliography\s*\{([^}]*)\}`)}
)

// String returns the LaTeX command name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindGraphics:
		return "includegraphics"
	case KindPlotOne:
		return "plotone"
	case KindPlotTwo:
		return "plottwo"
	case KindEpsFig:
		return "epsfig"
	case KindPsFig:
		return "psfig"
	case KindEpsfBox:
		return "epsfbox"
	case KindBibliography:
		return "bibliography"
	default:
		return "unknown"
	}
}

// IsGraphics reports whether k is one of the graphics-inclusion kinds.
func (k Kind) IsGraphics() bool {
	return k >= KindGraphics && k <= KindEpsfBox
}

// MatchInput reports the first include directive on line, if any.
func MatchInput(line string) (Directive, bool) {
	m := inputRule.re.FindStringSubmatch(line)
	if m == nil {
		return Directive{}, false
	}
	name := m[1]
	if name == "" {
		name = m[2]
	}
	return Directive{Kind: KindInput, Names: []string{name}}, true
}

// MatchGraphics applies the graphics rules to line in priority order and
// returns every occurrence of the first kind that matches. Lines that match
// several kinds only ever yield the highest-priority one.
func MatchGraphics(line string) []Directive {
	for _, r := range graphicsRules {
		matches := r.re.FindAllStringSubmatch(line, -1)
		if len(matches) == 0 {
			continue
		}
		out := make([]Directive, 0, len(matches))
		for _, m := range matches {
			out = append(out, Directive{Kind: r.kind, Names: append([]string(nil), m[1:]...)})
		}
		return out
	}
	return nil
}

// MatchBibliography returns every \bibliography directive on line. Keys are
// trimmed and empty keys dropped.
func MatchBibliography(line string) []Directive {
	matches := bibliographyRule.re.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]Directive, 0, len(matches))
	for _, m := range matches {
		var keys []string
		for key := range strings.SplitSeq(m[1], ",") {
			if key = strings.TrimSpace(key); key != "" {
				keys = append(keys, key)
			}
		}
		out = append(out, Directive{Kind: KindBibliography, Names: keys})
	}
	return out
}
