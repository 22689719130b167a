// SPDX-License-Identifier: MPL-2.0

package latex

import "strings"

// Strip returns a new slice holding lines with LaTeX comments removed.
//
// A line whose first non-blank character is % keeps its slot in the result but
// becomes empty. Any other line is cut at its first unescaped %, that is a %
// preceded by an even number of backslashes. The input slice is not modified.
func Strip(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = stripLine(line)
	}
	return out
}

func stripLine(line string) string {
	if strings.HasPrefix(strings.TrimLeft(line, " \t\v\f\r"), "%") {
		return ""
	}
	if i := commentIndex(line); i >= 0 {
		return line[:i]
	}
	return line
}

// commentIndex returns the byte offset of the first unescaped % in line, or -1.
func commentIndex(line string) int {
	backslashes := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			backslashes++
		case '%':
			if backslashes%2 == 0 {
				return i
			}
			backslashes = 0
		default:
			backslashes = 0
		}
	}
	return -1
}
