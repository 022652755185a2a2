// Package display renders a token-level diff of two file versions as a
// two-column, line-aligned comparison for the terminal.
package display

import (
	"strconv"
	"strings"
)

// LineNumber is a zero-based index into one side's line table.
// It is displayed 1-indexed.
type LineNumber int

// OneIndexed returns the number as shown to the user.
func (n LineNumber) OneIndexed() int {
	return int(n) + 1
}

// digitWidth returns the number of decimal digits in the 1-indexed form.
func (n LineNumber) digitWidth() int {
	return len(strconv.Itoa(n.OneIndexed()))
}

// SplitOnNewlines splits s on \n or \r\n and strips the line endings.
// It always returns at least one line: an empty input yields a single
// empty line, and a trailing newline yields a trailing empty line. This
// keeps line numbers aligned with the rest of the pipeline, unlike
// naive line splitting which would drop both.
func SplitOnNewlines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// AlignedPair is one output row: a correspondence between a line in the
// old text and a line in the new text. Either side may be nil (an
// insertion or deletion row), never both.
type AlignedPair struct {
	Left  *LineNumber
	Right *LineNumber
}

// Num returns the pair's line number for the given side.
func (p AlignedPair) Num(side Side) *LineNumber {
	if side == SideLeft {
		return p.Left
	}
	return p.Right
}

// Hunk is an ordered, contiguous run of aligned line pairs, plus the
// per-side sets of line numbers that contain at least one novel token.
// Hunk boundaries and context radius are decided by the matcher.
type Hunk struct {
	Pairs      []AlignedPair
	NovelLeft  map[LineNumber]bool
	NovelRight map[LineNumber]bool
}

// Novel returns the hunk's novel-line set for the given side.
func (h *Hunk) Novel(side Side) map[LineNumber]bool {
	if side == SideLeft {
		return h.NovelLeft
	}
	return h.NovelRight
}

// Side identifies one column of the comparison.
type Side int

const (
	SideLeft Side = iota
	SideRight
)
