package display

import "github.com/rivo/uniseg"

// SourceDimensions holds the column layout for one hunk. Widths are
// derived from the terminal width and the widest line number visible in
// the hunk, so they may differ from hunk to hunk.
type SourceDimensions struct {
	lhsContentWidth int
	rhsContentWidth int
	lhsNumsWidth    int
	rhsNumsWidth    int
	lhsMaxLine      LineNumber
	rhsMaxLine      LineNumber

	// Widest content seen per side, in display cells. Not used by the
	// width formula; kept for a future content-aware layout mode.
	lhsMaxContent int
	rhsMaxContent int
}

// newSourceDimensions plans the layout for one hunk's aligned pairs.
// terminalWidth must exceed the sum of both number-column widths plus
// the spacer; narrower widths are a precondition violation.
func newSourceDimensions(terminalWidth int, pairs []AlignedPair, lhsLines, rhsLines []string) SourceDimensions {
	var lhsMaxLine, rhsMaxLine LineNumber
	lhsMaxContent, rhsMaxContent := 1, 1

	for _, pair := range pairs {
		if pair.Left != nil {
			lhsMaxLine = max(lhsMaxLine, *pair.Left)
			lhsMaxContent = max(lhsMaxContent, uniseg.StringWidth(lhsLines[*pair.Left]))
		}
		if pair.Right != nil {
			rhsMaxLine = max(rhsMaxLine, *pair.Right)
			rhsMaxContent = max(rhsMaxContent, uniseg.StringWidth(rhsLines[*pair.Right]))
		}
	}

	// Digit count of the widest number, plus one separator column.
	lhsNumsWidth := lhsMaxLine.digitWidth() + 1
	rhsNumsWidth := rhsMaxLine.digitWidth() + 1

	// The left column gets the floor of the remaining half; the right
	// column absorbs any odd remainder, so both columns plus the spacer
	// exactly fill the terminal width.
	lhsTotalWidth := (terminalWidth - len(spacer)) / 2
	lhsContentWidth := lhsTotalWidth - lhsNumsWidth
	rhsContentWidth := terminalWidth - lhsTotalWidth - len(spacer) - rhsNumsWidth

	return SourceDimensions{
		lhsContentWidth: lhsContentWidth,
		rhsContentWidth: rhsContentWidth,
		lhsNumsWidth:    lhsNumsWidth,
		rhsNumsWidth:    rhsNumsWidth,
		lhsMaxLine:      lhsMaxLine,
		rhsMaxLine:      rhsMaxLine,
		lhsMaxContent:   lhsMaxContent,
		rhsMaxContent:   rhsMaxContent,
	}
}

// numsWidth returns the line-number column width for the given side.
func (d *SourceDimensions) numsWidth(side Side) int {
	if side == SideLeft {
		return d.lhsNumsWidth
	}
	return d.rhsNumsWidth
}

// contentWidth returns the content width for the given side.
func (d *SourceDimensions) contentWidth(side Side) int {
	if side == SideLeft {
		return d.lhsContentWidth
	}
	return d.rhsContentWidth
}

// maxLine returns the highest line number seen in the hunk for the
// given side.
func (d *SourceDimensions) maxLine(side Side) LineNumber {
	if side == SideLeft {
		return d.lhsMaxLine
	}
	return d.rhsMaxLine
}
