package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// formatLineNumPadded renders a present line number right-aligned
// within columnWidth-1 cells, followed by the separator space.
func formatLineNumPadded(num LineNumber, columnWidth int) string {
	return fmt.Sprintf("%*d ", columnWidth-1, num.OneIndexed())
}

// formatMissingLineNum renders the placeholder cell shown when a side
// has no line for the current row. The glyph is a run of dots while
// real lines still follow on this side, and blanks once the gap is at
// the end of the file; the run length matches the digit count of the
// reference number so the placeholder lines up under it.
func formatMissingLineNum(prev LineNumber, dims *SourceDimensions, side Side, useColor bool, bg *lipgloss.Color) string {
	cell := missingCellText(prev, dims, side)
	if useColor {
		style := lipgloss.NewStyle().Faint(true)
		if bg != nil {
			style = style.Background(*bg)
		}
		cell = style.Render(cell)
	}
	return cell
}

// missingCellText builds the unstyled placeholder cell: dots while
// more real lines follow on this side, blanks once the gap is at the
// end of the file.
func missingCellText(prev LineNumber, dims *SourceDimensions, side Side) string {
	columnWidth := dims.numsWidth(side)
	glyph := "."
	if prev >= dims.maxLine(side) {
		glyph = " "
	}
	return fmt.Sprintf("%*s ", columnWidth-1, strings.Repeat(glyph, prev.digitWidth()))
}

// styleLineNum wraps a rendered number cell in the side's novel color.
// The background is applied to the cell itself: painting it over the
// assembled row would not survive the cell's own reset sequence.
func styleLineNum(cell string, side Side, background Background, bg *lipgloss.Color) string {
	style := novelStyle(lipgloss.NewStyle(), side, background)
	if bg != nil {
		style = style.Background(*bg)
	}
	return style.Render(cell)
}

// displayLineNum renders the number cell for one side of a row: the
// padded 1-indexed number when the line is present (colored when the
// line is novel), or the placeholder derived from the side's last shown
// number when it is absent.
func displayLineNum(num *LineNumber, dims *SourceDimensions, side Side, opts Options, hasNovel bool, prev *LineNumber, bg *lipgloss.Color) string {
	if num == nil {
		ref := LineNumber(0)
		if prev != nil {
			ref = *prev
		}
		return formatMissingLineNum(ref, dims, side, opts.UseColor, bg)
	}
	cell := formatLineNumPadded(*num, dims.numsWidth(side))
	if hasNovel && opts.UseColor {
		return styleLineNum(cell, side, opts.Background, bg)
	}
	if bg != nil {
		return lipgloss.NewStyle().Background(*bg).Render(cell)
	}
	return cell
}
