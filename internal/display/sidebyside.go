package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// sideState bundles one side's immutable tables with the "last shown
// line number" accumulator threaded through the row loop. The
// accumulator is the only mutable state in the renderer; it feeds the
// placeholder glyphs for rows where this side is absent.
type sideState struct {
	side       Side
	lines      []string
	colored    []string
	highlights map[LineNumber][]StyleSpan
	novelLines map[LineNumber]bool
	prev       *LineNumber
}

// newSideState builds one side's line tables once per comparison: the
// raw lines used for measurement and wrapping, the per-line style
// spans, the fully colored lines consumed by the fast paths, and the
// set of lines carrying a novel token.
func newSideState(side Side, src string, positions []MatchedPos, opts Options) *sideState {
	lines := SplitOnNewlines(src)
	highlights := map[LineNumber][]StyleSpan{}
	colored := lines
	if opts.UseColor {
		highlights = colorPositions(side, opts.Background, opts.SyntaxHighlight, positions)
		colored = applyColors(src, highlights)
	}
	return &sideState{
		side:       side,
		lines:      lines,
		colored:    colored,
		highlights: highlights,
		novelLines: novelLinesIn(positions),
	}
}

// Renderer holds the precomputed line tables for one comparison and
// prints it hunk by hunk. Inputs are assumed internally consistent:
// line numbers index valid lines and the width has been clamped to
// something sane by the caller.
type Renderer struct {
	opts             Options
	lhsPath, rhsPath string
	langName         string
	lhsSrc, rhsSrc   string
	lhsPositions     []MatchedPos
	rhsPositions     []MatchedPos
	lhs, rhs         *sideState
}

// NewRenderer builds the side tables once for the whole comparison.
func NewRenderer(opts Options, lhsPath, rhsPath, langName, lhsSrc, rhsSrc string, lhsPositions, rhsPositions []MatchedPos) *Renderer {
	r := &Renderer{
		opts:         opts,
		lhsPath:      lhsPath,
		rhsPath:      rhsPath,
		langName:     langName,
		lhsSrc:       lhsSrc,
		rhsSrc:       rhsSrc,
		lhsPositions: lhsPositions,
		rhsPositions: rhsPositions,
	}
	if !r.SingleColumn() {
		r.lhs = newSideState(SideLeft, lhsSrc, lhsPositions, opts)
		r.rhs = newSideState(SideRight, rhsSrc, rhsPositions, opts)
	}
	return r
}

// SingleColumn reports whether the comparison degenerates to one
// column because a side is a wholly added or removed file.
func (r *Renderer) SingleColumn() bool {
	return r.lhsSrc == "" || r.rhsSrc == ""
}

// PrintSingleColumn prints the present side with sequential line
// numbers and that side's novel coloring.
func (r *Renderer) PrintSingleColumn(w io.Writer) {
	if r.lhsSrc == "" {
		printSingleColumn(w, r.lhsPath, r.rhsPath, r.langName, r.rhsSrc, SideRight, r.opts, r.rhsPositions)
		return
	}
	printSingleColumn(w, r.lhsPath, r.rhsPath, r.langName, r.lhsSrc, SideLeft, r.opts, r.lhsPositions)
}

// PrintHunk writes one hunk: its header line, the row lines, and a
// trailing blank line. Hunks must be printed in order since the
// placeholder accumulators carry across them.
func (r *Renderer) PrintHunk(w io.Writer, i, total int, hunk *Hunk) {
	fmt.Fprintln(w, header(r.lhsPath, r.rhsPath, i+1, total, r.langName, r.opts))
	printHunk(w, hunk, r.lhs, r.rhs, r.opts)
	fmt.Fprintln(w)
}

// Print renders the comparison of two sources as side-by-side hunks.
func Print(w io.Writer, hunks []Hunk, opts Options, lhsPath, rhsPath, langName, lhsSrc, rhsSrc string, lhsPositions, rhsPositions []MatchedPos) {
	r := NewRenderer(opts, lhsPath, rhsPath, langName, lhsSrc, rhsSrc, lhsPositions, rhsPositions)
	if r.SingleColumn() {
		r.PrintSingleColumn(w)
		return
	}
	for i := range hunks {
		r.PrintHunk(w, i, len(hunks), &hunks[i])
	}
}

// printSingleColumn prints all of src with sequential line numbers and
// the side's novel coloring, for files that exist on one side only.
func printSingleColumn(w io.Writer, lhsPath, rhsPath, langName, src string, side Side, opts Options, positions []MatchedPos) {
	lines := SplitOnNewlines(src)
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		lines = []string{""}
	}

	colored := lines
	if opts.UseColor {
		colored = applyColors(src, colorPositions(side, opts.Background, opts.SyntaxHighlight, positions))[:len(lines)]
	}

	// Sized to the widest number actually shown, so a 9-line file gets
	// a one-digit column.
	columnWidth := LineNumber(len(lines)-1).digitWidth() + 1

	fmt.Fprintln(w, header(lhsPath, rhsPath, 1, 1, langName, opts))
	for i, line := range colored {
		cell := formatLineNumPadded(LineNumber(i), columnWidth)
		if opts.UseColor {
			cell = styleLineNum(cell, side, opts.Background, nil)
		}
		fmt.Fprintln(w, cell+line)
	}
}

// printHunk renders one hunk's rows. Column widths are planned for
// this hunk alone, so short hunks get narrow number columns.
func printHunk(w io.Writer, hunk *Hunk, lhs, rhs *sideState, opts Options) {
	dims := newSourceDimensions(opts.Width, hunk.Pairs, lhs.lines, rhs.lines)

	noLhsChanges := len(hunk.NovelLeft) == 0
	noRhsChanges := len(hunk.NovelRight) == 0
	sameNums := true
	for _, pair := range hunk.Pairs {
		if !eqNum(pair.Left, pair.Right) {
			sameNums = false
			break
		}
	}

	showBoth := opts.Mode == ModeSideBySideShowBoth
	for _, pair := range hunk.Pairs {
		lhsNovel := highlightAsNovel(pair.Left, lhs.lines, pair.Right, lhs.novelLines)
		rhsNovel := highlightAsNovel(pair.Right, rhs.lines, pair.Left, rhs.novelLines)

		switch {
		case noLhsChanges && !showBoth:
			printOneSided(w, rhs, lhs, pair, &dims, sameNums, opts, rhsNovel, lhsNovel)
		case noRhsChanges && !showBoth:
			printOneSided(w, lhs, rhs, pair, &dims, sameNums, opts, lhsNovel, rhsNovel)
		default:
			printWrapped(w, lhs, rhs, pair, &dims, opts, lhsNovel, rhsNovel)
		}

		if pair.Left != nil {
			lhs.prev = pair.Left
		}
		if pair.Right != nil {
			rhs.prev = pair.Right
		}
	}
}

// printOneSided prints a row of a hunk whose other side has no changes:
// only the shown side's content appears. With identical numbering on
// both sides one shared number cell is enough; otherwise both cells are
// printed before the content so the numbering stays unambiguous.
func printOneSided(w io.Writer, shown, other *sideState, pair AlignedPair, dims *SourceDimensions, sameNums bool, opts Options, shownNovel, otherNovel bool) {
	num := pair.Num(shown.side)
	bg := rowBg(shown, num, opts)

	shownCell := displayLineNum(num, dims, shown.side, opts, shownNovel, shown.prev, bg)
	otherCell := displayLineNum(pair.Num(other.side), dims, other.side, opts, otherNovel, other.prev, bg)

	if num == nil {
		// The hunk had contextual lines that only occur on the other
		// side (e.g. extra newlines). Print the number cells alone.
		fmt.Fprintln(w, inColumnOrder(shown.side, shownCell, otherCell))
		return
	}

	var content string
	if bg != nil {
		content = applySpans(shown.lines[*num], shown.highlights[*num], bg)
	} else {
		content = shown.colored[*num]
	}

	var row string
	if sameNums {
		row = shownCell + content
	} else {
		row = inColumnOrder(shown.side, shownCell, otherCell) + content
	}

	if bg != nil {
		// Pad with the visible width, escape sequences excluded, so the
		// background fill ends exactly at the terminal edge.
		row += padCells(opts.Width-ansi.StringWidth(row), bg)
	}
	fmt.Fprintln(w, row)
}

// printWrapped prints a row on the general path: both sides wrapped
// independently to their content widths, fragments paired positionally,
// each side backgrounded according to its own novelty.
func printWrapped(w io.Writer, lhs, rhs *sideState, pair AlignedPair, dims *SourceDimensions, opts Options, lhsNovel, rhsNovel bool) {
	lhsBg := rowBg(lhs, pair.Left, opts)
	rhsBg := rowBg(rhs, pair.Right, opts)

	lhsFrags := wrapSideContent(lhs, pair.Left, dims, opts, lhsBg)
	rhsFrags := wrapSideContent(rhs, pair.Right, dims, opts, rhsBg)

	rows := max(len(lhsFrags), len(rhsFrags))
	for i := range rows {
		lhsCell := rowNumCell(lhs, pair.Left, dims, opts, lhsNovel, i, lhsBg)
		rhsCell := rowNumCell(rhs, pair.Right, dims, opts, rhsNovel, i, rhsBg)
		lhsFrag := fragAt(lhsFrags, i, lhs.side, dims, lhsBg)
		rhsFrag := fragAt(rhsFrags, i, rhs.side, dims, rhsBg)

		fmt.Fprintln(w, lhsCell+lhsFrag+spacer+rhsCell+rhsFrag)
	}
}

// wrapSideContent wraps one side's line for the general path. An absent
// left side becomes a blank cell of full content width; an absent right
// side becomes an empty fragment.
func wrapSideContent(s *sideState, num *LineNumber, dims *SourceDimensions, opts Options, bg *lipgloss.Color) []string {
	width := dims.contentWidth(s.side)
	if num == nil {
		if s.side == SideLeft {
			return []string{padCells(width, nil)}
		}
		return []string{""}
	}
	return splitAndApply(s.lines[*num], width, opts.UseColor, s.highlights[*num], s.side, bg)
}

// fragAt pairs fragments positionally: where one side ran out of
// fragments first, an empty fragment stands in so both columns keep
// equal row counts.
func fragAt(frags []string, i int, side Side, dims *SourceDimensions, bg *lipgloss.Color) string {
	if i < len(frags) {
		return frags[i]
	}
	if side == SideLeft {
		return padCells(dims.contentWidth(SideLeft), bg)
	}
	return ""
}

// rowNumCell renders the number cell for one emitted row of a wrapped
// group. Only the first row carries the real number; continuation rows
// reuse the placeholder shape, referencing this row's own line number
// and keeping the novel coloring.
func rowNumCell(s *sideState, num *LineNumber, dims *SourceDimensions, opts Options, novel bool, fragIdx int, bg *lipgloss.Color) string {
	if fragIdx == 0 {
		return displayLineNum(num, dims, s.side, opts, novel, s.prev, bg)
	}

	ref := LineNumber(0)
	switch {
	case num != nil:
		ref = *num
	case s.prev != nil:
		ref = *s.prev
	}

	if num != nil && s.novelLines[*num] && opts.UseColor {
		cell := missingCellText(ref, dims, s.side)
		style := novelStyle(lipgloss.NewStyle().Faint(true), s.side, opts.Background)
		if bg != nil {
			style = style.Background(*bg)
		}
		return style.Render(cell)
	}
	return formatMissingLineNum(ref, dims, s.side, opts.UseColor, bg)
}

// rowBg returns the full-width background for a row side, set only
// when the line exists and carries a novel token.
func rowBg(s *sideState, num *LineNumber, opts Options) *lipgloss.Color {
	if !opts.UseColor || num == nil || !s.novelLines[*num] {
		return nil
	}
	c := novelBg(s.side, opts.Background)
	return &c
}

// inColumnOrder joins two cells so the left column's cell always comes
// first regardless of which side is the shown one.
func inColumnOrder(shownSide Side, shownCell, otherCell string) string {
	if shownSide == SideLeft {
		return shownCell + otherCell
	}
	return otherCell + shownCell
}

// eqNum compares two optional line numbers; two absent sides compare
// equal.
func eqNum(a, b *LineNumber) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
