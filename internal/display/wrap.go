package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// fragment is one wrapped piece of a line: the text plus its half-open
// rune-offset window into the original line, used to clip style spans.
type fragment struct {
	text      string
	startRune int
	endRune   int
	cells     int
}

// splitIntoFragments splits line into pieces of at most maxWidth
// display cells, breaking at grapheme cluster boundaries. An empty line
// yields a single empty fragment.
func splitIntoFragments(line string, maxWidth int) []fragment {
	if maxWidth < 1 {
		maxWidth = 1
	}

	var frags []fragment
	var buf strings.Builder
	cur := fragment{}
	runeOff := 0

	g := uniseg.NewGraphemes(line)
	for g.Next() {
		cluster := g.Str()
		w := runewidth.StringWidth(cluster)
		if cur.cells+w > maxWidth && buf.Len() > 0 {
			cur.text = buf.String()
			cur.endRune = runeOff
			frags = append(frags, cur)
			buf.Reset()
			cur = fragment{startRune: runeOff}
		}
		buf.WriteString(cluster)
		cur.cells += w
		runeOff += len([]rune(cluster))
	}

	cur.text = buf.String()
	cur.endRune = runeOff
	return append(frags, cur)
}

// clipSpans clips half-open spans to the window [start, end) and
// re-anchors the survivors to window-relative offsets. A span that
// straddles a wrap column contributes a piece to both neighboring
// fragments instead of being dropped.
func clipSpans(spans []StyleSpan, start, end int) []StyleSpan {
	var clipped []StyleSpan
	for _, span := range spans {
		s := max(span.StartCol, start)
		e := min(span.EndCol, end)
		if s >= e {
			continue
		}
		clipped = append(clipped, StyleSpan{
			StartCol: s - start,
			EndCol:   e - start,
			Style:    span.Style,
		})
	}
	return clipped
}

// splitAndApply wraps line to maxWidth display cells and re-applies its
// style spans to each fragment. Left-side fragments are padded to
// exactly maxWidth cells so the column stays visually synchronized;
// right-side fragments end at their content. When bg is non-nil every
// part, padding included, carries the row background.
func splitAndApply(line string, maxWidth int, useColor bool, spans []StyleSpan, side Side, bg *lipgloss.Color) []string {
	frags := splitIntoFragments(line, maxWidth)
	out := make([]string, 0, len(frags))
	for _, frag := range frags {
		var s string
		if useColor {
			s = applySpans(frag.text, clipSpans(spans, frag.startRune, frag.endRune), bg)
		} else {
			s = frag.text
		}
		if side == SideLeft && frag.cells < maxWidth {
			s += padCells(maxWidth-frag.cells, bg)
		}
		out = append(out, s)
	}
	return out
}

// padCells returns n spaces, painted with the row background when one
// is in effect.
func padCells(n int, bg *lipgloss.Color) string {
	if n <= 0 {
		return ""
	}
	s := strings.Repeat(" ", n)
	if bg != nil {
		return lipgloss.NewStyle().Background(*bg).Render(s)
	}
	return s
}
