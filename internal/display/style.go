package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// spacer separates the two columns.
const spacer = " "

// Highlight backgrounds for novel rows. Pale tones against a light
// terminal, desaturated dark tones against a dark one.
var (
	novelBgLeftLight  = lipgloss.Color("224")
	novelBgRightLight = lipgloss.Color("194")
	novelBgLeftDark   = lipgloss.Color("52")
	novelBgRightDark  = lipgloss.Color("22")
)

// novelBg returns the row background highlight for a novel line.
func novelBg(side Side, background Background) lipgloss.Color {
	if background.IsDark() {
		if side == SideLeft {
			return novelBgLeftDark
		}
		return novelBgRightDark
	}
	if side == SideLeft {
		return novelBgLeftLight
	}
	return novelBgRightLight
}

// novelStyle returns the foreground style for novel content on the
// given side: a red-family tone on the left, green-family on the right,
// brighter against a dark background.
func novelStyle(base lipgloss.Style, side Side, background Background) lipgloss.Style {
	if side == SideLeft {
		if background.IsDark() {
			return base.Foreground(lipgloss.Color("9")) // bright red
		}
		return base.Foreground(lipgloss.Color("1")) // red
	}
	if background.IsDark() {
		return base.Foreground(lipgloss.Color("10")) // bright green
	}
	return base.Foreground(lipgloss.Color("2")) // green
}

// syntaxStyle returns the style for an unchanged token of the given
// category. Unknown categories render unstyled.
func syntaxStyle(category TokenCategory, background Background) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch category {
	case CategoryKeyword:
		return s.Bold(true)
	case CategoryComment:
		return s.Italic(true).Faint(true)
	case CategoryString:
		return s.Foreground(lipgloss.Color("5")) // magenta
	case CategoryType:
		return s.Foreground(lipgloss.Color("6")) // cyan
	case CategoryNumber:
		if background.IsDark() {
			return s.Foreground(lipgloss.Color("11")) // bright yellow
		}
		return s.Foreground(lipgloss.Color("3")) // yellow
	default:
		return s
	}
}

// colorPositions resolves the matcher's positions for one side into
// per-line style spans, combining syntax coloring with novel-change
// coloring. Spans are keyed by line number, in position order.
func colorPositions(side Side, background Background, syntaxHighlight bool, positions []MatchedPos) map[LineNumber][]StyleSpan {
	spans := make(map[LineNumber][]StyleSpan)
	for _, mp := range positions {
		var style lipgloss.Style
		switch mp.Kind {
		case MatchNovel:
			style = novelStyle(lipgloss.NewStyle(), side, background)
			if mp.Category == CategoryKeyword {
				style = style.Bold(true)
			}
		default:
			if !syntaxHighlight {
				continue
			}
			style = syntaxStyle(mp.Category, background)
		}
		spans[mp.Pos.Line] = append(spans[mp.Pos.Line], StyleSpan{
			StartCol: mp.Pos.StartCol,
			EndCol:   mp.Pos.EndCol,
			Style:    style,
		})
	}
	return spans
}

// novelLinesIn collects the set of line numbers that contain at least
// one novel token.
func novelLinesIn(positions []MatchedPos) map[LineNumber]bool {
	novel := make(map[LineNumber]bool)
	for _, mp := range positions {
		if mp.Kind == MatchNovel {
			novel[mp.Pos.Line] = true
		}
	}
	return novel
}

// applySpans renders line with its style spans applied, leaving the
// gaps between spans unstyled. Span columns are rune offsets; spans
// reaching past the end of the line are clipped. When bg is non-nil it
// is painted under every part, including unstyled gaps. Backgrounds
// must be applied per part: wrapping already-styled text does not
// propagate through the inner resets.
func applySpans(line string, spans []StyleSpan, bg *lipgloss.Color) string {
	runes := []rune(line)
	var out strings.Builder
	gapStyle := lipgloss.NewStyle()
	if bg != nil {
		gapStyle = gapStyle.Background(*bg)
	}

	pos := 0
	for _, span := range spans {
		start := min(max(span.StartCol, 0), len(runes))
		end := min(max(span.EndCol, start), len(runes))
		if start > pos {
			out.WriteString(renderPart(gapStyle, string(runes[pos:start]), bg != nil))
		}
		if end > start {
			style := span.Style
			if bg != nil {
				style = style.Background(*bg)
			}
			out.WriteString(style.Render(string(runes[start:end])))
		}
		if end > pos {
			pos = end
		}
	}
	if pos < len(runes) {
		out.WriteString(renderPart(gapStyle, string(runes[pos:]), bg != nil))
	}
	return out.String()
}

// renderPart styles s only when styling is actually needed, so that
// color-disabled output stays free of escape sequences.
func renderPart(style lipgloss.Style, s string, styled bool) string {
	if !styled {
		return s
	}
	return style.Render(s)
}

// applyColors renders every line of src with its resolved style spans.
// The result is used by the fast paths that print one precolored side
// without recomputing spans.
func applyColors(src string, spans map[LineNumber][]StyleSpan) []string {
	lines := SplitOnNewlines(src)
	colored := make([]string, len(lines))
	for i, line := range lines {
		colored[i] = applySpans(line, spans[LineNumber(i)], nil)
	}
	return colored
}

// header renders the block heading for one hunk: the file pair, the
// hunk's position in the sequence, and the language name.
func header(lhsPath, rhsPath string, hunkNum, hunkTotal int, langName string, opts Options) string {
	path := rhsPath
	if lhsPath != rhsPath && !opts.InVCS {
		path = lhsPath + " -- " + rhsPath
	}
	s := fmt.Sprintf("%s --- %d/%d --- %s", path, hunkNum, hunkTotal, langName)
	if opts.UseColor {
		return lipgloss.NewStyle().Bold(true).Render(s)
	}
	return s
}
