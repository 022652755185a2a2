package display

import "github.com/charmbracelet/lipgloss"

// MatchKind classifies a token occurrence as unchanged or novel.
type MatchKind int

const (
	// MatchUnchanged marks a token with an equivalent on the other side.
	MatchUnchanged MatchKind = iota
	// MatchNovel marks a token present on this side only.
	MatchNovel
)

// TokenCategory is the syntax category assigned to a token by the
// highlighter. It influences the color chosen for the token.
type TokenCategory int

const (
	CategoryNormal TokenCategory = iota
	CategoryKeyword
	CategoryString
	CategoryComment
	CategoryType
	CategoryNumber
)

// LineSpan is a half-open column range [StartCol, EndCol) on a single
// line. Columns are rune offsets into the line content.
type LineSpan struct {
	Line     LineNumber
	StartCol int
	EndCol   int
}

// MatchedPos is one token occurrence from the matcher: its position and
// its unchanged-vs-novel classification, with the syntax category the
// highlighter resolved for it. Immutable input to the renderer.
type MatchedPos struct {
	Kind     MatchKind
	Category TokenCategory
	Pos      LineSpan
}

// StyleSpan is a resolved display style for one contiguous run of one
// line. The column range is half-open, in rune offsets.
type StyleSpan struct {
	StartCol int
	EndCol   int
	Style    lipgloss.Style
}

// Mode selects how rows are rendered.
type Mode int

const (
	// ModeSideBySide elides the unchanged column when a hunk only has
	// changes on one side.
	ModeSideBySide Mode = iota
	// ModeSideBySideShowBoth always renders both columns.
	ModeSideBySideShowBoth
)

// String returns the flag spelling of the mode.
func (m Mode) String() string {
	if m == ModeSideBySideShowBoth {
		return "side-by-side-show-both"
	}
	return "side-by-side"
}

// Background describes the terminal background the colors are picked
// against.
type Background int

const (
	BackgroundDark Background = iota
	BackgroundLight
)

// IsDark reports whether the background is dark.
func (b Background) IsDark() bool {
	return b == BackgroundDark
}

// Options holds the display configuration for one comparison.
type Options struct {
	// Width is the terminal width in display cells. It must exceed the
	// sum of both number-column widths plus the spacer; the renderer
	// does not validate this.
	Width           int
	UseColor        bool
	SyntaxHighlight bool
	Background      Background
	Mode            Mode
	// InVCS collapses the header to a single path when the tool runs
	// under version control with equal display paths.
	InVCS bool
	// TabWidth is the number of spaces a tab expands to.
	TabWidth int
}
