package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSplitOnNewlines_Empty(t *testing.T) {
	lines := SplitOnNewlines("")
	require.Equal(t, []string{""}, lines, "empty input should yield one empty line")
}

func TestSplitOnNewlines_TrailingNewline(t *testing.T) {
	lines := SplitOnNewlines("foo\nbar\n")
	require.Equal(t, []string{"foo", "bar", ""}, lines)
}

func TestSplitOnNewlines_NoTrailingNewline(t *testing.T) {
	lines := SplitOnNewlines("foo\nbar")
	require.Equal(t, []string{"foo", "bar"}, lines)
}

func TestSplitOnNewlines_CRLF(t *testing.T) {
	lines := SplitOnNewlines("foo\r\nbar\r\n")
	require.Equal(t, []string{"foo", "bar", ""}, lines)
}

func TestSplitOnNewlines_BlankLines(t *testing.T) {
	lines := SplitOnNewlines("\n\n")
	require.Equal(t, []string{"", "", ""}, lines)
}

func TestSplitOnNewlines_LineCountProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.StringOfN(rapid.RuneFrom([]rune("abxyz \n")), 0, 64, -1).Draw(rt, "s")

		lines := SplitOnNewlines(s)
		require.NotEmpty(rt, lines, "must always produce at least one line")
		require.Equal(rt, strings.Count(s, "\n")+1, len(lines),
			"line count must be newline count plus one")
		for _, line := range lines {
			require.NotContains(rt, line, "\n")
		}
	})
}

func TestLineNumber_OneIndexed(t *testing.T) {
	require.Equal(t, 1, LineNumber(0).OneIndexed())
	require.Equal(t, 100, LineNumber(99).OneIndexed())
}

func TestLineNumber_DigitWidth(t *testing.T) {
	require.Equal(t, 1, LineNumber(0).digitWidth())
	require.Equal(t, 1, LineNumber(8).digitWidth())
	require.Equal(t, 2, LineNumber(9).digitWidth())
	require.Equal(t, 3, LineNumber(99).digitWidth())
}

func TestAlignedPair_Num(t *testing.T) {
	l, r := LineNumber(3), LineNumber(7)
	pair := AlignedPair{Left: &l, Right: &r}
	require.Equal(t, &l, pair.Num(SideLeft))
	require.Equal(t, &r, pair.Num(SideRight))
}
