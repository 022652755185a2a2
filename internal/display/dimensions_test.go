package display

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func pairBoth(l, r LineNumber) AlignedPair {
	return AlignedPair{Left: &l, Right: &r}
}

func pairLeft(l LineNumber) AlignedPair {
	return AlignedPair{Left: &l}
}

func pairRight(r LineNumber) AlignedPair {
	return AlignedPair{Right: &r}
}

func blankLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "x"
	}
	return lines
}

func TestNewSourceDimensions_WidthIdentity(t *testing.T) {
	pairs := []AlignedPair{pairBoth(0, 0), pairBoth(1, 1)}
	dims := newSourceDimensions(80, pairs, blankLines(2), blankLines(2))

	total := dims.lhsContentWidth + dims.lhsNumsWidth +
		len(spacer) + dims.rhsContentWidth + dims.rhsNumsWidth
	require.Equal(t, 80, total, "columns plus spacer must fill the terminal exactly")
}

func TestNewSourceDimensions_NumColumnWidths(t *testing.T) {
	// Widest numbers are 100 on the left (3 digits) and 6 on the right.
	pairs := []AlignedPair{pairBoth(99, 5)}
	dims := newSourceDimensions(80, pairs, blankLines(100), blankLines(6))

	require.Equal(t, 4, dims.numsWidth(SideLeft), "3 digits plus separator")
	require.Equal(t, 2, dims.numsWidth(SideRight), "1 digit plus separator")
	require.Equal(t, LineNumber(99), dims.maxLine(SideLeft))
	require.Equal(t, LineNumber(5), dims.maxLine(SideRight))
}

func TestNewSourceDimensions_EvenWidthRemainderGoesRight(t *testing.T) {
	pairs := []AlignedPair{pairBoth(0, 0)}
	dims := newSourceDimensions(80, pairs, blankLines(1), blankLines(1))

	// lhsTotal = (80-1)/2 = 39, so the right column absorbs the extra cell.
	require.Equal(t, 37, dims.contentWidth(SideLeft))
	require.Equal(t, 38, dims.contentWidth(SideRight))
	total := dims.lhsContentWidth + dims.lhsNumsWidth +
		len(spacer) + dims.rhsContentWidth + dims.rhsNumsWidth
	require.Equal(t, 80, total)
}

func TestNewSourceDimensions_OneSidedPairs(t *testing.T) {
	pairs := []AlignedPair{pairLeft(3), pairRight(12)}
	dims := newSourceDimensions(60, pairs, blankLines(4), blankLines(13))

	require.Equal(t, LineNumber(3), dims.maxLine(SideLeft))
	require.Equal(t, LineNumber(12), dims.maxLine(SideRight))
	require.Equal(t, 2, dims.numsWidth(SideLeft))
	require.Equal(t, 3, dims.numsWidth(SideRight))
}

func TestNewSourceDimensions_IdentityProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		width := rapid.IntRange(20, 500).Draw(rt, "width")
		lhsMax := rapid.IntRange(0, 99999).Draw(rt, "lhsMax")
		rhsMax := rapid.IntRange(0, 99999).Draw(rt, "rhsMax")

		pairs := []AlignedPair{pairBoth(LineNumber(lhsMax), LineNumber(rhsMax))}
		dims := newSourceDimensions(width, pairs, blankLines(lhsMax+1), blankLines(rhsMax+1))

		total := dims.lhsContentWidth + dims.lhsNumsWidth +
			len(spacer) + dims.rhsContentWidth + dims.rhsNumsWidth
		require.Equal(rt, width, total)
	})
}
