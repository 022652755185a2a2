package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/sidediff/internal/display"
)

func TestTokenize_ReproducesLine(t *testing.T) {
	tests := []string{
		"",
		"foo bar",
		"x := f(a, b)",
		"  indented\ttext",
		"日本語 text",
	}
	for _, line := range tests {
		require.Equal(t, line, strings.Join(tokenize(line), ""), "line %q", line)
	}
}

func TestTokenize_SplitsPunctuation(t *testing.T) {
	tokens := tokenize("f(x)")
	require.Equal(t, []string{"f", "(", "x", ")"}, tokens)
}

func TestTokenize_WhitespaceIsOwnToken(t *testing.T) {
	tokens := tokenize("a  b")
	require.Equal(t, []string{"a", " ", " ", "b"}, tokens)
}

func TestTokenize_ReproducesLineProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		line := rapid.StringOfN(rapid.RuneFrom([]rune("ab(), .=日x")), 0, 60, -1).Draw(rt, "line")
		require.Equal(rt, line, strings.Join(tokenize(line), ""))
	})
}

func TestCountLines(t *testing.T) {
	require.Equal(t, 0, countLines(""))
	require.Equal(t, 1, countLines("a\n"))
	require.Equal(t, 1, countLines("a"))
	require.Equal(t, 2, countLines("a\nb"))
	require.Equal(t, 2, countLines("a\nb\n"))
}

func TestAlignLines_UnchangedIsAllContext(t *testing.T) {
	pairs := alignLines("a\nb\n", "a\nb\n")

	for _, rp := range pairs {
		require.Equal(t, pairContext, rp.kind)
		require.NotNil(t, rp.pair.Left)
		require.NotNil(t, rp.pair.Right)
		require.Equal(t, *rp.pair.Left, *rp.pair.Right)
	}
}

func TestAlignLines_ReplacementPairsPositionally(t *testing.T) {
	pairs := alignLines("a\nold\nc\n", "a\nnew\nc\n")

	var changed []rawPair
	for _, rp := range pairs {
		if rp.kind == pairChanged {
			changed = append(changed, rp)
		}
	}
	require.Len(t, changed, 1)
	require.Equal(t, display.LineNumber(1), *changed[0].pair.Left)
	require.Equal(t, display.LineNumber(1), *changed[0].pair.Right)
}

func TestAlignLines_InsertionIsOneSided(t *testing.T) {
	pairs := alignLines("a\nb\n", "a\nadded\nb\n")

	var oneSided []rawPair
	for _, rp := range pairs {
		if rp.pair.Left == nil {
			oneSided = append(oneSided, rp)
		}
	}
	require.Len(t, oneSided, 1)
	require.Equal(t, pairChanged, oneSided[0].kind)
	require.Equal(t, display.LineNumber(1), *oneSided[0].pair.Right)
}

func TestAlignLines_UnevenRunsLeaveLeftovers(t *testing.T) {
	// Two deletions against one insertion: one paired row, one
	// left-only row.
	pairs := alignLines("a\nx\ny\nb\n", "a\nz\nb\n")

	var paired, leftOnly int
	for _, rp := range pairs {
		if rp.kind != pairChanged {
			continue
		}
		switch {
		case rp.pair.Left != nil && rp.pair.Right != nil:
			paired++
		case rp.pair.Left != nil:
			leftOnly++
		}
	}
	require.Equal(t, 1, paired)
	require.Equal(t, 1, leftOnly)
}

func TestAlignLines_LineNumbersMonotonicProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		gen := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c", "dd"}), 0, 12)
		lhs := strings.Join(gen.Draw(rt, "lhs"), "\n")
		rhs := strings.Join(gen.Draw(rt, "rhs"), "\n")

		pairs := alignLines(lhs, rhs)

		lhsNext, rhsNext := display.LineNumber(0), display.LineNumber(0)
		for _, rp := range pairs {
			if rp.pair.Left != nil {
				require.Equal(rt, lhsNext, *rp.pair.Left, "left numbers must be dense and ordered")
				lhsNext++
			}
			if rp.pair.Right != nil {
				require.Equal(rt, rhsNext, *rp.pair.Right, "right numbers must be dense and ordered")
				rhsNext++
			}
			require.False(rt, rp.pair.Left == nil && rp.pair.Right == nil)
		}
	})
}

func TestRefineLinePair_SharedTokensUnchanged(t *testing.T) {
	lhs, rhs := refineLinePair("x = old(1)", "x = new(1)", 0, 0, nil)

	requireTokenKind(t, lhs, "x = old(1)", "x", display.MatchUnchanged)
	requireTokenKind(t, lhs, "x = old(1)", "old", display.MatchNovel)
	requireTokenKind(t, lhs, "x = old(1)", "(", display.MatchUnchanged)
	requireTokenKind(t, rhs, "x = new(1)", "new", display.MatchNovel)
	requireTokenKind(t, rhs, "x = new(1)", "1", display.MatchUnchanged)
}

// requireTokenKind asserts the kind recorded for the first occurrence
// of token in line.
func requireTokenKind(t *testing.T, positions []display.MatchedPos, line, token string, want display.MatchKind) {
	t.Helper()
	start := strings.Index(line, token)
	require.GreaterOrEqual(t, start, 0)
	startCol := len([]rune(line[:start]))
	for _, mp := range positions {
		if mp.Pos.StartCol == startCol {
			require.Equal(t, want, mp.Kind, "token %q", token)
			return
		}
	}
	t.Fatalf("no position found for token %q at col %d", token, startCol)
}

func TestRefineLinePair_LongLineWhollyNovel(t *testing.T) {
	long := strings.Repeat("a ", 300)
	lhs, rhs := refineLinePair(long, "short", 0, 0, nil)

	for _, mp := range lhs {
		require.Equal(t, display.MatchNovel, mp.Kind)
	}
	for _, mp := range rhs {
		require.Equal(t, display.MatchNovel, mp.Kind)
	}
}

func TestRefineLinePair_BlankTokensNotEmitted(t *testing.T) {
	lhs, rhs := refineLinePair("a b", "a c", 0, 0, nil)

	for _, mp := range append(lhs, rhs...) {
		require.NotEqual(t, " ", string([]rune("a b")[mp.Pos.StartCol:mp.Pos.StartCol+1]))
	}
}

func TestLinePositions_ColumnsAreRuneOffsets(t *testing.T) {
	positions := linePositions("日本 x", 0, display.MatchUnchanged, nil)

	require.Len(t, positions, 2)
	require.Equal(t, 0, positions[0].Pos.StartCol)
	require.Equal(t, 2, positions[0].Pos.EndCol)
	require.Equal(t, 3, positions[1].Pos.StartCol)
	require.Equal(t, 4, positions[1].Pos.EndCol)
}

func TestCompute_IdenticalSourcesNoHunks(t *testing.T) {
	result := Compute("a\nb\nc\n", "a\nb\nc\n", DefaultOptions(), nil)
	require.Empty(t, result.Hunks)
}

func TestCompute_SingleChangeOneHunk(t *testing.T) {
	lhs := "a\nb\nc\nd\nold\ne\nf\ng\nh\n"
	rhs := "a\nb\nc\nd\nnew\ne\nf\ng\nh\n"

	result := Compute(lhs, rhs, DefaultOptions(), nil)
	require.Len(t, result.Hunks, 1)

	hunk := result.Hunks[0]
	// Changed row at index 4, context 3: rows 1 through 7.
	require.Len(t, hunk.Pairs, 7)
	require.Equal(t, display.LineNumber(1), *hunk.Pairs[0].Left)
	require.True(t, hunk.NovelLeft[4])
	require.True(t, hunk.NovelRight[4])
}

func TestCompute_DistantChangesSeparateHunks(t *testing.T) {
	var lhsLines, rhsLines []string
	for range 30 {
		lhsLines = append(lhsLines, "ctx")
		rhsLines = append(rhsLines, "ctx")
	}
	lhsLines[2] = "old-one"
	rhsLines[2] = "new-one"
	lhsLines[25] = "old-two"
	rhsLines[25] = "new-two"

	result := Compute(strings.Join(lhsLines, "\n"), strings.Join(rhsLines, "\n"), DefaultOptions(), nil)
	require.Len(t, result.Hunks, 2)
	require.True(t, result.Hunks[0].NovelLeft[2])
	require.True(t, result.Hunks[1].NovelRight[25])
}

func TestCompute_AdjacentChangesMergeIntoOneHunk(t *testing.T) {
	lhs := "a\nold1\nb\nc\nold2\nd\n"
	rhs := "a\nnew1\nb\nc\nnew2\nd\n"

	result := Compute(lhs, rhs, DefaultOptions(), nil)
	require.Len(t, result.Hunks, 1, "ranges within the context radius merge")
}

func TestCompute_ZeroContext(t *testing.T) {
	lhs := "a\nold\nb\n"
	rhs := "a\nnew\nb\n"

	result := Compute(lhs, rhs, Options{Context: 0}, nil)
	require.Len(t, result.Hunks, 1)
	require.Len(t, result.Hunks[0].Pairs, 1, "zero context keeps only the changed row")
}

func TestCompute_NovelSetsRestrictedToHunkLines(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		gen := rapid.SliceOfN(rapid.SampledFrom([]string{"aa", "bb", "cc", "dd", "ee"}), 1, 20)
		lhs := strings.Join(gen.Draw(rt, "lhs"), "\n") + "\n"
		rhs := strings.Join(gen.Draw(rt, "rhs"), "\n") + "\n"
		context := rapid.IntRange(0, 4).Draw(rt, "context")

		result := Compute(lhs, rhs, Options{Context: context}, nil)

		for _, hunk := range result.Hunks {
			left := map[display.LineNumber]bool{}
			right := map[display.LineNumber]bool{}
			for _, pair := range hunk.Pairs {
				if pair.Left != nil {
					left[*pair.Left] = true
				}
				if pair.Right != nil {
					right[*pair.Right] = true
				}
			}
			for num := range hunk.NovelLeft {
				require.True(rt, left[num], "novel-left line %d not in hunk", num)
			}
			for num := range hunk.NovelRight {
				require.True(rt, right[num], "novel-right line %d not in hunk", num)
			}
		}
	})
}
