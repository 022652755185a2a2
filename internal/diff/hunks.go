package diff

import "github.com/zjrosen/sidediff/internal/display"

// buildHunks groups the aligned rows into hunks: each changed row is
// expanded by the context radius, overlapping or touching ranges are
// merged, and each resulting range becomes one hunk carrying the novel
// line numbers visible inside it. Hunks preserve the global row order.
func buildHunks(pairs []rawPair, lhsPositions, rhsPositions []display.MatchedPos, context int) []display.Hunk {
	var ranges [][2]int
	for i, rp := range pairs {
		if rp.kind != pairChanged {
			continue
		}
		start := max(i-context, 0)
		end := min(i+context, len(pairs)-1)
		if n := len(ranges); n > 0 && start <= ranges[n-1][1]+1 {
			ranges[n-1][1] = end
		} else {
			ranges = append(ranges, [2]int{start, end})
		}
	}
	if len(ranges) == 0 {
		return nil
	}

	lhsNovel := novelLineSet(lhsPositions)
	rhsNovel := novelLineSet(rhsPositions)

	hunks := make([]display.Hunk, 0, len(ranges))
	for _, r := range ranges {
		hunk := display.Hunk{
			NovelLeft:  map[display.LineNumber]bool{},
			NovelRight: map[display.LineNumber]bool{},
		}
		for _, rp := range pairs[r[0] : r[1]+1] {
			hunk.Pairs = append(hunk.Pairs, rp.pair)
			if rp.pair.Left != nil && lhsNovel[*rp.pair.Left] {
				hunk.NovelLeft[*rp.pair.Left] = true
			}
			if rp.pair.Right != nil && rhsNovel[*rp.pair.Right] {
				hunk.NovelRight[*rp.pair.Right] = true
			}
		}
		hunks = append(hunks, hunk)
	}
	return hunks
}

// novelLineSet collects the line numbers carrying a novel token.
func novelLineSet(positions []display.MatchedPos) map[display.LineNumber]bool {
	novel := make(map[display.LineNumber]bool)
	for _, mp := range positions {
		if mp.Kind == display.MatchNovel {
			novel[mp.Pos.Line] = true
		}
	}
	return novel
}
