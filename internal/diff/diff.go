// Package diff computes the token-level diff that drives the
// side-by-side renderer: aligned line pairs, per-side matched
// positions, and hunks grouped around the changed lines.
package diff

import (
	"strings"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/sidediff/internal/display"
)

// tokenDiffMaxLineLength skips token-level refinement for lines longer
// than this; such lines are marked novel as a whole.
const tokenDiffMaxLineLength = 500

// Categorizer assigns a syntax category to a token occurrence. The
// column range is half-open, in rune offsets into line.
type Categorizer interface {
	Categorize(line string, startCol, endCol int) display.TokenCategory
}

// Options controls matching and hunk grouping.
type Options struct {
	// Context is the number of unchanged rows kept around changed rows
	// in each hunk.
	Context int
}

// DefaultOptions returns the matcher defaults.
func DefaultOptions() Options {
	return Options{Context: 3}
}

// Result is the matcher output consumed by the renderer.
type Result struct {
	Hunks        []display.Hunk
	LhsPositions []display.MatchedPos
	RhsPositions []display.MatchedPos
}

// pairKind tracks how a row was produced; changed rows seed hunks.
type pairKind int

const (
	pairContext pairKind = iota
	pairChanged
)

// rawPair is an aligned row before hunk grouping.
type rawPair struct {
	pair display.AlignedPair
	kind pairKind
}

// Compute diffs two sources line by line, refines changed line pairs at
// token level, and groups the aligned rows into hunks. cat may be nil,
// in which case every token is categorized as normal text.
func Compute(lhsSrc, rhsSrc string, opts Options, cat Categorizer) Result {
	lhsLines := display.SplitOnNewlines(lhsSrc)
	rhsLines := display.SplitOnNewlines(rhsSrc)

	pairs := alignLines(lhsSrc, rhsSrc)

	var lhsPositions, rhsPositions []display.MatchedPos
	// Context lines contribute unchanged positions only; one-sided rows
	// are wholly novel; two-sided changed rows are refined token by
	// token.
	for _, rp := range pairs {
		switch {
		case rp.kind == pairContext:
			if rp.pair.Left != nil {
				lhsPositions = append(lhsPositions, linePositions(lhsLines[*rp.pair.Left], *rp.pair.Left, display.MatchUnchanged, cat)...)
			}
			if rp.pair.Right != nil {
				rhsPositions = append(rhsPositions, linePositions(rhsLines[*rp.pair.Right], *rp.pair.Right, display.MatchUnchanged, cat)...)
			}
		case rp.pair.Left != nil && rp.pair.Right != nil:
			l, r := refineLinePair(lhsLines[*rp.pair.Left], rhsLines[*rp.pair.Right], *rp.pair.Left, *rp.pair.Right, cat)
			lhsPositions = append(lhsPositions, l...)
			rhsPositions = append(rhsPositions, r...)
		case rp.pair.Left != nil:
			lhsPositions = append(lhsPositions, linePositions(lhsLines[*rp.pair.Left], *rp.pair.Left, display.MatchNovel, cat)...)
		case rp.pair.Right != nil:
			rhsPositions = append(rhsPositions, linePositions(rhsLines[*rp.pair.Right], *rp.pair.Right, display.MatchNovel, cat)...)
		}
	}

	return Result{
		Hunks:        buildHunks(pairs, lhsPositions, rhsPositions, opts.Context),
		LhsPositions: lhsPositions,
		RhsPositions: rhsPositions,
	}
}

// alignLines produces the full aligned row sequence from a line-level
// diff. Runs of deleted lines followed by runs of inserted lines are
// paired positionally into changed rows; the leftovers become one-sided
// rows.
func alignLines(lhsSrc, rhsSrc string) []rawPair {
	dmp := diffmatchpatch.New()
	c1, c2, arr := dmp.DiffLinesToChars(lhsSrc, rhsSrc)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(c1, c2, false), arr)

	var pairs []rawPair
	lhsIdx, rhsIdx := 0, 0
	pendingDel, pendingIns := 0, 0

	// flush pairs the gathered deletion and insertion runs positionally
	// and emits the leftovers one-sided.
	flush := func() {
		paired := min(pendingDel, pendingIns)
		for range paired {
			pairs = append(pairs, rawPair{
				pair: display.AlignedPair{Left: ln(lhsIdx), Right: ln(rhsIdx)},
				kind: pairChanged,
			})
			lhsIdx++
			rhsIdx++
		}
		for range pendingDel - paired {
			pairs = append(pairs, rawPair{
				pair: display.AlignedPair{Left: ln(lhsIdx)},
				kind: pairChanged,
			})
			lhsIdx++
		}
		for range pendingIns - paired {
			pairs = append(pairs, rawPair{
				pair: display.AlignedPair{Right: ln(rhsIdx)},
				kind: pairChanged,
			})
			rhsIdx++
		}
		pendingDel, pendingIns = 0, 0
	}

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			pendingDel += countLines(d.Text)
		case diffmatchpatch.DiffInsert:
			pendingIns += countLines(d.Text)
		case diffmatchpatch.DiffEqual:
			flush()
			for range countLines(d.Text) {
				pairs = append(pairs, rawPair{
					pair: display.AlignedPair{Left: ln(lhsIdx), Right: ln(rhsIdx)},
					kind: pairContext,
				})
				lhsIdx++
				rhsIdx++
			}
		}
	}
	flush()

	return pairs
}

// ln boxes a line index.
func ln(i int) *display.LineNumber {
	n := display.LineNumber(i)
	return &n
}

// countLines counts the logical lines in one diff piece. Pieces carry
// their line terminators; a final piece without one is still a line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// linePositions emits one position per non-whitespace token of line,
// all with the same match kind.
func linePositions(line string, num display.LineNumber, kind display.MatchKind, cat Categorizer) []display.MatchedPos {
	var positions []display.MatchedPos
	col := 0
	for _, tok := range tokenize(line) {
		end := col + len([]rune(tok))
		if !isBlank(tok) {
			positions = append(positions, display.MatchedPos{
				Kind:     kind,
				Category: categorize(cat, line, col, end),
				Pos:      display.LineSpan{Line: num, StartCol: col, EndCol: end},
			})
		}
		col = end
	}
	return positions
}

// refineLinePair diffs a changed line pair token by token, classifying
// each side's tokens as unchanged or novel.
func refineLinePair(lhsLine, rhsLine string, lhsNum, rhsNum display.LineNumber, cat Categorizer) ([]display.MatchedPos, []display.MatchedPos) {
	if len(lhsLine) > tokenDiffMaxLineLength || len(rhsLine) > tokenDiffMaxLineLength {
		return linePositions(lhsLine, lhsNum, display.MatchNovel, cat),
			linePositions(rhsLine, rhsNum, display.MatchNovel, cat)
	}

	lhsTokens := tokenize(lhsLine)
	rhsTokens := tokenize(rhsLine)
	diffs := diffTokenStreams(lhsTokens, rhsTokens)

	var lhsPositions, rhsPositions []display.MatchedPos
	lhsCol, rhsCol := 0, 0
	lhsTok, rhsTok := 0, 0

	emit := func(out *[]display.MatchedPos, line string, num display.LineNumber, col *int, tokens []string, tok *int, n int, kind display.MatchKind) {
		for range n {
			t := tokens[*tok]
			end := *col + len([]rune(t))
			if !isBlank(t) {
				*out = append(*out, display.MatchedPos{
					Kind:     kind,
					Category: categorize(cat, line, *col, end),
					Pos:      display.LineSpan{Line: num, StartCol: *col, EndCol: end},
				})
			}
			*col = end
			*tok++
		}
	}

	for _, d := range diffs {
		n := len([]rune(d.Text))
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			emit(&lhsPositions, lhsLine, lhsNum, &lhsCol, lhsTokens, &lhsTok, n, display.MatchUnchanged)
			emit(&rhsPositions, rhsLine, rhsNum, &rhsCol, rhsTokens, &rhsTok, n, display.MatchUnchanged)
		case diffmatchpatch.DiffDelete:
			emit(&lhsPositions, lhsLine, lhsNum, &lhsCol, lhsTokens, &lhsTok, n, display.MatchNovel)
		case diffmatchpatch.DiffInsert:
			emit(&rhsPositions, rhsLine, rhsNum, &rhsCol, rhsTokens, &rhsTok, n, display.MatchNovel)
		}
	}

	return lhsPositions, rhsPositions
}

// diffTokenStreams diffs two token sequences by mapping each distinct
// token to a rune and diffing the rune strings, so one rune in the
// result stands for one token.
func diffTokenStreams(lhsTokens, rhsTokens []string) []diffmatchpatch.Diff {
	index := make(map[string]rune)
	next := rune(1)
	encode := func(tokens []string) string {
		var b strings.Builder
		for _, tok := range tokens {
			r, ok := index[tok]
			if !ok {
				r = next
				index[tok] = r
				next++
			}
			b.WriteRune(r)
		}
		return b.String()
	}

	lhsEnc := encode(lhsTokens)
	rhsEnc := encode(rhsTokens)

	dmp := diffmatchpatch.New()
	return dmp.DiffMain(lhsEnc, rhsEnc, false)
}

// categorize consults the categorizer, defaulting to normal text.
func categorize(cat Categorizer, line string, startCol, endCol int) display.TokenCategory {
	if cat == nil {
		return display.CategoryNormal
	}
	return cat.Categorize(line, startCol, endCol)
}

// tokenize splits a line into word, punctuation and whitespace tokens.
// Concatenating the tokens reproduces the line exactly, so column
// offsets can be accumulated from token lengths.
func tokenize(line string) []string {
	if line == "" {
		return nil
	}

	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range line {
		switch {
		case unicode.IsSpace(r):
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			flush()
			tokens = append(tokens, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

// isBlank reports whether a token is pure whitespace.
func isBlank(tok string) bool {
	return strings.TrimSpace(tok) == ""
}
