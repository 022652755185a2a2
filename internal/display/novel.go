package display

import "strings"

// highlightAsNovel decides whether a side's line in a row should be
// treated as changed for highlighting. A line is novel when the matcher
// flagged any of its tokens, or when it is a blank line with no
// counterpart on the other side: a synthetic blank insertion carries no
// tokens at all, but still needs to stand out from unchanged blank
// context.
func highlightAsNovel(num *LineNumber, lines []string, oppositeNum *LineNumber, novelLines map[LineNumber]bool) bool {
	if num == nil {
		return false
	}
	if novelLines[*num] {
		return true
	}
	if int(*num) < len(lines) && strings.TrimSpace(lines[*num]) == "" && oppositeNum == nil {
		return true
	}
	return false
}
