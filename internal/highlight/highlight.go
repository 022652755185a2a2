// Package highlight resolves syntax categories for tokens via chroma
// lexers, so the renderer can color unchanged code and pick emphasis
// for novel tokens.
package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/sidediff/internal/display"
)

// categorySpan is a lexed run of one line: a half-open rune-offset
// range and the category resolved for it.
type categorySpan struct {
	startCol int
	endCol   int
	category display.TokenCategory
}

// Highlighter lexes lines for one language. Lex results are memoized
// by line content, so re-renders in watch mode only pay for lines that
// actually changed.
type Highlighter struct {
	lexer chroma.Lexer
	cache *gocache.Cache
}

// New picks a lexer for the given file name, falling back to a
// plain-text lexer when the language is unknown.
func New(filename string) *Highlighter {
	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return &Highlighter{
		lexer: chroma.Coalesce(lexer),
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// LanguageName returns the human-readable name of the matched
// language.
func (h *Highlighter) LanguageName() string {
	return h.lexer.Config().Name
}

// Categorize implements the matcher's Categorizer: it returns the
// syntax category of the token occupying [startCol, endCol) of line.
// Tokens the lexer does not recognize categorize as normal text.
func (h *Highlighter) Categorize(line string, startCol, endCol int) display.TokenCategory {
	for _, span := range h.lineSpans(line) {
		if span.startCol <= startCol && startCol < span.endCol {
			return span.category
		}
	}
	return display.CategoryNormal
}

// lineSpans lexes one line, consulting the cache first. Lines are
// lexed in isolation; constructs spanning lines (e.g. block comments)
// may lex differently than in full-file context, which is an accepted
// tradeoff for per-line caching.
func (h *Highlighter) lineSpans(line string) []categorySpan {
	if cached, ok := h.cache.Get(line); ok {
		return cached.([]categorySpan)
	}

	var spans []categorySpan
	iter, err := h.lexer.Tokenise(nil, line)
	if err == nil {
		col := 0
		for _, tok := range iter.Tokens() {
			end := col + len([]rune(tok.Value))
			if cat := categoryFor(tok.Type); cat != display.CategoryNormal {
				spans = append(spans, categorySpan{startCol: col, endCol: end, category: cat})
			}
			col = end
		}
	}

	h.cache.Set(line, spans, gocache.NoExpiration)
	return spans
}

// categoryFor maps chroma token types onto the renderer's categories.
func categoryFor(t chroma.TokenType) display.TokenCategory {
	switch {
	case t == chroma.KeywordType || t == chroma.NameClass:
		return display.CategoryType
	case t.InCategory(chroma.Keyword):
		return display.CategoryKeyword
	case t.InCategory(chroma.Comment):
		return display.CategoryComment
	case t.InSubCategory(chroma.LiteralString):
		return display.CategoryString
	case t.InSubCategory(chroma.LiteralNumber):
		return display.CategoryNumber
	default:
		return display.CategoryNormal
	}
}
