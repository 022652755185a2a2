package tracing

// Span names used across the render pipeline. Centralizing them keeps
// traces consistent and greppable.
const (
	SpanDiff       = "diff.compute"
	SpanHighlight  = "highlight.lex"
	SpanRender     = "render.print"
	SpanRenderHunk = "render.hunk"
	SpanWatch      = "watch.rebuild"
)

// Attribute keys for span attributes.
const (
	AttrLhsPath   = "lhs.path"
	AttrRhsPath   = "rhs.path"
	AttrLanguage  = "language"
	AttrHunkIndex = "hunk.index"
	AttrHunkCount = "hunk.count"
	AttrWidth     = "terminal.width"
)
