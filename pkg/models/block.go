package models

// BlockKind classifies a code block.
type BlockKind string

const (
	KindFunction BlockKind = "function"
	KindMethod   BlockKind = "method"
	KindClass    BlockKind = "class"
)

// Span is a half-open byte range [Start, End) within a source file.
type Span struct {
	Start int `json:"start" toon:"start"`
	End   int `json:"end" toon:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Shift moves the span by delta bytes.
func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}

// CodeBlock is a verbatim slice of a source file covering one function,
// method or class definition, decorators included.
type CodeBlock struct {
	Name string    `json:"name" toon:"name"`
	Kind BlockKind `json:"kind" toon:"kind"`
	Text string    `json:"text" toon:"text"`
	// EnclosingClass names the class a method belongs to; empty otherwise.
	EnclosingClass string `json:"enclosing_class,omitempty" toon:"enclosing_class,omitempty"`
	Span           Span   `json:"span" toon:"span"`
	StartLine      uint32 `json:"start_line" toon:"start_line"`
	EndLine        uint32 `json:"end_line" toon:"end_line"`
	HasDocstring   bool   `json:"has_docstring" toon:"has_docstring"`
	// DocSpan locates the docstring literal in the file. It is only
	// meaningful when HasDocstring is set.
	DocSpan Span `json:"doc_span" toon:"doc_span"`
}

// Docstring returns the block's docstring literal, quotes included.
func (b CodeBlock) Docstring() (string, bool) {
	start, end := b.DocSpan.Start-b.Span.Start, b.DocSpan.End-b.Span.Start
	if !b.HasDocstring || start < 0 || start > end || end > len(b.Text) {
		return "", false
	}
	return b.Text[start:end], true
}

// QualifiedName returns Class.method for methods and the plain name otherwise.
func (b CodeBlock) QualifiedName() string {
	if b.EnclosingClass != "" {
		return b.EnclosingClass + "." + b.Name
	}
	return b.Name
}
