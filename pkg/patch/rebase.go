package patch

import "github.com/panbanda/docaudit/pkg/models"

// Edit is one replacement written to a file. Offset is measured in the
// content as it was before the replacement.
type Edit struct {
	Offset int
	Old    string
	New    string
}

// Rebase moves a block extracted before edits were written so that its
// spans and text describe the file after them. Edits are applied in order.
// An edit that straddles a block boundary leaves the block untouched.
func Rebase(block models.CodeBlock, edits ...Edit) models.CodeBlock {
	for _, e := range edits {
		block = e.apply(block)
	}
	return block
}

func (e Edit) apply(b models.CodeBlock) models.CodeBlock {
	delta := len(e.New) - len(e.Old)
	end := e.Offset + len(e.Old)
	rel := e.Offset - b.Span.Start

	switch {
	case end <= b.Span.Start:
		b.Span = b.Span.Shift(delta)
		b.DocSpan = b.DocSpan.Shift(delta)
	case rel >= 0 && rel+len(e.Old) <= b.Span.Len():
		b.Text = b.Text[:rel] + e.New + b.Text[rel+len(e.Old):]
		b.Span.End += delta
		switch {
		case end <= b.DocSpan.Start:
			b.DocSpan = b.DocSpan.Shift(delta)
		case e.Offset >= b.DocSpan.Start && end <= b.DocSpan.End:
			b.DocSpan.End += delta
		}
	}
	return b
}
