// Package extract slices Python source files into re-insertable code blocks.
//
// Blocks are produced in two passes: first the module's top-level functions
// and classes in source order, then the methods defined directly in each
// class body, class by class. Functions nested inside functions are never
// extracted. Decorators directly above a definition are part of its block.
package extract

import (
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/panbanda/docaudit/pkg/models"
	"github.com/panbanda/docaudit/pkg/parser"
)

// ParseError reports a file that is not syntactically valid Python.
type ParseError struct {
	Path   string
	Line   uint32
	Column uint32
	Near   string
}

func (e *ParseError) Error() string {
	if e.Near != "" {
		return fmt.Sprintf("%s:%d:%d: invalid syntax near %q", e.Path, e.Line, e.Column, e.Near)
	}
	return fmt.Sprintf("%s:%d:%d: invalid syntax", e.Path, e.Line, e.Column)
}

// Extractor produces code blocks from Python source.
// It is not safe for concurrent use.
type Extractor struct {
	parser *parser.Parser
}

// New creates an extractor backed by a tree-sitter parser.
func New() *Extractor {
	return &Extractor{parser: parser.New()}
}

// Close releases parser resources.
func (e *Extractor) Close() {
	e.parser.Close()
}

// ExtractFile reads path and extracts its blocks.
func (e *Extractor) ExtractFile(path, nameFilter string) ([]models.CodeBlock, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return e.Extract(source, path, nameFilter)
}

// Extract returns the code blocks of source in extraction order. When
// nameFilter is non-empty only blocks whose name equals it are returned.
// Every block's Text equals source[Span.Start:Span.End].
func (e *Extractor) Extract(source []byte, path, nameFilter string) ([]models.CodeBlock, error) {
	result, err := e.parser.Parse(source, path)
	if err != nil {
		return nil, err
	}
	defer result.Tree.Close()

	if syntaxErr := result.FirstSyntaxError(); syntaxErr != nil {
		return nil, &ParseError{
			Path:   path,
			Line:   syntaxErr.Line,
			Column: syntaxErr.Column,
			Near:   syntaxErr.Text,
		}
	}

	var (
		blocks  []models.CodeBlock
		classes []*sitter.Node
	)

	root := result.Tree.RootNode()
	for i := range int(root.NamedChildCount()) {
		outer, def := unwrap(root.NamedChild(i))
		if def == nil {
			continue
		}
		switch def.Type() {
		case "function_definition":
			blocks = append(blocks, newBlock(outer, def, models.KindFunction, "", source))
		case "class_definition":
			blocks = append(blocks, newBlock(outer, def, models.KindClass, "", source))
			classes = append(classes, def)
		}
	}

	for _, class := range classes {
		className := parser.GetNodeText(class.ChildByFieldName("name"), source)
		body := class.ChildByFieldName("body")
		if body == nil {
			continue
		}
		for i := range int(body.NamedChildCount()) {
			outer, def := unwrap(body.NamedChild(i))
			if def == nil || def.Type() != "function_definition" {
				continue
			}
			blocks = append(blocks, newBlock(outer, def, models.KindMethod, className, source))
		}
	}

	return Filter(blocks, nameFilter), nil
}

// Filter keeps the blocks whose name equals name exactly, preserving order.
// An empty name keeps everything.
func Filter(blocks []models.CodeBlock, name string) []models.CodeBlock {
	if name == "" {
		return blocks
	}
	filtered := make([]models.CodeBlock, 0, 1)
	for _, b := range blocks {
		if b.Name == name {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// unwrap returns the node whose span forms the block (the decorated
// definition when decorators are present) and the definition itself.
func unwrap(node *sitter.Node) (outer, def *sitter.Node) {
	if node == nil {
		return nil, nil
	}
	switch node.Type() {
	case "decorated_definition":
		return node, node.ChildByFieldName("definition")
	case "function_definition", "class_definition":
		return node, node
	default:
		return nil, nil
	}
}

func newBlock(outer, def *sitter.Node, kind models.BlockKind, class string, source []byte) models.CodeBlock {
	start, end := int(outer.StartByte()), int(outer.EndByte())
	block := models.CodeBlock{
		Name:           parser.GetNodeText(def.ChildByFieldName("name"), source),
		Kind:           kind,
		Text:           string(source[start:end]),
		EnclosingClass: class,
		Span:           models.Span{Start: start, End: end},
		StartLine:      outer.StartPoint().Row + 1,
		EndLine:        outer.EndPoint().Row + 1,
	}
	if doc := parser.DocstringNode(def, source); doc != nil {
		block.HasDocstring = true
		block.DocSpan = models.Span{Start: int(doc.StartByte()), End: int(doc.EndByte())}
	}
	return block
}
