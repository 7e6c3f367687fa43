package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser wraps tree-sitter for Python parsing.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed AST and metadata.
type ParseResult struct {
	Tree   *sitter.Tree
	Source []byte
	Path   string
}

// New creates a new parser instance.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// Parse parses Python source code. The caller closes the returned tree.
func (p *Parser) Parse(source []byte, path string) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &ParseResult{
		Tree:   tree,
		Source: source,
		Path:   path,
	}, nil
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// NodeVisitor is a function that visits AST nodes.
// Returning false skips the node's children.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// Walk traverses the AST calling visitor for each node.
func Walk(node *sitter.Node, source []byte, visitor NodeVisitor) {
	if node == nil {
		return
	}

	if !visitor(node, source) {
		return
	}

	for i := range int(node.ChildCount()) {
		Walk(node.Child(i), source, visitor)
	}
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// SyntaxError locates the first ERROR or MISSING node of a tree.
type SyntaxError struct {
	Line   uint32
	Column uint32
	Text   string
}

// FirstSyntaxError returns the first syntax error in the tree in source order,
// or nil when the tree parsed cleanly.
func (r *ParseResult) FirstSyntaxError() *SyntaxError {
	root := r.Tree.RootNode()
	if root == nil {
		return nil
	}

	var found *sitter.Node
	Walk(root, r.Source, func(node *sitter.Node, _ []byte) bool {
		if found != nil {
			return false
		}
		if node.Type() == "ERROR" || node.IsMissing() || legacySyntax(node, r.Source) {
			found = node
			return false
		}
		return true
	})
	if found == nil {
		if !root.HasError() {
			return nil
		}
		found = root
	}

	text := GetNodeText(found, r.Source)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if found.IsMissing() {
		text = "missing " + found.Type()
	}

	return &SyntaxError{
		Line:   found.StartPoint().Row + 1,
		Column: found.StartPoint().Column + 1,
		Text:   text,
	}
}

// legacySyntax reports Python 2 constructs the grammar still accepts:
// print and exec statements and backtick repr expressions.
func legacySyntax(node *sitter.Node, source []byte) bool {
	switch node.Type() {
	case "print_statement", "exec_statement":
		return true
	case "string":
		return strings.HasPrefix(strings.TrimLeft(GetNodeText(node, source), "rRbBuUfF"), "`")
	}
	return false
}

// FirstStatement returns the first named child of a block that is not a comment.
func FirstStatement(block *sitter.Node) *sitter.Node {
	if block == nil {
		return nil
	}
	for i := range int(block.NamedChildCount()) {
		child := block.NamedChild(i)
		if child.Type() != "comment" {
			return child
		}
	}
	return nil
}

// DocstringNode returns the string literal that documents a function or class
// definition, or nil if its body does not start with one. F-strings are not
// docstrings.
func DocstringNode(def *sitter.Node, source []byte) *sitter.Node {
	if def == nil {
		return nil
	}
	stmt := FirstStatement(def.ChildByFieldName("body"))
	if stmt == nil || stmt.Type() != "expression_statement" {
		return nil
	}
	expr := stmt.NamedChild(0)
	if expr == nil || expr.Type() != "string" {
		return nil
	}
	text := GetNodeText(expr, source)
	prefix := text[:len(text)-len(strings.TrimLeft(text, "rRbBuUfF"))]
	if strings.ContainsAny(prefix, "fF") {
		return nil
	}
	return expr
}
