// File: internal/analysis/pyast/pyast.go

// Package pyast wraps tree-sitter parsing of Python sources and provides the
// traversal helpers shared by the analysis passes.
package pyast

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser wraps a tree-sitter parser configured for the Python grammar.
// A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a Python parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// Parse parses source and returns the AST root. Syntactically invalid source
// is an error: the passes built on top of this need a complete tree, so
// there is no partial-result mode.
func (p *Parser) Parse(ctx context.Context, source []byte) (*sitter.Node, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("syntax error in source")
	}
	return root, nil
}

// Walk visits node and its descendants depth-first. The visit function
// returns false to prune the subtree below the current node.
func Walk(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil || node.IsNull() {
		return
	}
	if !visit(node) {
		return
	}

	cursor := sitter.NewTreeCursor(node)
	defer cursor.Close()

	if ok := cursor.GoToFirstChild(); ok {
		for {
			Walk(cursor.CurrentNode(), visit)
			if ok := cursor.GoToNextSibling(); !ok {
				break
			}
		}
	}
}

// Text returns the source text covered by a node.
func Text(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// Line returns the 1-based line number a node starts on.
func Line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

// Call describes one call expression. Exactly one of Name and Attr is
// non-empty for simple callees: Name for a bare identifier call like
// open(...), Attr for the trailing attribute of a method call like
// cursor.execute(...). Subscript or call-result callees leave both empty.
type Call struct {
	Node *sitter.Node
	Name string
	Attr string
}

// Calls collects every call expression under root in document order.
func Calls(root *sitter.Node, source []byte) []Call {
	var calls []Call
	Walk(root, func(n *sitter.Node) bool {
		if n.Type() != "call" {
			return true
		}
		call := Call{Node: n}
		if fn := n.ChildByFieldName("function"); fn != nil {
			switch fn.Type() {
			case "identifier":
				call.Name = Text(fn, source)
			case "attribute":
				if attr := fn.ChildByFieldName("attribute"); attr != nil {
					call.Attr = Text(attr, source)
				}
			}
		}
		calls = append(calls, call)
		return true
	})
	return calls
}

// Argument returns the positional argument at index i of a call node, or nil.
func (c Call) Argument(i int, _ []byte) *sitter.Node {
	args := c.Node.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	pos := 0
	for j := 0; j < int(args.NamedChildCount()); j++ {
		child := args.NamedChild(j)
		if child.Type() == "keyword_argument" {
			continue
		}
		if pos == i {
			return child
		}
		pos++
	}
	return nil
}

// Keyword returns the value node of the named keyword argument, or nil.
func (c Call) Keyword(name string, source []byte) *sitter.Node {
	args := c.Node.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	for j := 0; j < int(args.NamedChildCount()); j++ {
		child := args.NamedChild(j)
		if child.Type() != "keyword_argument" {
			continue
		}
		if key := child.ChildByFieldName("name"); key != nil && Text(key, source) == name {
			return child.ChildByFieldName("value")
		}
	}
	return nil
}

// StringLiteral reports whether a node is a string literal and returns its
// unquoted text. Prefixes (r, b, f) and triple quotes are stripped
// best-effort; interpolated f-strings return their raw body.
func StringLiteral(node *sitter.Node, source []byte) (string, bool) {
	if node == nil || node.Type() != "string" {
		return "", false
	}
	text := Text(node, source)
	// Strip leading prefix characters up to the first quote.
	for len(text) > 0 && text[0] != '"' && text[0] != '\'' {
		text = text[1:]
	}
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if len(text) >= 2*len(quote) &&
			text[:len(quote)] == quote && text[len(text)-len(quote):] == quote {
			return text[len(quote) : len(text)-len(quote)], true
		}
	}
	return text, true
}
