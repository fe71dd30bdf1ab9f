// Package javasrc provides the Java frontend: it parses compilation units
// with tree-sitter, lowers the concrete syntax tree to node.Node and binds
// types, call signatures and symbols so that a Unit can serve as the
// analysis.Host of the rules.
package javasrc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexaandru/go-sitter-forest/java"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Sentinel errors for parsing.
var (
	ErrNoRootNode = errors.New("javasrc: no root node")
	ErrParse      = errors.New("javasrc: parse failed")
	errPoolType   = errors.New("javasrc: pool returned unexpected type")
)

var javaLanguage = sync.OnceValue(func() *sitter.Language {
	return sitter.NewLanguage(java.GetLanguage())
})

// Option configures a Parser.
type Option func(*Parser)

// WithHierarchy adds supertype edges for types the built-in library does not
// model. Keys and values are qualified names.
func WithHierarchy(hierarchy map[string][]string) Option {
	return func(parser *Parser) {
		for name, supers := range hierarchy {
			parser.hierarchy[name] = append(parser.hierarchy[name], supers...)
		}
	}
}

// Parser turns Java source into bound compilation units. It is safe for
// concurrent use; tree-sitter parsers are pooled.
type Parser struct {
	hierarchy    map[string][]string
	tsParserPool sync.Pool
}

// NewParser creates a parser for the Java grammar.
func NewParser(opts ...Option) *Parser {
	lang := javaLanguage()

	parser := &Parser{
		hierarchy: make(map[string][]string),
		tsParserPool: sync.Pool{
			New: func() any {
				tsParser := sitter.NewParser()
				tsParser.SetLanguage(lang)

				return tsParser
			},
		},
	}

	for _, opt := range opts {
		opt(parser)
	}

	return parser
}

// Parse parses, lowers and binds one compilation unit. Syntax errors do not
// fail the parse; tree-sitter recovers and the affected regions lower to
// node.Other and are counted in Unit.SyntaxErrors.
func (parser *Parser) Parse(ctx context.Context, filename string, src []byte) (*Unit, error) {
	tsParser, ok := parser.tsParserPool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer parser.tsParserPool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("%w: %s", ErrNoRootNode, filename)
	}

	low := newLowerer(src)
	lowered := low.compilationUnit(root)

	unit := newUnit(filename, src, lowered, low, parser.hierarchy)
	unit.SyntaxErrors = low.syntaxErrors

	newBinder(unit, low).bind()

	return unit, nil
}

// ParseString is Parse over a string source.
func (parser *Parser) ParseString(ctx context.Context, filename, src string) (*Unit, error) {
	return parser.Parse(ctx, filename, []byte(src))
}
