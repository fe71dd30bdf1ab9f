package javasrc

import (
	"strings"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

// Unit is one parsed and bound compilation unit. It implements
// analysis.Host over its own tree.
type Unit struct {
	Root     *node.Node
	Filename string
	Source   []byte
	// Package is the declared package, empty for the default package.
	Package string
	// SyntaxErrors counts regions tree-sitter could not parse.
	SyntaxErrors int

	ts          *typeSystem
	imports     []importDecl
	topLevel    map[string]string
	signatures  map[*node.Node]analysis.Signature
	symbols     map[*node.Node]analysis.Symbol
	functionals map[*node.Node]*jtype.Descriptor
}

var _ analysis.Host = (*Unit)(nil)

func newUnit(filename string, src []byte, root *node.Node, low *lowerer, hierarchy map[string][]string) *Unit {
	return &Unit{
		Root:        root,
		Filename:    filename,
		Source:      src,
		Package:     low.pkg,
		ts:          newTypeSystem(builtinLibrary(), hierarchy),
		imports:     low.imports,
		topLevel:    make(map[string]string),
		signatures:  make(map[*node.Node]analysis.Signature),
		symbols:     make(map[*node.Node]analysis.Symbol),
		functionals: make(map[*node.Node]*jtype.Descriptor),
	}
}

// TypeOf implements analysis.Host.
func (unit *Unit) TypeOf(n *node.Node) *jtype.Descriptor {
	if n == nil || !n.Type.IsResolved() {
		return nil
	}

	return n.Type
}

// IsSubtypeOf implements analysis.Host over unit classes, the built-in
// library and extra hierarchy edges.
func (unit *Unit) IsSubtypeOf(t *jtype.Descriptor, qualifiedName string) bool {
	if !t.IsReference() {
		return false
	}

	return unit.ts.isSubtype(t, qualifiedName)
}

// Signature implements analysis.Host.
func (unit *Unit) Signature(call *node.Node) (analysis.Signature, bool) {
	sig, ok := unit.signatures[call]

	return sig, ok
}

// Symbol implements analysis.Host.
func (unit *Unit) Symbol(n *node.Node) (analysis.Symbol, bool) {
	sym, ok := unit.symbols[n]

	return sym, ok
}

// FunctionalReturn implements analysis.Host.
func (unit *Unit) FunctionalReturn(lambda *node.Node) *jtype.Descriptor {
	return unit.functionals[lambda]
}

// Text returns the source text covered by span.
func (unit *Unit) Text(span node.Span) string {
	if span.Start < 0 || span.End > len(unit.Source) || span.Start > span.End {
		return ""
	}

	return string(unit.Source[span.Start:span.End])
}

// qualifiedName names a top-level type declared in the unit.
func (unit *Unit) qualifiedName(simple string) string {
	if unit.Package == "" {
		return simple
	}

	return unit.Package + "." + simple
}

// className resolves a simple type name the way a compilation unit sees it:
// its own top-level types, single-type imports, on-demand imports of known
// types, java.lang, and finally the unit's own package.
func (unit *Unit) className(name string) (string, bool) {
	if strings.Contains(name, ".") {
		if unit.ts.known(name) {
			return name, true
		}

		return "", false
	}

	if qualified, ok := unit.topLevel[name]; ok {
		return qualified, true
	}

	for _, imp := range unit.imports {
		if !imp.static && !imp.onDemand && jtype.SimpleName(imp.path) == name {
			return imp.path, true
		}
	}

	for _, imp := range unit.imports {
		if imp.static || !imp.onDemand {
			continue
		}

		if candidate := imp.path + "." + name; unit.ts.known(candidate) {
			return candidate, true
		}
	}

	if candidate := javaLang + name; unit.ts.known(candidate) {
		return candidate, true
	}

	if !startsUpper(name) {
		return "", false
	}

	return unit.qualifiedName(name), true
}

// staticImports returns the classes whose static member name is imported.
func (unit *Unit) staticImports(member string) []string {
	var out []string

	for _, imp := range unit.imports {
		if !imp.static {
			continue
		}

		if imp.onDemand {
			out = append(out, imp.path)

			continue
		}

		if owner, name, ok := cutLast(imp.path); ok && name == member {
			out = append(out, owner)
		}
	}

	return out
}

func cutLast(path string) (string, string, bool) {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return "", "", false
	}

	return path[:idx], path[idx+1:], true
}

func startsUpper(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}
