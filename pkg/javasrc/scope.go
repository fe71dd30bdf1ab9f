package javasrc

import (
	"github.com/Consensys/errorprone-checks/pkg/analysis"
)

// scope is one lexical level: a class body, a function or a block.
type scope struct {
	parent   *scope
	unit     *Unit
	vars     map[string]analysis.Symbol
	types    map[string]string
	typeVars map[string]bool
	// class is set on class body scopes.
	class *classInfo
}

func newScope(parent *scope, unit *Unit) *scope {
	return &scope{
		parent:   parent,
		unit:     unit,
		vars:     make(map[string]analysis.Symbol),
		types:    make(map[string]string),
		typeVars: make(map[string]bool),
	}
}

func (sc *scope) child() *scope {
	return newScope(sc, sc.unit)
}

// classScope opens the body of cls: its member types and type variables
// become visible.
func (sc *scope) classScope(cls *classInfo) *scope {
	inner := newScope(sc, sc.unit)
	inner.class = cls

	for simple, qualified := range cls.nested {
		inner.types[simple] = qualified
	}

	for _, param := range cls.typeParams {
		inner.typeVars[param] = true
	}

	return inner
}

func (sc *scope) declare(sym analysis.Symbol) {
	sc.vars[sym.Name] = sym
}

// enclosingClasses lists the classes of sc from innermost outwards.
func (sc *scope) enclosingClasses() []*classInfo {
	var out []*classInfo

	for cursor := sc; cursor != nil; cursor = cursor.parent {
		if cursor.class != nil {
			out = append(out, cursor.class)
		}
	}

	return out
}

func (sc *scope) currentClass() *classInfo {
	for cursor := sc; cursor != nil; cursor = cursor.parent {
		if cursor.class != nil {
			return cursor.class
		}
	}

	return nil
}

func (sc *scope) typeVar(name string) bool {
	for cursor := sc; cursor != nil; cursor = cursor.parent {
		if cursor.typeVars[name] {
			return true
		}
	}

	return false
}

func (sc *scope) className(name string) (string, bool) {
	for cursor := sc; cursor != nil; cursor = cursor.parent {
		if qualified, ok := cursor.types[name]; ok {
			return qualified, true
		}
	}

	return sc.unit.className(name)
}
