package javasrc

import (
	"github.com/Consensys/errorprone-checks/pkg/jtype"
)

// argument is what overload resolution knows about one call argument.
type argument struct {
	// typ is nil when the argument's type is unknown.
	typ *jtype.Descriptor
	// arity is the parameter count of a lambda argument, -1 when unknown.
	arity int
	// functional marks lambdas and method references.
	functional bool
	null       bool
}

// phase is one of the three applicability phases of method invocation:
// strict (identity and widening), loose (boxing) and variable arity.
type phase uint8

const (
	phaseStrict phase = iota + 1
	phaseLoose
	phaseVarargs
)

// resolve selects the most specific applicable candidate. Arguments of
// unknown type are compatible with every parameter. It reports false when
// nothing applies or the choice is ambiguous.
func (ts *typeSystem) resolve(candidates []boundMethod, args []argument) (boundMethod, phase, bool) {
	for _, ph := range []phase{phaseStrict, phaseLoose, phaseVarargs} {
		var applicable []boundMethod

		for _, cand := range candidates {
			if ts.applicable(cand, args, ph) {
				applicable = append(applicable, cand)
			}
		}

		if len(applicable) == 0 {
			continue
		}

		best, ok := ts.mostSpecific(applicable, len(args), ph)

		return best, ph, ok
	}

	return boundMethod{}, 0, false
}

func (ts *typeSystem) applicable(cand boundMethod, args []argument, ph phase) bool {
	params := cand.params

	if ph != phaseVarargs {
		if len(params) != len(args) {
			return false
		}

		for idx, arg := range args {
			if !ts.convertible(arg, params[idx], ph) {
				return false
			}
		}

		return true
	}

	if !cand.decl.varargs || len(params) == 0 || len(args) < len(params)-1 {
		return false
	}

	last := len(params) - 1
	for idx, arg := range args {
		param := params[min(idx, last)]
		if idx >= last {
			param = params[last].Elem
		}

		if !ts.convertible(arg, param, phaseLoose) {
			return false
		}
	}

	return true
}

// paramFor is the declared type an argument position binds to in phase ph.
func paramFor(cand boundMethod, idx int, ph phase) *jtype.Descriptor {
	if len(cand.params) == 0 {
		return nil
	}

	last := len(cand.params) - 1
	if ph == phaseVarargs && idx >= last {
		return cand.params[last].Elem
	}

	if idx > last {
		return nil
	}

	return cand.params[idx]
}

func (ts *typeSystem) convertible(arg argument, param *jtype.Descriptor, ph phase) bool {
	switch {
	case !param.IsResolved():
		return true
	case arg.functional:
		return ts.acceptsFunctional(param, arg.arity)
	case arg.null:
		return !param.IsPrimitive()
	case !arg.typ.IsResolved():
		return true
	case ts.assignable(arg.typ, param):
		return true
	case ph == phaseStrict:
		return false
	case arg.typ.IsPrimitive() && !param.IsPrimitive():
		box, ok := jtype.Boxed(arg.typ.Kind)

		return ok && ts.assignable(box, param)
	case !arg.typ.IsPrimitive() && param.IsPrimitive():
		kind := jtype.Unbox(arg.typ)

		return kind != jtype.None && widens(kind, param.Kind)
	default:
		return false
	}
}

func (ts *typeSystem) acceptsFunctional(param *jtype.Descriptor, arity int) bool {
	if !param.IsReference() {
		return false
	}

	if !ts.known(param.Name) {
		return true
	}

	sam, ok := ts.sam(param)
	if !ok {
		return false
	}

	return arity < 0 || arity == len(sam.params)
}

// assignable reports assignment compatibility without boxing: identity,
// primitive widening and reference widening. Type arguments are not
// compared and classes nothing is known about are compatible with anything.
func (ts *typeSystem) assignable(from, to *jtype.Descriptor) bool {
	switch {
	case !from.IsResolved() || !to.IsResolved():
		return true
	case from.IsPrimitive() || to.IsPrimitive():
		return from.IsPrimitive() && to.IsPrimitive() && widens(from.Kind, to.Kind)
	case to.Kind == jtype.TypeVar:
		return true
	case from.Kind == jtype.TypeVar:
		return to.Is(jtype.ObjectName) || !ts.known(to.Name)
	case to.Kind == jtype.Array:
		if from.Kind != jtype.Array {
			return false
		}

		if from.Elem.IsPrimitive() || to.Elem.IsPrimitive() {
			return from.Elem.Kind == to.Elem.Kind
		}

		return ts.assignable(from.Elem, to.Elem)
	case from.Kind == jtype.Array:
		return to.Is(jtype.ObjectName) || to.Is("java.lang.Cloneable") || to.Is("java.io.Serializable")
	case !ts.known(from.Name) || !ts.known(to.Name):
		return true
	default:
		return ts.isSubtype(from, to.Name)
	}
}

var widening = map[jtype.Kind][]jtype.Kind{
	jtype.Byte:  {jtype.Short, jtype.Int, jtype.Long, jtype.Float, jtype.Double},
	jtype.Short: {jtype.Int, jtype.Long, jtype.Float, jtype.Double},
	jtype.Char:  {jtype.Int, jtype.Long, jtype.Float, jtype.Double},
	jtype.Int:   {jtype.Long, jtype.Float, jtype.Double},
	jtype.Long:  {jtype.Float, jtype.Double},
	jtype.Float: {jtype.Double},
}

// widens reports identity or widening primitive conversion.
func widens(from, to jtype.Kind) bool {
	if from == to {
		return true
	}

	for _, kind := range widening[from] {
		if kind == to {
			return true
		}
	}

	return false
}

// mostSpecific picks the candidate whose parameters are assignable to the
// corresponding parameters of every other candidate.
func (ts *typeSystem) mostSpecific(candidates []boundMethod, argc int, ph phase) (boundMethod, bool) {
	if len(candidates) == 1 {
		return candidates[0], true
	}

	for _, cand := range candidates {
		best := true

		for _, other := range candidates {
			if !ts.atLeastAsSpecific(cand, other, argc, ph) {
				best = false

				break
			}
		}

		if best {
			return cand, true
		}
	}

	return boundMethod{}, false
}

func (ts *typeSystem) atLeastAsSpecific(cand, other boundMethod, argc int, ph phase) bool {
	for idx := range max(argc, len(cand.params)) {
		left, right := paramFor(cand, idx, ph), paramFor(other, idx, ph)
		if left == nil || right == nil {
			continue
		}

		if left.Kind == jtype.TypeVar && right.Kind != jtype.TypeVar {
			return false
		}

		if !ts.assignable(left, right) {
			return false
		}
	}

	return true
}

// instantiate substitutes the method's own type variables, inferred from
// explicit type arguments, argument types and finally the expected result
// type. Variables nothing constrains become Object, and defaulted reports
// that this happened.
func (ts *typeSystem) instantiate(
	cand boundMethod, args []argument, explicit []*jtype.Descriptor, expected *jtype.Descriptor, ph phase,
) (inst boundMethod, defaulted bool) {
	typeParams := cand.decl.typeParams
	if len(typeParams) == 0 {
		return cand, false
	}

	bindings := make(map[string]*jtype.Descriptor, len(typeParams))

	if len(explicit) == len(typeParams) {
		for idx, name := range typeParams {
			bindings[name] = explicit[idx]
		}
	} else {
		vars := make(map[string]bool, len(typeParams))
		for _, name := range typeParams {
			vars[name] = true
		}

		for idx, arg := range args {
			if arg.typ.IsResolved() {
				ts.unify(paramFor(cand, idx, ph), arg.typ, vars, bindings)
			}
		}

		if expected.IsResolved() && len(bindings) < len(typeParams) {
			pattern := cand.ret
			if pattern.IsReference() && expected.IsReference() {
				pattern = ts.asSuper(pattern, expected.Name)
			}

			ts.unify(pattern, expected, vars, bindings)
		}
	}

	for _, name := range typeParams {
		if bindings[name] == nil {
			bindings[name] = jtype.Ref(jtype.ObjectName)
			defaulted = true
		}
	}

	inst = boundMethod{decl: cand.decl, ret: subst(cand.ret, bindings), params: make([]*jtype.Descriptor, len(cand.params))}
	for idx, param := range cand.params {
		inst.params[idx] = subst(param, bindings)
	}

	return inst, defaulted
}

// unify binds type variables of pattern so that pattern matches actual.
// Primitive actuals bind their wrapper.
func (ts *typeSystem) unify(pattern, actual *jtype.Descriptor, vars map[string]bool, bindings map[string]*jtype.Descriptor) {
	if pattern == nil || !actual.IsResolved() {
		return
	}

	switch pattern.Kind {
	case jtype.TypeVar:
		if !vars[pattern.Name] || bindings[pattern.Name] != nil {
			return
		}

		if actual.IsPrimitive() {
			box, ok := jtype.Boxed(actual.Kind)
			if !ok {
				return
			}

			actual = box
		}

		bindings[pattern.Name] = actual
	case jtype.Array:
		if actual.Kind == jtype.Array {
			ts.unify(pattern.Elem, actual.Elem, vars, bindings)
		}
	case jtype.Reference:
		if len(pattern.Args) == 0 {
			return
		}

		view := ts.asSuper(actual, pattern.Name)
		if view == nil || len(view.Args) != len(pattern.Args) {
			return
		}

		for idx, arg := range pattern.Args {
			ts.unify(arg, view.Args[idx], vars, bindings)
		}
	default:
	}
}

// fromTarget parameterizes a diamond or raw class use from the expected
// type: new HashMap<>() assigned to Map<Integer, String> becomes
// HashMap<Integer, String>.
func (ts *typeSystem) fromTarget(cls *classInfo, expected *jtype.Descriptor) *jtype.Descriptor {
	self := cls.selfType()
	if len(cls.typeParams) == 0 {
		return self
	}

	vars := make(map[string]bool, len(cls.typeParams))
	for _, name := range cls.typeParams {
		vars[name] = true
	}

	bindings := make(map[string]*jtype.Descriptor, len(cls.typeParams))
	if expected.IsReference() {
		ts.unify(ts.asSuper(self, expected.Name), expected, vars, bindings)
	}

	for _, name := range cls.typeParams {
		if bindings[name] == nil {
			bindings[name] = jtype.Ref(jtype.ObjectName)
		}
	}

	return subst(self, bindings)
}
