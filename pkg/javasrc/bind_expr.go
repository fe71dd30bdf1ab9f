package javasrc

import (
	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

const (
	tokenArrayAccess = "[]"
	tokenArrayNew    = "new[]"
	tokenArrayInit   = "{}"
	tokenInstanceOf  = "instanceof"
	tokenMethodRef   = "method_reference"
)

// expr binds an expression and returns its type, nil when unknown. expected
// is the type the context requires, used for lambdas, diamonds and generic
// method results.
func (b *binder) expr(n *node.Node, expected *jtype.Descriptor) *jtype.Descriptor {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case node.Literal:
		if ref := n.DeclType(); ref != nil {
			return setType(n, classLiteral(b.resolveRef(ref, b.scope)))
		}

		return n.Type
	case node.NullLiteral:
		return nil
	case node.Identifier:
		return b.identifier(n)
	case node.FieldAccess:
		return b.fieldAccess(n)
	case node.This:
		return setType(n, b.this(n.Token))
	case node.MethodCall:
		return b.methodCall(n, expected)
	case node.NewClass:
		return b.newClass(n, expected)
	case node.Assignment:
		target := b.expr(n.LHS(), nil)
		b.expr(n.RHS(), target)

		return setType(n, target)
	case node.CompoundAssignment:
		target := b.expr(n.LHS(), nil)
		b.expr(n.RHS(), nil)

		return setType(n, target)
	case node.Binary:
		return setType(n, b.binary(n))
	case node.Unary:
		return setType(n, b.unary(n))
	case node.Conditional:
		return setType(n, b.conditional(n, expected))
	case node.Parenthesized:
		return setType(n, b.expr(n.Expr(), expected))
	case node.Cast:
		typ := b.resolveRef(n.DeclType(), b.scope)
		b.expr(n.Expr(), typ)

		return setType(n, typ)
	case node.Lambda:
		return b.lambda(n, expected)
	case node.TypeRef:
		b.resolveRef(n, b.scope)

		return nil
	case node.Annotation:
		return nil
	case node.Other:
		return b.otherExpr(n, expected)
	default:
		b.generic(n)

		return nil
	}
}

func setType(n *node.Node, desc *jtype.Descriptor) *jtype.Descriptor {
	if !desc.IsResolved() {
		return nil
	}

	n.Type = desc

	return desc
}

func classLiteral(desc *jtype.Descriptor) *jtype.Descriptor {
	if !desc.IsResolved() {
		return jtype.Ref(jtype.ClassName)
	}

	if desc.IsPrimitive() {
		if box, ok := jtype.Boxed(desc.Kind); ok {
			desc = box
		} else {
			desc = jtype.Ref("java.lang.Void")
		}
	}

	return jtype.Ref(jtype.ClassName, desc.Erasure())
}

// identifier resolves a simple name as a variable, a field of an enclosing
// class, a statically imported field or finally a type.
func (b *binder) identifier(n *node.Node) *jtype.Descriptor {
	if sym, ok := b.lookupValue(n.Name); ok {
		b.unit.symbols[n] = sym

		return setType(n, sym.Type)
	}

	if qualified, ok := b.scope.className(n.Name); ok {
		b.markType(n, jtype.Ref(qualified))
	}

	return nil
}

func (b *binder) lookupValue(name string) (analysis.Symbol, bool) {
	for cursor := b.scope; cursor != nil; cursor = cursor.parent {
		if sym, ok := cursor.vars[name]; ok {
			return sym, true
		}

		if cursor.class == nil {
			continue
		}

		if f, typ, ok := b.ts.field(cursor.class.selfType(), name); ok {
			return b.fieldSymbol(f, typ), true
		}
	}

	for _, owner := range b.unit.staticImports(name) {
		if f, typ, ok := b.ts.field(jtype.Ref(owner), name); ok && f.mods.Has(node.Static) {
			return b.fieldSymbol(f, typ), true
		}
	}

	return analysis.Symbol{}, false
}

// fieldSymbol describes a field as seen through a receiver whose type
// arguments turned its declared type into typ.
func (b *binder) fieldSymbol(f *field, typ *jtype.Descriptor) analysis.Symbol {
	if f.decl != nil {
		if sym, ok := b.unit.symbols[f.decl]; ok {
			sym.Type = typ

			return sym
		}
	}

	kind := analysis.SymField
	if f.enum {
		kind = analysis.SymEnumConstant
	}

	return analysis.Symbol{
		Type:        typ,
		Owner:       f.owner,
		Name:        f.name,
		Annotations: f.annotations,
		Kind:        kind,
		Modifiers:   f.mods,
		Enum:        f.enum,
		Nullable:    isNullable(f.annotations, nil),
	}
}

// markType records that n names the type desc.
func (b *binder) markType(n *node.Node, desc *jtype.Descriptor) {
	b.typeNames[n] = desc

	sym := analysis.Symbol{Type: desc, Name: jtype.SimpleName(desc.Name), Kind: analysis.SymClass}
	if cls, ok := b.ts.class(desc.Name); ok {
		sym.Owner = cls.outer
		sym.Enum = cls.kind == node.Enum || (desc.Name != jtype.EnumName && b.ts.isSubtype(desc, jtype.EnumName))

		if cls.decl != nil {
			sym.Modifiers = cls.decl.Modifiers
		}
	}

	b.unit.symbols[n] = sym
}

// receiver binds the qualifier of a member access and reports whether it
// names a type rather than a value.
func (b *binder) receiver(n *node.Node) (*jtype.Descriptor, bool) {
	desc := b.expr(n, nil)
	if typ, ok := b.typeNames[n]; ok {
		return typ, true
	}

	return desc, false
}

func (b *binder) fieldAccess(n *node.Node) *jtype.Descriptor {
	recv, isType := b.receiver(n.Receiver())

	if recv == nil {
		if dotted, ok := dottedName(n); ok && b.ts.known(dotted) {
			b.markType(n, jtype.Ref(dotted))
		}

		return nil
	}

	if !isType && recv.Kind == jtype.Array && n.Name == "length" {
		return setType(n, jtype.Primitive(jtype.Int))
	}

	receiverType := recv
	if receiverType.Kind == jtype.TypeVar {
		receiverType = jtype.Ref(jtype.ObjectName)
	}

	if f, typ, ok := b.ts.field(receiverType, n.Name); ok {
		b.unit.symbols[n] = b.fieldSymbol(f, typ)

		return setType(n, typ)
	}

	if !isType {
		return nil
	}

	if cls, ok := b.ts.class(recv.Name); ok {
		if nested, found := cls.nested[n.Name]; found {
			b.markType(n, jtype.Ref(nested))

			return nil
		}
	}

	if candidate := recv.Name + "." + n.Name; b.ts.known(candidate) {
		b.markType(n, jtype.Ref(candidate))
	}

	return nil
}

// dottedName spells a chain of identifiers and field accesses such as
// java.util.Map.
func dottedName(n *node.Node) (string, bool) {
	switch n.Kind {
	case node.Identifier:
		return n.Name, true
	case node.FieldAccess:
		head, ok := dottedName(n.Receiver())
		if !ok {
			return "", false
		}

		return head + "." + n.Name, true
	default:
		return "", false
	}
}

// this types `this`, `super` and the qualified `Outer.this`.
func (b *binder) this(token string) *jtype.Descriptor {
	cls := b.scope.currentClass()
	if cls == nil {
		return nil
	}

	switch token {
	case "this":
		return cls.selfType()
	case "super":
		return b.superclass(cls)
	}

	qualifier, _, _ := cutLast(token)
	for _, outer := range b.scope.enclosingClasses() {
		if jtype.SimpleName(outer.name) == qualifier {
			return outer.selfType()
		}
	}

	return nil
}

// superclass is the class cls extends, skipping implemented interfaces.
func (b *binder) superclass(cls *classInfo) *jtype.Descriptor {
	for _, super := range cls.supers {
		if superCls, ok := b.ts.class(super.Name); ok && superCls.kind == node.Interface {
			continue
		}

		return super
	}

	return jtype.Ref(jtype.ObjectName)
}

// arguments binds call arguments that do not depend on the target method.
// Lambdas and method references wait until a parameter type is chosen.
func (b *binder) arguments(args []*node.Node) []argument {
	out := make([]argument, len(args))

	for idx, arg := range args {
		switch {
		case arg.Kind == node.Lambda:
			out[idx] = argument{functional: true, arity: len(arg.Params())}
		case arg.Kind == node.Other && arg.Token == tokenMethodRef:
			out[idx] = argument{functional: true, arity: -1}
		default:
			out[idx] = argument{typ: b.expr(arg, nil), null: arg.Kind == node.NullLiteral}
		}
	}

	return out
}

// finishArguments binds deferred arguments against the chosen parameters.
// With no method found they are bound without a target.
func (b *binder) finishArguments(args []*node.Node, infos []argument, chosen *boundMethod, ph phase) {
	for idx, arg := range args {
		var param *jtype.Descriptor
		if chosen != nil {
			param = paramFor(*chosen, idx, ph)
		}

		switch {
		case infos[idx].functional:
			b.expr(arg, param)
		case b.poly[arg] && param.IsResolved():
			delete(b.poly, arg)
			b.expr(arg, param)
		}
	}
}

func (b *binder) explicitTypeArgs(n *node.Node) []*jtype.Descriptor {
	refs := n.TypeArgs()
	if len(refs) == 0 {
		return nil
	}

	out := make([]*jtype.Descriptor, 0, len(refs))
	for _, ref := range refs {
		out = append(out, orObject(b.resolveRef(ref, b.scope)))
	}

	return out
}

func (b *binder) methodCall(n *node.Node, expected *jtype.Descriptor) *jtype.Descriptor {
	if n.Receiver() == nil && (n.Name == "this" || n.Name == "super") {
		return b.explicitConstructor(n)
	}

	var (
		candidates []boundMethod
		recvType   *jtype.Descriptor
	)

	if recv := n.Receiver(); recv != nil {
		desc, isType := b.receiver(recv)
		recvType = desc

		for _, cand := range b.ts.methods(desc, n.Name) {
			if !isType || cand.decl.static {
				candidates = append(candidates, cand)
			}
		}
	} else {
		candidates = b.unqualifiedMethods(n.Name)
	}

	args := n.Args()
	infos := b.arguments(args)

	best, ph, ok := b.ts.resolve(candidates, infos)
	if !ok {
		b.finishArguments(args, infos, nil, 0)

		return nil
	}

	inst, defaulted := b.ts.instantiate(best, infos, b.explicitTypeArgs(n), expected, ph)
	if n.Name == "getClass" && len(args) == 0 && recvType.IsReference() {
		inst.ret = jtype.Ref(jtype.ClassName, recvType.Erasure())
	}

	if defaulted && !expected.IsResolved() {
		b.poly[n] = true
	}

	b.finishArguments(args, infos, &inst, ph)

	b.unit.signatures[n] = analysis.Signature{
		Return:      inst.ret,
		Decl:        best.decl.decl,
		Owner:       best.decl.owner,
		Name:        n.Name,
		Params:      inst.params,
		Annotations: best.decl.annotations,
		Static:      best.decl.static,
		Varargs:     best.decl.varargs,
	}

	if inst.ret.IsResolved() && inst.ret.Kind == jtype.Void {
		return nil
	}

	return setType(n, inst.ret)
}

// unqualifiedMethods finds the innermost enclosing class with a member
// method of that name, then static imports.
func (b *binder) unqualifiedMethods(name string) []boundMethod {
	for _, cls := range b.scope.enclosingClasses() {
		if found := b.ts.methods(cls.selfType(), name); len(found) > 0 {
			return found
		}
	}

	var out []boundMethod

	for _, owner := range b.unit.staticImports(name) {
		for _, cand := range b.ts.methods(jtype.Ref(owner), name) {
			if cand.decl.static {
				out = append(out, cand)
			}
		}
	}

	return out
}

// explicitConstructor binds this(...) and super(...) in a constructor body.
func (b *binder) explicitConstructor(n *node.Node) *jtype.Descriptor {
	cls := b.scope.currentClass()
	if cls == nil {
		b.generic(n)

		return nil
	}

	target := cls.selfType()
	if n.Name == "super" {
		target = b.superclass(cls)
	}

	b.construct(n, target, b.ts.constructors(target))

	return nil
}

// construct resolves a constructor of target for the arguments of n and
// records its signature.
func (b *binder) construct(n *node.Node, target *jtype.Descriptor, candidates []boundMethod) {
	args := n.Args()
	infos := b.arguments(args)

	best, ph, ok := b.ts.resolve(candidates, infos)
	if !ok {
		b.finishArguments(args, infos, nil, 0)

		return
	}

	inst, _ := b.ts.instantiate(best, infos, b.explicitTypeArgs(n), nil, ph)
	b.finishArguments(args, infos, &inst, ph)

	b.unit.signatures[n] = analysis.Signature{
		Return:      target,
		Decl:        best.decl.decl,
		Owner:       best.decl.owner,
		Name:        constructorName,
		Params:      inst.params,
		Annotations: best.decl.annotations,
		Constructor: true,
		Varargs:     best.decl.varargs,
	}
}

func (b *binder) newClass(n *node.Node, expected *jtype.Descriptor) *jtype.Descriptor {
	if recv := n.Receiver(); recv != nil {
		b.expr(recv, nil)
	}

	ref := n.DeclType()
	desc := b.resolveRef(ref, b.scope)
	body := n.Body()

	if !desc.IsReference() {
		b.arguments(n.Args())

		return nil
	}

	cls, known := b.ts.class(desc.Name)
	if expr := b.low.typeExprs[ref]; known && expr != nil && expr.diamond {
		desc = b.ts.fromTarget(cls, expected)

		if !expected.IsResolved() && body == nil && len(cls.typeParams) > 0 {
			b.poly[n] = true
		}
	}

	var candidates []boundMethod

	switch {
	case known && cls.kind == node.Interface:
		candidates = []boundMethod{{
			decl: &method{owner: desc.Name, name: constructorName, ret: jtype.Primitive(jtype.Void)},
			ret:  jtype.Primitive(jtype.Void),
		}}
	case known:
		candidates = b.ts.constructors(desc)
	}

	b.construct(n, desc, candidates)

	if body != nil {
		b.anonymousClass(body, desc)
	}

	return setType(n, desc)
}

// lambda binds parameters and body against the functional interface the
// context expects.
func (b *binder) lambda(n *node.Node, expected *jtype.Descriptor) *jtype.Descriptor {
	sam, ok := boundMethod{}, false
	if expected.IsReference() {
		sam, ok = b.ts.sam(expected)
	}

	saved := b.scope
	b.scope = b.scope.child()

	defer func() { b.scope = saved }()

	owner := ownerName(b.scope)

	for idx, param := range n.Params() {
		typ := b.resolveRef(param.DeclType(), b.scope)
		if typ == nil && ok && idx < len(sam.params) && sam.params[idx].IsResolved() {
			typ = sam.params[idx]
		}

		b.declareLocal(param, analysis.SymParam, typ, owner)
	}

	var ret *jtype.Descriptor
	if ok {
		ret = sam.ret
		b.unit.functionals[n] = sam.ret
	}

	if body := n.Body(); body != nil && body.Kind == node.Block {
		b.returns = append(b.returns, ret)
		b.block(body)
		b.returns = b.returns[:len(b.returns)-1]
	} else {
		if ret.IsResolved() && ret.Kind == jtype.Void {
			ret = nil
		}

		b.expr(body, ret)
	}

	if !ok {
		return nil
	}

	return setType(n, expected)
}

func (b *binder) binary(n *node.Node) *jtype.Descriptor {
	left := b.expr(n.Left(), nil)
	right := b.expr(n.Right(), nil)

	switch {
	case n.Op.IsComparison(), n.Op == node.OpAnd, n.Op == node.OpOr:
		return jtype.Primitive(jtype.Boolean)
	case n.Op == node.OpAdd && (left.Is(jtype.StringName) || right.Is(jtype.StringName)):
		return jtype.Ref(jtype.StringName)
	case n.Op == node.OpShl || n.Op == node.OpShr || n.Op == node.OpUShr:
		return unaryPromotion(left)
	case n.Op == node.OpBitAnd || n.Op == node.OpBitOr || n.Op == node.OpXor:
		if jtype.Unbox(left) == jtype.Boolean && jtype.Unbox(right) == jtype.Boolean {
			return jtype.Primitive(jtype.Boolean)
		}

		return binaryPromotion(left, right)
	default:
		return binaryPromotion(left, right)
	}
}

func (b *binder) unary(n *node.Node) *jtype.Descriptor {
	operand := b.expr(n.Operand(), nil)

	switch n.Op {
	case node.OpNot:
		return jtype.Primitive(jtype.Boolean)
	case node.OpInc, node.OpDec:
		return operand
	default:
		return unaryPromotion(operand)
	}
}

// unaryPromotion widens byte, short and char to int after unboxing.
func unaryPromotion(desc *jtype.Descriptor) *jtype.Descriptor {
	kind := jtype.Unbox(desc)
	if !kind.IsNumeric() {
		return nil
	}

	switch kind {
	case jtype.Byte, jtype.Short, jtype.Char:
		return jtype.Primitive(jtype.Int)
	default:
		return jtype.Primitive(kind)
	}
}

// binaryPromotion is the common type of a numeric operator's operands.
func binaryPromotion(left, right *jtype.Descriptor) *jtype.Descriptor {
	lk, rk := jtype.Unbox(left), jtype.Unbox(right)
	if !lk.IsNumeric() || !rk.IsNumeric() {
		return nil
	}

	for _, kind := range []jtype.Kind{jtype.Double, jtype.Float, jtype.Long} {
		if lk == kind || rk == kind {
			return jtype.Primitive(kind)
		}
	}

	return jtype.Primitive(jtype.Int)
}

func (b *binder) conditional(n *node.Node, expected *jtype.Descriptor) *jtype.Descriptor {
	b.expr(n.Child(node.RoleCondition), jtype.Primitive(jtype.Boolean))

	thenNode, elseNode := n.Child(node.RoleThen), n.Child(node.RoleElse)
	thenType, elseType := b.expr(thenNode, expected), b.expr(elseNode, expected)

	switch {
	case thenNode != nil && thenNode.Kind == node.NullLiteral:
		return boxed(elseType)
	case elseNode != nil && elseNode.Kind == node.NullLiteral:
		return boxed(thenType)
	case thenType.IsResolved() && thenType.Equal(elseType):
		return thenType
	case jtype.Unbox(thenType).IsNumeric() && jtype.Unbox(elseType).IsNumeric():
		return binaryPromotion(thenType, elseType)
	case expected.IsResolved():
		return expected
	case thenType.IsResolved():
		return thenType
	default:
		return elseType
	}
}

func boxed(desc *jtype.Descriptor) *jtype.Descriptor {
	if desc.IsPrimitive() {
		if box, ok := jtype.Boxed(desc.Kind); ok {
			return box
		}
	}

	return desc
}

func (b *binder) otherExpr(n *node.Node, expected *jtype.Descriptor) *jtype.Descriptor {
	switch n.Token {
	case tokenInstanceOf:
		b.expr(n.Left(), nil)
		b.resolveRef(n.Right(), b.scope)

		for _, binding := range n.Params() {
			b.declareLocal(binding, analysis.SymLocal, b.resolveRef(binding.DeclType(), b.scope), ownerName(b.scope))
		}

		return n.Type
	case tokenArrayAccess:
		array := b.expr(n.Receiver(), nil)
		b.expr(n.RHS(), jtype.Primitive(jtype.Int))

		if array != nil && array.Kind == jtype.Array {
			return setType(n, array.Elem)
		}

		return nil
	case tokenArrayNew:
		typ := b.resolveRef(n.DeclType(), b.scope)

		for _, size := range n.ChildrenWith(node.RoleValue) {
			b.expr(size, jtype.Primitive(jtype.Int))
		}

		b.expr(n.Init(), typ)

		return setType(n, typ)
	case tokenArrayInit:
		var elem *jtype.Descriptor
		if expected != nil && expected.Kind == jtype.Array {
			elem = expected.Elem
		}

		for _, value := range n.ChildrenWith(node.RoleValue) {
			b.expr(value, elem)
		}

		if elem == nil {
			return nil
		}

		return setType(n, expected)
	case tokenMethodRef:
		b.generic(n)

		if expected.IsReference() && b.ts.isFunctional(expected) {
			return setType(n, expected)
		}

		return nil
	default:
		if isStatementToken(n.Token) {
			b.statement(n)

			return nil
		}

		b.generic(n)

		return nil
	}
}
