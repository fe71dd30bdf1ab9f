package javasrc

import (
	"strconv"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

const nullableAnnotation = "Nullable"

// binder attaches types, call signatures and symbols to a lowered unit.
type binder struct {
	unit  *Unit
	low   *lowerer
	ts    *typeSystem
	scope *scope
	// returns holds the expected result type of each enclosing function.
	returns []*jtype.Descriptor
	// typeNames records expressions that name a type rather than a value.
	typeNames map[*node.Node]*jtype.Descriptor
	// poly marks expressions whose type arguments were defaulted for want of
	// a target type; they are bound again once one is known.
	poly      map[*node.Node]bool
	anonymous map[string]int
}

func newBinder(unit *Unit, low *lowerer) *binder {
	return &binder{
		unit:      unit,
		low:       low,
		ts:        unit.ts,
		scope:     newScope(nil, unit),
		typeNames: make(map[*node.Node]*jtype.Descriptor),
		poly:      make(map[*node.Node]bool),
		anonymous: make(map[string]int),
	}
}

// bind registers every class of the unit, declares their members and then
// binds declarations and bodies.
func (b *binder) bind() {
	var classes []*classInfo

	for _, member := range b.unit.Root.Members() {
		if member.Kind.IsTypeDecl() {
			b.unit.topLevel[member.Name] = b.unit.qualifiedName(member.Name)
		}
	}

	for _, member := range b.unit.Root.Members() {
		if member.Kind.IsTypeDecl() {
			classes = append(classes, b.registerClass(member, b.unit.qualifiedName(member.Name), "")...)
		}
	}

	for _, cls := range classes {
		b.declareMembers(cls, b.classScopeFor(cls))
	}

	for _, member := range b.unit.Root.Members() {
		if cls, ok := b.ts.local[b.unit.qualifiedName(member.Name)]; ok && member.Kind.IsTypeDecl() {
			b.bindClass(cls, b.scope.classScope(cls))

			continue
		}

		b.generic(member)
	}
}

// registerClass creates the class model of decl and its member types and
// returns them outermost first.
func (b *binder) registerClass(decl *node.Node, qualified, outer string) []*classInfo {
	cls := newClassInfo(qualified, decl.Kind)
	cls.decl = decl
	cls.outer = outer
	cls.typeParams = b.low.typeParams[decl]
	b.ts.local[qualified] = cls

	out := []*classInfo{cls}

	for _, member := range decl.Members() {
		if !member.Kind.IsTypeDecl() || member.Name == "" {
			continue
		}

		nested := qualified + "." + member.Name
		cls.nested[member.Name] = nested
		out = append(out, b.registerClass(member, nested, qualified)...)
	}

	return out
}

// classScopeFor rebuilds the scope chain of a member class from the
// outermost enclosing class inwards.
func (b *binder) classScopeFor(cls *classInfo) *scope {
	var chain []*classInfo

	for cursor := cls; cursor != nil; {
		chain = append(chain, cursor)

		outer, ok := b.ts.local[cursor.outer]
		if !ok {
			break
		}

		cursor = outer
	}

	sc := b.scope
	for idx := len(chain) - 1; idx >= 0; idx-- {
		sc = sc.classScope(chain[idx])
	}

	return sc
}

// resolveRef resolves a TypeRef node and its type argument children in sc.
func (b *binder) resolveRef(ref *node.Node, sc *scope) *jtype.Descriptor {
	if ref == nil {
		return nil
	}

	for _, arg := range ref.TypeArgs() {
		b.resolveRef(arg, sc)
	}

	desc := resolveType(b.low.typeExprs[ref], sc)
	if desc.IsResolved() {
		ref.Type = desc
	}

	return desc
}

func (b *binder) annotationNames(decl *node.Node, sc *scope) []string {
	anns := decl.Annotations()
	if len(anns) == 0 {
		return nil
	}

	out := make([]string, 0, len(anns))
	for _, ann := range anns {
		out = append(out, qualify(ann.Name, sc))
	}

	return out
}

// declareMembers fills the supertypes, fields and methods of a unit class.
func (b *binder) declareMembers(cls *classInfo, sc *scope) {
	decl := cls.decl

	if cls.kind == node.Enum {
		cls.supers = append(cls.supers, jtype.Ref(jtype.EnumName, cls.selfType()))
	}

	for _, ref := range decl.ChildrenWith(node.RoleSuper) {
		if desc := b.resolveRef(ref, sc); desc.IsReference() {
			cls.supers = append(cls.supers, desc)
		}
	}

	var (
		abstract   []string
		components []*node.Node
		hasCtor    bool
	)

	for _, member := range decl.Members() {
		switch member.Kind {
		case node.Variable:
			b.declareField(cls, member, sc)

			if b.low.records[decl] && isComponent(member) {
				components = append(components, member)
			}
		case node.Method, node.Constructor:
			m := b.declareMethod(member, sc)
			cls.addMethod(m)

			if member.Kind == node.Constructor {
				hasCtor = true
			}

			if member.HasModifier(node.Abstract) && !m.static {
				abstract = append(abstract, m.name)
			}
		}
	}

	if b.low.records[decl] {
		b.declareRecord(cls, components, hasCtor)
	}

	if cls.kind == node.Enum {
		self := cls.selfType()
		cls.addMethod(&method{name: "values", static: true, ret: jtype.ArrayOf(self)})
		cls.addMethod(&method{name: "valueOf", static: true, ret: self, params: []*jtype.Descriptor{jtype.Ref(jtype.StringName)}})
	}

	if cls.kind == node.Interface && len(abstract) == 1 {
		cls.sam = abstract[0]
	}
}

// isComponent reports whether a record member is one of its components,
// which are the only private final instance fields a record can have.
func isComponent(member *node.Node) bool {
	return member.Modifiers.Has(node.Private|node.Final) && !member.HasModifier(node.Static) && member.Init() == nil
}

func (b *binder) declareRecord(cls *classInfo, components []*node.Node, hasCtor bool) {
	params := make([]*jtype.Descriptor, 0, len(components))

	for _, component := range components {
		typ := orUnresolved(component.Type)
		params = append(params, typ)

		if _, declared := cls.methods[component.Name]; !declared {
			cls.addMethod(&method{name: component.Name, ret: typ, decl: component})
		}
	}

	if !hasCtor {
		cls.addMethod(&method{name: constructorName, ret: jtype.Primitive(jtype.Void), params: params})
	}
}

func (b *binder) declareField(cls *classInfo, decl *node.Node, sc *scope) {
	typ := b.resolveRef(decl.DeclType(), sc)
	if typ.IsResolved() {
		decl.Type = typ
	}

	f := &field{
		typ:         typ,
		decl:        decl,
		name:        decl.Name,
		annotations: b.annotationNames(decl, sc),
		mods:        decl.Modifiers,
		enum:        b.low.enumConstants[decl],
	}
	cls.addField(f)

	kind := analysis.SymField
	if f.enum {
		kind = analysis.SymEnumConstant
	}

	b.unit.symbols[decl] = analysis.Symbol{
		Type:        typ,
		Decl:        decl,
		Owner:       cls.name,
		Name:        decl.Name,
		Annotations: f.annotations,
		Kind:        kind,
		Modifiers:   decl.Modifiers,
		Enum:        f.enum,
		Nullable:    isNullable(f.annotations, decl.Init()),
	}
}

func (b *binder) declareMethod(decl *node.Node, sc *scope) *method {
	inner := sc.child()

	typeParams := b.low.typeParams[decl]
	for _, param := range typeParams {
		inner.typeVars[param] = true
	}

	m := &method{
		decl:        decl,
		name:        decl.Name,
		typeParams:  typeParams,
		annotations: b.annotationNames(decl, sc),
		static:      decl.HasModifier(node.Static),
		ret:         jtype.Primitive(jtype.Void),
	}

	if decl.Kind == node.Constructor {
		m.name = constructorName
	} else if ret := b.resolveRef(decl.ReturnType(), inner); ret.IsResolved() {
		m.ret = ret
		decl.Type = ret
	}

	params := decl.Params()
	for idx, param := range params {
		typ := b.resolveRef(param.DeclType(), inner)
		if typ.IsResolved() {
			param.Type = typ
		}

		m.params = append(m.params, orUnresolved(typ))

		if idx == len(params)-1 && b.low.varargs[param] {
			m.varargs = true
		}
	}

	kind := analysis.SymMethod
	if decl.Kind == node.Constructor {
		kind = analysis.SymUnknown
	}

	b.unit.symbols[decl] = analysis.Symbol{
		Type:        m.ret,
		Decl:        decl,
		Owner:       sc.currentClass().name,
		Name:        decl.Name,
		Annotations: m.annotations,
		Kind:        kind,
		Modifiers:   decl.Modifiers,
	}

	return m
}

func orUnresolved(desc *jtype.Descriptor) *jtype.Descriptor {
	if desc == nil {
		return jtype.Unresolved()
	}

	return desc
}

func isNullable(annotations []string, init *node.Node) bool {
	for _, name := range annotations {
		if jtype.SimpleName(name) == nullableAnnotation {
			return true
		}
	}

	return init != nil && init.Kind == node.NullLiteral
}

// bindClass binds the member bodies of a declared class in sc, the scope
// of its body.
func (b *binder) bindClass(cls *classInfo, sc *scope) {
	saved := b.scope
	b.scope = sc

	defer func() { b.scope = saved }()

	b.unit.symbols[cls.decl] = analysis.Symbol{
		Type:        cls.selfType(),
		Decl:        cls.decl,
		Owner:       cls.outer,
		Name:        cls.decl.Name,
		Annotations: b.annotationNames(cls.decl, sc),
		Kind:        analysis.SymClass,
		Modifiers:   cls.decl.Modifiers,
		Enum:        cls.kind == node.Enum,
	}

	for _, member := range cls.decl.Members() {
		switch {
		case member.Kind == node.Variable:
			if init := member.Init(); init != nil {
				b.expr(init, member.Type)
			}
		case member.Kind == node.Method || member.Kind == node.Constructor:
			b.bindFunction(member)
		case member.Kind.IsTypeDecl():
			if nested, ok := b.ts.local[cls.nested[member.Name]]; ok {
				b.bindClass(nested, sc.classScope(nested))
			}
		case member.Kind == node.Block:
			b.block(member)
		default:
			b.generic(member)
		}
	}
}

func (b *binder) bindFunction(decl *node.Node) {
	saved := b.scope
	b.scope = b.scope.child()

	defer func() { b.scope = saved }()

	for _, param := range b.low.typeParams[decl] {
		b.scope.typeVars[param] = true
	}

	owner := b.scope.currentClass().name
	for _, param := range decl.Params() {
		b.declareLocal(param, analysis.SymParam, param.Type, owner)
	}

	ret := jtype.Primitive(jtype.Void)
	if decl.Kind == node.Method && decl.Type.IsResolved() {
		ret = decl.Type
	}

	b.returns = append(b.returns, ret)
	defer func() { b.returns = b.returns[:len(b.returns)-1] }()

	if body := decl.Body(); body != nil {
		b.block(body)
	}
}

// declareLocal records the symbol of a local or parameter declaration and
// makes it visible in the current scope.
func (b *binder) declareLocal(decl *node.Node, kind analysis.SymbolKind, typ *jtype.Descriptor, owner string) {
	if typ.IsResolved() {
		decl.Type = typ
	}

	annotations := b.annotationNames(decl, b.scope)
	sym := analysis.Symbol{
		Type:        typ,
		Decl:        decl,
		Owner:       owner,
		Name:        decl.Name,
		Annotations: annotations,
		Kind:        kind,
		Modifiers:   decl.Modifiers,
		Nullable:    isNullable(annotations, decl.Init()),
	}

	b.unit.symbols[decl] = sym
	b.scope.declare(sym)
}

func (b *binder) block(blk *node.Node) {
	saved := b.scope
	b.scope = b.scope.child()

	defer func() { b.scope = saved }()

	for _, stmt := range blk.Children {
		b.statement(stmt)
	}
}

// statement binds one statement in the current scope. Declarations stay
// visible to the statements that follow.
func (b *binder) statement(stmt *node.Node) {
	if stmt == nil {
		return
	}

	switch stmt.Kind {
	case node.Block:
		b.block(stmt)
	case node.Variable:
		b.localVariable(stmt)
	case node.ExpressionStatement:
		b.expr(stmt.Expr(), nil)
	case node.Return:
		var expected *jtype.Descriptor
		if len(b.returns) > 0 {
			expected = b.returns[len(b.returns)-1]
		}

		if expr := stmt.Expr(); expr != nil {
			b.expr(expr, expected)
		}
	case node.Class, node.Interface, node.Enum:
		b.localClass(stmt)
	case node.Other:
		b.otherStatement(stmt)
	default:
		b.expr(stmt, nil)
	}
}

func (b *binder) localVariable(decl *node.Node) {
	typ := b.resolveRef(decl.DeclType(), b.scope)

	if init := decl.Init(); init != nil {
		initType := b.expr(init, typ)
		if typ == nil {
			typ = initType
		}
	}

	b.declareLocal(decl, analysis.SymLocal, typ, ownerName(b.scope))
}

func ownerName(sc *scope) string {
	if cls := sc.currentClass(); cls != nil {
		return cls.name
	}

	return ""
}

func (b *binder) otherStatement(stmt *node.Node) {
	switch stmt.Token {
	case tokenForEach:
		b.forEach(stmt)
	case tokenCatch:
		saved := b.scope
		b.scope = b.scope.child()

		for _, param := range stmt.Params() {
			b.declareLocal(param, analysis.SymLocal, b.resolveRef(param.DeclType(), b.scope), ownerName(b.scope))
		}

		b.statement(stmt.Body())
		b.scope = saved
	case "if":
		b.expr(stmt.Child(node.RoleCondition), jtype.Primitive(jtype.Boolean))

		for _, branch := range stmt.Children {
			if branch.Role == node.RoleThen || branch.Role == node.RoleElse {
				b.branch(branch)
			}
		}
	default:
		b.generic(stmt)
	}
}

// branch binds a statement that opens its own scope, such as the arm of an
// if statement.
func (b *binder) branch(stmt *node.Node) {
	saved := b.scope
	b.scope = b.scope.child()
	b.statement(stmt)
	b.scope = saved
}

func (b *binder) forEach(stmt *node.Node) {
	iterable := b.expr(stmt.Expr(), nil)

	saved := b.scope
	b.scope = b.scope.child()

	defer func() { b.scope = saved }()

	for _, loopVar := range stmt.Params() {
		typ := b.resolveRef(loopVar.DeclType(), b.scope)
		if typ == nil {
			typ = b.elementType(iterable)
		}

		b.declareLocal(loopVar, analysis.SymLocal, typ, ownerName(b.scope))
	}

	for _, body := range stmt.ChildrenWith(node.RoleBody) {
		b.statement(body)
	}
}

// elementType is the type a for-each loop over desc yields.
func (b *binder) elementType(desc *jtype.Descriptor) *jtype.Descriptor {
	if desc == nil {
		return nil
	}

	if desc.Kind == jtype.Array {
		return desc.Elem
	}

	if view := b.ts.asSuper(desc, "java.lang.Iterable"); view != nil {
		return view.Arg(0)
	}

	return nil
}

// generic binds the children of a construct the rules do not inspect,
// statements and expressions alike, in a scope of its own.
func (b *binder) generic(n *node.Node) {
	if n == nil {
		return
	}

	saved := b.scope
	b.scope = b.scope.child()

	defer func() { b.scope = saved }()

	for _, child := range n.Children {
		switch child.Kind {
		case node.Block, node.Variable, node.ExpressionStatement, node.Return,
			node.Class, node.Interface, node.Enum:
			b.statement(child)
		case node.TypeRef:
			b.resolveRef(child, b.scope)
		case node.Other:
			if isStatementToken(child.Token) {
				b.statement(child)

				continue
			}

			b.expr(child, nil)
		default:
			b.expr(child, nil)
		}
	}
}

func isStatementToken(token string) bool {
	switch token {
	case tokenForEach, tokenCatch, "if":
		return true
	default:
		return isStatement(token)
	}
}

// localClass binds a class declared in a block. Its simple name is visible
// to the statements that follow.
func (b *binder) localClass(decl *node.Node) {
	outer := ownerName(b.scope)
	b.anonymous[outer]++
	qualified := outer + "$" + strconv.Itoa(b.anonymous[outer]) + decl.Name

	b.scope.types[decl.Name] = qualified

	classes := b.registerClass(decl, qualified, outer)
	for _, cls := range classes {
		b.declareMembers(cls, b.scopeWithin(cls, b.scope))
	}

	b.bindClass(classes[0], b.scope.classScope(classes[0]))
}

// scopeWithin opens the scopes of cls and its enclosing classes declared
// inside base.
func (b *binder) scopeWithin(cls *classInfo, base *scope) *scope {
	var chain []*classInfo

	for cursor := cls; cursor != nil; {
		chain = append(chain, cursor)

		outer, ok := b.ts.local[cursor.outer]
		if !ok || outer == base.currentClass() {
			break
		}

		cursor = outer
	}

	sc := base
	for idx := len(chain) - 1; idx >= 0; idx-- {
		sc = sc.classScope(chain[idx])
	}

	return sc
}

// anonymousClass declares and binds the body of `new T(...) { ... }`.
func (b *binder) anonymousClass(body *node.Node, super *jtype.Descriptor) *classInfo {
	outer := ownerName(b.scope)
	b.anonymous[outer]++

	cls := newClassInfo(outer+"$"+strconv.Itoa(b.anonymous[outer]), node.Class)
	cls.decl = body
	cls.outer = outer
	cls.anonymous = true
	b.ts.local[cls.name] = cls

	if super.IsReference() {
		cls.supers = append(cls.supers, super)
	}

	var classes []*classInfo

	for _, member := range body.Members() {
		if member.Kind.IsTypeDecl() && member.Name != "" {
			nested := cls.name + "." + member.Name
			cls.nested[member.Name] = nested
			classes = append(classes, b.registerClass(member, nested, cls.name)...)
		}
	}

	inner := b.scope.classScope(cls)
	b.declareMembers(cls, inner)

	for _, nested := range classes {
		b.declareMembers(nested, b.scopeWithin(nested, inner))
	}

	b.bindClass(cls, inner)

	return cls
}
