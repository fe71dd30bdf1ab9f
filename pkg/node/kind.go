package node

// Kind is the closed set of syntax node variants.
type Kind uint8

// Node kinds. Other covers every construct the rules never inspect.
const (
	Other Kind = iota
	CompilationUnit
	Class
	Interface
	Enum
	Method
	Constructor
	Lambda
	Variable
	Block
	Return
	ExpressionStatement
	Assignment
	CompoundAssignment
	Binary
	Unary
	Conditional
	Parenthesized
	Cast
	MethodCall
	NewClass
	FieldAccess
	Identifier
	Literal
	NullLiteral
	This
	TypeRef
	Annotation

	// NumKinds bounds the enumeration; dispatch tables are sized by it.
	NumKinds
)

var kindNames = [NumKinds]string{
	Other:               "Other",
	CompilationUnit:     "CompilationUnit",
	Class:               "Class",
	Interface:           "Interface",
	Enum:                "Enum",
	Method:              "Method",
	Constructor:         "Constructor",
	Lambda:              "Lambda",
	Variable:            "Variable",
	Block:               "Block",
	Return:              "Return",
	ExpressionStatement: "ExpressionStatement",
	Assignment:          "Assignment",
	CompoundAssignment:  "CompoundAssignment",
	Binary:              "Binary",
	Unary:               "Unary",
	Conditional:         "Conditional",
	Parenthesized:       "Parenthesized",
	Cast:                "Cast",
	MethodCall:          "MethodCall",
	NewClass:            "NewClass",
	FieldAccess:         "FieldAccess",
	Identifier:          "Identifier",
	Literal:             "Literal",
	NullLiteral:         "NullLiteral",
	This:                "This",
	TypeRef:             "TypeRef",
	Annotation:          "Annotation",
}

func (k Kind) String() string {
	if k < NumKinds {
		return kindNames[k]
	}

	return "Kind(?)"
}

// IsTypeDecl reports whether k declares a class-like type.
func (k Kind) IsTypeDecl() bool {
	return k == Class || k == Interface || k == Enum
}

// IsFunction reports whether k introduces a function body.
func (k Kind) IsFunction() bool {
	return k == Method || k == Constructor || k == Lambda
}

// IsCall reports whether k invokes a method or constructor.
func (k Kind) IsCall() bool {
	return k == MethodCall || k == NewClass
}

// Role labels a child by the part it plays in its parent.
type Role uint8

// Child roles.
const (
	RoleNone Role = iota
	RoleLeft
	RoleRight
	RoleTarget
	RoleValue
	RoleOperand
	RoleReceiver
	RoleArgument
	RoleTypeArgument
	RoleInit
	RoleDeclType
	RoleReturnType
	RoleParameter
	RoleBody
	RoleExpr
	RoleCondition
	RoleThen
	RoleElse
	RoleMember
	RoleStatement
	RoleAnnotation
	RoleSuper
)

var roleNames = [...]string{
	RoleNone:         "",
	RoleLeft:         "left",
	RoleRight:        "right",
	RoleTarget:       "target",
	RoleValue:        "value",
	RoleOperand:      "operand",
	RoleReceiver:     "receiver",
	RoleArgument:     "argument",
	RoleTypeArgument: "type_argument",
	RoleInit:         "init",
	RoleDeclType:     "decl_type",
	RoleReturnType:   "return_type",
	RoleParameter:    "parameter",
	RoleBody:         "body",
	RoleExpr:         "expr",
	RoleCondition:    "condition",
	RoleThen:         "then",
	RoleElse:         "else",
	RoleMember:       "member",
	RoleStatement:    "statement",
	RoleAnnotation:   "annotation",
	RoleSuper:        "super",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}

	return "role(?)"
}

// Modifiers is a bitmask of Java declaration modifiers.
type Modifiers uint16

// Modifier bits.
const (
	Public Modifiers = 1 << iota
	Protected
	Private
	Static
	Final
	Abstract
	Default
	Synchronized
	Native
	Transient
	Volatile
)

var modifierWords = map[string]Modifiers{
	"public":       Public,
	"protected":    Protected,
	"private":      Private,
	"static":       Static,
	"final":        Final,
	"abstract":     Abstract,
	"default":      Default,
	"synchronized": Synchronized,
	"native":       Native,
	"transient":    Transient,
	"volatile":     Volatile,
}

// ModifierFor returns the bit for a modifier keyword.
func ModifierFor(word string) (Modifiers, bool) {
	mod, ok := modifierWords[word]

	return mod, ok
}

// Has reports whether every bit of want is set.
func (m Modifiers) Has(want Modifiers) bool {
	return m&want == want
}

// Visibility is the access level implied by modifiers.
type Visibility uint8

// Access levels.
const (
	PackagePrivate Visibility = iota
	VisPrivate
	VisProtected
	VisPublic
)

// Visibility returns the access level of the modifier set.
func (m Modifiers) Visibility() Visibility {
	switch {
	case m&Public != 0:
		return VisPublic
	case m&Protected != 0:
		return VisProtected
	case m&Private != 0:
		return VisPrivate
	default:
		return PackagePrivate
	}
}
