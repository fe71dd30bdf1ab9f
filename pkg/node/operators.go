package node

// Op is a binary, unary or compound-assignment operator.
type Op uint8

// Operators.
const (
	OpNone Op = iota
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpXor
	OpShl
	OpShr
	OpUShr
	OpNot
	OpNeg
	OpPlus
	OpCompl
	OpInc
	OpDec
)

var opTokens = [...]string{
	OpNone:   "",
	OpEq:     "==",
	OpNe:     "!=",
	OpLt:     "<",
	OpLe:     "<=",
	OpGt:     ">",
	OpGe:     ">=",
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpRem:    "%",
	OpAnd:    "&&",
	OpOr:     "||",
	OpBitAnd: "&",
	OpBitOr:  "|",
	OpXor:    "^",
	OpShl:    "<<",
	OpShr:    ">>",
	OpUShr:   ">>>",
	OpNot:    "!",
	OpNeg:    "-",
	OpPlus:   "+",
	OpCompl:  "~",
	OpInc:    "++",
	OpDec:    "--",
}

var binaryOps = map[string]Op{
	"==": OpEq, "!=": OpNe, "<": OpLt, "<=": OpLe, ">": OpGt, ">=": OpGe,
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, "%": OpRem,
	"&&": OpAnd, "||": OpOr, "&": OpBitAnd, "|": OpBitOr, "^": OpXor,
	"<<": OpShl, ">>": OpShr, ">>>": OpUShr,
}

var unaryOps = map[string]Op{
	"!": OpNot, "-": OpNeg, "+": OpPlus, "~": OpCompl, "++": OpInc, "--": OpDec,
}

// BinaryOp maps an infix token to its operator.
func BinaryOp(token string) Op {
	return binaryOps[token]
}

// UnaryOp maps a prefix or postfix token to its operator.
func UnaryOp(token string) Op {
	return unaryOps[token]
}

// CompoundOp maps a compound assignment token such as "+=" to its operator.
func CompoundOp(token string) Op {
	if len(token) < 2 || token[len(token)-1] != '=' {
		return OpNone
	}

	return binaryOps[token[:len(token)-1]]
}

func (op Op) String() string {
	if int(op) < len(opTokens) {
		return opTokens[op]
	}

	return "op(?)"
}

// IsComparison reports whether op is one of == != < <= > >=.
func (op Op) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// IsEquality reports whether op is == or !=.
func (op Op) IsEquality() bool {
	return op == OpEq || op == OpNe
}
