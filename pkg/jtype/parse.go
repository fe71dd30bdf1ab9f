package jtype

import (
	"strings"
	"unicode"
)

// Parse reads a Java type written with qualified names, such as "int[]",
// "java.util.Map<java.lang.Integer, V>" or "? extends java.lang.Number".
// Short all-uppercase names without a package ("T", "K") become type variables.
// Text that cannot be parsed yields the unresolved descriptor.
func Parse(text string) *Descriptor {
	scan := &typeScanner{src: text}

	desc, ok := scan.parseType()
	if !ok {
		return Unresolved()
	}

	scan.skipSpace()

	if scan.pos != len(scan.src) {
		return Unresolved()
	}

	return desc
}

// MustParse is Parse for package-level tables; it panics on unparseable text.
func MustParse(text string) *Descriptor {
	desc := Parse(text)
	if !desc.IsResolved() {
		panic("jtype: cannot parse type " + text)
	}

	return desc
}

type typeScanner struct {
	src string
	pos int
}

func (scan *typeScanner) skipSpace() {
	for scan.pos < len(scan.src) && scan.src[scan.pos] == ' ' {
		scan.pos++
	}
}

func (scan *typeScanner) peek() byte {
	scan.skipSpace()

	if scan.pos >= len(scan.src) {
		return 0
	}

	return scan.src[scan.pos]
}

func (scan *typeScanner) ident() string {
	scan.skipSpace()

	start := scan.pos

	for scan.pos < len(scan.src) {
		ch := rune(scan.src[scan.pos])
		if ch != '.' && ch != '_' && ch != '$' && !unicode.IsLetter(ch) && !unicode.IsDigit(ch) {
			break
		}

		scan.pos++
	}

	return strings.Trim(scan.src[start:scan.pos], ".")
}

func (scan *typeScanner) parseType() (*Descriptor, bool) {
	if scan.peek() == '?' {
		scan.pos++

		return scan.parseWildcard()
	}

	name := scan.ident()
	if name == "" {
		return nil, false
	}

	var desc *Descriptor

	switch prim, isKeyword := Keyword(name); {
	case isKeyword:
		desc = prim
	case isTypeVarName(name):
		desc = TypeVariable(name)
	default:
		args, ok := scan.parseArgs()
		if !ok {
			return nil, false
		}

		desc = Ref(name, args...)
	}

	for scan.peek() == '[' {
		scan.pos++

		if scan.peek() != ']' {
			return nil, false
		}

		scan.pos++
		desc = ArrayOf(desc)
	}

	return desc, true
}

// parseWildcard maps "?" to Object and "? extends X" to X; "? super X" keeps X.
func (scan *typeScanner) parseWildcard() (*Descriptor, bool) {
	word := scan.ident()
	if word == "" {
		return Ref(ObjectName), true
	}

	if word != "extends" && word != "super" {
		return nil, false
	}

	return scan.parseType()
}

func (scan *typeScanner) parseArgs() ([]*Descriptor, bool) {
	if scan.peek() != '<' {
		return nil, true
	}

	scan.pos++

	var args []*Descriptor

	for {
		arg, ok := scan.parseType()
		if !ok {
			return nil, false
		}

		args = append(args, arg)

		switch scan.peek() {
		case ',':
			scan.pos++
		case '>':
			scan.pos++

			return args, true
		default:
			return nil, false
		}
	}
}

func isTypeVarName(name string) bool {
	if len(name) > 2 || strings.ContainsRune(name, '.') {
		return false
	}

	for _, ch := range name {
		if !unicode.IsUpper(ch) && !unicode.IsDigit(ch) {
			return false
		}
	}

	return true
}
