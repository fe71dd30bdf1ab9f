// Package casefmt classifies Java identifiers into naming conventions and
// converts between them.
package casefmt

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Convention is an identifier naming scheme.
type Convention uint8

// Conventions. None means no convention matched.
const (
	None Convention = iota
	LowerCamel
	UpperCamel
	ConstantCase
)

var conventionNames = [...]string{
	None:         "none",
	LowerCamel:   "lowerCamel",
	UpperCamel:   "UpperCamel",
	ConstantCase: "CONSTANT_CASE",
}

func (conv Convention) String() string {
	if int(conv) < len(conventionNames) {
		return conventionNames[conv]
	}

	return "none"
}

// Classify returns the convention name follows. A camel form needs an
// internal case transition and constant case needs a separator between
// words, so single words such as "lower" or "UPPER" classify as None.
func Classify(name string) Convention {
	if name == "" || !isASCIILetter(rune(name[0])) {
		return None
	}

	hasUnderscore := strings.ContainsRune(name, '_')
	hasLower := strings.IndexFunc(name, unicode.IsLower) >= 0
	first := rune(name[0])

	switch {
	case hasUnderscore:
		if !hasLower && isConstantShape(name) {
			return ConstantCase
		}

		return None
	case unicode.IsLower(first):
		if hasLowerToUpper(name) {
			return LowerCamel
		}
	case unicode.IsUpper(first):
		if hasLower && (hasLowerToUpper(name) || upperThenLower(name)) {
			return UpperCamel
		}
	}

	return None
}

// Words splits name into lowercase words using the boundaries of the
// convention it classifies as.
func Words(name string) []string {
	return splitWords(name, Classify(name))
}

// Convert re-emits name in the target convention. Converting to None
// returns name unchanged.
func Convert(name string, to Convention) string {
	return ConvertFrom(name, Classify(name), to)
}

// ConvertFrom re-emits name in the target convention, splitting it with the
// boundaries of the source convention.
func ConvertFrom(name string, from, to Convention) string {
	if to == None {
		return name
	}

	return join(splitWords(name, from), to)
}

func splitWords(name string, from Convention) []string {
	var raw []string

	switch from {
	case LowerCamel, UpperCamel:
		raw = splitBeforeUpper(name)
	case ConstantCase:
		raw = strings.Split(name, "_")
	default:
		for _, part := range strings.Split(name, "_") {
			raw = append(raw, splitLowerToUpper(part)...)
		}
	}

	lower := cases.Lower(language.Und)
	words := make([]string, 0, len(raw))

	for _, word := range raw {
		if word != "" {
			words = append(words, lower.String(word))
		}
	}

	return words
}

func join(words []string, to Convention) string {
	var sb strings.Builder

	switch to {
	case ConstantCase:
		upper := cases.Upper(language.Und)

		for idx, word := range words {
			if idx > 0 {
				sb.WriteByte('_')
			}

			sb.WriteString(upper.String(word))
		}
	case LowerCamel, UpperCamel:
		title := cases.Title(language.Und)

		for idx, word := range words {
			if idx == 0 && to == LowerCamel {
				sb.WriteString(word)

				continue
			}

			sb.WriteString(title.String(word))
		}
	case None:
		return strings.Join(words, "_")
	}

	return sb.String()
}

// splitBeforeUpper breaks a camel name before every uppercase letter, except
// that an uppercase run followed by a lowercase letter stays one word up to
// its last letter, so "HTTPServer" splits as "HTTP" and "Server".
func splitBeforeUpper(name string) []string {
	var (
		words []string
		start int
	)

	runes := []rune(name)
	offset := 0

	for idx, ch := range runes {
		if offset > start && unicode.IsUpper(ch) && !insideAcronym(runes, idx) {
			words = append(words, name[start:offset])
			start = offset
		}

		offset += utf8.RuneLen(ch)
	}

	return append(words, name[start:])
}

// insideAcronym reports an uppercase letter that continues an uppercase run
// which ends in front of a lowercase letter.
func insideAcronym(runes []rune, idx int) bool {
	if idx == 0 || !unicode.IsUpper(runes[idx-1]) {
		return false
	}

	end := idx
	for end < len(runes) && unicode.IsUpper(runes[end]) {
		end++
	}

	return end < len(runes) && end-1 > idx && unicode.IsLower(runes[end])
}

// splitLowerToUpper breaks only where a lowercase letter or digit is followed by an uppercase one.
func splitLowerToUpper(part string) []string {
	var (
		words []string
		start int
		prev  rune
	)

	for idx, ch := range part {
		if idx > start && unicode.IsUpper(ch) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			words = append(words, part[start:idx])
			start = idx
		}

		prev = ch
	}

	return append(words, part[start:])
}

func hasLowerToUpper(name string) bool {
	var prev rune

	for _, ch := range name {
		if unicode.IsUpper(ch) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			return true
		}

		prev = ch
	}

	return false
}

// upperThenLower reports an uppercase letter directly followed by a
// lowercase one anywhere in name, as in "Foo" or the "Se" of "HTTPServer".
func upperThenLower(name string) bool {
	var prev rune

	for _, ch := range name {
		if unicode.IsLower(ch) && unicode.IsUpper(prev) {
			return true
		}

		prev = ch
	}

	return false
}

// isConstantShape accepts WORD_WORD with letters or digits in every word.
func isConstantShape(name string) bool {
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return false
	}

	for _, part := range parts {
		if part == "" {
			return false
		}
	}

	return true
}

func isASCIILetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
