package casefmt

import (
	"strings"
	"unicode"
)

// The Conforms predicates accept a single-word name on its own. They back
// the naming rule, where "lower" is an acceptable method name even though
// Classify calls it None.

// ConformsLowerCamel reports a name with no underscore that starts lowercase.
func ConformsLowerCamel(name string) bool {
	return name != "" && !strings.ContainsRune(name, '_') && isLowerASCII(name[0])
}

// ConformsUpperCamel reports a name with no underscore that starts uppercase
// and contains a lowercase letter.
func ConformsUpperCamel(name string) bool {
	return name != "" && !strings.ContainsRune(name, '_') && isUpperASCII(name[0]) && hasLowerASCII(name)
}

// ConformsConstant reports a name without lowercase letters.
func ConformsConstant(name string) bool {
	return !hasLowerASCII(name)
}

// IsAllUpper reports a name with neither underscores nor lowercase letters.
func IsAllUpper(name string) bool {
	return !strings.ContainsRune(name, '_') && !hasLowerASCII(name)
}

// IsUnderscores reports a name made only of underscores, as used for unused lambda parameters.
func IsUnderscores(name string) bool {
	return name != "" && strings.Trim(name, "_") == ""
}

// Detect returns the convention whose word boundaries best fit name, using the
// lenient predicates and falling back to None (split on underscores and case
// transitions).
func Detect(name string) Convention {
	switch {
	case ConformsLowerCamel(name):
		return LowerCamel
	case ConformsUpperCamel(name):
		return UpperCamel
	case ConformsConstant(name):
		return ConstantCase
	default:
		return None
	}
}

// ToLowerCamel renames name to lower camel case.
func ToLowerCamel(name string) string {
	return ConvertFrom(name, Detect(name), LowerCamel)
}

// ToUpperCamel renames name to upper camel case.
func ToUpperCamel(name string) string {
	return ConvertFrom(name, Detect(name), UpperCamel)
}

// ToConstant renames name to constant case.
func ToConstant(name string) string {
	return ConvertFrom(name, Detect(name), ConstantCase)
}

func isLowerASCII(ch byte) bool { return ch >= 'a' && ch <= 'z' }

func isUpperASCII(ch byte) bool { return ch >= 'A' && ch <= 'Z' }

func hasLowerASCII(name string) bool {
	return strings.IndexFunc(name, func(ch rune) bool {
		return ch < unicode.MaxASCII && isLowerASCII(byte(ch))
	}) >= 0
}
