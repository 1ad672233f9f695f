package gen

import (
	"strings"
	"unicode"
)

// CamelCase lowercases the leading character of name.
func CamelCase(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// PascalCase uppercases the leading character of name.
func PascalCase(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// UpperSnake converts a camelCase or PascalCase identifier to
// UPPER_SNAKE, inserting an underscore at each lower-to-upper boundary.
func UpperSnake(name string) string {
	var sb strings.Builder
	prevLower := false
	for _, c := range name {
		if unicode.IsUpper(c) && prevLower {
			sb.WriteByte('_')
		}
		prevLower = unicode.IsLower(c) || unicode.IsDigit(c)
		sb.WriteRune(unicode.ToUpper(c))
	}
	return sb.String()
}

// MangleName appends an underscore while name collides with a target
// keyword, leaving all other identifiers untouched.
func MangleName(name string, keywords map[string]bool) string {
	for keywords[name] {
		name += "_"
	}
	return name
}

// ResourceName mangles an embedded-resource path into an identifier by
// replacing every byte that is not a letter or digit with an underscore.
func ResourceName(name string) string {
	var sb strings.Builder
	for _, c := range []byte(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			sb.WriteByte(c)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
