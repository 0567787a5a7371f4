package gen

import (
	"strings"
	"unicode"
)

// goKeywords collides with catalogue identifiers often enough (e.g. a field
// literally named "type") that the generator needs its own disambiguation
// list, mirroring the teacher's reserved-word handling for generated Go
// identifiers.
var goKeywords = map[string]bool{
	"break": true, "default": true, "func": true, "interface": true, "select": true,
	"case": true, "defer": true, "go": true, "map": true, "struct": true,
	"chan": true, "else": true, "goto": true, "package": true, "switch": true,
	"const": true, "fallthrough": true, "if": true, "range": true, "type": true,
	"continue": true, "for": true, "import": true, "return": true, "var": true,
}

// ToSnakeCase converts a catalogue identifier (often camelCase or
// PascalCase) into snake_case; the generator uses it for a repeating group's
// array id.
// Reserved words are suffixed with "_field" to avoid colliding with Go
// keywords (4.C "Field-name source").
func ToSnakeCase(id string) string {
	var b strings.Builder
	for i, r := range id {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	out := b.String()
	if goKeywords[out] {
		out += "_field"
	}
	return out
}

// ToPascalCase converts a catalogue identifier into a PascalCase Go type or
// enum-variant name, mapping non-alphanumeric characters to canonical stems
// (4.C "Type-name source").
func ToPascalCase(id string) string {
	var b strings.Builder
	capNext := true
	runes := []rune(id)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '-':
			if i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
				b.WriteString("Remove")
				capNext = true
			}
		case c == '+':
			if i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
				b.WriteString("Add")
				capNext = true
			}
		case c == '%':
			b.WriteString("Percent")
			capNext = true
		case c == '<':
			b.WriteString("InfTo")
			capNext = true
		case c == '>':
			b.WriteString("SupTo")
			capNext = true
		case c == ' ' || c == '_' || c == '#' || c == '(' || c == ')' ||
			c == '&' || c == '.' || c == ',' || c == '/' || c == '[' || c == ']' ||
			c == '{' || c == '}':
			capNext = true
		case b.Len() == 0 && unicode.IsDigit(c):
			b.WriteString("Val")
			b.WriteRune(c)
			capNext = true
		case capNext:
			b.WriteRune(unicode.ToUpper(c))
			capNext = false
		case unicode.IsDigit(c):
			b.WriteRune(c)
			capNext = true
		case unicode.IsLetter(c) || unicode.IsDigit(c):
			b.WriteRune(c)
		}
	}
	return b.String()
}

// DisambiguateVariants appends the numeric value to any PascalCase name that
// collides with an earlier one in the same enumeration (4.C "Enum variants
// with duplicate names are disambiguated by appending the numeric value").
func DisambiguateVariants(names []string, values []uint32) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		if seen[n] {
			out[i] = n + itoa(values[i])
		} else {
			out[i] = n
			seen[n] = true
		}
	}
	return out
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var digits [10]byte
	i := len(digits)
	for v > 0 {
		i--
		digits[i] = byte('0' + v%10)
		v /= 10
	}
	return string(digits[i:])
}
