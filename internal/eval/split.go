package eval

import "strings"

// splitTopLevel splits src on sep, ignoring occurrences inside nested
// (), [], {} groups or quoted strings. It is the text-level counterpart of
// the lexer's balanced-bracket scan, used to break apart comma-separated
// argument/formal/array-literal lists and matrix-literal rows without
// re-tokenizing nested sub-expressions prematurely.
func splitTopLevel(src string, sep byte) []string {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil
	}
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '"', '\'':
			i++
			for i < len(src) && src[i] != c {
				if src[i] == '\\' && i+1 < len(src) {
					i++
				}
				i++
			}
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(src[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(src[start:]))
	return parts
}

// splitFormal splits a single `name[=default]` formal-parameter spec on its
// top-level '=' (not part of ==, <=, >=, !=).
func splitFormal(spec string) (name string, defaultExpr string, hasDefault bool) {
	depth := 0
	for i := 0; i < len(spec); i++ {
		c := spec[i]
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '=':
			if depth != 0 {
				continue
			}
			prevOK := i == 0 || !isRelOpByte(spec[i-1])
			nextOK := i+1 >= len(spec) || spec[i+1] != '='
			if prevOK && nextOK {
				return strings.TrimSpace(spec[:i]), strings.TrimSpace(spec[i+1:]), true
			}
		}
	}
	return strings.TrimSpace(spec), "", false
}

func isRelOpByte(c byte) bool {
	switch c {
	case '<', '>', '=', '!':
		return true
	default:
		return false
	}
}
