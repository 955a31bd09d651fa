package marker

import "strings"

// Escape makes snippet text safe to embed in a single TEXT line. Backslash,
// LF, and CR become two-character sequences, and every character of a literal
// sentinel occurrence's "<<<" run becomes "\<" so the escaped form never
// contains the raw sentinel substring. Everything else passes through, which
// keeps the injected text readable in place.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], Sentinel) {
			b.WriteString(`\<\<\<`)
			b.WriteString(Sentinel[3:])
			i += len(Sentinel)
			continue
		}
		switch s[i] {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(s[i])
		}
		i++
	}
	return b.String()
}

// Unescape reverses Escape. It reports false on a dangling backslash or an
// unknown escape sequence, which callers treat as not-a-marker.
func Unescape(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		i++
		if i >= len(s) {
			return "", false
		}
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '<':
			b.WriteByte('<')
		default:
			return "", false
		}
	}
	return b.String(), true
}
