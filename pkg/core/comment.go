package core

import "strings"

// ParseKeyValues scans s for key=value tokens, where value is either a
// double-quoted string (which may contain spaces) or a bare token.
// Surrounding quotes are removed from values. Tokens without '=' are
// skipped, and a later duplicate key replaces an earlier one.
func ParseKeyValues(s string) map[string]string {
	out := make(map[string]string)
	i, n := 0, len(s)

	for i < n {
		// Skip whitespace between tokens
		for i < n && isSpace(s[i]) {
			i++
		}
		if i >= n {
			break
		}

		start := i
		for i < n && !isSpace(s[i]) && s[i] != '=' {
			i++
		}
		if i >= n || s[i] != '=' || i == start {
			// Bare word or stray '=': skip to the next token
			for i < n && !isSpace(s[i]) {
				i++
			}
			continue
		}
		key := s[start:i]
		i++ // '='

		if i < n && s[i] == '"' {
			if end := strings.IndexByte(s[i+1:], '"'); end >= 0 {
				out[key] = s[i+1 : i+1+end]
				i += end + 2
				continue
			}
			// Unterminated quote, fall back to a bare token
		}

		vstart := i
		for i < n && !isSpace(s[i]) {
			i++
		}
		out[key] = s[vstart:i]
	}

	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
