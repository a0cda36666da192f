package common

import "strings"

// TitleWords upper-cases first character of every word leaving the rest of
// the string intact. Word characters are ASCII letters, digits and
// underscore, so "gray /a100" becomes "Gray /A100".
func TitleWords(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isWordChar(c) && (i == 0 || !isWordChar(s[i-1])) && 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func isWordChar(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
