package domain

import "strings"

// ValidTokenShape reports whether token looks like a bearer JWT: non-empty
// and exactly three dot-delimited segments. Segments are not decoded.
func ValidTokenShape(token string) bool {
	if token == "" {
		return false
	}
	return len(strings.Split(token, ".")) == 3
}
