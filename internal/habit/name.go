package habit

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims surrounding whitespace and applies Unicode NFC so
// that visually identical names are stored identically. It reports false
// when nothing is left.
func NormalizeName(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", false
	}
	return norm.NFC.String(trimmed), true
}
