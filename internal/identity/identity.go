// Package identity canonicalizes employee identities for cross-source matching.
package identity

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical trims, collapses inner whitespace, composes accents (NFC) and
// upper-cases s. Two sources spelling "José  Pérez" and "JOSÉ PÉREZ" end
// up with the same key.
func Canonical(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(norm.NFC.String(strings.Join(fields, " ")))
}

// Equal reports whether a and b canonicalize to the same key.
func Equal(a, b string) bool {
	return Canonical(a) == Canonical(b)
}
