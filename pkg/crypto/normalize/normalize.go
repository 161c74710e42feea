// Package normalize canonicalizes mnemonic text before it is compared,
// looked up or hashed.
//
// Every code path that touches phrase or passphrase text goes through this
// package so that visually identical input typed with different Unicode
// encodings always produces the same bytes.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// String returns the NFKD form of s.
func String(s string) string {
	return norm.NFKD.String(s)
}

// Bytes returns the NFKD form of s as a fresh byte slice.
func Bytes(s string) []byte {
	return norm.NFKD.Bytes([]byte(s))
}

// Fields splits phrase on any Unicode whitespace (including the ideographic
// space used by Japanese phrases) and normalizes each word.
func Fields(phrase string) []string {
	fields := strings.FieldsFunc(phrase, unicode.IsSpace)
	for i, f := range fields {
		fields[i] = String(f)
	}
	return fields
}

// Equal reports whether a and b are equal after normalization.
func Equal(a, b string) bool {
	return String(a) == String(b)
}

// IsNormalized reports whether s is already in NFKD form.
func IsNormalized(s string) bool {
	return norm.NFKD.IsNormalString(s)
}
