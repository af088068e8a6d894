// Package naming converts between the option-name spellings cli-kit has to
// juggle: the hyphenated form a user types on the command line and the
// camelCased form used as an argv key, delegating both directions to
// github.com/vedranvuk/strutils.
package naming

import (
	"strings"

	"github.com/vedranvuk/strutils"
)

// CamelCase converts a kebab- or snake-cased long option name ("no-banner",
// "output_dir") into its camelCase argv key ("noBanner", "outputDir").
//
// strutils.CamelCase does the tokenizing; the leading rune is forced
// lowercase afterward since argv keys are always lower-camel.
func CamelCase(s string) string {
	if s == "" {
		return s
	}
	out := strutils.CamelCase(s)
	if out == "" {
		return out
	}
	r := []rune(out)
	r[0] = []rune(strings.ToLower(string(r[0])))[0]
	return string(r)
}

// Kebab converts a camelCase or PascalCase identifier to kebab-case.
func Kebab(s string) string {
	return strutils.KebabCase(s)
}

// IsAlphaNumeric reports whether every rune in s is a letter or digit.
func IsAlphaNumeric(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(strutils.AlphaNums, r) {
			return false
		}
	}
	return s != ""
}
