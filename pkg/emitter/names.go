package emitter

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase upper-cases the first letter of every run of letters and
// lower-cases the rest. Digits, underscores and other non-letters separate
// runs: "gemm_routine" becomes "Gemm_Routine" and "xgemm2x" becomes "Xgemm2X".
func TitleCase(s string) string {
	caser := cases.Title(language.Und)

	var b strings.Builder
	b.Grow(len(s))

	start := -1
	for i, r := range s {
		if unicode.IsLetter(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(caser.String(s[start:i]))
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		b.WriteString(caser.String(s[start:]))
	}

	return b.String()
}

// CamelCase is TitleCase with underscores removed.
func CamelCase(s string) string {
	return strings.ReplaceAll(TitleCase(s), "_", "")
}

// capitalize upper-cases the first rune only.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// nameField renders a device name as a fixed-width name literal: surrounding
// whitespace is stripped, the name is cut to width runes and right-padded.
func nameField(name string, width int) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) > width {
		r = r[:width]
	}
	return fmt.Sprintf("Name{\"%-*s\"}", width, string(r))
}
