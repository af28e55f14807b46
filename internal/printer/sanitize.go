package printer

import (
	"strings"
	"unicode"
)

const (
	// DefaultMaxLen is the longest free-text field sent to the device.
	DefaultMaxLen = 80
	// DefaultFallback replaces fields that sanitize to nothing.
	DefaultFallback = "-"
)

// Sanitizer makes free text safe for a device that only understands
// printable ASCII. The zero value uses DefaultMaxLen and DefaultFallback.
type Sanitizer struct {
	MaxLen   int
	Fallback string
}

// DefaultSanitizer is the rule applied to every free-text receipt field.
var DefaultSanitizer = Sanitizer{MaxLen: DefaultMaxLen, Fallback: DefaultFallback}

// Sanitize trims s, collapses whitespace runs to one space, drops anything
// outside printable ASCII and truncates the result to MaxLen characters.
// An empty result is replaced by the fallback. Sanitize is idempotent.
func (s Sanitizer) Sanitize(text string) string {
	out := clean(text, s.maxLen())
	if out == "" {
		return s.fallback()
	}
	return out
}

func (s Sanitizer) maxLen() int {
	if s.MaxLen <= 0 {
		return DefaultMaxLen
	}
	return s.MaxLen
}

// fallback is itself cleaned so a configured value cannot break idempotence.
func (s Sanitizer) fallback() string {
	if s.Fallback == "" {
		return DefaultFallback
	}
	if fb := clean(s.Fallback, s.maxLen()); fb != "" {
		return fb
	}
	return DefaultFallback
}

func clean(text string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			space = b.Len() > 0
			continue
		}
		if !isPrintableASCII(r) {
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}

	out := b.String()
	if len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], " ")
	}
	return out
}

// filterLine keeps the layout of a pre-rendered line intact: only characters
// outside printable ASCII are removed and the line is cut at maxLen.
func filterLine(line string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		switch {
		case r == '\t':
			b.WriteByte(' ')
		case isPrintableASCII(r):
			b.WriteRune(r)
		}
	}
	out := strings.TrimRight(b.String(), " ")
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	return out
}

func isPrintableASCII(r rune) bool {
	return r >= 0x20 && r <= 0x7E
}
