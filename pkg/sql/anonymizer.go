package sql

import (
	"regexp"
	"strings"
)

// placeholder is the token substituted for every literal value.
const placeholder = "?"

var (
	hexLiteralRegex = regexp.MustCompile(`\b0[xX][0-9a-fA-F]+\b`)
	numLiteralRegex = regexp.MustCompile(`\b\d+(\.\d+)?\b`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	punctSpaceRegex = regexp.MustCompile(`\s*([=<>!+\-*/%(),.])\s*`)

	// Heuristic sensitive-term patterns. "card" is word-boundary guarded so
	// identifiers like discard_reason or cardboard_sku do not trip it.
	sensitivePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)password|passwd|pwd`),
		regexp.MustCompile(`(?i)\bssn\b|social.?security`),
		regexp.MustCompile(`(?i)credit.?card|\bcard\b`),
		regexp.MustCompile(`(?i)api.?key`),
		regexp.MustCompile(`(?i)\btoken\b`),
		regexp.MustCompile(`(?i)\bsecret\b`),
		regexp.MustCompile(`(?i)\bphone\b`),
		regexp.MustCompile(`(?i)\bemail\b`),
	}
)

// Anonymize replaces every string, numeric, and hex literal with a
// placeholder while leaving keywords and identifiers untouched, so the
// output stays structurally informative but never leaks data values.
//
//	Anonymize("SELECT * FROM t WHERE name = 'O''Brien' AND id = 5")
//	// "SELECT * FROM t WHERE name = ? AND id = ?"
//
// The literal scanner defines the output contract for all inputs, parseable
// or not; there is no separate behavior for malformed SQL, which is what
// makes this safe to call on partial statements mid-edit.
func Anonymize(sqlText string) string {
	spans := stringLiteralSpans(sqlText)

	var b strings.Builder
	b.Grow(len(sqlText))

	prev := 0
	for _, s := range spans {
		b.WriteString(anonymizeSegment(sqlText[prev:s.start]))
		b.WriteString(placeholder)
		prev = s.end
	}
	b.WriteString(anonymizeSegment(sqlText[prev:]))

	return b.String()
}

// anonymizeSegment replaces numeric and hex literals in text that is known
// to contain no string literals. Word boundaries keep identifiers like col1
// or t2 intact. Hex runs first so the leading 0 of 0xFF is not treated as a
// standalone number.
func anonymizeSegment(segment string) string {
	segment = hexLiteralRegex.ReplaceAllString(segment, placeholder)
	return numLiteralRegex.ReplaceAllString(segment, placeholder)
}

// Fingerprint returns the normalized grouping key for a query: anonymized,
// whitespace-collapsed, trimmed, lower-cased. Spacing around operators and
// punctuation is dropped so `id=5` and `id = 999` group together. Two
// queries that differ only in literal values, whitespace, or keyword case
// share a fingerprint.
func Fingerprint(sqlText string) string {
	anonymized := Anonymize(sqlText)
	collapsed := whitespaceRegex.ReplaceAllString(anonymized, " ")
	collapsed = punctSpaceRegex.ReplaceAllString(collapsed, "$1")
	return strings.ToLower(strings.TrimSpace(collapsed))
}

// HasSensitiveData reports whether the query text mentions any term from a
// fixed sensitive-data vocabulary (passwords, card numbers, tokens, ...).
// It is a heuristic early warning for the anonymization consent gate, not
// proof that sensitive data is present or absent.
func HasSensitiveData(sqlText string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(sqlText) {
			return true
		}
	}
	return false
}
