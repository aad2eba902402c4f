package sql

import (
	"regexp"
	"strings"
)

// Representative sample values substituted for placeholders so a
// parameterized statement becomes executable under EXPLAIN. The exact
// values are arbitrary; they only have to be syntactically valid in place.
const (
	sampleNumeric  = "1"
	sampleString   = "'sample'"
	sampleDateLow  = "'2024-01-01'"
	sampleDateHigh = "'2024-12-31'"
)

var (
	comparisonBeforeParam = regexp.MustCompile(`(?i)([a-zA-Z_][\w.]*)\s*(=|!=|<>|<=|>=|<|>)$`)
	likeBeforeParam       = regexp.MustCompile(`(?i)[a-zA-Z_][\w.]*\s+like$`)

	// Column names whose values are almost certainly strings. Anything else
	// defaults to a numeric sample, which covers id/count/value columns and
	// contexts with no signal at all.
	stringColumnRegex = regexp.MustCompile(`(?i)(name|email|title|desc|description|comment|status|label|note|message|text|phone|address|city|country|code|slug|uuid|token)\w*$`)
)

// placeholderOffsets returns the byte offsets of true `?` placeholders,
// i.e. those outside string literals. A ? inside '...' is literal content.
func placeholderOffsets(sqlText string) []int {
	masked := maskStringLiterals(sqlText)
	var offsets []int
	for i := 0; i < len(masked); i++ {
		if masked[i] == '?' {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

// HasParameters reports whether the statement contains at least one true
// placeholder.
func HasParameters(sqlText string) bool {
	return len(placeholderOffsets(sqlText)) > 0
}

// CountParameters returns the number of true placeholders.
func CountParameters(sqlText string) int {
	return len(placeholderOffsets(sqlText))
}

// ReplaceParametersForExplain substitutes every true placeholder with a
// representative sample value chosen from its clause context, so the result
// is directly executable for query-plan inspection. Statements without
// placeholders are returned unchanged, byte for byte. Every other token of
// the query is preserved verbatim.
//
// Context rules, checked in order:
//   - second operand of BETWEEN ... AND -> date-like string sample
//   - directly after BETWEEN           -> date-like string sample
//   - inside IN (...)                  -> numeric sample
//   - after LIKE                       -> quoted string sample
//   - comparison with a string-suggestive column name -> quoted string sample
//   - anything else                    -> numeric sample
func ReplaceParametersForExplain(sqlText string) string {
	offsets := placeholderOffsets(sqlText)
	if len(offsets) == 0 {
		return sqlText
	}

	masked := maskStringLiterals(sqlText)

	var b strings.Builder
	b.Grow(len(sqlText) + len(offsets)*12)

	prev := 0
	expectBetweenHigh := false
	for _, off := range offsets {
		b.WriteString(sqlText[prev:off])

		sample, isBetweenLow := sampleForContext(masked[:off], expectBetweenHigh)
		expectBetweenHigh = isBetweenLow
		b.WriteString(sample)

		prev = off + 1
	}
	b.WriteString(sqlText[prev:])

	return b.String()
}

// sampleForContext picks the sample for a placeholder given everything to
// its left (with string literals masked). expectBetweenHigh is set when the
// previous placeholder was the low bound of a BETWEEN. The second return
// value reports whether this placeholder is itself a BETWEEN low bound.
func sampleForContext(before string, expectBetweenHigh bool) (string, bool) {
	trailing := strings.TrimRight(before, " \t\n\r")
	lowerTrailing := strings.ToLower(trailing)

	if hasKeywordSuffix(lowerTrailing, "between") {
		return sampleDateLow, true
	}
	if expectBetweenHigh && hasKeywordSuffix(lowerTrailing, "and") {
		return sampleDateHigh, false
	}

	if insideInList(trailing) {
		return sampleNumeric, false
	}

	if likeBeforeParam.MatchString(trailing) {
		return sampleString, false
	}

	if m := comparisonBeforeParam.FindStringSubmatch(trailing); m != nil {
		if stringColumnRegex.MatchString(m[1]) {
			return sampleString, false
		}
		return sampleNumeric, false
	}

	return sampleNumeric, false
}

// insideInList reports whether the position directly follows `IN (` with
// only prior list elements (placeholders, numbers, commas) in between.
func insideInList(trailing string) bool {
	i := len(trailing) - 1
	for i >= 0 {
		c := trailing[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' ||
			c == ',' || c == '?' || c == '\'' || (c >= '0' && c <= '9') {
			i--
			continue
		}
		break
	}
	if i < 0 || trailing[i] != '(' {
		return false
	}

	// The word directly before the opening paren must be IN.
	rest := strings.TrimRight(trailing[:i], " \t\n\r")
	return strings.HasSuffix(strings.ToLower(rest), "in") &&
		(len(rest) == 2 || !isWordByte(rest[len(rest)-3]))
}

// hasKeywordSuffix reports whether s ends with the keyword as a whole word,
// so identifiers like "command" or "inbetween" do not match "and"/"between".
func hasKeywordSuffix(s, keyword string) bool {
	if !strings.HasSuffix(s, keyword) {
		return false
	}
	boundary := len(s) - len(keyword) - 1
	return boundary < 0 || !isWordByte(s[boundary])
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
