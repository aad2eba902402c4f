package sql

import "strings"

// span marks a byte range [start, end) within a scanned statement.
type span struct {
	start int
	end   int
}

// stringLiteralSpans returns the byte ranges of every single- and
// double-quoted literal, including the quotes. Both the SQL standard
// doubled-quote escape ('') and the backslash escape (\') are honored, so a
// quote character inside a literal never terminates the scan early.
func stringLiteralSpans(sqlText string) []span {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	var spans []span
	state := stateNormal
	start := 0

	for i := 0; i < len(sqlText); i++ {
		ch := sqlText[i]
		switch state {
		case stateNormal:
			switch ch {
			case '\'':
				state = stateSingleQuote
				start = i
			case '"':
				state = stateDoubleQuote
				start = i
			}
		case stateSingleQuote:
			if ch == '\\' {
				i++ // skip escaped character
				continue
			}
			if ch == '\'' {
				// Doubled quote stays inside the literal.
				if i+1 < len(sqlText) && sqlText[i+1] == '\'' {
					i++
					continue
				}
				spans = append(spans, span{start: start, end: i + 1})
				state = stateNormal
			}
		case stateDoubleQuote:
			if ch == '\\' {
				i++
				continue
			}
			if ch == '"' {
				if i+1 < len(sqlText) && sqlText[i+1] == '"' {
					i++
					continue
				}
				spans = append(spans, span{start: start, end: i + 1})
				state = stateNormal
			}
		}
	}

	// Unterminated literal runs to end of input.
	if state != stateNormal {
		spans = append(spans, span{start: start, end: len(sqlText)})
	}

	return spans
}

// maskStringLiterals blanks the contents of every string literal with spaces
// while preserving the quotes and overall length. Structural scans (WHERE
// detection, placeholder counting, comment stripping) run over the masked
// form so literal contents can never fool them.
func maskStringLiterals(sqlText string) string {
	spans := stringLiteralSpans(sqlText)
	if len(spans) == 0 {
		return sqlText
	}

	b := []byte(sqlText)
	for _, s := range spans {
		for i := s.start + 1; i < s.end-1; i++ {
			b[i] = ' '
		}
	}
	return string(b)
}

// stripComments removes `-- line` and `/* block */` comments. The masked
// form drives the scan so comment markers inside string literals survive.
func stripComments(sqlText string) string {
	masked := maskStringLiterals(sqlText)

	var b strings.Builder
	b.Grow(len(sqlText))

	i := 0
	for i < len(sqlText) {
		if strings.HasPrefix(masked[i:], "--") {
			nl := strings.IndexByte(masked[i:], '\n')
			if nl < 0 {
				break
			}
			i += nl // keep the newline as a token separator
			continue
		}
		if strings.HasPrefix(masked[i:], "/*") {
			end := strings.Index(masked[i+2:], "*/")
			if end < 0 {
				break
			}
			i += 2 + end + 2
			// Block comments act as separators; emit a space so adjacent
			// tokens do not fuse.
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(sqlText[i])
		i++
	}

	return b.String()
}

// inSpans reports whether byte offset pos falls inside any of the spans.
func inSpans(pos int, spans []span) bool {
	for _, s := range spans {
		if pos >= s.start && pos < s.end {
			return true
		}
	}
	return false
}
