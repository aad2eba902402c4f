package sql

import (
	"testing"
)

func TestCountParameters(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{
			name:     "two placeholders",
			input:    "SELECT * FROM users WHERE id = ? AND name = ?",
			expected: 2,
		},
		{
			name:     "no placeholders",
			input:    "SELECT * FROM users",
			expected: 0,
		},
		{
			name:     "question mark inside string literal",
			input:    "SELECT * FROM posts WHERE title = 'What?'",
			expected: 0,
		},
		{
			name:     "mixed literal and placeholder",
			input:    "SELECT * FROM posts WHERE comment = 'What? Really?' AND user_id = ?",
			expected: 1,
		},
		{
			name:     "in list",
			input:    "SELECT * FROM t WHERE id IN (?, ?, ?)",
			expected: 3,
		},
		{
			name:     "empty string",
			input:    "",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountParameters(tt.input); got != tt.expected {
				t.Errorf("CountParameters(%q) = %d, want %d", tt.input, got, tt.expected)
			}
			hasParams := tt.expected > 0
			if got := HasParameters(tt.input); got != hasParams {
				t.Errorf("HasParameters(%q) = %v, want %v", tt.input, got, hasParams)
			}
		})
	}
}

func TestReplaceParametersForExplain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "numeric default context",
			input:    "SELECT * FROM users WHERE id = ?",
			expected: "SELECT * FROM users WHERE id = 1",
		},
		{
			name:     "string column context",
			input:    "SELECT * FROM users WHERE name = ?",
			expected: "SELECT * FROM users WHERE name = 'sample'",
		},
		{
			name:     "email column context",
			input:    "SELECT * FROM users WHERE email = ?",
			expected: "SELECT * FROM users WHERE email = 'sample'",
		},
		{
			name:     "like is always a string",
			input:    "SELECT * FROM users WHERE login LIKE ?",
			expected: "SELECT * FROM users WHERE login LIKE 'sample'",
		},
		{
			name:     "in list gets numeric samples with parens preserved",
			input:    "SELECT * FROM t WHERE id IN (?, ?, ?)",
			expected: "SELECT * FROM t WHERE id IN (1, 1, 1)",
		},
		{
			name:     "between gets two date-like bounds",
			input:    "SELECT * FROM orders WHERE created_at BETWEEN ? AND ?",
			expected: "SELECT * FROM orders WHERE created_at BETWEEN '2024-01-01' AND '2024-12-31'",
		},
		{
			name:     "literal question marks preserved verbatim",
			input:    "SELECT * FROM posts WHERE comment = 'What? Really?' AND user_id = ?",
			expected: "SELECT * FROM posts WHERE comment = 'What? Really?' AND user_id = 1",
		},
		{
			name:     "no placeholders returned unchanged",
			input:    "SELECT id, name FROM users WHERE id = 7",
			expected: "SELECT id, name FROM users WHERE id = 7",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "mixed contexts in one statement",
			input:    "SELECT * FROM users WHERE name = ? AND age > ? AND id IN (?, ?)",
			expected: "SELECT * FROM users WHERE name = 'sample' AND age > 1 AND id IN (1, 1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReplaceParametersForExplain(tt.input)
			if got != tt.expected {
				t.Errorf("ReplaceParametersForExplain(%q)\n got:  %q\n want: %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestReplaceParametersForExplain_EliminatesAllPlaceholders(t *testing.T) {
	inputs := []string{
		"SELECT * FROM users WHERE id = ? AND name = ?",
		"SELECT * FROM t WHERE id IN (?, ?, ?)",
		"SELECT * FROM orders WHERE total BETWEEN ? AND ? AND status = ?",
		"UPDATE users SET name = ? WHERE id = ?",
		"? ? ?",
		"SELECT * FROM posts WHERE comment = 'What? Really?' AND user_id = ?",
	}

	for _, input := range inputs {
		out := ReplaceParametersForExplain(input)
		if HasParameters(out) {
			t.Errorf("output of ReplaceParametersForExplain(%q) still has placeholders: %q", input, out)
		}
	}
}

func TestReplaceParametersForExplain_PreservesClauseOrder(t *testing.T) {
	input := "SELECT a, b FROM t JOIN u ON t.id = u.t_id WHERE a = ? GROUP BY a HAVING COUNT(b) > ? ORDER BY a LIMIT ?"
	out := ReplaceParametersForExplain(input)

	order := []string{"SELECT", "FROM", "JOIN", "WHERE", "GROUP BY", "HAVING", "ORDER BY", "LIMIT"}
	pos := -1
	for _, kw := range order {
		idx := indexFrom(out, kw, pos+1)
		if idx < 0 {
			t.Fatalf("clause %q missing or out of order in %q", kw, out)
		}
		pos = idx
	}
}

func indexFrom(s, substr string, from int) int {
	if from >= len(s) {
		return -1
	}
	for i := from; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
