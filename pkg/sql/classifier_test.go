package sql

import (
	"strings"
	"testing"

	"github.com/querylens/querylens-engine/pkg/models"
)

func TestAnalyze_QueryType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected models.QueryType
	}{
		{
			name:     "simple select",
			input:    "SELECT id FROM users",
			expected: models.QueryTypeSelect,
		},
		{
			name:     "lowercase select",
			input:    "select 1",
			expected: models.QueryTypeSelect,
		},
		{
			name:     "insert",
			input:    "INSERT INTO users (name) VALUES ('a')",
			expected: models.QueryTypeInsert,
		},
		{
			name:     "update",
			input:    "UPDATE users SET name = 'b' WHERE id = 1",
			expected: models.QueryTypeUpdate,
		},
		{
			name:     "delete",
			input:    "DELETE FROM users WHERE id = 1",
			expected: models.QueryTypeDelete,
		},
		{
			name:     "select behind line comment",
			input:    "-- fetch users\nSELECT id FROM users",
			expected: models.QueryTypeSelect,
		},
		{
			name:     "select behind block comment",
			input:    "/* audit: reviewed */ SELECT id FROM users",
			expected: models.QueryTypeSelect,
		},
		{
			name:     "cte classifies as select",
			input:    "WITH recent AS (SELECT id FROM orders) SELECT * FROM recent",
			expected: models.QueryTypeSelect,
		},
		{
			name:     "show statement is unknown",
			input:    "SHOW TABLES",
			expected: models.QueryTypeUnknown,
		},
		{
			name:     "empty string",
			input:    "",
			expected: models.QueryTypeUnknown,
		},
		{
			name:     "whitespace only",
			input:    "   \n\t  ",
			expected: models.QueryTypeUnknown,
		},
		{
			name:     "garbage input",
			input:    "this is not sql at all !!!",
			expected: models.QueryTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Analyze(tt.input)
			if result.QueryType != tt.expected {
				t.Errorf("Analyze(%q).QueryType = %q, want %q", tt.input, result.QueryType, tt.expected)
			}
			if result.Complexity < 0 {
				t.Errorf("Analyze(%q).Complexity = %d, want >= 0", tt.input, result.Complexity)
			}
			if result.AntiPatterns == nil {
				t.Errorf("Analyze(%q).AntiPatterns is nil, want empty slice", tt.input)
			}
		})
	}
}

func TestAnalyze_EmptyInputHasZeroComplexity(t *testing.T) {
	for _, input := range []string{"", "   \n\t  "} {
		result := Analyze(input)
		if result.QueryType != models.QueryTypeUnknown {
			t.Errorf("Analyze(%q).QueryType = %q, want unknown", input, result.QueryType)
		}
		if result.Complexity != 0 {
			t.Errorf("Analyze(%q).Complexity = %d, want 0", input, result.Complexity)
		}
	}
}

func TestAnalyze_SelectStarAntiPattern(t *testing.T) {
	result := Analyze("SELECT * FROM users")

	if result.QueryType != models.QueryTypeSelect {
		t.Fatalf("QueryType = %q, want select", result.QueryType)
	}
	if !hasAntiPattern(result.AntiPatterns, "select_star") {
		t.Errorf("expected select_star anti-pattern, got %+v", result.AntiPatterns)
	}
}

func TestAnalyze_MissingWhereAntiPattern(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		flagged bool
	}{
		{
			name:    "update without where",
			input:   "UPDATE users SET status='inactive'",
			flagged: true,
		},
		{
			name:    "delete without where",
			input:   "DELETE FROM users",
			flagged: true,
		},
		{
			name:    "update with where",
			input:   "UPDATE users SET status='inactive' WHERE id = 1",
			flagged: false,
		},
		{
			name:    "where inside string literal does not count",
			input:   "UPDATE notes SET body = 'explains where clauses'",
			flagged: true,
		},
		{
			name:    "select never flagged",
			input:   "SELECT id FROM users",
			flagged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Analyze(tt.input)
			got := hasAntiPattern(result.AntiPatterns, "missing_where")
			if got != tt.flagged {
				t.Errorf("missing_where flagged = %v, want %v (patterns: %+v)", got, tt.flagged, result.AntiPatterns)
			}
			if tt.flagged {
				found := false
				for _, ap := range result.AntiPatterns {
					if strings.Contains(strings.ToLower(ap.Message), "where") {
						found = true
					}
				}
				if !found {
					t.Errorf("expected an anti-pattern message mentioning WHERE, got %+v", result.AntiPatterns)
				}
			}
		})
	}
}

func TestAnalyze_ComplexityOrdering(t *testing.T) {
	base := "SELECT id, name FROM users WHERE status = 'active'"
	withJoin := "SELECT id, name FROM users JOIN orders ON users.id = orders.user_id WHERE status = 'active'"
	withGroupBy := base + " GROUP BY name"
	withSubquery := "SELECT id, name FROM users WHERE id IN (SELECT user_id FROM orders)"

	baseScore := Analyze(base).Complexity

	if got := Analyze(withJoin).Complexity; got <= baseScore {
		t.Errorf("complexity with JOIN = %d, want > %d", got, baseScore)
	}
	if got := Analyze(withGroupBy).Complexity; got <= baseScore {
		t.Errorf("complexity with GROUP BY = %d, want > %d", got, baseScore)
	}
	if got := Analyze(withSubquery).Complexity; got < baseScore {
		t.Errorf("complexity with subquery = %d, want >= %d", got, baseScore)
	}
}

func TestAnalyze_MultipleJoinsScoreHigher(t *testing.T) {
	one := Analyze("SELECT * FROM a JOIN b ON a.id = b.a_id").Complexity
	two := Analyze("SELECT * FROM a JOIN b ON a.id = b.a_id JOIN c ON b.id = c.b_id").Complexity
	if two <= one {
		t.Errorf("two joins = %d, want > one join = %d", two, one)
	}
}

func TestAnalyze_HeuristicAntiPatterns(t *testing.T) {
	leading := Analyze("SELECT id FROM users WHERE name LIKE '%smith'")
	if !hasAntiPattern(leading.AntiPatterns, "leading_wildcard_like") {
		t.Errorf("expected leading_wildcard_like, got %+v", leading.AntiPatterns)
	}

	orWhere := Analyze("SELECT id FROM users WHERE a = 1 OR b = 2")
	if !hasAntiPattern(orWhere.AntiPatterns, "or_in_where") {
		t.Errorf("expected or_in_where, got %+v", orWhere.AntiPatterns)
	}

	inSub := Analyze("SELECT id FROM users WHERE id IN (SELECT user_id FROM orders)")
	if !hasAntiPattern(inSub.AntiPatterns, "in_subquery") {
		t.Errorf("expected in_subquery, got %+v", inSub.AntiPatterns)
	}
}

func TestAnalyze_NeverPanics(t *testing.T) {
	inputs := []string{
		"SELECT",
		"'unterminated",
		"/* unterminated comment SELECT 1",
		"SELECT * FROM t WHERE x = '",
		"珠穆朗玛 SELECT \x00 FROM",
		strings.Repeat("(", 500),
		"-- only a comment",
	}
	for _, input := range inputs {
		result := Analyze(input)
		if result.Complexity < 0 {
			t.Errorf("Analyze(%q).Complexity = %d, want >= 0", input, result.Complexity)
		}
	}
}

func hasAntiPattern(patterns []models.AntiPattern, typ string) bool {
	for _, p := range patterns {
		if p.Type == typ {
			return true
		}
	}
	return false
}
