package sql

import (
	"strings"
	"testing"

	"github.com/querylens/querylens-engine/pkg/models"
)

func TestAnalyzeRisk_PrefixRules(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		level        models.RiskLevel
		confirmation bool
		destructive  bool
	}{
		{
			name:         "drop table",
			input:        "DROP TABLE users",
			level:        models.RiskCritical,
			confirmation: true,
			destructive:  true,
		},
		{
			name:         "truncate",
			input:        "TRUNCATE TABLE logs",
			level:        models.RiskCritical,
			confirmation: true,
			destructive:  true,
		},
		{
			name:         "delete without where",
			input:        "DELETE FROM users",
			level:        models.RiskHigh,
			confirmation: true,
			destructive:  true,
		},
		{
			name:         "update without where",
			input:        "UPDATE users SET active = 0",
			level:        models.RiskHigh,
			confirmation: true,
			destructive:  true,
		},
		{
			name:         "alter table",
			input:        "ALTER TABLE users ADD COLUMN age INT",
			level:        models.RiskHigh,
			confirmation: true,
			destructive:  true,
		},
		{
			name:        "delete with where",
			input:       "DELETE FROM users WHERE id = 1",
			level:       models.RiskMedium,
			destructive: true,
		},
		{
			name:        "update with where",
			input:       "UPDATE users SET active = 0 WHERE id = 1",
			level:       models.RiskMedium,
			destructive: true,
		},
		{
			name:  "insert",
			input: "INSERT INTO users (name) VALUES ('a')",
			level: models.RiskMedium,
		},
		{
			name:  "select",
			input: "SELECT 1",
			level: models.RiskLow,
		},
		{
			name:  "show",
			input: "SHOW TABLES",
			level: models.RiskLow,
		},
		{
			name:         "lowercase drop",
			input:        "  drop table users;",
			level:        models.RiskCritical,
			confirmation: true,
			destructive:  true,
		},
		{
			name:  "empty input",
			input: "",
			level: models.RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnalyzeRisk(tt.input)
			if result.Level != tt.level {
				t.Errorf("AnalyzeRisk(%q).Level = %s, want %s", tt.input, result.Level, tt.level)
			}
			if tt.confirmation && !result.RequiresConfirmation {
				t.Errorf("AnalyzeRisk(%q).RequiresConfirmation = false, want true", tt.input)
			}
			if result.IsDestructive != tt.destructive {
				t.Errorf("AnalyzeRisk(%q).IsDestructive = %v, want %v", tt.input, result.IsDestructive, tt.destructive)
			}
		})
	}
}

func TestAnalyzeRisk_WhereInsideLiteralDoesNotCount(t *testing.T) {
	result := AnalyzeRisk("DELETE FROM notes WHERE body = 'no where here'")
	if result.Level != models.RiskMedium {
		t.Errorf("Level = %s, want MEDIUM (statement has a real WHERE clause)", result.Level)
	}

	result = AnalyzeRisk("UPDATE notes SET body = 'where where where'")
	if result.Level != models.RiskHigh {
		t.Errorf("Level = %s, want HIGH (WHERE only appears inside a literal)", result.Level)
	}
}

func TestAnalyzeRisk_ComplexityRaisesLowToMedium(t *testing.T) {
	var b strings.Builder
	b.WriteString("SELECT a.id FROM a")
	for _, j := range []string{"b", "c", "d", "e", "f", "g"} {
		b.WriteString(" JOIN " + j + " ON a.id = " + j + ".a_id")
	}
	result := AnalyzeRisk(b.String())

	if result.Level != models.RiskMedium {
		t.Errorf("Level = %s, want MEDIUM for a very complex SELECT", result.Level)
	}
}

func TestAnalyzeRisk_FoldingNeverDowngrades(t *testing.T) {
	// DROP stays CRITICAL regardless of what folding adds.
	result := AnalyzeRisk("DROP TABLE users")
	if result.Level != models.RiskCritical {
		t.Errorf("Level = %s, want CRITICAL", result.Level)
	}

	// A critical anti-pattern on a MEDIUM statement leaves it at least MEDIUM.
	result = AnalyzeRisk("DELETE FROM users WHERE id = 1")
	if result.Level < models.RiskMedium {
		t.Errorf("Level = %s, want >= MEDIUM", result.Level)
	}
}

func TestAnalyzeRisk_GarbageInput(t *testing.T) {
	result := AnalyzeRisk("complete nonsense %% that is not sql")
	if result.Level != models.RiskLow {
		t.Errorf("Level = %s, want LOW for unclassifiable input", result.Level)
	}
	if result.IsDestructive {
		t.Error("IsDestructive = true, want false for unclassifiable input")
	}
}
