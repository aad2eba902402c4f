package sql

import (
	"strings"

	"github.com/querylens/querylens-engine/pkg/models"
)

// complexityRiskThreshold is the complexity score above which an otherwise
// LOW-risk query is raised to MEDIUM. Tuning value, not a public contract.
const complexityRiskThreshold = 50

var destructivePrefixes = []string{"DROP", "TRUNCATE", "DELETE", "UPDATE", "ALTER", "RENAME"}

// AnalyzeRisk classifies a statement into a risk level using prefix rules in
// strict precedence order, then folds in static anti-pattern findings. The
// folding step only ever raises the level; once a trigger fires the level is
// never downgraded within the same evaluation.
func AnalyzeRisk(sqlText string) models.RiskAnalysisResult {
	result := models.RiskAnalysisResult{
		Level:  models.RiskLow,
		Issues: []string{},
	}

	normalized := strings.ToUpper(strings.TrimSpace(stripComments(sqlText)))
	if normalized == "" {
		return result
	}

	masked := maskStringLiterals(normalized)
	hasWhere := whereRegex.MatchString(masked)

	switch {
	case strings.HasPrefix(normalized, "DROP"):
		result.Level = models.RiskCritical
		result.RequiresConfirmation = true
		result.Issues = append(result.Issues, "DROP permanently removes the object and its data; this is irreversible")
	case strings.HasPrefix(normalized, "TRUNCATE"):
		result.Level = models.RiskCritical
		result.RequiresConfirmation = true
		result.Issues = append(result.Issues, "TRUNCATE removes all rows and cannot be rolled back on most engines")
	case strings.HasPrefix(normalized, "DELETE") && !hasWhere:
		result.Level = models.RiskHigh
		result.RequiresConfirmation = true
		result.Issues = append(result.Issues, "DELETE without WHERE removes every row in the table")
	case strings.HasPrefix(normalized, "UPDATE") && !hasWhere:
		result.Level = models.RiskHigh
		result.RequiresConfirmation = true
		result.Issues = append(result.Issues, "UPDATE without WHERE modifies every row in the table")
	case strings.HasPrefix(normalized, "ALTER TABLE"):
		result.Level = models.RiskHigh
		result.RequiresConfirmation = true
		result.Issues = append(result.Issues, "ALTER TABLE changes the schema and may lock or rewrite the table")
	case strings.HasPrefix(normalized, "DELETE"), strings.HasPrefix(normalized, "UPDATE"):
		result.Level = models.RiskMedium
		result.Issues = append(result.Issues, "Statement modifies data; review the WHERE clause before executing")
	case strings.HasPrefix(normalized, "INSERT"):
		result.Level = models.RiskMedium
		result.Issues = append(result.Issues, "Statement inserts data")
	}

	for _, prefix := range destructivePrefixes {
		if strings.HasPrefix(normalized, prefix) {
			result.IsDestructive = true
			break
		}
	}

	// Best-effort folding of classifier findings. Analyze never fails, so
	// the prefix-derived level above always stands on its own.
	parsed := Analyze(sqlText)
	for _, ap := range parsed.AntiPatterns {
		if ap.Severity == models.SeverityCritical {
			result.Issues = append(result.Issues, ap.Message)
			result.Level = maxRisk(result.Level, models.RiskMedium)
		}
	}
	if parsed.Complexity > complexityRiskThreshold {
		result.Issues = append(result.Issues, "Query complexity is high; verify the execution plan before running it on production data")
		result.Level = maxRisk(result.Level, models.RiskMedium)
	}

	return result
}

func maxRisk(a, b models.RiskLevel) models.RiskLevel {
	if a > b {
		return a
	}
	return b
}
