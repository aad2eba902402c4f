package sql

import (
	"errors"
	"strings"

	"github.com/querylens/querylens-engine/pkg/models"
)

var (
	// ErrMultipleStatements indicates the query contains multiple SQL statements.
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")
)

// ValidationResult contains the normalized SQL and any validation errors.
type ValidationResult struct {
	NormalizedSQL string
	Error         error
}

// ValidateAndNormalize checks SQL for multiple statements and strips the
// trailing semicolon. EXPLAIN and risk analysis both operate on the
// normalized form.
//
// The validation order is:
// 1. Strip trailing semicolon and whitespace (normalize)
// 2. Check for multiple statements (any remaining semicolons outside string literals)
func ValidateAndNormalize(sqlQuery string) ValidationResult {
	sqlQuery = strings.TrimSpace(sqlQuery)

	if sqlQuery == "" {
		return ValidationResult{NormalizedSQL: sqlQuery}
	}

	normalized := stripTrailingSemicolon(sqlQuery)

	// Any semicolon left outside a string literal after normalization means
	// a second statement follows.
	if strings.ContainsRune(maskStringLiterals(normalized), ';') {
		return ValidationResult{Error: ErrMultipleStatements}
	}

	return ValidationResult{NormalizedSQL: normalized}
}

// stripTrailingSemicolon removes a trailing semicolon and any whitespace around it.
func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimSuffix(sqlQuery, ";")
		sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	}
	return sqlQuery
}

// Validate combines classifier validity, risk analysis, and anti-pattern
// detection into a single report. CRITICAL/HIGH risk issues and
// critical-severity anti-patterns become errors; everything else becomes a
// warning. Valid is true iff there are no errors.
//
// The schema argument is an extension point for table/column existence
// checks; it is currently accepted and ignored.
func Validate(sqlText string, schema *models.SchemaContext) models.ValidationReport {
	report := models.ValidationReport{
		Errors:   []string{},
		Warnings: []string{},
	}
	_ = schema

	if vr := ValidateAndNormalize(sqlText); vr.Error != nil {
		report.Errors = append(report.Errors, vr.Error.Error())
	}

	parsed := Analyze(sqlText)
	risk := AnalyzeRisk(sqlText)
	report.RiskLevel = risk.Level

	for _, issue := range risk.Issues {
		if risk.Level >= models.RiskHigh {
			report.Errors = append(report.Errors, issue)
		} else {
			report.Warnings = append(report.Warnings, issue)
		}
	}

	for _, ap := range parsed.AntiPatterns {
		if ap.Severity == models.SeverityCritical {
			report.Errors = append(report.Errors, ap.Message)
		} else {
			report.Warnings = append(report.Warnings, ap.Message)
		}
	}

	if !parsed.Valid && parsed.Error != "" {
		report.Warnings = append(report.Warnings, "could not fully parse statement: "+parsed.Error)
	}

	report.Valid = len(report.Errors) == 0
	return report
}
