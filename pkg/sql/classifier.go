package sql

import (
	"regexp"
	"strings"

	"github.com/querylens/querylens-engine/pkg/models"
)

// Complexity weights. Only the relative ordering matters to callers: a query
// with more joins, subqueries, or grouping must never score lower than the
// same query without them.
const (
	weightJoin      = 10
	weightSubquery  = 15
	weightGroupBy   = 10
	weightHaving    = 5
	weightOrderBy   = 5
	weightUnion     = 10
	weightDistinct  = 5
	weightCondition = 2
	lengthDivisor   = 100
)

var (
	selectStarRegex   = regexp.MustCompile(`(?i)\bselect\s+(?:distinct\s+)?\*`)
	whereRegex        = regexp.MustCompile(`(?i)\bwhere\b`)
	joinRegex         = regexp.MustCompile(`(?i)\bjoin\b`)
	selectRegex       = regexp.MustCompile(`(?i)\bselect\b`)
	groupByRegex      = regexp.MustCompile(`(?i)\bgroup\s+by\b`)
	havingRegex       = regexp.MustCompile(`(?i)\bhaving\b`)
	orderByRegex      = regexp.MustCompile(`(?i)\border\s+by\b`)
	unionRegex        = regexp.MustCompile(`(?i)\bunion\b`)
	distinctRegex     = regexp.MustCompile(`(?i)\bdistinct\b`)
	conditionRegex    = regexp.MustCompile(`(?i)\s(and|or)\s`)
	orConditionRegex  = regexp.MustCompile(`(?i)\sor\s`)
	leadingWildcard   = regexp.MustCompile(`(?i)\blike\s+['"]%`)
	inSubqueryRegex   = regexp.MustCompile(`(?i)\bin\s*\(\s*select\b`)
	firstKeywordRegex = regexp.MustCompile(`^[a-zA-Z]+`)
)

// Analyze performs static analysis of a single SQL statement: query type,
// complexity score, and structural anti-patterns. It never fails; garbage
// input yields an unknown type with zero complexity and no anti-patterns.
func Analyze(sqlText string) models.ParseResult {
	result := models.ParseResult{
		SQL:          sqlText,
		QueryType:    models.QueryTypeUnknown,
		AntiPatterns: []models.AntiPattern{},
	}

	stripped := strings.TrimSpace(stripComments(sqlText))
	if stripped == "" {
		result.Error = "empty statement"
		return result
	}

	// Syntax-aware pass first; keyword heuristics when the parser rejects
	// the input (partial statements, vendor syntax, garbage).
	if node, err := parse(stripped); err == nil {
		result.Valid = true
		result.QueryType = classifyNode(node)
		if result.QueryType == models.QueryTypeUnknown {
			// The parser accepted a non-DML statement (SHOW, DDL, ...).
			// Keyword classification agrees with it by construction.
			result.QueryType = classifyKeyword(stripped)
		}
	} else {
		result.Error = err.Error()
		result.QueryType = classifyKeyword(stripped)
	}

	masked := maskStringLiterals(stripped)
	result.Complexity = complexityScore(masked)
	result.AntiPatterns = detectAntiPatterns(result.QueryType, stripped, masked)

	return result
}

// classifyKeyword inspects the first keyword of comment-stripped SQL.
func classifyKeyword(stripped string) models.QueryType {
	keyword := strings.ToLower(firstKeywordRegex.FindString(strings.TrimSpace(stripped)))
	switch keyword {
	case "select", "with":
		return models.QueryTypeSelect
	case "insert", "replace":
		return models.QueryTypeInsert
	case "update":
		return models.QueryTypeUpdate
	case "delete":
		return models.QueryTypeDelete
	default:
		return models.QueryTypeUnknown
	}
}

// complexityScore sums weighted structural contributions over the masked
// statement. Non-negative by construction.
func complexityScore(masked string) int {
	score := 0

	score += len(joinRegex.FindAllString(masked, -1)) * weightJoin

	// Each SELECT beyond the first indicates a subquery (or a UNION branch,
	// which is at least as complex).
	if n := len(selectRegex.FindAllString(masked, -1)); n > 1 {
		score += (n - 1) * weightSubquery
	}

	if groupByRegex.MatchString(masked) {
		score += weightGroupBy
	}
	if havingRegex.MatchString(masked) {
		score += weightHaving
	}
	if orderByRegex.MatchString(masked) {
		score += weightOrderBy
	}
	if unionRegex.MatchString(masked) {
		score += weightUnion
	}
	if distinctRegex.MatchString(masked) {
		score += weightDistinct
	}

	score += len(conditionRegex.FindAllString(masked, -1)) * weightCondition
	score += len(masked) / lengthDivisor

	return score
}

// detectAntiPatterns applies the independent heuristic rules. Detection is
// best-effort: a rule that does not match simply contributes nothing.
func detectAntiPatterns(queryType models.QueryType, stripped, masked string) []models.AntiPattern {
	patterns := []models.AntiPattern{}

	if queryType == models.QueryTypeSelect && selectStarRegex.MatchString(masked) {
		patterns = append(patterns, models.AntiPattern{
			Type:       "select_star",
			Severity:   models.SeverityWarning,
			Message:    "SELECT * fetches every column",
			Suggestion: "List only the columns you need to reduce I/O and allow covering indexes",
		})
	}

	if (queryType == models.QueryTypeUpdate || queryType == models.QueryTypeDelete) &&
		!whereRegex.MatchString(masked) {
		patterns = append(patterns, models.AntiPattern{
			Type:       "missing_where",
			Severity:   models.SeverityCritical,
			Message:    "Statement has no WHERE clause and affects every row",
			Suggestion: "Add a WHERE clause, or run inside a transaction you can roll back",
		})
	}

	if leadingWildcard.MatchString(stripped) {
		patterns = append(patterns, models.AntiPattern{
			Type:       "leading_wildcard_like",
			Severity:   models.SeverityWarning,
			Message:    "LIKE with a leading wildcard cannot use an index",
			Suggestion: "Anchor the pattern ('abc%') or use a full-text index",
		})
	}

	if idx := whereRegex.FindStringIndex(masked); idx != nil {
		whereClause := masked[idx[1]:]
		if orConditionRegex.MatchString(whereClause) {
			patterns = append(patterns, models.AntiPattern{
				Type:       "or_in_where",
				Severity:   models.SeverityInfo,
				Message:    "OR conditions in WHERE may prevent index usage",
				Suggestion: "Consider UNION of indexed predicates or IN (...) where equivalent",
			})
		}
	}

	if inSubqueryRegex.MatchString(masked) {
		patterns = append(patterns, models.AntiPattern{
			Type:       "in_subquery",
			Severity:   models.SeverityInfo,
			Message:    "IN (SELECT ...) subqueries are often re-evaluated per row",
			Suggestion: "Rewrite as a JOIN or EXISTS where the optimizer handles it better",
		})
	}

	return patterns
}
