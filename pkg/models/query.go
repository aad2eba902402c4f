package models

import "strings"

// QueryType classifies a SQL statement by its leading keyword.
type QueryType string

const (
	QueryTypeSelect  QueryType = "select"
	QueryTypeInsert  QueryType = "insert"
	QueryTypeUpdate  QueryType = "update"
	QueryTypeDelete  QueryType = "delete"
	QueryTypeUnknown QueryType = "unknown"
)

// AntiPatternSeverity ranks how serious a detected anti-pattern is.
type AntiPatternSeverity string

const (
	SeverityCritical AntiPatternSeverity = "critical"
	SeverityWarning  AntiPatternSeverity = "warning"
	SeverityInfo     AntiPatternSeverity = "info"
)

// AntiPattern is a detected SQL construct considered risky or inefficient.
// A query may carry duplicates when static and AI findings overlap; callers
// that need uniqueness deduplicate themselves.
type AntiPattern struct {
	Type       string              `json:"type"`
	Severity   AntiPatternSeverity `json:"severity"`
	Message    string              `json:"message"`
	Suggestion string              `json:"suggestion,omitempty"`
}

// ParseResult is the outcome of static query analysis. It is created per call
// and never mutated; callers may cache it keyed by fingerprint.
type ParseResult struct {
	SQL          string        `json:"sql"`
	QueryType    QueryType     `json:"query_type"`
	Complexity   int           `json:"complexity"`
	AntiPatterns []AntiPattern `json:"anti_patterns"`
	Valid        bool          `json:"valid"`
	Error        string        `json:"error,omitempty"`
}

// RiskLevel is an ordered severity scale for query execution risk.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

// String returns the canonical upper-case name of the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	case RiskCritical:
		return "CRITICAL"
	default:
		return "LOW"
	}
}

// ParseRiskLevel converts a level name back to a RiskLevel. Unrecognized
// input maps to RiskLow.
func ParseRiskLevel(s string) RiskLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return RiskCritical
	case "HIGH":
		return RiskHigh
	case "MEDIUM":
		return RiskMedium
	default:
		return RiskLow
	}
}

// MarshalJSON encodes the level as its string name.
func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// UnmarshalJSON accepts the string names produced by MarshalJSON.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	*r = ParseRiskLevel(strings.Trim(string(data), `"`))
	return nil
}

// RiskAnalysisResult is the outcome of risk classification for one statement.
type RiskAnalysisResult struct {
	Level                RiskLevel `json:"level"`
	Issues               []string  `json:"issues"`
	IsDestructive        bool      `json:"is_destructive"`
	RequiresConfirmation bool      `json:"requires_confirmation"`
}

// ValidationReport combines classifier validity, risk issues, and
// anti-patterns into an errors/warnings split for UI consumption.
type ValidationReport struct {
	Valid     bool      `json:"valid"`
	Errors    []string  `json:"errors"`
	Warnings  []string  `json:"warnings"`
	RiskLevel RiskLevel `json:"risk_level"`
}
