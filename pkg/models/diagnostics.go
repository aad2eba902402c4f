package models

// DiagnosticSeverity ranks findings from the diagnostic extraction services.
type DiagnosticSeverity string

const (
	DiagnosticCritical DiagnosticSeverity = "critical"
	DiagnosticWarning  DiagnosticSeverity = "warning"
	DiagnosticInfo     DiagnosticSeverity = "info"
)

// UnindexedQueryFinding is one digest-grouped query that runs without using
// an index, ranked by how much work it does per execution.
type UnindexedQueryFinding struct {
	Digest           string             `json:"digest"`
	SampleQuery      string             `json:"sample_query"`
	SchemaName       string             `json:"schema_name"`
	Executions       int64              `json:"executions"`
	AvgRowsExamined  float64            `json:"avg_rows_examined"`
	AvgRowsSent      float64            `json:"avg_rows_sent"`
	EfficiencyPct    float64            `json:"efficiency_pct"`
	TotalLatencyMs   float64            `json:"total_latency_ms"`
	Severity         DiagnosticSeverity `json:"severity"`
	Score            float64            `json:"score"`
}

// SlowQueryFinding is one digest-grouped query ranked by latency impact.
type SlowQueryFinding struct {
	Digest         string             `json:"digest"`
	SampleQuery    string             `json:"sample_query"`
	SchemaName     string             `json:"schema_name"`
	Executions     int64              `json:"executions"`
	AvgLatencyMs   float64            `json:"avg_latency_ms"`
	MaxLatencyMs   float64            `json:"max_latency_ms"`
	TotalLatencyMs float64            `json:"total_latency_ms"`
	Severity       DiagnosticSeverity `json:"severity"`
}

// InnoDBHealthFinding is one threshold-rule hit against engine status metrics.
type InnoDBHealthFinding struct {
	Metric   string             `json:"metric"`
	Value    float64            `json:"value"`
	Message  string             `json:"message"`
	Severity DiagnosticSeverity `json:"severity"`
}
