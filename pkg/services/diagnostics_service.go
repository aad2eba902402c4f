package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"go.uber.org/zap"

	"github.com/querylens/querylens-engine/pkg/adapters/datasource"
	"github.com/querylens/querylens-engine/pkg/apperrors"
	"github.com/querylens/querylens-engine/pkg/config"
	"github.com/querylens/querylens-engine/pkg/logging"
	"github.com/querylens/querylens-engine/pkg/models"
)

// picosPerMilli converts performance_schema timer values to milliseconds.
const picosPerMilli = 1e9

// schemaNameRegex matches valid unquoted MySQL/MariaDB schema identifiers.
// Digest queries interpolate nothing, but the name still travels as a
// parameter and garbage here always means a caller bug.
var schemaNameRegex = regexp.MustCompile(`^[A-Za-z0-9_$]+$`)

const unindexedQueriesSQL = `
SELECT DIGEST, DIGEST_TEXT, SCHEMA_NAME, COUNT_STAR,
       SUM_ROWS_EXAMINED, SUM_ROWS_SENT, SUM_TIMER_WAIT
FROM performance_schema.events_statements_summary_by_digest
WHERE SCHEMA_NAME = ?
  AND SUM_NO_INDEX_USED > 0
  AND COUNT_STAR >= ?
ORDER BY SUM_TIMER_WAIT DESC`

const slowQueriesSQL = `
SELECT DIGEST, DIGEST_TEXT, SCHEMA_NAME, COUNT_STAR,
       AVG_TIMER_WAIT, MAX_TIMER_WAIT, SUM_TIMER_WAIT
FROM performance_schema.events_statements_summary_by_digest
WHERE SCHEMA_NAME = ?
  AND COUNT_STAR >= ?
ORDER BY SUM_TIMER_WAIT DESC`

const innodbStatusSQL = `
SELECT VARIABLE_NAME, VARIABLE_VALUE
FROM performance_schema.global_status
WHERE VARIABLE_NAME IN (
  'Innodb_buffer_pool_reads',
  'Innodb_buffer_pool_read_requests',
  'Innodb_row_lock_waits',
  'Innodb_row_lock_time_avg',
  'Innodb_log_waits'
)`

// DiagnosticsService extracts performance findings from a live database's
// statistics tables. It runs read-only queries through the host-supplied
// executor and never touches user data rows.
type DiagnosticsService interface {
	// FindUnindexedQueries returns digest-grouped queries that ran without
	// an index, ranked by examined-row volume.
	FindUnindexedQueries(ctx context.Context, schemaName string) ([]models.UnindexedQueryFinding, error)

	// FindSlowQueries returns digest-grouped queries whose average latency
	// exceeds the configured threshold, ranked by total latency.
	FindSlowQueries(ctx context.Context, schemaName string) ([]models.SlowQueryFinding, error)

	// CheckInnoDBHealth evaluates engine status counters against threshold
	// rules. An empty slice means no rule fired.
	CheckInnoDBHealth(ctx context.Context) ([]models.InnoDBHealthFinding, error)
}

type diagnosticsService struct {
	executor datasource.QueryExecutor
	cfg      config.DiagnosticsConfig
	logger   *zap.Logger
}

// NewDiagnosticsService creates the diagnostics extractor.
func NewDiagnosticsService(executor datasource.QueryExecutor, cfg config.DiagnosticsConfig, logger *zap.Logger) DiagnosticsService {
	return &diagnosticsService{
		executor: executor,
		cfg:      cfg,
		logger:   logger.Named("diagnostics-service"),
	}
}

var _ DiagnosticsService = (*diagnosticsService)(nil)

func validateSchemaName(schemaName string) error {
	if !schemaNameRegex.MatchString(schemaName) {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidSchemaName, schemaName)
	}
	return nil
}

func (s *diagnosticsService) FindUnindexedQueries(ctx context.Context, schemaName string) ([]models.UnindexedQueryFinding, error) {
	if err := validateSchemaName(schemaName); err != nil {
		return nil, err
	}

	result, err := s.executor.Query(ctx, unindexedQueriesSQL, []any{schemaName, s.cfg.MinExecutions})
	if err != nil {
		s.logger.Error("unindexed query scan failed",
			zap.String("schema", schemaName),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("failed to scan for unindexed queries: %w", err)
	}

	findings := make([]models.UnindexedQueryFinding, 0, len(result.Rows))
	for _, row := range result.Rows {
		executions := datasource.Int64Value(row["COUNT_STAR"])
		if executions == 0 {
			continue
		}
		rowsExamined := datasource.Float64Value(row["SUM_ROWS_EXAMINED"])
		rowsSent := datasource.Float64Value(row["SUM_ROWS_SENT"])

		avgExamined := rowsExamined / float64(executions)
		if avgExamined < float64(s.cfg.MinAvgRowsExamined) {
			continue
		}

		// Efficiency: what share of examined rows actually reached the
		// client. Low efficiency with an absent index marks a scan that an
		// index would collapse.
		efficiency := 100.0
		if rowsExamined > 0 {
			efficiency = rowsSent / rowsExamined * 100
		}
		if efficiency > s.cfg.MaxEfficiencyPercent {
			continue
		}

		severity := models.DiagnosticWarning
		if efficiency < 1 && avgExamined >= 10*float64(s.cfg.MinAvgRowsExamined) {
			severity = models.DiagnosticCritical
		}

		findings = append(findings, models.UnindexedQueryFinding{
			Digest:          datasource.StringValue(row["DIGEST"]),
			SampleQuery:     datasource.StringValue(row["DIGEST_TEXT"]),
			SchemaName:      datasource.StringValue(row["SCHEMA_NAME"]),
			Executions:      executions,
			AvgRowsExamined: avgExamined,
			AvgRowsSent:     rowsSent / float64(executions),
			EfficiencyPct:   efficiency,
			TotalLatencyMs:  datasource.Float64Value(row["SUM_TIMER_WAIT"]) / picosPerMilli,
			Severity:        severity,
			Score:           avgExamined * float64(executions) * (1 - efficiency/100),
		})
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Score > findings[j].Score
	})

	s.logger.Info("unindexed query scan completed",
		zap.String("schema", schemaName),
		zap.Int("candidates", len(result.Rows)),
		zap.Int("findings", len(findings)))

	return findings, nil
}

func (s *diagnosticsService) FindSlowQueries(ctx context.Context, schemaName string) ([]models.SlowQueryFinding, error) {
	if err := validateSchemaName(schemaName); err != nil {
		return nil, err
	}

	result, err := s.executor.Query(ctx, slowQueriesSQL, []any{schemaName, s.cfg.MinExecutions})
	if err != nil {
		s.logger.Error("slow query scan failed",
			zap.String("schema", schemaName),
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("failed to scan for slow queries: %w", err)
	}

	minAvg := float64(s.cfg.SlowQueryMinAvgMillis)

	findings := make([]models.SlowQueryFinding, 0, len(result.Rows))
	for _, row := range result.Rows {
		avgMs := datasource.Float64Value(row["AVG_TIMER_WAIT"]) / picosPerMilli
		if avgMs < minAvg {
			continue
		}

		severity := models.DiagnosticWarning
		if avgMs >= 10*minAvg {
			severity = models.DiagnosticCritical
		}

		findings = append(findings, models.SlowQueryFinding{
			Digest:         datasource.StringValue(row["DIGEST"]),
			SampleQuery:    datasource.StringValue(row["DIGEST_TEXT"]),
			SchemaName:     datasource.StringValue(row["SCHEMA_NAME"]),
			Executions:     datasource.Int64Value(row["COUNT_STAR"]),
			AvgLatencyMs:   avgMs,
			MaxLatencyMs:   datasource.Float64Value(row["MAX_TIMER_WAIT"]) / picosPerMilli,
			TotalLatencyMs: datasource.Float64Value(row["SUM_TIMER_WAIT"]) / picosPerMilli,
			Severity:       severity,
		})
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].TotalLatencyMs > findings[j].TotalLatencyMs
	})

	return findings, nil
}

func (s *diagnosticsService) CheckInnoDBHealth(ctx context.Context) ([]models.InnoDBHealthFinding, error) {
	result, err := s.executor.Query(ctx, innodbStatusSQL, nil)
	if err != nil {
		s.logger.Error("innodb status query failed",
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("failed to read innodb status: %w", err)
	}

	status := make(map[string]float64, len(result.Rows))
	for _, row := range result.Rows {
		name := datasource.StringValue(row["VARIABLE_NAME"])
		status[name] = datasource.Float64Value(row["VARIABLE_VALUE"])
	}

	var findings []models.InnoDBHealthFinding

	// Buffer pool hit ratio. Reads that miss the pool hit disk.
	if requests := status["Innodb_buffer_pool_read_requests"]; requests > 0 {
		hitRatio := (1 - status["Innodb_buffer_pool_reads"]/requests) * 100
		switch {
		case hitRatio < 90:
			findings = append(findings, models.InnoDBHealthFinding{
				Metric:   "buffer_pool_hit_ratio",
				Value:    hitRatio,
				Message:  "Buffer pool hit ratio is below 90%; most reads go to disk. Increase innodb_buffer_pool_size.",
				Severity: models.DiagnosticCritical,
			})
		case hitRatio < 95:
			findings = append(findings, models.InnoDBHealthFinding{
				Metric:   "buffer_pool_hit_ratio",
				Value:    hitRatio,
				Message:  "Buffer pool hit ratio is below 95%. Consider increasing innodb_buffer_pool_size.",
				Severity: models.DiagnosticWarning,
			})
		}
	}

	if logWaits := status["Innodb_log_waits"]; logWaits > 0 {
		findings = append(findings, models.InnoDBHealthFinding{
			Metric:   "log_waits",
			Value:    logWaits,
			Message:  "Transactions waited for log buffer flushes. Increase innodb_log_buffer_size.",
			Severity: models.DiagnosticWarning,
		})
	}

	if lockAvg := status["Innodb_row_lock_time_avg"]; lockAvg > 100 {
		severity := models.DiagnosticWarning
		if lockAvg > 1000 {
			severity = models.DiagnosticCritical
		}
		findings = append(findings, models.InnoDBHealthFinding{
			Metric:   "row_lock_time_avg_ms",
			Value:    lockAvg,
			Message:  "Average row lock wait is high; look for long-running transactions holding locks.",
			Severity: severity,
		})
	}

	return findings, nil
}
