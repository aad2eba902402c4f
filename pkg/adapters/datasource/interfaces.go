// Package datasource defines the thin contract between the analysis core
// and whatever owns the actual database connection. The core never opens
// connections itself; the host tool supplies an executor.
package datasource

import "context"

// MaxQueryLimit is the hard cap on rows returned by diagnostic queries.
const MaxQueryLimit = 1000

// QueryExecutor executes read-only SQL against the target database.
// Diagnostic extraction runs its performance_schema and information_schema
// queries through this interface. Implementations own their connection and
// must be closed when done.
type QueryExecutor interface {
	// Query runs a parameterized SELECT. The SQL uses ? placeholders and
	// params provides values in order. Implementations must bound result
	// size at MaxQueryLimit rows.
	Query(ctx context.Context, sqlQuery string, params []any) (*QueryResult, error)

	// Close releases any resources held by the executor.
	Close() error
}

// Explainer is implemented by executors that can produce execution plans.
// Used with parameter-substituted statements since EXPLAIN cannot run on
// queries with unbound placeholders.
type Explainer interface {
	// ExplainQuery returns EXPLAIN output rows for a SQL query.
	ExplainQuery(ctx context.Context, sqlQuery string) (*QueryResult, error)
}

// QueryResult holds rows from a diagnostic query.
type QueryResult struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}
