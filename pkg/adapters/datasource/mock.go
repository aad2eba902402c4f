package datasource

import "context"

// MockExecutor is a configurable mock for testing diagnostic flows.
// Set the function fields to control behavior in tests.
type MockExecutor struct {
	// QueryFunc is called when Query is invoked. If nil, returns an empty
	// result and nil error.
	QueryFunc func(ctx context.Context, sqlQuery string, params []any) (*QueryResult, error)

	// ExplainQueryFunc is called when ExplainQuery is invoked.
	ExplainQueryFunc func(ctx context.Context, sqlQuery string) (*QueryResult, error)

	// Call tracking for verification
	QueryCalls   int
	LastQuery    string
	LastParams   []any
	ExplainCalls int
	CloseCalls   int
}

var (
	_ QueryExecutor = (*MockExecutor)(nil)
	_ Explainer     = (*MockExecutor)(nil)
)

// Query implements QueryExecutor.
func (m *MockExecutor) Query(ctx context.Context, sqlQuery string, params []any) (*QueryResult, error) {
	m.QueryCalls++
	m.LastQuery = sqlQuery
	m.LastParams = params
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sqlQuery, params)
	}
	return &QueryResult{}, nil
}

// ExplainQuery implements Explainer.
func (m *MockExecutor) ExplainQuery(ctx context.Context, sqlQuery string) (*QueryResult, error) {
	m.ExplainCalls++
	if m.ExplainQueryFunc != nil {
		return m.ExplainQueryFunc(ctx, sqlQuery)
	}
	return &QueryResult{}, nil
}

// Close implements QueryExecutor.
func (m *MockExecutor) Close() error {
	m.CloseCalls++
	return nil
}
