package llm

import (
	"context"

	"github.com/querylens/querylens-engine/pkg/models"
)

// MockProvider is a configurable mock for testing analysis flows.
// Set the function fields to control behavior in tests.
type MockProvider struct {
	// AnalyzeQueryFunc is called when AnalyzeQuery is invoked.
	// If nil, returns an empty AI-sourced result and nil error.
	AnalyzeQueryFunc func(ctx context.Context, qctx *models.QueryContext) (*models.AIAnalysisResult, error)

	// Available is returned by IsAvailable. Defaults to true via NewMockProvider.
	Available bool

	// ProviderName is returned by Name. Defaults to "mock".
	ProviderName string

	// Call tracking for verification
	AnalyzeQueryCalls int
	LastQueryContext  *models.QueryContext
}

// NewMockProvider creates a new mock with sensible defaults.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Available:    true,
		ProviderName: "mock",
	}
}

// Name implements Provider.
func (m *MockProvider) Name() string { return m.ProviderName }

// IsAvailable implements Provider.
func (m *MockProvider) IsAvailable() bool { return m.Available }

// AnalyzeQuery implements Provider.
func (m *MockProvider) AnalyzeQuery(ctx context.Context, qctx *models.QueryContext) (*models.AIAnalysisResult, error) {
	m.AnalyzeQueryCalls++
	m.LastQueryContext = qctx
	if m.AnalyzeQueryFunc != nil {
		return m.AnalyzeQueryFunc(ctx, qctx)
	}
	return &models.AIAnalysisResult{
		AntiPatterns:            []models.AntiPattern{},
		OptimizationSuggestions: []models.Suggestion{},
		Source:                  models.SourceAI,
	}, nil
}
