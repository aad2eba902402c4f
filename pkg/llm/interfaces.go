// Package llm provides AI provider clients for query analysis.
package llm

import (
	"context"

	"github.com/querylens/querylens-engine/pkg/models"
)

// Provider is the interface an AI backend implements to analyze queries.
// Use this interface for dependency injection to enable mocking in tests.
type Provider interface {
	// Name identifies the provider for logging.
	Name() string

	// IsAvailable reports whether the provider is configured well enough to
	// attempt a call. It does not probe the network.
	IsAvailable() bool

	// AnalyzeQuery performs one analysis call. The returned result carries
	// only the provider's findings; merging with static analysis happens in
	// the service layer.
	AnalyzeQuery(ctx context.Context, qctx *models.QueryContext) (*models.AIAnalysisResult, error)
}

// Ensure provider implementations satisfy Provider at compile time.
var (
	_ Provider = (*OpenAIProvider)(nil)
	_ Provider = (*AnthropicProvider)(nil)
	_ Provider = (*MockProvider)(nil)
)
