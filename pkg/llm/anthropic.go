package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/querylens/querylens-engine/pkg/models"
	"github.com/querylens/querylens-engine/pkg/prompts"
)

// maxAnalysisTokens bounds the response size; a full analysis with rewritten
// queries fits comfortably.
const maxAnalysisTokens = 2000

// AnthropicProvider talks to the Anthropic Messages API.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
	logger *zap.Logger
}

// NewAnthropicProvider creates an Anthropic-backed provider.
func NewAnthropicProvider(apiKey, model string, logger *zap.Logger) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(apiKey),
		model:  model,
		logger: logger.Named("llm.anthropic"),
	}, nil
}

// Name implements Provider.
func (p *AnthropicProvider) Name() string { return "anthropic" }

// IsAvailable implements Provider.
func (p *AnthropicProvider) IsAvailable() bool { return p.client != nil }

// AnalyzeQuery implements Provider.
func (p *AnthropicProvider) AnalyzeQuery(ctx context.Context, qctx *models.QueryContext) (*models.AIAnalysisResult, error) {
	prompt := prompts.BuildQueryAnalysisPrompt(qctx)
	system := prompts.BuildQueryAnalysisSystemMessage(qctx.DatabaseType)

	p.logger.Debug("analysis request",
		zap.String("model", p.model),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()

	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(p.model),
		System:    system,
		MaxTokens: maxAnalysisTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
	})
	if err != nil {
		p.logger.Error("analysis request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		classified := ClassifyError(err)
		classified.Provider = "anthropic"
		return nil, classified
	}

	content := resp.GetFirstContentText()
	if content == "" {
		return nil, NewError(ErrorTypeResponse, "empty response content", false, nil)
	}

	p.logger.Info("analysis request completed",
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return parseAnalysisResponse(content)
}
