package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/querylens/querylens-engine/pkg/models"
	"github.com/querylens/querylens-engine/pkg/prompts"
)

// analysisTemperature keeps provider output close to deterministic so
// repeated analyses of the same query agree.
const analysisTemperature = 0.2

// OpenAIProvider talks to any OpenAI-compatible chat completion endpoint.
// With a custom base URL it also serves local Ollama and vLLM deployments.
type OpenAIProvider struct {
	client *openai.Client
	name   string
	model  string
	logger *zap.Logger
}

// OpenAIConfig holds settings for creating an OpenAI-compatible provider.
type OpenAIConfig struct {
	APIKey  string // Optional for local endpoints
	BaseURL string // Empty means the official OpenAI endpoint
	Model   string
	Name    string // Provider name for logging; defaults to "openai"
}

// NewOpenAIProvider creates a provider for an OpenAI-compatible endpoint.
func NewOpenAIProvider(cfg *OpenAIConfig, logger *zap.Logger) (*OpenAIProvider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("api key is required for the official endpoint")
	}

	name := cfg.Name
	if name == "" {
		name = "openai"
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		name:   name,
		model:  cfg.Model,
		logger: logger.Named("llm." + name),
	}, nil
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return p.name }

// IsAvailable implements Provider.
func (p *OpenAIProvider) IsAvailable() bool { return p.client != nil }

// AnalyzeQuery implements Provider.
func (p *OpenAIProvider) AnalyzeQuery(ctx context.Context, qctx *models.QueryContext) (*models.AIAnalysisResult, error) {
	prompt := prompts.BuildQueryAnalysisPrompt(qctx)
	system := prompts.BuildQueryAnalysisSystemMessage(qctx.DatabaseType)

	p.logger.Debug("analysis request",
		zap.String("model", p.model),
		zap.Int("prompt_len", len(prompt)))

	start := time.Now()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: analysisTemperature,
	})
	if err != nil {
		p.logger.Error("analysis request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, p.wrapError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, NewError(ErrorTypeResponse, "no choices in response", false, nil)
	}

	p.logger.Info("analysis request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return parseAnalysisResponse(resp.Choices[0].Message.Content)
}

func (p *OpenAIProvider) wrapError(err error) error {
	classified := ClassifyError(err)
	classified.Provider = p.name
	return classified
}
