package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/querylens/querylens-engine/pkg/apperrors"
	"github.com/querylens/querylens-engine/pkg/config"
	"github.com/querylens/querylens-engine/pkg/llm"
	"github.com/querylens/querylens-engine/pkg/logging"
	"github.com/querylens/querylens-engine/pkg/models"
	"github.com/querylens/querylens-engine/pkg/retrieval"
	"github.com/querylens/querylens-engine/pkg/retry"
	"github.com/querylens/querylens-engine/pkg/sql"
)

// ConfirmFunc asks the user to approve sending a query to an external
// provider. It receives the exact text that would be sent. Returning false
// aborts the analysis.
type ConfirmFunc func(outboundQuery string) bool

// AnalysisRequest is one query analysis job.
type AnalysisRequest struct {
	Query        string
	DatabaseType models.DatabaseType
	Schema       *models.SchemaContext
}

// AnalysisService coordinates static and AI-assisted query analysis.
// Static analysis always runs; the AI path is attempted on top of it when a
// provider is configured, and any provider failure degrades back to the
// static result rather than surfacing an error.
type AnalysisService interface {
	// AnalyzeQuery runs the full analysis pipeline for one query.
	// The only error it returns is apperrors.ErrAnalysisCancelled.
	AnalyzeQuery(ctx context.Context, req AnalysisRequest) (*models.AIAnalysisResult, error)

	// AnalyzeStatic runs static analysis only.
	AnalyzeStatic(query string) *models.AIAnalysisResult
}

// AnalysisOptions controls pipeline behavior. Build it from config with
// AnalysisOptionsFromConfig.
type AnalysisOptions struct {
	AnonymizeQueries     bool
	IncludeSchemaContext bool
	RequestTimeout       time.Duration
	MaxRetries           int
	RetrievalTopK        int
}

// AnalysisOptionsFromConfig extracts pipeline options from loaded config.
func AnalysisOptionsFromConfig(cfg *config.Config) AnalysisOptions {
	return AnalysisOptions{
		AnonymizeQueries:     cfg.AI.AnonymizeQueries,
		IncludeSchemaContext: cfg.AI.IncludeSchemaContext,
		RequestTimeout:       cfg.AI.RequestTimeout(),
		MaxRetries:           cfg.AI.MaxRetries,
		RetrievalTopK:        cfg.Retrieval.TopK,
	}
}

type analysisService struct {
	provider  llm.Provider         // nil means static analysis only
	retriever *retrieval.Retriever // nil disables documentation grounding
	confirm   ConfirmFunc          // nil means no confirmation gate
	opts      AnalysisOptions
	logger    *zap.Logger
}

// NewAnalysisService creates the analysis coordinator. provider, retriever,
// and confirm may each be nil.
func NewAnalysisService(
	provider llm.Provider,
	retriever *retrieval.Retriever,
	confirm ConfirmFunc,
	opts AnalysisOptions,
	logger *zap.Logger,
) AnalysisService {
	return &analysisService{
		provider:  provider,
		retriever: retriever,
		confirm:   confirm,
		opts:      opts,
		logger:    logger.Named("analysis-service"),
	}
}

var _ AnalysisService = (*analysisService)(nil)

func (s *analysisService) AnalyzeStatic(query string) *models.AIAnalysisResult {
	parse := sql.Analyze(query)
	return staticResult(parse)
}

func (s *analysisService) AnalyzeQuery(ctx context.Context, req AnalysisRequest) (*models.AIAnalysisResult, error) {
	analysisID := uuid.New().String()
	logger := s.logger.With(zap.String("analysis_id", analysisID))

	parse := sql.Analyze(req.Query)
	static := staticResult(parse)

	if s.provider == nil || !s.provider.IsAvailable() {
		logger.Debug("no AI provider available, returning static result")
		return static, nil
	}

	// When anonymization is off, the raw query would leave the process.
	// Sensitive column references then go through the confirmation gate;
	// without a gate the query is anonymized anyway.
	anonymize := s.opts.AnonymizeQueries
	if !anonymize && sql.HasSensitiveData(req.Query) {
		if s.confirm == nil {
			logger.Warn("sensitive data detected without confirmation hook, anonymizing")
			anonymize = true
		} else if !s.confirm(req.Query) {
			logger.Info("analysis cancelled at confirmation gate")
			return nil, apperrors.ErrAnalysisCancelled
		}
	}

	outbound := req.Query
	if anonymize {
		outbound = sql.Anonymize(req.Query)
	}

	qctx := &models.QueryContext{
		Query:        req.Query,
		DatabaseType: req.DatabaseType,
	}
	if anonymize {
		qctx.AnonymizedQuery = outbound
	}
	if s.opts.IncludeSchemaContext {
		qctx.Schema = req.Schema
	}
	if s.retriever != nil {
		qctx.RAGDocs = s.retriever.Search(outbound, req.DatabaseType, s.opts.RetrievalTopK)
	}

	logger.Info("starting AI analysis",
		zap.String("provider", s.provider.Name()),
		zap.String("database_type", string(req.DatabaseType)),
		zap.String("query", logging.SanitizeQuery(req.Query)),
		zap.Int("rag_chunks", len(qctx.RAGDocs)))

	callCtx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = s.opts.MaxRetries

	var aiResult *models.AIAnalysisResult
	err := retry.DoIfRetryable(callCtx, retryCfg, func() error {
		r, err := s.provider.AnalyzeQuery(callCtx, qctx)
		if err != nil {
			return err
		}
		aiResult = r
		return nil
	})
	if err != nil {
		logger.Warn("AI analysis failed, falling back to static result",
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.String("error", logging.SanitizeError(err)))
		return withUnavailableNote(static), nil
	}

	logger.Info("AI analysis completed",
		zap.Int("anti_patterns", len(aiResult.AntiPatterns)),
		zap.Int("suggestions", len(aiResult.OptimizationSuggestions)))

	return mergeResults(static, aiResult), nil
}

// staticResult converts a parse result into the common analysis shape.
func staticResult(parse models.ParseResult) *models.AIAnalysisResult {
	complexity := parse.Complexity
	if complexity > 100 {
		complexity = 100
	}

	summary := fmt.Sprintf("Static analysis of %s query: %d anti-pattern(s) found, complexity score %d.",
		parse.QueryType, len(parse.AntiPatterns), parse.Complexity)
	if !parse.Valid {
		summary = "Static analysis only; the query did not fully parse."
	}

	antiPatterns := parse.AntiPatterns
	if antiPatterns == nil {
		antiPatterns = []models.AntiPattern{}
	}

	return &models.AIAnalysisResult{
		Summary:                 summary,
		AntiPatterns:            antiPatterns,
		OptimizationSuggestions: []models.Suggestion{},
		EstimatedComplexity:     complexity,
		Source:                  models.SourceStatic,
	}
}

// withUnavailableNote appends a suggestion telling the caller the AI path
// failed, so the degradation is visible in the result itself. A provider
// that was never configured is not a failure and gets no note.
func withUnavailableNote(static *models.AIAnalysisResult) *models.AIAnalysisResult {
	static.OptimizationSuggestions = append(static.OptimizationSuggestions, models.Suggestion{
		Title:       "AI analysis unavailable",
		Description: "Only static checks ran for this query. Configure an AI provider for deeper analysis.",
		Impact:      "low",
	})
	return static
}

// mergeResults folds static findings into the AI result. Static
// anti-patterns the provider missed are kept; duplicates are dropped by
// type. Complexity takes the higher estimate.
func mergeResults(static, ai *models.AIAnalysisResult) *models.AIAnalysisResult {
	seen := make(map[string]bool, len(ai.AntiPatterns))
	for _, ap := range ai.AntiPatterns {
		seen[ap.Type] = true
	}
	for _, ap := range static.AntiPatterns {
		if !seen[ap.Type] {
			ai.AntiPatterns = append(ai.AntiPatterns, ap)
		}
	}

	if static.EstimatedComplexity > ai.EstimatedComplexity {
		ai.EstimatedComplexity = static.EstimatedComplexity
	}
	if ai.Summary == "" {
		ai.Summary = static.Summary
	}
	ai.Source = models.SourceAI
	return ai
}
