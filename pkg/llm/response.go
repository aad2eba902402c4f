package llm

import (
	"encoding/json"
	"strings"

	"github.com/querylens/querylens-engine/pkg/jsonutil"
	"github.com/querylens/querylens-engine/pkg/models"
)

// analysisResponse is the wire shape providers are instructed to return.
// EstimatedComplexity is raw because models sometimes return it as a string.
type analysisResponse struct {
	Summary                 string               `json:"summary"`
	AntiPatterns            []models.AntiPattern `json:"anti_patterns"`
	OptimizationSuggestions []models.Suggestion  `json:"optimization_suggestions"`
	EstimatedComplexity     json.RawMessage      `json:"estimated_complexity"`
	Citations               []models.Citation    `json:"citations"`
}

// parseAnalysisResponse converts raw model output into an AIAnalysisResult.
// Unknown severities are downgraded to info, complexity is clamped to
// [0,100], and nil slices become empty so callers never see partial shapes.
func parseAnalysisResponse(raw string) (*models.AIAnalysisResult, error) {
	resp, err := ParseJSONResponse[analysisResponse](raw)
	if err != nil {
		return nil, NewError(ErrorTypeResponse, "malformed analysis response", false, err)
	}

	for i := range resp.AntiPatterns {
		resp.AntiPatterns[i].Severity = normalizeSeverity(resp.AntiPatterns[i].Severity)
	}

	complexity := jsonutil.FlexibleIntValue(resp.EstimatedComplexity)
	if complexity < 0 {
		complexity = 0
	}
	if complexity > 100 {
		complexity = 100
	}

	result := &models.AIAnalysisResult{
		Summary:                 strings.TrimSpace(resp.Summary),
		AntiPatterns:            resp.AntiPatterns,
		OptimizationSuggestions: resp.OptimizationSuggestions,
		EstimatedComplexity:     complexity,
		Citations:               resp.Citations,
		Source:                  models.SourceAI,
	}
	if result.AntiPatterns == nil {
		result.AntiPatterns = []models.AntiPattern{}
	}
	if result.OptimizationSuggestions == nil {
		result.OptimizationSuggestions = []models.Suggestion{}
	}
	return result, nil
}

func normalizeSeverity(s models.AntiPatternSeverity) models.AntiPatternSeverity {
	switch models.AntiPatternSeverity(strings.ToLower(string(s))) {
	case models.SeverityCritical:
		return models.SeverityCritical
	case models.SeverityWarning:
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}
