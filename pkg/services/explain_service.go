package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/querylens/querylens-engine/pkg/adapters/datasource"
	"github.com/querylens/querylens-engine/pkg/apperrors"
	"github.com/querylens/querylens-engine/pkg/logging"
	"github.com/querylens/querylens-engine/pkg/sql"
)

// ExplainService prepares parameterized statements for EXPLAIN and runs
// them against a datasource. Parameter values supplied by callers are
// screened for injection before anything reaches the database.
type ExplainService interface {
	// PrepareForExplain substitutes type-appropriate sample values for
	// placeholders so the statement can be planned without real data.
	PrepareForExplain(query string, params map[string]any) (string, error)

	// ExplainQuery prepares the statement and returns the execution plan.
	ExplainQuery(ctx context.Context, query string, params map[string]any) (*datasource.QueryResult, error)
}

type explainService struct {
	explainer datasource.Explainer
	logger    *zap.Logger
}

var _ ExplainService = (*explainService)(nil)

func NewExplainService(explainer datasource.Explainer, logger *zap.Logger) ExplainService {
	return &explainService{
		explainer: explainer,
		logger:    logger.Named("explain-service"),
	}
}

func (s *explainService) PrepareForExplain(query string, params map[string]any) (string, error) {
	if err := screenParameters(params); err != nil {
		return "", err
	}

	vr := sql.ValidateAndNormalize(query)
	if vr.Error != nil {
		return "", fmt.Errorf("invalid statement: %w", vr.Error)
	}

	if !sql.HasParameters(vr.NormalizedSQL) {
		return vr.NormalizedSQL, nil
	}
	return sql.ReplaceParametersForExplain(vr.NormalizedSQL), nil
}

func (s *explainService) ExplainQuery(ctx context.Context, query string, params map[string]any) (*datasource.QueryResult, error) {
	if s.explainer == nil {
		return nil, apperrors.ErrExplainUnsupported
	}

	prepared, err := s.PrepareForExplain(query, params)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("running explain",
		zap.String("query", logging.SanitizeQuery(prepared)),
		zap.Int("param_count", sql.CountParameters(query)))

	result, err := s.explainer.ExplainQuery(ctx, prepared)
	if err != nil {
		return nil, fmt.Errorf("explain failed: %w", err)
	}
	return result, nil
}

// screenParameters rejects any parameter value that matches a known
// injection fingerprint.
func screenParameters(params map[string]any) error {
	if len(params) == 0 {
		return nil
	}
	for _, check := range sql.CheckAllParameters(params) {
		if check.IsSQLi {
			return fmt.Errorf("%w: parameter %q (fingerprint %s)",
				apperrors.ErrInjectionSuspected, check.ParamName, check.Fingerprint)
		}
	}
	return nil
}
