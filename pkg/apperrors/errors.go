package apperrors

import "errors"

var (
	ErrAnalysisCancelled  = errors.New("analysis cancelled by user")
	ErrNoProvider         = errors.New("no AI provider available")
	ErrInvalidSchemaName  = errors.New("invalid schema name")
	ErrInjectionSuspected = errors.New("suspected SQL injection in parameter value")
	ErrExplainUnsupported = errors.New("executor does not support EXPLAIN")
)
