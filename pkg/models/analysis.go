package models

// DatabaseType identifies which documentation corpus and dialect hints apply.
type DatabaseType string

const (
	DatabaseMySQL   DatabaseType = "mysql"
	DatabaseMariaDB DatabaseType = "mariadb"
)

// Suggestion is a single optimization recommendation.
type Suggestion struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Impact         string `json:"impact,omitempty"` // high, medium, low
	RewrittenQuery string `json:"rewritten_query,omitempty"`
}

// Citation points at a documentation chunk that grounded an AI recommendation.
type Citation struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt,omitempty"`
	URL     string `json:"url,omitempty"`
}

// AnalysisSource records which pipeline path produced a result.
type AnalysisSource string

const (
	// SourceStatic means the result was produced by static analysis alone,
	// either because no provider is configured or because the provider failed.
	SourceStatic AnalysisSource = "static"
	// SourceAI means the provider call succeeded and its findings were merged
	// with the static ones.
	SourceAI AnalysisSource = "ai"
)

// AIAnalysisResult is the complete analysis shape returned to callers.
// Every field is always populated to a usable value even when the AI
// provider is absent or fails; consumers never see a partial result.
type AIAnalysisResult struct {
	Summary                 string         `json:"summary"`
	AntiPatterns            []AntiPattern  `json:"anti_patterns"`
	OptimizationSuggestions []Suggestion   `json:"optimization_suggestions"`
	EstimatedComplexity     int            `json:"estimated_complexity"`
	Citations               []Citation     `json:"citations,omitempty"`
	Source                  AnalysisSource `json:"source"`
}

// SchemaContext carries optional table/column shape information supplied by
// the host tool to ground AI analysis. The core never resolves it itself.
type SchemaContext struct {
	Tables []TableSchema `json:"tables"`
}

// TableSchema describes one table known to the host.
type TableSchema struct {
	Name    string         `json:"name"`
	Columns []ColumnSchema `json:"columns"`
	Indexes []string       `json:"indexes,omitempty"`
}

// ColumnSchema describes one column of a table.
type ColumnSchema struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	Nullable bool   `json:"nullable"`
	Key      string `json:"key,omitempty"` // PRI, UNI, MUL
}

// QueryContext is the input handed to an AI provider for one analysis call.
// It is constructed fresh per call, passed by value, and never retained by
// the core after the call returns.
type QueryContext struct {
	Query           string
	AnonymizedQuery string
	Schema          *SchemaContext
	DatabaseType    DatabaseType
	RAGDocs         []DocumentChunk
}
