// Package prompts builds the text prompts sent to AI providers.
package prompts

import (
	"fmt"
	"strings"

	"github.com/querylens/querylens-engine/pkg/models"
)

// BuildQueryAnalysisPrompt creates the prompt for AI query analysis.
// It includes the (possibly anonymized) query, optional schema context,
// retrieved documentation excerpts, and the JSON response contract.
func BuildQueryAnalysisPrompt(qctx *models.QueryContext) string {
	var prompt strings.Builder

	prompt.WriteString("# SQL Query Analysis\n\n")
	prompt.WriteString(fmt.Sprintf("Analyze the following %s query for performance problems and anti-patterns.\n\n", qctx.DatabaseType))

	query := qctx.AnonymizedQuery
	if query == "" {
		query = qctx.Query
	}
	prompt.WriteString("## Query\n\n")
	prompt.WriteString("```sql\n")
	prompt.WriteString(query)
	prompt.WriteString("\n```\n\n")
	if qctx.AnonymizedQuery != "" {
		prompt.WriteString("Literal values have been replaced with `?` placeholders before analysis. Treat each placeholder as a representative value.\n\n")
	}

	if qctx.Schema != nil && len(qctx.Schema.Tables) > 0 {
		prompt.WriteString("## Schema\n\n")
		for _, table := range qctx.Schema.Tables {
			prompt.WriteString(fmt.Sprintf("### %s\n", table.Name))
			prompt.WriteString("Columns:\n")
			for _, col := range table.Columns {
				flags := ""
				switch col.Key {
				case "PRI":
					flags = " [PK]"
				case "UNI":
					flags = " [unique]"
				case "MUL":
					flags = " [indexed]"
				}
				nullInfo := ""
				if col.Nullable {
					nullInfo = " (nullable)"
				}
				prompt.WriteString(fmt.Sprintf("- %s (%s)%s%s\n", col.Name, col.DataType, flags, nullInfo))
			}
			if len(table.Indexes) > 0 {
				prompt.WriteString(fmt.Sprintf("Indexes: %s\n", strings.Join(table.Indexes, ", ")))
			}
			prompt.WriteString("\n")
		}
	}

	if len(qctx.RAGDocs) > 0 {
		prompt.WriteString("## Reference Documentation\n\n")
		prompt.WriteString("Ground your recommendations in these excerpts where they apply, and cite them by title.\n\n")
		for _, doc := range qctx.RAGDocs {
			prompt.WriteString(fmt.Sprintf("### %s\n", doc.Metadata.Title))
			prompt.WriteString(doc.Text)
			prompt.WriteString("\n\n")
		}
	}

	prompt.WriteString("## Output Format\n\n")
	prompt.WriteString("Respond in JSON with:\n")
	prompt.WriteString("- `summary`: One or two sentences describing the query's main performance characteristics\n")
	prompt.WriteString("- `anti_patterns`: Array of problems found (may be empty)\n")
	prompt.WriteString("  - `type`: Short machine-readable identifier, e.g. \"select_star\"\n")
	prompt.WriteString("  - `severity`: One of \"critical\", \"warning\", \"info\"\n")
	prompt.WriteString("  - `message`: What the problem is\n")
	prompt.WriteString("  - `suggestion`: How to fix it\n")
	prompt.WriteString("- `optimization_suggestions`: Array of improvements (may be empty)\n")
	prompt.WriteString("  - `title`, `description`\n")
	prompt.WriteString("  - `impact`: One of \"high\", \"medium\", \"low\"\n")
	prompt.WriteString("  - `rewritten_query`: Improved SQL, if a concrete rewrite exists\n")
	prompt.WriteString("- `estimated_complexity`: Integer 0-100 scoring query cost\n")
	prompt.WriteString("- `citations`: Array of documentation excerpts used (may be empty)\n")
	prompt.WriteString("  - `title`: Title of the referenced excerpt\n\n")

	prompt.WriteString("Example:\n")
	prompt.WriteString("```json\n")
	prompt.WriteString(`{
  "summary": "Full table scan caused by a leading-wildcard LIKE on an unindexed column.",
  "anti_patterns": [
    {
      "type": "leading_wildcard_like",
      "severity": "warning",
      "message": "LIKE '%...' cannot use an index on name",
      "suggestion": "Use a full-text index or restructure the search"
    }
  ],
  "optimization_suggestions": [
    {
      "title": "Add covering index",
      "description": "An index on (customer_id, created_at) covers the WHERE and ORDER BY clauses.",
      "impact": "high",
      "rewritten_query": ""
    }
  ],
  "estimated_complexity": 40,
  "citations": [{"title": "Index Design"}]
}
`)
	prompt.WriteString("```\n\n")
	prompt.WriteString("Return ONLY the JSON, no additional text.\n")

	return prompt.String()
}

// BuildQueryAnalysisSystemMessage returns the system message for the AI provider.
func BuildQueryAnalysisSystemMessage(dbType models.DatabaseType) string {
	return fmt.Sprintf("You are a %s performance tuning expert. You analyze SQL queries for anti-patterns and recommend concrete optimizations grounded in the documentation excerpts provided.", dbType)
}
