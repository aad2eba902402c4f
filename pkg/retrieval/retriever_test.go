package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/querylens/querylens-engine/pkg/chunker"
	"github.com/querylens/querylens-engine/pkg/models"
)

func testDocs() []models.Document {
	return []models.Document{
		{
			Title:        "Index Design",
			Content:      "Composite indexes cover multiple columns. An index on (a, b) serves predicates on a alone but not b alone. Covering indexes avoid table lookups entirely.",
			DatabaseType: models.DatabaseMySQL,
			Keywords:     []string{"index", "composite"},
		},
		{
			Title:        "Join Optimization",
			Content:      "Nested loop joins dominate MySQL execution. Hash joins arrived in 8.0.18. Join order matters when one table is far smaller than the other.",
			DatabaseType: models.DatabaseMySQL,
		},
		{
			Title:        "Thread Pool Tuning",
			Content:      "The MariaDB thread pool handles many concurrent connections. Tune thread_pool_size to the number of cores.",
			DatabaseType: models.DatabaseMariaDB,
			Keywords:     []string{"threads"},
		},
	}
}

func newTestRetriever(t *testing.T) *Retriever {
	t.Helper()
	r := NewRetriever(zap.NewNop())
	r.AddDocuments(testDocs(), chunker.DefaultOptions())
	return r
}

func TestSearch_ReturnsRelevantChunks(t *testing.T) {
	r := newTestRetriever(t)

	results := r.Search("how do composite indexes work", models.DatabaseMySQL, DefaultTopK)
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Text, "Composite indexes")
}

func TestSearch_DatabaseTypesNeverMix(t *testing.T) {
	r := newTestRetriever(t)

	// "thread pool" content only exists in the mariadb corpus.
	results := r.Search("thread pool size", models.DatabaseMySQL, 10)
	for _, c := range results {
		assert.NotContains(t, c.Text, "thread pool")
	}

	results = r.Search("thread pool size", models.DatabaseMariaDB, 10)
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Metadata.Title, "Thread Pool Tuning")
}

func TestSearch_TopKLimit(t *testing.T) {
	r := newTestRetriever(t)

	results := r.Search("mysql index join table", models.DatabaseMySQL, 1)
	assert.LessOrEqual(t, len(results), 1)
}

func TestSearch_ZeroRelevanceExcluded(t *testing.T) {
	r := newTestRetriever(t)

	results := r.Search("zzzunmatchable qqqterm", models.DatabaseMySQL, 10)
	assert.Empty(t, results)
}

func TestSearch_KeywordBoost(t *testing.T) {
	r := NewRetriever(zap.NewNop())
	r.AddDocuments([]models.Document{
		{
			Title:        "Plain Mention",
			Content:      "Sharding appears once here among unrelated filler text about backups and replication schedules.",
			DatabaseType: models.DatabaseMySQL,
		},
		{
			Title:        "Tagged Document",
			Content:      "General partitioning guidance without repeating the term.",
			DatabaseType: models.DatabaseMySQL,
			Keywords:     []string{"sharding"},
		},
	}, chunker.DefaultOptions())

	results := r.Search("sharding", models.DatabaseMySQL, 2)
	require.NotEmpty(t, results)
	assert.Equal(t, "Tagged Document", results[0].Metadata.Title)
}

func TestSearch_EmptyQuery(t *testing.T) {
	r := newTestRetriever(t)
	assert.Nil(t, r.Search("", models.DatabaseMySQL, 3))
}

func TestSize(t *testing.T) {
	r := newTestRetriever(t)
	assert.Greater(t, r.Size(models.DatabaseMySQL), 0)
	assert.Greater(t, r.Size(models.DatabaseMariaDB), 0)
}

func TestParseCorpus(t *testing.T) {
	corpus := []byte(`
documents:
  - title: "EXPLAIN Basics"
    database_type: mysql
    keywords: [explain, plan]
    content: |
      EXPLAIN shows the access type per table. Avoid type ALL on large tables.
`)

	docs, err := ParseCorpus(corpus, "test.yaml")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "EXPLAIN Basics", docs[0].Title)
	assert.Equal(t, models.DatabaseMySQL, docs[0].DatabaseType)
	assert.Equal(t, []string{"explain", "plan"}, docs[0].Keywords)
}

func TestParseCorpus_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		corpus string
	}{
		{"missing title", "documents:\n  - content: body\n    database_type: mysql\n"},
		{"missing content", "documents:\n  - title: T\n    database_type: mysql\n"},
		{"unknown database type", "documents:\n  - title: T\n    content: body\n    database_type: postgres\n"},
		{"invalid yaml", "documents: [not closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCorpus([]byte(tt.corpus), "test.yaml")
			assert.Error(t, err)
		})
	}
}
