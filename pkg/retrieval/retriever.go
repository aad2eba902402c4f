// Package retrieval selects relevant documentation chunks to ground AI
// query analysis. Retrieval is keyword-based and fully in-process; there is
// no network dependency on this path.
package retrieval

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/querylens/querylens-engine/pkg/chunker"
	"github.com/querylens/querylens-engine/pkg/models"
)

// DefaultTopK is how many chunks an analysis prompt is grounded on.
const DefaultTopK = 3

var termRegex = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]{2,}`)

// SQL keywords carry no retrieval signal; nearly every indexed chunk and
// every query mentions them.
var stopTerms = map[string]bool{
	"select": true, "from": true, "where": true, "and": true, "the": true,
	"for": true, "with": true, "into": true, "values": true, "set": true,
	"not": true, "null": true, "order": true, "group": true, "limit": true,
	"this": true, "that": true, "are": true, "can": true, "use": true,
}

// indexedChunk pairs a chunk with its precomputed term frequencies.
type indexedChunk struct {
	chunk    models.DocumentChunk
	terms    map[string]int
	keywords map[string]bool
}

// Retriever indexes documentation chunks per database type. The mysql and
// mariadb corpora are kept strictly separate: a search for one never
// returns chunks from the other.
type Retriever struct {
	mu     sync.RWMutex
	index  map[models.DatabaseType][]indexedChunk
	logger *zap.Logger
}

// NewRetriever creates an empty retriever.
func NewRetriever(logger *zap.Logger) *Retriever {
	return &Retriever{
		index:  make(map[models.DatabaseType][]indexedChunk),
		logger: logger.Named("retrieval"),
	}
}

// AddDocument chunks a document and adds its chunks to the index for the
// document's database type.
func (r *Retriever) AddDocument(doc models.Document, opts chunker.Options) {
	chunks := chunker.SmartChunk(doc.Content, doc.Title, opts)

	keywords := make(map[string]bool, len(doc.Keywords))
	for _, kw := range doc.Keywords {
		keywords[strings.ToLower(kw)] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range chunks {
		r.index[doc.DatabaseType] = append(r.index[doc.DatabaseType], indexedChunk{
			chunk:    c,
			terms:    termFrequencies(c.Text + " " + c.Metadata.Title),
			keywords: keywords,
		})
	}

	r.logger.Debug("document indexed",
		zap.String("title", doc.Title),
		zap.String("database_type", string(doc.DatabaseType)),
		zap.Int("chunks", len(chunks)))
}

// AddDocuments indexes a batch of documents with the same chunking options.
func (r *Retriever) AddDocuments(docs []models.Document, opts chunker.Options) {
	for _, doc := range docs {
		r.AddDocument(doc, opts)
	}
}

// Search returns the topK most relevant chunks for the query text within
// the given database type's corpus. Chunks with zero relevance are never
// returned, so the result may be shorter than topK or empty.
func (r *Retriever) Search(query string, dbType models.DatabaseType, topK int) []models.DocumentChunk {
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryTerms := termFrequencies(query)
	if len(queryTerms) == 0 {
		return nil
	}

	r.mu.RLock()
	candidates := r.index[dbType]
	scored := make([]struct {
		score int
		chunk models.DocumentChunk
	}, 0, len(candidates))

	for _, ic := range candidates {
		score := 0
		for term := range queryTerms {
			score += ic.terms[term]
			if ic.keywords[term] {
				score += 5
			}
		}
		if score > 0 {
			scored = append(scored, struct {
				score int
				chunk models.DocumentChunk
			}{score, ic.chunk})
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	results := make([]models.DocumentChunk, len(scored))
	for i, s := range scored {
		results[i] = s.chunk
	}
	return results
}

// Size returns the number of indexed chunks for a database type.
func (r *Retriever) Size(dbType models.DatabaseType) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.index[dbType])
}

// termFrequencies tokenizes text into lower-cased terms with stop words
// removed and counts occurrences.
func termFrequencies(text string) map[string]int {
	terms := make(map[string]int)
	for _, t := range termRegex.FindAllString(strings.ToLower(text), -1) {
		if stopTerms[t] {
			continue
		}
		terms[t]++
	}
	return terms
}
