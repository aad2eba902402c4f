package models

// Document is one reference-documentation entry in the retrieval corpus.
type Document struct {
	Title        string       `yaml:"title" json:"title"`
	Content      string       `yaml:"content" json:"content"`
	URL          string       `yaml:"url,omitempty" json:"url,omitempty"`
	DatabaseType DatabaseType `yaml:"database_type" json:"database_type"`
	Keywords     []string     `yaml:"keywords,omitempty" json:"keywords,omitempty"`
}

// ChunkMetadata locates a chunk within its source document.
// StartChar/EndChar are rune offsets into the original text.
type ChunkMetadata struct {
	Title       string `json:"title"`
	ChunkIndex  int    `json:"chunk_index"`
	TotalChunks int    `json:"total_chunks"`
	StartChar   int    `json:"start_char"`
	EndChar     int    `json:"end_char"`
}

// DocumentChunk is a bounded slice of a document produced by the chunker.
type DocumentChunk struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}
