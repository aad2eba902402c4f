package retrieval

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/querylens/querylens-engine/pkg/models"
)

// corpusFile is the on-disk shape of a documentation corpus file.
type corpusFile struct {
	Documents []models.Document `yaml:"documents"`
}

// LoadCorpusFile parses a YAML corpus file into documents. Documents with
// an unrecognized database type are rejected rather than silently indexed
// under the wrong corpus.
func LoadCorpusFile(path string) ([]models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file %s: %w", path, err)
	}
	return ParseCorpus(data, path)
}

// ParseCorpus parses raw YAML corpus content. The name parameter is used
// only for error messages.
func ParseCorpus(data []byte, name string) ([]models.Document, error) {
	var cf corpusFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse corpus file %s: %w", name, err)
	}

	for i, doc := range cf.Documents {
		if strings.TrimSpace(doc.Title) == "" {
			return nil, fmt.Errorf("corpus file %s: document %d has no title", name, i)
		}
		if strings.TrimSpace(doc.Content) == "" {
			return nil, fmt.Errorf("corpus file %s: document %q has no content", name, doc.Title)
		}
		switch doc.DatabaseType {
		case models.DatabaseMySQL, models.DatabaseMariaDB:
		default:
			return nil, fmt.Errorf("corpus file %s: document %q has unknown database type %q",
				name, doc.Title, doc.DatabaseType)
		}
	}

	return cf.Documents, nil
}

// LoadCorpusDir loads every .yaml and .yml file under dir, non-recursively
// aggregating their documents.
func LoadCorpusDir(dir string) ([]models.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory %s: %w", dir, err)
	}

	var docs []models.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		fileDocs, err := LoadCorpusFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, fileDocs...)
	}
	return docs, nil
}
