package knowledge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
	"github.com/tmc/langchaingo/vectorstores"

	"github.com/onboardkit/onboardkit/pkg/logger"
)

// IngestConfig controls document chunking.
type IngestConfig struct {
	ChunkSize    int
	ChunkOverlap int
}

// Ingestor loads plain-text documents from disk, splits them into chunks and
// upserts them into the vector store.
type Ingestor struct {
	store vectorstores.VectorStore
	cfg   IngestConfig
}

func NewIngestor(store vectorstores.VectorStore, cfg IngestConfig) *Ingestor {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 800
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 0
	}
	return &Ingestor{store: store, cfg: cfg}
}

// IngestDir walks dir for .md and .txt files and stores their chunks.
// Returns the number of chunks written.
func (i *Ingestor) IngestDir(ctx context.Context, dir string) (int, error) {
	log := logger.FromContext(ctx)
	var texts []string
	var metadatas []map[string]any
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".txt" {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", path, readErr)
		}
		texts = append(texts, string(content))
		metadatas = append(metadatas, map[string]any{"source": filepath.Base(path)})
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk documents dir: %w", err)
	}
	if len(texts) == 0 {
		return 0, fmt.Errorf("no documents found in %s", dir)
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(i.cfg.ChunkSize),
		textsplitter.WithChunkOverlap(i.cfg.ChunkOverlap),
	)
	docs, err := textsplitter.CreateDocuments(splitter, texts, metadatas)
	if err != nil {
		return 0, fmt.Errorf("failed to split documents: %w", err)
	}
	log.Info("Ingesting document chunks", "files", len(texts), "chunks", len(docs))
	if err := i.addInBatches(ctx, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}

const ingestBatchSize = 64

func (i *Ingestor) addInBatches(ctx context.Context, docs []schema.Document) error {
	for start := 0; start < len(docs); start += ingestBatchSize {
		end := min(start+ingestBatchSize, len(docs))
		if _, err := i.store.AddDocuments(ctx, docs[start:end]); err != nil {
			return fmt.Errorf("failed to store documents: %w", err)
		}
	}
	return nil
}
