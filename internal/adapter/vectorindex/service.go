package vectorindex

import (
	"context"
	"errors"

	"readum/internal/domain"

	"github.com/tmc/langchaingo/schema"
)

// Service builds LocalIndex instances for the ephemeral index manager.
type Service struct {
	embedder domain.EmbeddingService
	workers  int
}

var _ domain.VectorIndexService = (*Service)(nil)

// NewService embeds with at most workers concurrent embedding calls.
func NewService(embedder domain.EmbeddingService, workers int) *Service {
	return &Service{embedder: embedder, workers: workers}
}

// EmbedAndIndex embeds every chunk into a new index.
func (s *Service) EmbedAndIndex(ctx context.Context, chunks []domain.Chunk) (domain.IndexHandle, error) {
	if len(chunks) == 0 {
		return nil, errors.New("no chunks to index")
	}

	docs := make([]schema.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = schema.Document{
			PageContent: c.Text,
			Metadata:    map[string]any{metadataSourceKey: c.SourceTag},
		}
	}

	idx := newLocalIndex(s.embedder, s.workers)
	if _, err := idx.AddDocuments(ctx, docs); err != nil {
		return nil, err
	}
	return idx, nil
}

// Load reopens an index written by Save.
func (s *Service) Load(_ context.Context, path string) (domain.IndexHandle, error) {
	idx := newLocalIndex(s.embedder, s.workers)
	if err := idx.load(path); err != nil {
		return nil, err
	}
	return idx, nil
}
