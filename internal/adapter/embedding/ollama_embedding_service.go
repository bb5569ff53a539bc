package embedding

import (
	"context"
	"fmt"

	"readum/internal/domain"

	"github.com/tmc/langchaingo/embeddings"
	ollamaLLM "github.com/tmc/langchaingo/llms/ollama"
)

// OllamaEmbeddingService implements domain.EmbeddingService using Ollama.
type OllamaEmbeddingService struct {
	embedder embeddings.Embedder
}

var _ domain.EmbeddingService = (*OllamaEmbeddingService)(nil)

// NewOllamaEmbeddingService requires the Ollama server URL and model name.
func NewOllamaEmbeddingService(serverURL, modelName string) (*OllamaEmbeddingService, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	llm, err := ollamaLLM.New(
		ollamaLLM.WithModel(modelName),
		ollamaLLM.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client for embedder: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder from ollama client: %w", err)
	}

	return &OllamaEmbeddingService{embedder: embedder}, nil
}

// Generate embeds one chunk or query.
func (s *OllamaEmbeddingService) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("input text cannot be empty for embedding")
	}

	vec, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding using ollama: %w", err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("ollama returned an empty embedding")
	}
	return vec, nil
}
