package embedding

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"readum/internal/cache"
	"readum/internal/domain"
	"readum/internal/logger"

	"github.com/tmc/langchaingo/embeddings"
	openaiLLM "github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// OpenAIEmbeddingService implements domain.EmbeddingService using OpenAI.
// Vectors are gob-encoded into the cache keyed by a hash of the text, and
// concurrent requests for the same text share one upstream call.
type OpenAIEmbeddingService struct {
	embedder embeddings.Embedder
	model    string
	cache    domain.Cache
	cacheTTL time.Duration
	sfGroup  singleflight.Group
}

var _ domain.EmbeddingService = (*OpenAIEmbeddingService)(nil)

// NewOpenAIEmbeddingService builds the service. cache may be nil, in which
// case every call goes upstream.
func NewOpenAIEmbeddingService(apiKey, modelName string, cache domain.Cache, cacheTTL time.Duration) (*OpenAIEmbeddingService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	if cache != nil && cacheTTL <= 0 {
		return nil, fmt.Errorf("embedding cache TTL must be positive")
	}

	llm, err := openaiLLM.New(
		openaiLLM.WithToken(apiKey),
		openaiLLM.WithEmbeddingModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client for embedder: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder from openai client: %w", err)
	}

	return &OpenAIEmbeddingService{
		embedder: embedder,
		model:    modelName,
		cache:    cache,
		cacheTTL: cacheTTL,
	}, nil
}

func (s *OpenAIEmbeddingService) cacheKey(text string) string {
	return cache.GenerateCacheKey("embedding", "openai", hashString(text), s.model)
}

// Generate returns the embedding for text, consulting the cache first.
func (s *OpenAIEmbeddingService) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("input text cannot be empty for embedding")
	}

	key := s.cacheKey(text)
	if vec, ok := s.fromCache(ctx, key); ok {
		return vec, nil
	}

	res, err, _ := s.sfGroup.Do(key, func() (interface{}, error) {
		vec, err := s.embedder.EmbedQuery(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding using openai: %w", err)
		}
		if len(vec) == 0 {
			return nil, fmt.Errorf("openai returned an empty embedding")
		}
		s.toCache(ctx, key, vec)
		return vec, nil
	})
	if err != nil {
		return nil, err
	}

	vec, ok := res.([]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight for openai embedding: %T", res)
	}
	return vec, nil
}

func (s *OpenAIEmbeddingService) fromCache(ctx context.Context, key string) ([]float32, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("embedding cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var vec []float32
	if err := gob.NewDecoder(bytes.NewReader([]byte(raw))).Decode(&vec); err != nil || len(vec) == 0 {
		logger.Get().Warn("discarding undecodable cached embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	logger.Get().Debug("embedding cache hit", zap.String("key", key))
	return vec, true
}

// toCache never fails the caller; the vector is already computed.
func (s *OpenAIEmbeddingService) toCache(ctx context.Context, key string, vec []float32) {
	if s.cache == nil {
		return
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(vec); err != nil {
		logger.Get().Error("failed to gob encode embedding", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, buf.String(), s.cacheTTL); err != nil {
		logger.Get().Warn("failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}
