package embedding

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"readum/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEmbedder is a mock for embeddings.Embedder.
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockCache is a mock for domain.Cache.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ domain.Cache = (*MockCache)(nil)

func gobString(t *testing.T, vec []float32) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(vec))
	return buf.String()
}

func TestNewOllamaEmbeddingService(t *testing.T) {
	_, err := NewOllamaEmbeddingService("", "nomic-embed-text")
	assert.ErrorContains(t, err, "ollama server URL cannot be empty")

	_, err = NewOllamaEmbeddingService("http://localhost:11434", "")
	assert.ErrorContains(t, err, "ollama model name cannot be empty")
}

func TestOllamaEmbeddingService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockEmb := new(MockEmbedder)
		svc := &OllamaEmbeddingService{embedder: mockEmb}
		mockEmb.On("EmbedQuery", ctx, "chunk text").Return([]float32{0.1, 0.2}, nil).Once()

		vec, err := svc.Generate(ctx, "chunk text")
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2}, vec)
		mockEmb.AssertExpectations(t)
	})

	t.Run("empty text", func(t *testing.T) {
		svc := &OllamaEmbeddingService{embedder: new(MockEmbedder)}
		_, err := svc.Generate(ctx, "")
		assert.ErrorContains(t, err, "input text cannot be empty")
	})

	t.Run("embedder error", func(t *testing.T) {
		mockEmb := new(MockEmbedder)
		svc := &OllamaEmbeddingService{embedder: mockEmb}
		mockEmb.On("EmbedQuery", ctx, "chunk text").Return(nil, errors.New("model not loaded")).Once()

		_, err := svc.Generate(ctx, "chunk text")
		assert.ErrorContains(t, err, "model not loaded")
	})

	t.Run("empty vector", func(t *testing.T) {
		mockEmb := new(MockEmbedder)
		svc := &OllamaEmbeddingService{embedder: mockEmb}
		mockEmb.On("EmbedQuery", ctx, "chunk text").Return([]float32{}, nil).Once()

		_, err := svc.Generate(ctx, "chunk text")
		assert.Error(t, err)
	})
}

func TestNewOpenAIEmbeddingService(t *testing.T) {
	_, err := NewOpenAIEmbeddingService("", "", nil, 0)
	assert.ErrorContains(t, err, "openai API key cannot be empty")

	_, err = NewOpenAIEmbeddingService("sk-test", "", new(MockCache), 0)
	assert.ErrorContains(t, err, "TTL must be positive")
}

func TestOpenAIEmbeddingService_Generate(t *testing.T) {
	ctx := context.Background()
	ttl := time.Hour
	text := "some chunk"
	expected := []float32{0.4, 0.5, 0.6}
	key := "readum:embedding:openai:" + hashString(text) + ":" + defaultOpenAIModel

	newSvc := func(emb *MockEmbedder, c domain.Cache) *OpenAIEmbeddingService {
		return &OpenAIEmbeddingService{embedder: emb, model: defaultOpenAIModel, cache: c, cacheTTL: ttl}
	}

	t.Run("cache miss stores vector", func(t *testing.T) {
		mockEmb, mockCache := new(MockEmbedder), new(MockCache)
		mockCache.On("Get", ctx, key).Return("", domain.ErrCacheMiss).Once()
		mockEmb.On("EmbedQuery", ctx, text).Return(expected, nil).Once()
		mockCache.On("Set", ctx, key, gobString(t, expected), ttl).Return(nil).Once()

		vec, err := newSvc(mockEmb, mockCache).Generate(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, expected, vec)
		mockEmb.AssertExpectations(t)
		mockCache.AssertExpectations(t)
	})

	t.Run("cache hit skips upstream", func(t *testing.T) {
		mockEmb, mockCache := new(MockEmbedder), new(MockCache)
		mockCache.On("Get", ctx, key).Return(gobString(t, expected), nil).Once()

		vec, err := newSvc(mockEmb, mockCache).Generate(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, expected, vec)
		mockEmb.AssertNotCalled(t, "EmbedQuery", mock.Anything, mock.Anything)
	})

	t.Run("corrupt cache entry is regenerated", func(t *testing.T) {
		mockEmb, mockCache := new(MockEmbedder), new(MockCache)
		mockCache.On("Get", ctx, key).Return("not gob", nil).Once()
		mockEmb.On("EmbedQuery", ctx, text).Return(expected, nil).Once()
		mockCache.On("Set", ctx, key, mock.Anything, ttl).Return(nil).Once()

		vec, err := newSvc(mockEmb, mockCache).Generate(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, expected, vec)
	})

	t.Run("cache write failure is not fatal", func(t *testing.T) {
		mockEmb, mockCache := new(MockEmbedder), new(MockCache)
		mockCache.On("Get", ctx, key).Return("", errors.New("redis down")).Once()
		mockEmb.On("EmbedQuery", ctx, text).Return(expected, nil).Once()
		mockCache.On("Set", ctx, key, mock.Anything, ttl).Return(errors.New("redis down")).Once()

		vec, err := newSvc(mockEmb, mockCache).Generate(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, expected, vec)
	})

	t.Run("no cache configured", func(t *testing.T) {
		mockEmb := new(MockEmbedder)
		mockEmb.On("EmbedQuery", ctx, text).Return(expected, nil).Once()

		vec, err := newSvc(mockEmb, nil).Generate(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, expected, vec)
	})

	t.Run("embedder error", func(t *testing.T) {
		mockEmb, mockCache := new(MockEmbedder), new(MockCache)
		mockCache.On("Get", ctx, key).Return("", domain.ErrCacheMiss).Once()
		mockEmb.On("EmbedQuery", ctx, text).Return(nil, errors.New("rate limited")).Once()

		_, err := newSvc(mockEmb, mockCache).Generate(ctx, text)
		assert.ErrorContains(t, err, "rate limited")
		mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

// slowEmbedder counts upstream calls and blocks until released.
type slowEmbedder struct {
	calls   atomic.Int32
	release chan struct{}
}

func (s *slowEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("not used")
}

func (s *slowEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	s.calls.Add(1)
	<-s.release
	return []float32{1, 2, 3}, nil
}

func TestOpenAIEmbeddingService_SingleflightDedup(t *testing.T) {
	emb := &slowEmbedder{release: make(chan struct{})}
	svc := &OpenAIEmbeddingService{embedder: emb, model: defaultOpenAIModel}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vec, err := svc.Generate(context.Background(), "same text")
			assert.NoError(t, err)
			assert.Len(t, vec, 3)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(emb.release)
	wg.Wait()

	assert.Equal(t, int32(1), emb.calls.Load())
}
