package domain

import "context"

// EmbeddingService defines the interface for generating text embeddings.
type EmbeddingService interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}

// VectorIndexService embeds chunks into a fresh index and reloads persisted
// ones.
type VectorIndexService interface {
	EmbedAndIndex(ctx context.Context, chunks []Chunk) (IndexHandle, error)
	Load(ctx context.Context, path string) (IndexHandle, error)
}

// IndexHandle is one built vector index.
type IndexHandle interface {
	Save(ctx context.Context, path string) error
	Retrieve(ctx context.Context, query string, topK int) ([]Chunk, error)
}

// Retriever returns the most relevant chunks for a query. The number of
// chunks is fixed when the retriever is opened.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Chunk, error)
}

// StructuredCompleter asks a language model for a quiz conforming to the
// quiz schema. It returns ErrInsufficientContext when the model reports the
// context is too sparse, and wraps ErrMalformedCompletion when a response
// arrived but could not be turned into a Quiz.
type StructuredCompleter interface {
	CompleteQuiz(ctx context.Context, req CompletionRequest) (Quiz, error)
}

// ExplanationJudge decides whether each explanation supports its answer.
// It returns one verdict per question, in question order.
type ExplanationJudge interface {
	JudgeExplanations(ctx context.Context, quiz Quiz) ([]ExplanationVerdict, error)
}

// PageLoader fetches a web page and returns its readable text.
type PageLoader interface {
	Load(ctx context.Context, url string) (string, error)
}

// ResultStore persists submitted answers as opaque JSON blobs. Get returns
// ErrResultNotFound for unknown keys.
type ResultStore interface {
	Put(ctx context.Context, key string, blob []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}
