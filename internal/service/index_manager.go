package service

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"readum/internal/domain"
	"readum/internal/logger"

	"go.uber.org/zap"
)

// IndexManager owns the lifecycle of per-request vector indexes stored
// under {root}/{provider}/{id}.
type IndexManager struct {
	vectors  domain.VectorIndexService
	root     string
	provider string
}

func NewIndexManager(vectors domain.VectorIndexService, root, provider string) *IndexManager {
	return &IndexManager{vectors: vectors, root: root, provider: provider}
}

// PathFor returns the directory an index with id lives in.
func (m *IndexManager) PathFor(id string) string {
	return filepath.Join(m.root, m.provider, id)
}

// Create makes a fresh directory for id. Missing parents are created; an
// existing directory for id is an error since indexes are never reused.
func (m *IndexManager) Create(id string) (string, error) {
	path := m.PathFor(id)
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", domain.NewDirectoryCreationError(path, errors.New("index id is not a single path segment"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", domain.NewDirectoryCreationError(path, err)
	}
	if err := os.Mkdir(path, 0o700); err != nil {
		return "", domain.NewDirectoryCreationError(path, err)
	}
	return path, nil
}

func (m *IndexManager) BuildIndex(ctx context.Context, chunks []domain.Chunk) (domain.IndexHandle, error) {
	if len(chunks) == 0 {
		return nil, domain.NewInvalidDocumentError("no chunks to index")
	}
	handle, err := m.vectors.EmbedAndIndex(ctx, chunks)
	if err != nil {
		return nil, domain.NewVectorStoreCreationError(err)
	}
	return handle, nil
}

func (m *IndexManager) Persist(ctx context.Context, handle domain.IndexHandle, path string) error {
	if err := handle.Save(ctx, path); err != nil {
		return domain.NewVectorStoreSaveError(path, err)
	}
	return nil
}

// OpenRetriever reloads the index at path and binds it to topK results.
func (m *IndexManager) OpenRetriever(ctx context.Context, path string, topK int) (domain.Retriever, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, domain.NewVectorStoreLoadError(path, err)
	}
	handle, err := m.vectors.Load(ctx, path)
	if err != nil {
		return nil, domain.NewVectorStoreLoadError(path, err)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &boundRetriever{handle: handle, topK: topK}, nil
}

// Destroy removes the directory for id. Failures are logged, never returned.
func (m *IndexManager) Destroy(id string) {
	if err := m.destroy(id); err != nil {
		logger.Get().Error("failed to clean up index directory", zap.String("index_id", id), zap.Error(err))
	}
}

func (m *IndexManager) destroy(id string) error {
	path := m.PathFor(id)
	if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
		logger.Get().Warn("index directory already gone", zap.String("path", path))
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return domain.NewDirectoryDeletionError(path, err)
	}
	return nil
}

// WithEphemeralIndex creates the index directory for id, builds and
// persists the index from chunks, opens a retriever on it and runs fn.
// The directory is removed on every exit path once it has been created.
// Index failures come back as VECTOR_STORE_OPERATION_ERROR; errors from fn
// are returned unchanged.
func (m *IndexManager) WithEphemeralIndex(
	ctx context.Context,
	id string,
	chunks []domain.Chunk,
	topK int,
	fn func(ctx context.Context, retriever domain.Retriever) error,
) error {
	path, err := m.Create(id)
	if err != nil {
		return domain.NewVectorStoreOperationError(err)
	}
	defer m.Destroy(id)

	handle, err := m.BuildIndex(ctx, chunks)
	if err != nil {
		return domain.NewVectorStoreOperationError(err)
	}
	if err := m.Persist(ctx, handle, path); err != nil {
		return domain.NewVectorStoreOperationError(err)
	}
	retriever, err := m.OpenRetriever(ctx, path, topK)
	if err != nil {
		return domain.NewVectorStoreOperationError(err)
	}

	logger.Get().Debug("ephemeral index ready", zap.String("index_id", id), zap.Int("chunks", len(chunks)))
	return fn(ctx, retriever)
}

type boundRetriever struct {
	handle domain.IndexHandle
	topK   int
}

func (r *boundRetriever) Retrieve(ctx context.Context, query string) ([]domain.Chunk, error) {
	return r.handle.Retrieve(ctx, query, r.topK)
}
