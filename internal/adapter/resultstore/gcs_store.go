package resultstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"readum/internal/domain"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const objectTimeout = 30 * time.Second

// objectBucket is the slice of a bucket the store needs.
type objectBucket interface {
	write(ctx context.Context, name string, data []byte) error
	read(ctx context.Context, name string) ([]byte, error)
}

type gcsBucket struct {
	handle *storage.BucketHandle
}

func (b gcsBucket) write(ctx context.Context, name string, data []byte) error {
	w := b.handle.Object(name).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (b gcsBucket) read(ctx context.Context, name string) ([]byte, error) {
	r, err := b.handle.Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("open GCS object %q: %w", name, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

// GCSStore writes each result as one JSON object under prefix.
type GCSStore struct {
	bucket objectBucket
	prefix string
	client *storage.Client
}

var _ domain.ResultStore = (*GCSStore)(nil)

// NewGCSStore opens a storage client with application default credentials.
func NewGCSStore(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("gcs bucket name cannot be empty")
	}
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{bucket: gcsBucket{handle: client.Bucket(bucket)}, prefix: prefix, client: client}, nil
}

func (s *GCSStore) objectName(key string) string {
	return path.Join(s.prefix, key+".json")
}

func (s *GCSStore) Put(ctx context.Context, key string, blob []byte) error {
	ctx, cancel := context.WithTimeout(ctx, objectTimeout)
	defer cancel()
	return s.bucket.write(ctx, s.objectName(key), blob)
}

func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, objectTimeout)
	defer cancel()
	return s.bucket.read(ctx, s.objectName(key))
}

func (s *GCSStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
