package vectorindex

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"readum/internal/domain"
	"readum/internal/util"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
	"golang.org/x/sync/errgroup"
)

const (
	indexFileName     = "index.gob"
	metadataSourceKey = "source"
)

type entry struct {
	ID        string
	Text      string
	SourceTag string
	Vector    []float32
}

// LocalIndex is an in-memory, brute-force cosine index that can be written
// to and reloaded from a directory. It satisfies vectorstores.VectorStore so
// retrieval goes through langchaingo's retriever.
type LocalIndex struct {
	embedder domain.EmbeddingService
	workers  int
	entries  []entry
}

var (
	_ vectorstores.VectorStore = (*LocalIndex)(nil)
	_ domain.IndexHandle       = (*LocalIndex)(nil)
)

func newLocalIndex(embedder domain.EmbeddingService, workers int) *LocalIndex {
	if workers <= 0 {
		workers = 1
	}
	return &LocalIndex{embedder: embedder, workers: workers}
}

// AddDocuments embeds docs with a bounded worker pool and appends them in
// input order. Nothing is appended if any embedding fails.
func (idx *LocalIndex) AddDocuments(ctx context.Context, docs []schema.Document, _ ...vectorstores.Option) ([]string, error) {
	vectors := make([][]float32, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers)
	for i, doc := range docs {
		g.Go(func() error {
			vec, err := idx.embedder.Generate(gctx, doc.PageContent)
			if err != nil {
				return fmt.Errorf("embed document %d: %w", i, err)
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]string, len(docs))
	for i, doc := range docs {
		id := strconv.Itoa(len(idx.entries))
		source, _ := doc.Metadata[metadataSourceKey].(string)
		idx.entries = append(idx.entries, entry{
			ID:        id,
			Text:      doc.PageContent,
			SourceTag: source,
			Vector:    vectors[i],
		})
		ids[i] = id
	}
	return ids, nil
}

// SimilaritySearch ranks every entry by cosine similarity to the query.
// Ties keep insertion order so results are stable for identical input.
func (idx *LocalIndex) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	opts := vectorstores.Options{}
	for _, opt := range options {
		opt(&opts)
	}

	if len(idx.entries) == 0 || numDocuments <= 0 {
		return nil, nil
	}

	qvec, err := idx.embedder.Generate(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	type scored struct {
		pos   int
		score float64
	}
	results := make([]scored, 0, len(idx.entries))
	for i, e := range idx.entries {
		sim, err := util.CosineSimilarity(qvec, e.Vector)
		if err != nil {
			return nil, fmt.Errorf("score entry %s: %w", e.ID, err)
		}
		if float32(sim) < opts.ScoreThreshold {
			continue
		}
		results = append(results, scored{pos: i, score: sim})
	}

	slices.SortStableFunc(results, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})

	if len(results) > numDocuments {
		results = results[:numDocuments]
	}

	docs := make([]schema.Document, len(results))
	for i, r := range results {
		e := idx.entries[r.pos]
		docs[i] = schema.Document{
			PageContent: e.Text,
			Metadata:    map[string]any{metadataSourceKey: e.SourceTag, "id": e.ID},
			Score:       float32(r.score),
		}
	}
	return docs, nil
}

// Retrieve returns the topK chunks closest to query.
func (idx *LocalIndex) Retrieve(ctx context.Context, query string, topK int) ([]domain.Chunk, error) {
	docs, err := vectorstores.ToRetriever(idx, topK).GetRelevantDocuments(ctx, query)
	if err != nil {
		return nil, err
	}
	chunks := make([]domain.Chunk, len(docs))
	for i, d := range docs {
		source, _ := d.Metadata[metadataSourceKey].(string)
		chunks[i] = domain.Chunk{Text: d.PageContent, SourceTag: source}
	}
	return chunks, nil
}

// Save writes the index into dir, which must already exist.
func (idx *LocalIndex) Save(_ context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	tmp, err := os.CreateTemp(dir, indexFileName+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(idx.entries); err != nil {
		tmp.Close()
		return fmt.Errorf("encode index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, indexFileName))
}

func (idx *LocalIndex) load(dir string) error {
	f, err := os.Open(filepath.Join(dir, indexFileName))
	if err != nil {
		return err
	}
	defer f.Close()

	var entries []entry
	if err := gob.NewDecoder(f).Decode(&entries); err != nil {
		return fmt.Errorf("decode index: %w", err)
	}
	if len(entries) == 0 {
		return errors.New("index file holds no entries")
	}
	idx.entries = entries
	return nil
}

// Len is the number of indexed chunks.
func (idx *LocalIndex) Len() int {
	return len(idx.entries)
}
