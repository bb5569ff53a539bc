package service

import (
	"context"
	"strings"

	"readum/internal/domain"
	"readum/internal/logger"

	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"
)

const (
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 100

	sourceTagText = "text"
)

// DocumentPreparer turns request content into overlapping fixed-size chunks.
// URL content is fetched through the page loader first.
type DocumentPreparer struct {
	loader   domain.PageLoader
	splitter textsplitter.TextSplitter
}

// NewDocumentPreparer treats a non-positive size or overlap as unset and
// falls back to the defaults. An overlap that does not fit inside a chunk
// is clamped to a twentieth of the chunk size.
func NewDocumentPreparer(loader domain.PageLoader, chunkSize, chunkOverlap int) *DocumentPreparer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap <= 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 20
	}
	return &DocumentPreparer{
		loader: loader,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

func (p *DocumentPreparer) Prepare(ctx context.Context, req domain.QuizRequest) ([]domain.Chunk, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, domain.NewInvalidInputError("content cannot be empty")
	}

	raw, source := req.Content, sourceTagText
	if req.Type == domain.QuizTypeURL {
		page, err := p.loader.Load(ctx, req.Content)
		if err != nil {
			return nil, domain.NewDocumentProcessingError("failed to load document",
				domain.NewDocumentLoadError(req.Content, err))
		}
		raw, source = page, req.Content
	}

	parts, err := p.splitter.SplitText(raw)
	if err != nil {
		return nil, domain.NewDocumentProcessingError("failed to split document", err)
	}

	chunks := make([]domain.Chunk, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{Text: part, SourceTag: source})
	}
	if len(chunks) == 0 {
		return nil, domain.NewDocumentProcessingError("document produced no content", nil)
	}

	logger.Get().Debug("document prepared",
		zap.String("type", string(req.Type)),
		zap.Int("chars", len(raw)),
		zap.Int("chunks", len(chunks)),
	)
	return chunks, nil
}
