package service

import (
	"context"
	"fmt"
	"strings"

	"readum/internal/domain"
)

const (
	DefaultInstruction = "Please generate the quiz according to the above instructions."
	DefaultTopK        = 8
)

// PromptBuilder fills a completion request with the chunks most relevant
// to the instruction in effect.
type PromptBuilder struct {
	retriever domain.Retriever
}

func NewPromptBuilder(retriever domain.Retriever) *PromptBuilder {
	return &PromptBuilder{retriever: retriever}
}

// Build retrieves before returning, so the context always belongs to this
// round's instruction. An empty instruction means DefaultInstruction.
func (b *PromptBuilder) Build(ctx context.Context, count int, difficulty domain.Difficulty, instruction string) (domain.CompletionRequest, error) {
	if strings.TrimSpace(instruction) == "" {
		instruction = DefaultInstruction
	}

	chunks, err := b.retriever.Retrieve(ctx, instruction)
	if err != nil {
		return domain.CompletionRequest{}, fmt.Errorf("retrieve context: %w", err)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = strings.TrimSpace(c.Text)
	}

	return domain.CompletionRequest{
		Instruction:   instruction,
		QuestionCount: count,
		Difficulty:    difficulty,
		Context:       strings.Join(texts, "\n\n"),
	}, nil
}
