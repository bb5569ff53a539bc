package service

import (
	"context"
	"errors"

	"readum/internal/domain"
	"readum/internal/logger"

	"go.uber.org/zap"
)

// GenerationOutcome tells a generated quiz apart from the insufficient
// context signal.
type GenerationOutcome int

const (
	OutcomeQuiz GenerationOutcome = iota
	OutcomeInsufficientContext
)

func (o GenerationOutcome) String() string {
	if o == OutcomeInsufficientContext {
		return "insufficient_context"
	}
	return "quiz"
}

// GenerationAgent produces one candidate quiz per call.
type GenerationAgent struct {
	completer domain.StructuredCompleter
	prompts   *PromptBuilder
}

func NewGenerationAgent(completer domain.StructuredCompleter, prompts *PromptBuilder) *GenerationAgent {
	return &GenerationAgent{completer: completer, prompts: prompts}
}

// Generate returns OutcomeInsufficientContext without an error when the
// completer reports sparse context. Other failures come back as
// RAG_PROCESSING_ERROR wrapping LLM_RESPONSE_PARSING_ERROR when a response
// arrived but was unusable, or RAG_CHAIN_EXECUTION_ERROR otherwise.
func (a *GenerationAgent) Generate(ctx context.Context, count int, difficulty domain.Difficulty, instruction string) (domain.Quiz, GenerationOutcome, error) {
	req, err := a.prompts.Build(ctx, count, difficulty, instruction)
	if err != nil {
		return domain.Quiz{}, OutcomeQuiz, domain.NewRAGProcessingError(domain.NewRAGChainExecutionError(err))
	}

	quiz, err := a.completer.CompleteQuiz(ctx, req)
	switch {
	case err == nil:
		return quiz, OutcomeQuiz, nil
	case errors.Is(err, domain.ErrInsufficientContext):
		logger.Get().Info("completion reported insufficient context", zap.Int("context_chars", len(req.Context)))
		return domain.Quiz{}, OutcomeInsufficientContext, nil
	case errors.Is(err, domain.ErrMalformedCompletion):
		return domain.Quiz{}, OutcomeQuiz, domain.NewRAGProcessingError(domain.NewLLMResponseParsingError(err))
	default:
		return domain.Quiz{}, OutcomeQuiz, domain.NewRAGProcessingError(domain.NewRAGChainExecutionError(err))
	}
}
