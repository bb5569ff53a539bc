package completion

import (
	"context"
	"fmt"

	"readum/internal/domain"
	"readum/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// LangchainCompleter asks any langchaingo model for a quiz through a
// function call. Models without tool support answer in plain JSON, which
// is parsed the same way.
type LangchainCompleter struct {
	llm         llms.Model
	temperature float64
}

var _ domain.StructuredCompleter = (*LangchainCompleter)(nil)

func NewLangchainCompleter(llm llms.Model, temperature float64) *LangchainCompleter {
	return &LangchainCompleter{llm: llm, temperature: temperature}
}

func (c *LangchainCompleter) CompleteQuiz(ctx context.Context, req domain.CompletionRequest) (domain.Quiz, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, renderSystemPrompt(req)),
		llms.TextParts(llms.ChatMessageTypeHuman, req.Instruction),
	}
	tools := []llms.Tool{{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        quizToolName,
			Description: quizToolDescription,
			Parameters:  quizSchema(),
		},
	}}

	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTools(tools),
		llms.WithTemperature(c.temperature),
	)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return domain.Quiz{}, fmt.Errorf("%w: empty response", domain.ErrMalformedCompletion)
	}

	raw := argumentsOf(resp.Choices[0])
	logger.Get().Debug("quiz completion received",
		zap.Int("question_count", req.QuestionCount),
		zap.Int("raw_length", len(raw)),
	)
	return parseQuiz(raw)
}

// argumentsOf prefers the submit_quiz call, then any function call, then
// the text content.
func argumentsOf(choice *llms.ContentChoice) string {
	if choice == nil {
		return ""
	}
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall != nil && tc.FunctionCall.Name == quizToolName {
			return tc.FunctionCall.Arguments
		}
	}
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall != nil {
			return tc.FunctionCall.Arguments
		}
	}
	if choice.FuncCall != nil {
		return choice.FuncCall.Arguments
	}
	return choice.Content
}
