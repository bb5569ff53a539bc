package completion

import (
	"context"
	"fmt"

	"readum/internal/domain"

	"github.com/sashabaranov/go-openai"
)

type chatCompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAICompleter calls the OpenAI chat API directly and forces the model
// to answer through the submit_quiz function.
type OpenAICompleter struct {
	client      chatCompletionClient
	model       string
	temperature float32
}

var _ domain.StructuredCompleter = (*OpenAICompleter)(nil)

func NewOpenAICompleter(client *openai.Client, model string, temperature float64) *OpenAICompleter {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICompleter{client: client, model: model, temperature: float32(temperature)}
}

func (c *OpenAICompleter) CompleteQuiz(ctx context.Context, req domain.CompletionRequest) (domain.Quiz, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: renderSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Instruction},
		},
		Tools: []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        quizToolName,
				Description: quizToolDescription,
				Parameters:  quizSchema(),
			},
		}},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: quizToolName},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Quiz{}, fmt.Errorf("%w: no choices returned", domain.ErrMalformedCompletion)
	}

	msg := resp.Choices[0].Message
	for _, tc := range msg.ToolCalls {
		if tc.Function.Name == quizToolName {
			return parseQuiz(tc.Function.Arguments)
		}
	}
	return parseQuiz(msg.Content)
}
