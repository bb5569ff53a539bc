package completion

import (
	"fmt"
	"strings"

	"readum/internal/domain"
)

const quizToolName = "submit_quiz"

const systemPromptTemplate = `You are a teacher writing a multiple-choice reading comprehension quiz.
Use only the context below. Write exactly %d questions at %s difficulty.
Each question has four options labelled A, B, C and D, exactly one correct answer
given as its letter, and an explanation that justifies that answer from the context.
Do not repeat questions.
If the context does not contain enough information to write the quiz, set
"insufficient_context" to true and return no questions.
Return the quiz by calling the %s function. If you cannot call functions, reply
with only the JSON object the function expects.

<context>
%s
</context>`

func renderSystemPrompt(req domain.CompletionRequest) string {
	return fmt.Sprintf(systemPromptTemplate, req.QuestionCount, req.Difficulty, quizToolName, strings.TrimSpace(req.Context))
}

// quizSchema is the JSON schema of the submit_quiz function arguments.
func quizSchema() map[string]any {
	option := map[string]any{"type": "string", "minLength": 1}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"insufficient_context": map[string]any{
				"type":        "boolean",
				"description": "true when the context cannot support a quiz",
			},
			"questions": map[string]any{
				"type":     "array",
				"maxItems": domain.MaxQuestionCount,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"content": map[string]any{"type": "string", "description": "the question text"},
						"options": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"A": option, "B": option, "C": option, "D": option,
							},
							"required": []string{"A", "B", "C", "D"},
						},
						"answer": map[string]any{
							"type": "string",
							"enum": domain.OptionKeys,
						},
						"explanation": map[string]any{"type": "string"},
					},
					"required": []string{"content", "options", "answer", "explanation"},
				},
			},
		},
		"required": []string{"questions", "insufficient_context"},
	}
}

const quizToolDescription = "Submit the generated multiple-choice quiz."
