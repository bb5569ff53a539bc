package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"readum/internal/domain"
	"readum/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const judgePromptHeader = `You review multiple-choice questions. For each question decide whether the
explanation actually supports the marked answer and not a different option.
Respond with ONLY a JSON object in the following format:
{"verdicts": [{"index": 0, "consistent": true, "reason": "short reason"}]}

Questions:
`

// LLMExplanationJudge asks a language model whether each explanation
// supports its answer.
type LLMExplanationJudge struct {
	llm llms.Model
}

var _ domain.ExplanationJudge = (*LLMExplanationJudge)(nil)

func NewLLMExplanationJudge(llm llms.Model) *LLMExplanationJudge {
	return &LLMExplanationJudge{llm: llm}
}

func (j *LLMExplanationJudge) JudgeExplanations(ctx context.Context, quiz domain.Quiz) ([]domain.ExplanationVerdict, error) {
	l := logger.Get()

	var b strings.Builder
	b.WriteString(judgePromptHeader)
	for i, q := range quiz.Questions {
		fmt.Fprintf(&b, "\n[%d] %s\nA. %s\nB. %s\nC. %s\nD. %s\nMarked answer: %s\nExplanation: %s\n",
			i, q.Content, q.Options.A, q.Options.B, q.Options.C, q.Options.D, q.Answer, q.Explanation)
	}

	raw, err := llms.GenerateFromSinglePrompt(ctx, j.llm, b.String(), llms.WithTemperature(0.1))
	if err != nil {
		return nil, fmt.Errorf("judge call failed: %w", err)
	}

	payload, ok := extractJSONObject(stripThinking(raw))
	if !ok {
		l.Error("no JSON object in judge response", zap.String("raw_response", raw))
		return nil, fmt.Errorf("%w: no JSON object in judge response", domain.ErrMalformedCompletion)
	}

	var resp struct {
		Verdicts []struct {
			Index      int    `json:"index"`
			Consistent bool   `json:"consistent"`
			Reason     string `json:"reason"`
		} `json:"verdicts"`
	}
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCompletion, err)
	}

	// Questions the judge skipped count as consistent.
	verdicts := make([]domain.ExplanationVerdict, quiz.Len())
	for i := range verdicts {
		verdicts[i] = domain.ExplanationVerdict{Index: i, Consistent: true}
	}
	for _, v := range resp.Verdicts {
		if v.Index < 0 || v.Index >= len(verdicts) {
			continue
		}
		verdicts[v.Index] = domain.ExplanationVerdict{Index: v.Index, Consistent: v.Consistent, Reason: v.Reason}
	}
	return verdicts, nil
}
