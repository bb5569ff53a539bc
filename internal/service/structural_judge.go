package service

import (
	"context"
	"regexp"
	"strings"

	"readum/internal/domain"
)

var answerMention = regexp.MustCompile(`\b(?i:answer)\s*(?:(?i:is)\s*)?:?\s*\(?([A-D])\b`)

// StructuralExplanationJudge flags explanations that are empty or that
// name a different option than the marked answer. It needs no model call.
type StructuralExplanationJudge struct{}

var _ domain.ExplanationJudge = StructuralExplanationJudge{}

func (StructuralExplanationJudge) JudgeExplanations(_ context.Context, quiz domain.Quiz) ([]domain.ExplanationVerdict, error) {
	verdicts := make([]domain.ExplanationVerdict, quiz.Len())
	for i, q := range quiz.Questions {
		verdicts[i] = domain.ExplanationVerdict{Index: i, Consistent: true}

		if strings.TrimSpace(q.Explanation) == "" {
			verdicts[i] = domain.ExplanationVerdict{Index: i, Reason: "explanation is empty"}
			continue
		}
		if m := answerMention.FindStringSubmatch(q.Explanation); m != nil && !strings.EqualFold(m[1], q.Answer) {
			verdicts[i] = domain.ExplanationVerdict{Index: i, Reason: "explanation names option " + strings.ToUpper(m[1])}
		}
	}
	return verdicts, nil
}
