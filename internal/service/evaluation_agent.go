package service

import (
	"context"
	"fmt"
	"strings"

	"readum/internal/domain"
)

const IssueInsufficientContext = "insufficient context"

// EvaluationAgent reviews candidate quizzes. Every rubric check runs on
// every call so the issue list is complete after one pass.
type EvaluationAgent struct {
	judge domain.ExplanationJudge
}

func NewEvaluationAgent(judge domain.ExplanationJudge) *EvaluationAgent {
	return &EvaluationAgent{judge: judge}
}

// Evaluate checks, in order: question count, answer letters, explanation
// consistency, and duplicates across the quiz. A nil candidate stands for
// the insufficient context outcome.
func (a *EvaluationAgent) Evaluate(ctx context.Context, candidate *domain.Quiz, requestedCount int) (domain.Evaluation, error) {
	if candidate == nil {
		return domain.Evaluation{Approved: false, Issues: []string{IssueInsufficientContext}}, nil
	}

	var issues []string

	if n := candidate.Len(); n != requestedCount {
		issues = append(issues, fmt.Sprintf("expected %d questions but got %d", requestedCount, n))
	}

	for i, q := range candidate.Questions {
		if !domain.IsValidOption(q.Answer) {
			issues = append(issues, fmt.Sprintf("question %d: answer %q is not one of A, B, C, D", i+1, q.Answer))
		}
	}

	verdicts, err := a.judge.JudgeExplanations(ctx, *candidate)
	if err != nil {
		return domain.Evaluation{}, domain.NewRAGProcessingError(domain.NewExplanationJudgeError(err))
	}
	for _, v := range verdicts {
		if v.Consistent || v.Index < 0 || v.Index >= candidate.Len() {
			continue
		}
		msg := fmt.Sprintf("question %d: explanation does not support answer %s", v.Index+1, candidate.Questions[v.Index].Answer)
		if v.Reason != "" {
			msg += " (" + v.Reason + ")"
		}
		issues = append(issues, msg)
	}

	issues = append(issues, duplicateIssues(candidate.Questions)...)

	return domain.Evaluation{Approved: len(issues) == 0, Issues: issues}, nil
}

func duplicateIssues(questions []domain.Question) []string {
	var issues []string
	seen := make(map[string]int, len(questions))
	for i, q := range questions {
		key := normaliseText(q.Content)
		if first, ok := seen[key]; ok {
			issues = append(issues, fmt.Sprintf("question %d duplicates question %d", i+1, first+1))
			continue
		}
		seen[key] = i

		opts := make(map[string]bool, len(domain.OptionKeys))
		for _, k := range domain.OptionKeys {
			o := normaliseText(q.Options.Get(k))
			if opts[o] {
				issues = append(issues, fmt.Sprintf("question %d has duplicate options", i+1))
				break
			}
			opts[o] = true
		}
	}
	return issues
}

func normaliseText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
