package domain

import (
	"fmt"
	"math"
	"strings"
)

// UserAnswer is a submitted set of choices for a generated quiz.
type UserAnswer struct {
	ID              string   `json:"id"`
	Preview         Quiz     `json:"preview"`
	SelectedOptions []string `json:"selected_options"`
	DifficultyValue string   `json:"difficulty_value"`
}

// NewUserAnswer checks that there is exactly one selection per question and
// that every selection is one of A..D.
func NewUserAnswer(id string, preview Quiz, selected []string, difficulty string) (UserAnswer, error) {
	var errs ValidationErrors

	if strings.TrimSpace(id) == "" {
		errs = append(errs, NewMissingFieldError("id"))
	}
	if preview.Len() == 0 {
		errs = append(errs, NewMissingFieldError("preview"))
	}
	if len(selected) != preview.Len() {
		errs = append(errs, ValidationError{
			Field:   "selected_options",
			Code:    CodeOutOfRange,
			Message: fmt.Sprintf("selected options count (%d) does not match question count (%d)", len(selected), preview.Len()),
			Value:   len(selected),
		})
	}
	for i, opt := range selected {
		if !IsValidOption(opt) {
			errs = append(errs, NewInvalidFormatError(fmt.Sprintf("selected_options[%d]", i), opt))
		}
	}

	if len(errs) > 0 {
		return UserAnswer{}, newInvalidInput("invalid user answer", errs)
	}

	sel := make([]string, len(selected))
	copy(sel, selected)
	return UserAnswer{
		ID:              id,
		Preview:         preview,
		SelectedOptions: sel,
		DifficultyValue: difficulty,
	}, nil
}

// ScoreTier buckets a percentage into a feedback message.
type ScoreTier string

const (
	TierPerfect          ScoreTier = "PERFECT"
	TierExcellent        ScoreTier = "EXCELLENT"
	TierGood             ScoreTier = "GOOD"
	TierNeedsImprovement ScoreTier = "NEEDS_IMPROVEMENT"
)

var tierMessages = map[ScoreTier]string{
	TierPerfect:          "Perfect score! You fully understood the material.",
	TierExcellent:        "Excellent! You grasped most of the key points.",
	TierGood:             "Good effort. Review the explanations to fill the gaps.",
	TierNeedsImprovement: "Keep going. Re-read the material and try again.",
}

// Score summarises how many selections match the answer key.
type Score struct {
	Correct    int       `json:"correct"`
	Total      int       `json:"total"`
	Percentage int       `json:"percentage"`
	Tier       ScoreTier `json:"tier"`
	Message    string    `json:"message"`
}

// Score grades the submission against the preview's answers.
func (u UserAnswer) Score() Score {
	total := u.Preview.Len()
	correct := 0
	for i, q := range u.Preview.Questions {
		if i < len(u.SelectedOptions) && u.SelectedOptions[i] == q.Answer {
			correct++
		}
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(correct) / float64(total) * 100))
	}

	tier := tierFor(percentage)
	return Score{
		Correct:    correct,
		Total:      total,
		Percentage: percentage,
		Tier:       tier,
		Message:    tierMessages[tier],
	}
}

func tierFor(percentage int) ScoreTier {
	switch {
	case percentage == 100:
		return TierPerfect
	case percentage >= 66:
		return TierExcellent
	case percentage >= 33:
		return TierGood
	default:
		return TierNeedsImprovement
	}
}

// QuizResult is a stored submission together with its grade.
type QuizResult struct {
	Answer UserAnswer `json:"answer"`
	Score  Score      `json:"score"`
}
