package validation

import (
	"fmt"
	"strings"

	"readum/internal/domain"
	"readum/internal/dto"
	"readum/internal/util"
)

// Validator checks request shapes before they reach the services. Field
// semantics such as content length live in the domain constructors.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateResultID checks the :uuid path parameter.
func (v *Validator) ValidateResultID(id string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError("uuid"))
	} else if !util.IsQuizID(id) {
		errors = append(errors, domain.NewInvalidFormatError("uuid", id))
	}

	return errors
}

// ValidateCreateQuizRequest only rejects what cannot be a quiz request at
// all; NewQuizRequest reports the rest.
func (v *Validator) ValidateCreateQuizRequest(req *dto.CreateQuizRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Type) == "" {
		errors = append(errors, domain.NewMissingFieldError("type"))
	}
	if strings.TrimSpace(req.Difficulty) == "" {
		errors = append(errors, domain.NewMissingFieldError("difficulty"))
	}

	return errors
}

// ValidateSubmitRequest checks the echoed quiz and the selected letters.
func (v *Validator) ValidateSubmitRequest(req *dto.SubmitQuizRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.ID) == "" {
		errors = append(errors, domain.NewMissingFieldError("id"))
	} else if !util.IsQuizID(req.ID) {
		errors = append(errors, domain.NewInvalidFormatError("id", req.ID))
	}

	n := len(req.Preview.Questions)
	if n < domain.MinQuestionCount || n > domain.MaxQuestionCount {
		errors = append(errors, domain.NewOutOfRangeError("preview.questions", n, domain.MinQuestionCount, domain.MaxQuestionCount))
	}
	for i, q := range req.Preview.Questions {
		if !domain.IsValidOption(q.Answer) {
			errors = append(errors, domain.NewInvalidFormatError(fmt.Sprintf("preview.questions[%d].answer", i), q.Answer))
		}
	}

	if len(req.SelectedOptions) == 0 {
		errors = append(errors, domain.NewMissingFieldError("selected_options"))
	}

	if req.DifficultyValue != "" {
		if _, ok := domain.ParseDifficulty(req.DifficultyValue); !ok {
			errors = append(errors, domain.NewInvalidFormatError("difficulty_value", req.DifficultyValue))
		}
	}

	return errors
}
