package domain

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// QuizType is the kind of content a quiz is generated from.
type QuizType string

const (
	QuizTypeText QuizType = "text"
	QuizTypeURL  QuizType = "url"
)

// Difficulty of the generated questions.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

const (
	MinQuestionCount     = 3
	MaxQuestionCount     = 10
	MinTextContentLength = 100
)

// OptionKeys are the only valid answer letters, in display order.
var OptionKeys = []string{"A", "B", "C", "D"}

// IsValidOption reports whether s is one of A..D.
func IsValidOption(s string) bool {
	switch s {
	case "A", "B", "C", "D":
		return true
	}
	return false
}

func ParseQuizType(s string) (QuizType, bool) {
	switch QuizType(strings.ToLower(strings.TrimSpace(s))) {
	case QuizTypeText:
		return QuizTypeText, true
	case QuizTypeURL:
		return QuizTypeURL, true
	}
	return "", false
}

func ParseDifficulty(s string) (Difficulty, bool) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case DifficultyBeginner:
		return DifficultyBeginner, true
	case DifficultyIntermediate:
		return DifficultyIntermediate, true
	case DifficultyAdvanced:
		return DifficultyAdvanced, true
	}
	return "", false
}

// QuizRequest is a validated request to generate a quiz. Build it with
// NewQuizRequest; the zero value is not valid.
type QuizRequest struct {
	Type          QuizType
	Content       string
	Difficulty    Difficulty
	QuestionCount int
}

// NewQuizRequest validates every field and returns an INVALID_INPUT error
// listing all failures.
func NewQuizRequest(quizType, content, difficulty string, questionCount int) (QuizRequest, error) {
	var errs ValidationErrors

	qt, ok := ParseQuizType(quizType)
	if !ok {
		errs = append(errs, NewInvalidFormatError("type", quizType))
	}

	if strings.TrimSpace(content) == "" {
		errs = append(errs, NewMissingFieldError("content"))
	} else {
		switch qt {
		case QuizTypeText:
			if utf8.RuneCountInString(content) < MinTextContentLength {
				errs = append(errs, ValidationError{
					Field:   "content",
					Code:    CodeOutOfRange,
					Message: fmt.Sprintf("text content must be at least %d characters", MinTextContentLength),
				})
			}
		case QuizTypeURL:
			content = strings.TrimSpace(content)
			if !isHTTPURL(content) {
				errs = append(errs, NewInvalidFormatError("content", content))
			}
		}
	}

	d, ok := ParseDifficulty(difficulty)
	if !ok {
		errs = append(errs, NewInvalidFormatError("difficulty", difficulty))
	}

	if questionCount < MinQuestionCount || questionCount > MaxQuestionCount {
		errs = append(errs, NewOutOfRangeError("questionCount", questionCount, MinQuestionCount, MaxQuestionCount))
	}

	if len(errs) > 0 {
		return QuizRequest{}, newInvalidInput("invalid quiz request", errs)
	}

	return QuizRequest{
		Type:          qt,
		Content:       content,
		Difficulty:    d,
		QuestionCount: questionCount,
	}, nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Chunk is a retrievable slice of source text.
type Chunk struct {
	Text      string
	SourceTag string
}

// Options holds the four answer choices of a question.
type Options struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

// Get returns the option text for a letter, or "" for anything else.
func (o Options) Get(key string) string {
	switch key {
	case "A":
		return o.A
	case "B":
		return o.B
	case "C":
		return o.C
	case "D":
		return o.D
	}
	return ""
}

func (o Options) complete() bool {
	for _, k := range OptionKeys {
		if strings.TrimSpace(o.Get(k)) == "" {
			return false
		}
	}
	return true
}

// Question is one multiple-choice question. The answer letter is kept as
// generated; whether it is one of A..D is judged during evaluation.
type Question struct {
	Content     string  `json:"content"`
	Options     Options `json:"options"`
	Answer      string  `json:"answer"`
	Explanation string  `json:"explanation"`
}

// NewQuestion requires non-empty content and all four options.
func NewQuestion(content string, options Options, answer, explanation string) (Question, error) {
	if strings.TrimSpace(content) == "" {
		return Question{}, NewInvalidInputError("question content cannot be empty")
	}
	if !options.complete() {
		return Question{}, NewInvalidInputError("question must have four non-empty options")
	}
	return Question{
		Content:     strings.TrimSpace(content),
		Options:     options,
		Answer:      strings.ToUpper(strings.TrimSpace(answer)),
		Explanation: strings.TrimSpace(explanation),
	}, nil
}

// Quiz is an ordered list of 3 to 10 questions. Refinement always builds a
// new Quiz; existing values are never edited.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// NewQuiz enforces the question count bounds and copies the slice.
func NewQuiz(questions []Question) (Quiz, error) {
	if len(questions) < MinQuestionCount || len(questions) > MaxQuestionCount {
		return Quiz{}, NewInvalidInputError(
			fmt.Sprintf("quiz must have between %d and %d questions, got %d", MinQuestionCount, MaxQuestionCount, len(questions)))
	}
	qs := make([]Question, len(questions))
	copy(qs, questions)
	return Quiz{Questions: qs}, nil
}

// Len returns the number of questions.
func (q Quiz) Len() int {
	return len(q.Questions)
}

// QuizResponse is what the caller receives for a generated quiz. ID is the
// key later used to store the submitted answers.
type QuizResponse struct {
	ID              string `json:"id"`
	Preview         Quiz   `json:"preview"`
	DifficultyValue string `json:"difficulty_value"`
}

// CompletionRequest is the structured request sent to the completion
// service for one generation round.
type CompletionRequest struct {
	Instruction   string
	QuestionCount int
	Difficulty    Difficulty
	Context       string
}

// Evaluation is the verdict on one candidate quiz.
type Evaluation struct {
	Approved bool
	Issues   []string
}

// ExplanationVerdict is the judgement on one question's explanation.
type ExplanationVerdict struct {
	Index      int
	Consistent bool
	Reason     string
}

func newInvalidInput(message string, errs ValidationErrors) *DomainError {
	return NewError(CodeInvalidInput, message, errs).WithContext("errors", errs)
}
