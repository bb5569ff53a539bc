package dto

import "readum/internal/domain"

// CreateQuizRequest is the body of POST /api/quiz.
// @Description Source content and shape of the quiz to generate
type CreateQuizRequest struct {
	Type          string `json:"type" example:"text"`
	Content       string `json:"content" example:"Photosynthesis is the process by which green plants..."`
	Difficulty    string `json:"difficulty" example:"intermediate"`
	QuestionCount int    `json:"questionCount" example:"5"`
}

// OptionsResponse holds the four answer choices keyed by letter.
type OptionsResponse struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

// QuestionResponse is one multiple-choice question.
type QuestionResponse struct {
	Content     string          `json:"content"`
	Options     OptionsResponse `json:"options"`
	Answer      string          `json:"answer" example:"B"`
	Explanation string          `json:"explanation"`
}

// QuizPreview is the question list shown to the user and echoed back on
// submission.
type QuizPreview struct {
	Questions []QuestionResponse `json:"questions"`
}

// QuizResponse represents a generated quiz in the API response
// @Description Generated quiz with the id used to submit answers
type QuizResponse struct {
	ID              string      `json:"id" example:"3f2a9c0e5b7d4e1a8c6f0b2d4e6a8c0e"`
	Preview         QuizPreview `json:"preview"`
	DifficultyValue string      `json:"difficulty_value" example:"intermediate"`
}

// SubmitQuizRequest is the body of POST /api/quiz/submit.
// @Description The quiz as received plus one selected letter per question
type SubmitQuizRequest struct {
	ID              string      `json:"id"`
	Preview         QuizPreview `json:"preview"`
	SelectedOptions []string    `json:"selected_options" example:"A,C,B"`
	DifficultyValue string      `json:"difficulty_value" example:"intermediate"`
}

// SubmitQuizResponse carries the key under which the answers were stored.
type SubmitQuizResponse struct {
	UUID string `json:"uuid"`
}

type ScoreResponse struct {
	Correct    int    `json:"correct"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	Tier       string `json:"tier" example:"EXCELLENT"`
	Message    string `json:"message"`
}

// ResultResponse is a stored submission with its score.
// @Description Stored answers and their score
type ResultResponse struct {
	ID              string        `json:"id"`
	Preview         QuizPreview   `json:"preview"`
	SelectedOptions []string      `json:"selected_options"`
	DifficultyValue string        `json:"difficulty_value"`
	Score           ScoreResponse `json:"score"`
}

type HealthResponse struct {
	Status string `json:"status" example:"OK"`
}

func NewQuizPreview(q domain.Quiz) QuizPreview {
	questions := make([]QuestionResponse, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = QuestionResponse{
			Content: question.Content,
			Options: OptionsResponse{
				A: question.Options.A,
				B: question.Options.B,
				C: question.Options.C,
				D: question.Options.D,
			},
			Answer:      question.Answer,
			Explanation: question.Explanation,
		}
	}
	return QuizPreview{Questions: questions}
}

// ToDomain rebuilds the quiz, enforcing the question count bounds.
func (p QuizPreview) ToDomain() (domain.Quiz, error) {
	questions := make([]domain.Question, len(p.Questions))
	for i, q := range p.Questions {
		questions[i] = domain.Question{
			Content:     q.Content,
			Options:     domain.Options{A: q.Options.A, B: q.Options.B, C: q.Options.C, D: q.Options.D},
			Answer:      q.Answer,
			Explanation: q.Explanation,
		}
	}
	return domain.NewQuiz(questions)
}

func NewQuizResponse(resp *domain.QuizResponse) QuizResponse {
	return QuizResponse{
		ID:              resp.ID,
		Preview:         NewQuizPreview(resp.Preview),
		DifficultyValue: resp.DifficultyValue,
	}
}

func NewResultResponse(result *domain.QuizResult) ResultResponse {
	return ResultResponse{
		ID:              result.Answer.ID,
		Preview:         NewQuizPreview(result.Answer.Preview),
		SelectedOptions: result.Answer.SelectedOptions,
		DifficultyValue: result.Answer.DifficultyValue,
		Score: ScoreResponse{
			Correct:    result.Score.Correct,
			Total:      result.Score.Total,
			Percentage: result.Score.Percentage,
			Tier:       string(result.Score.Tier),
			Message:    result.Score.Message,
		},
	}
}
