package handler

import (
	"context"
	"time"

	"readum/internal/domain"
	"readum/internal/dto"
	"readum/internal/logger"
	"readum/internal/middleware"
	"readum/internal/service"
	"readum/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests. Errors are returned to
// the fiber error handler, which picks the status code.
type QuizHandler struct {
	quizzes     service.QuizService
	submissions service.SubmissionService
	validator   *validation.Validator
	timeout     time.Duration
}

const DefaultRequestTimeout = 110 * time.Second

// NewQuizHandler builds the handler. Every service call runs under a
// context that expires after requestTimeout; zero or negative falls back
// to DefaultRequestTimeout.
func NewQuizHandler(quizzes service.QuizService, submissions service.SubmissionService, requestTimeout time.Duration) *QuizHandler {
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	return &QuizHandler{
		quizzes:     quizzes,
		submissions: submissions,
		validator:   validation.NewValidator(),
		timeout:     requestTimeout,
	}
}

// requestContext bounds service work by the handler timeout. fiber never
// cancels UserContext on its own.
func (h *QuizHandler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.timeout)
}

// CreateQuiz godoc
// @Summary Generate a quiz
// @Description Generates a multiple-choice quiz from raw text or from the page at a URL
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.CreateQuizRequest true "Quiz source and shape"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateCreateQuizRequest(&req); len(errs) > 0 {
		return errs
	}

	quizReq, err := domain.NewQuizRequest(req.Type, req.Content, req.Difficulty, req.QuestionCount)
	if err != nil {
		return err
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.quizzes.CreateQuiz(ctx, quizReq)
	if err != nil {
		return err
	}

	logger.Get().Debug("quiz returned",
		zap.String("request_id", middleware.RequestID(c)),
		zap.String("quiz_id", resp.ID),
	)
	return c.JSON(dto.NewQuizResponse(resp))
}

// SubmitQuiz godoc
// @Summary Submit quiz answers
// @Description Stores the selected options for a generated quiz and returns the key to fetch the result
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.SubmitQuizRequest true "Quiz and selected options"
// @Success 200 {object} dto.SubmitQuizResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz/submit [post]
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateSubmitRequest(&req); len(errs) > 0 {
		return errs
	}

	preview, err := req.Preview.ToDomain()
	if err != nil {
		return err
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	id, err := h.submissions.Submit(ctx, domain.UserAnswer{
		ID:              req.ID,
		Preview:         preview,
		SelectedOptions: req.SelectedOptions,
		DifficultyValue: req.DifficultyValue,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.SubmitQuizResponse{UUID: id})
}

// GetResult godoc
// @Summary Get a quiz result
// @Description Returns the stored answers for a quiz together with the score
// @Tags quiz
// @Produce json
// @Param uuid path string true "Quiz id returned by submit"
// @Success 200 {object} dto.ResultResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /result/{uuid} [get]
func (h *QuizHandler) GetResult(c *fiber.Ctx) error {
	id := middleware.ValidatedResultID(c)
	if id == "" {
		id = c.Params("uuid")
		if errs := h.validator.ValidateResultID(id); len(errs) > 0 {
			return errs
		}
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.submissions.GetResult(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewResultResponse(result))
}
