package service

import (
	"context"
	"time"

	"readum/internal/config"
	"readum/internal/domain"
	"readum/internal/logger"
	"readum/internal/util"

	"go.uber.org/zap"
)

// QuizService creates quizzes from user content.
type QuizService interface {
	CreateQuiz(ctx context.Context, req domain.QuizRequest) (*domain.QuizResponse, error)
}

type quizService struct {
	preparer  *DocumentPreparer
	indexes   *IndexManager
	completer domain.StructuredCompleter
	judge     domain.ExplanationJudge
	topK      int
	maxRounds int
	newID     func() string
}

func NewQuizService(
	preparer *DocumentPreparer,
	indexes *IndexManager,
	completer domain.StructuredCompleter,
	judge domain.ExplanationJudge,
	ragCfg config.RAGConfig,
) QuizService {
	topK := ragCfg.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &quizService{
		preparer:  preparer,
		indexes:   indexes,
		completer: completer,
		judge:     judge,
		topK:      topK,
		maxRounds: ragCfg.MaxRounds,
		newID:     util.NewQuizID,
	}
}

// CreateQuiz prepares the content, runs the supervisor over a fresh index
// and assembles the response. The index directory is gone when it returns.
func (s *quizService) CreateQuiz(ctx context.Context, req domain.QuizRequest) (*domain.QuizResponse, error) {
	l := logger.Get()
	start := time.Now()
	id := s.newID()

	chunks, err := s.preparer.Prepare(ctx, req)
	if err != nil {
		l.Warn("document preparation failed", zap.String("quiz_id", id), zap.Error(err))
		return nil, err
	}

	var result SupervisorResult
	err = s.indexes.WithEphemeralIndex(ctx, id, chunks, s.topK, func(ctx context.Context, retriever domain.Retriever) error {
		generator := NewGenerationAgent(s.completer, NewPromptBuilder(retriever))
		supervisor := NewSupervisor(generator, NewEvaluationAgent(s.judge), s.maxRounds)

		var runErr error
		result, runErr = supervisor.Run(ctx, req.QuestionCount, req.Difficulty)
		return runErr
	})
	if err != nil {
		l.Error("quiz creation failed", zap.String("quiz_id", id), zap.Error(err))
		return nil, err
	}

	if result.State == StateInsufficient {
		return nil, domain.NewInsufficientContextError()
	}

	resp := AssembleResponse(id, result.Quiz, req.Difficulty)
	l.Info("quiz created",
		zap.String("quiz_id", id),
		zap.String("state", result.State.String()),
		zap.Int("rounds", result.Rounds),
		zap.Int("questions", resp.Preview.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &resp, nil
}
