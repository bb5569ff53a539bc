package service

import (
	"context"
	"encoding/json"
	"errors"

	"readum/internal/domain"
	"readum/internal/logger"

	"go.uber.org/zap"
)

// SubmissionService stores submitted answers and scores them on read.
type SubmissionService interface {
	Submit(ctx context.Context, answer domain.UserAnswer) (string, error)
	GetResult(ctx context.Context, id string) (*domain.QuizResult, error)
}

type submissionService struct {
	store domain.ResultStore
}

func NewSubmissionService(store domain.ResultStore) SubmissionService {
	return &submissionService{store: store}
}

// Submit stores answer under its quiz id and returns that id.
func (s *submissionService) Submit(ctx context.Context, answer domain.UserAnswer) (string, error) {
	answer, err := domain.NewUserAnswer(answer.ID, answer.Preview, answer.SelectedOptions, answer.DifficultyValue)
	if err != nil {
		return "", err
	}

	blob, err := json.Marshal(answer)
	if err != nil {
		return "", domain.NewInternalError("failed to encode answer", err)
	}
	if err := s.store.Put(ctx, answer.ID, blob); err != nil {
		logger.Get().Error("failed to store answer", zap.String("quiz_id", answer.ID), zap.Error(err))
		return "", domain.NewStorageError("failed to store answer", err)
	}

	logger.Get().Info("answer stored", zap.String("quiz_id", answer.ID), zap.Int("answers", len(answer.SelectedOptions)))
	return answer.ID, nil
}

func (s *submissionService) GetResult(ctx context.Context, id string) (*domain.QuizResult, error) {
	blob, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrResultNotFound) {
			return nil, domain.NewResultNotFoundError(id)
		}
		logger.Get().Error("failed to read result", zap.String("quiz_id", id), zap.Error(err))
		return nil, domain.NewStorageError("failed to read result", err)
	}

	var answer domain.UserAnswer
	if err := json.Unmarshal(blob, &answer); err != nil {
		return nil, domain.NewStorageError("stored result is corrupt", err)
	}

	return &domain.QuizResult{Answer: answer, Score: answer.Score()}, nil
}
