package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"readum/internal/config"
	"readum/internal/domain"
	"readum/internal/logger"

	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error", Env: "test"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

// --- Mocks ---

type MockPageLoader struct {
	mock.Mock
}

func (m *MockPageLoader) Load(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

type MockResultStore struct {
	mock.Mock
}

func (m *MockResultStore) Put(ctx context.Context, key string, blob []byte) error {
	return m.Called(ctx, key, blob).Error(0)
}

func (m *MockResultStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// memVectors is an in-memory vector index service. Save writes the chunks
// to index.json so persistence goes through the real filesystem.
type memVectors struct {
	buildErr error
	saveErr  error
	loadErr  error
}

type memIndex struct {
	owner  *memVectors
	Chunks []domain.Chunk `json:"chunks"`
}

func (v *memVectors) EmbedAndIndex(_ context.Context, chunks []domain.Chunk) (domain.IndexHandle, error) {
	if v.buildErr != nil {
		return nil, v.buildErr
	}
	return &memIndex{owner: v, Chunks: append([]domain.Chunk(nil), chunks...)}, nil
}

func (v *memVectors) Load(_ context.Context, path string) (domain.IndexHandle, error) {
	if v.loadErr != nil {
		return nil, v.loadErr
	}
	data, err := os.ReadFile(filepath.Join(path, "index.json"))
	if err != nil {
		return nil, err
	}
	idx := &memIndex{owner: v}
	if err := json.Unmarshal(data, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

func (i *memIndex) Save(_ context.Context, path string) error {
	if i.owner.saveErr != nil {
		return i.owner.saveErr
	}
	data, err := json.Marshal(i)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(path, "index.json"), data, 0o600)
}

func (i *memIndex) Retrieve(_ context.Context, _ string, topK int) ([]domain.Chunk, error) {
	if topK > len(i.Chunks) {
		topK = len(i.Chunks)
	}
	return i.Chunks[:topK], nil
}

// recordingRetriever returns fixed chunks and remembers every query.
type recordingRetriever struct {
	chunks  []domain.Chunk
	err     error
	queries []string
}

func (r *recordingRetriever) Retrieve(_ context.Context, query string) ([]domain.Chunk, error) {
	r.queries = append(r.queries, query)
	return r.chunks, r.err
}

// completionStep is one scripted answer of scriptedCompleter.
type completionStep struct {
	quiz domain.Quiz
	err  error
}

// scriptedCompleter answers calls in order and repeats the last step.
type scriptedCompleter struct {
	mu       sync.Mutex
	steps    []completionStep
	requests []domain.CompletionRequest
}

func (c *scriptedCompleter) CompleteQuiz(_ context.Context, req domain.CompletionRequest) (domain.Quiz, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	if len(c.steps) == 0 {
		return domain.Quiz{}, errors.New("no scripted step")
	}
	i := len(c.requests) - 1
	if i >= len(c.steps) {
		i = len(c.steps) - 1
	}
	return c.steps[i].quiz, c.steps[i].err
}

func (c *scriptedCompleter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

type judgeFunc func(ctx context.Context, quiz domain.Quiz) ([]domain.ExplanationVerdict, error)

func (f judgeFunc) JudgeExplanations(ctx context.Context, quiz domain.Quiz) ([]domain.ExplanationVerdict, error) {
	return f(ctx, quiz)
}

// --- Fixtures ---

func question(i int, answer string) domain.Question {
	return domain.Question{
		Content:     fmt.Sprintf("Which statement about topic %d is true?", i),
		Options:     domain.Options{A: fmt.Sprintf("first %d", i), B: fmt.Sprintf("second %d", i), C: fmt.Sprintf("third %d", i), D: fmt.Sprintf("fourth %d", i)},
		Answer:      answer,
		Explanation: fmt.Sprintf("The passage supports %s for topic %d.", answer, i),
	}
}

func quizOf(t *testing.T, n int) domain.Quiz {
	t.Helper()
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = question(i, domain.OptionKeys[i%len(domain.OptionKeys)])
	}
	q, err := domain.NewQuiz(qs)
	if err != nil {
		t.Fatalf("fixture quiz: %v", err)
	}
	return q
}
