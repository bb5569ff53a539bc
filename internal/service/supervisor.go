package service

import (
	"context"
	"strings"

	"readum/internal/domain"
	"readum/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultMaxRounds = 4

	refinementHeader = "Please regenerate the quiz with the following corrections:"
)

// State is a supervisor loop state. Accepted, Insufficient and Exhausted
// are terminal.
type State int

const (
	StateGenerate State = iota
	StateEvaluate
	StateAccepted
	StateInsufficient
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateGenerate:
		return "GENERATE"
	case StateEvaluate:
		return "EVALUATE"
	case StateAccepted:
		return "ACCEPTED"
	case StateInsufficient:
		return "INSUFFICIENT"
	case StateExhausted:
		return "EXHAUSTED"
	}
	return "UNKNOWN"
}

// Generator and Evaluator are the two agents the supervisor drives.
type Generator interface {
	Generate(ctx context.Context, count int, difficulty domain.Difficulty, instruction string) (domain.Quiz, GenerationOutcome, error)
}

type Evaluator interface {
	Evaluate(ctx context.Context, candidate *domain.Quiz, requestedCount int) (domain.Evaluation, error)
}

// SupervisorResult is the terminal state of one run. Quiz is set for
// Accepted and Exhausted; Issues holds the last evaluation's findings.
type SupervisorResult struct {
	State  State
	Quiz   domain.Quiz
	Rounds int
	Issues []string
}

// Supervisor runs generate and evaluate rounds until a candidate is
// approved, the context is reported insufficient, or maxRounds candidates
// have been generated.
type Supervisor struct {
	generator Generator
	evaluator Evaluator
	maxRounds int
}

func NewSupervisor(generator Generator, evaluator Evaluator, maxRounds int) *Supervisor {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Supervisor{generator: generator, evaluator: evaluator, maxRounds: maxRounds}
}

func (s *Supervisor) Run(ctx context.Context, count int, difficulty domain.Difficulty) (SupervisorResult, error) {
	l := logger.Get()

	state := StateGenerate
	instruction := ""
	round := 1
	var candidate domain.Quiz

	for {
		switch state {
		case StateGenerate:
			if err := ctx.Err(); err != nil {
				return SupervisorResult{State: state, Rounds: round - 1}, domain.NewRAGProcessingError(err)
			}
			quiz, outcome, err := s.generator.Generate(ctx, count, difficulty, instruction)
			if err != nil {
				return SupervisorResult{State: state, Rounds: round}, err
			}
			if outcome == OutcomeInsufficientContext {
				l.Info("supervisor stopped: insufficient context", zap.Int("round", round))
				return SupervisorResult{State: StateInsufficient, Rounds: round, Issues: []string{IssueInsufficientContext}}, nil
			}
			candidate = quiz
			state = StateEvaluate

		case StateEvaluate:
			eval, err := s.evaluator.Evaluate(ctx, &candidate, count)
			if err != nil {
				return SupervisorResult{State: state, Rounds: round}, err
			}
			if eval.Approved {
				l.Info("quiz accepted", zap.Int("round", round))
				return SupervisorResult{State: StateAccepted, Quiz: candidate, Rounds: round}, nil
			}
			if round >= s.maxRounds {
				l.Warn("refinement rounds exhausted, returning last candidate",
					zap.Int("rounds", round),
					zap.Strings("issues", eval.Issues),
				)
				return SupervisorResult{State: StateExhausted, Quiz: candidate, Rounds: round, Issues: eval.Issues}, nil
			}
			l.Info("candidate rejected, refining", zap.Int("round", round), zap.Strings("issues", eval.Issues))
			instruction = RefinementInstruction(eval.Issues)
			round++
			state = StateGenerate

		default:
			return SupervisorResult{State: state, Quiz: candidate, Rounds: round}, nil
		}
	}
}

// RefinementInstruction lists issues as bullets under the correction header.
func RefinementInstruction(issues []string) string {
	var b strings.Builder
	b.WriteString(refinementHeader)
	for _, issue := range issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// AssembleResponse wraps the final quiz with its id and difficulty.
func AssembleResponse(id string, quiz domain.Quiz, difficulty domain.Difficulty) domain.QuizResponse {
	return domain.QuizResponse{ID: id, Preview: quiz, DifficultyValue: string(difficulty)}
}
