package completion

import (
	"encoding/json"
	"fmt"
	"strings"

	"readum/internal/domain"
)

type rawQuestion struct {
	Content            string          `json:"content"`
	Question           string          `json:"question"`
	Options            json.RawMessage `json:"options"`
	Answer             string          `json:"answer"`
	CorrectAnswer      string          `json:"correctAnswer"`
	CorrectAnswerSnake string          `json:"correct_answer"`
	Explanation        string          `json:"explanation"`
}

type rawQuiz struct {
	Questions           []rawQuestion `json:"questions"`
	InsufficientContext bool          `json:"insufficient_context"`
}

// stripThinking removes a leading <think>...</think> block some local
// models emit before their answer.
func stripThinking(s string) string {
	s = strings.TrimSpace(s)
	start := strings.Index(s, "<think>")
	if start == -1 {
		return s
	}
	end := strings.Index(s, "</think>")
	if end == -1 || end < start {
		return s
	}
	return strings.TrimSpace(s[:start] + s[end+len("</think>"):])
}

// extractJSONObject returns the outermost {...} span of s.
func extractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// parseQuiz turns function arguments or free text into a Quiz. Field names
// seen from real models (question, correctAnswer, list-shaped options) are
// coerced onto the quiz schema.
func parseQuiz(raw string) (domain.Quiz, error) {
	cleaned := stripThinking(raw)
	payload, ok := extractJSONObject(cleaned)
	if !ok {
		return domain.Quiz{}, fmt.Errorf("%w: no JSON object in response", domain.ErrMalformedCompletion)
	}

	var rq rawQuiz
	if err := json.Unmarshal([]byte(payload), &rq); err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrMalformedCompletion, err)
	}

	if rq.InsufficientContext {
		return domain.Quiz{}, domain.ErrInsufficientContext
	}

	questions := make([]domain.Question, 0, len(rq.Questions))
	for i, r := range rq.Questions {
		q, err := r.toQuestion()
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("%w: question %d: %v", domain.ErrMalformedCompletion, i, err)
		}
		questions = append(questions, q)
	}

	quiz, err := domain.NewQuiz(questions)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrMalformedCompletion, err)
	}
	return quiz, nil
}

func (r rawQuestion) toQuestion() (domain.Question, error) {
	content := firstNonEmpty(r.Content, r.Question)
	answer := firstNonEmpty(r.Answer, r.CorrectAnswer, r.CorrectAnswerSnake)

	opts, err := decodeOptions(r.Options)
	if err != nil {
		return domain.Question{}, err
	}
	return domain.NewQuestion(content, opts, normaliseAnswer(answer), r.Explanation)
}

func decodeOptions(raw json.RawMessage) (domain.Options, error) {
	if len(raw) == 0 {
		return domain.Options{}, fmt.Errorf("missing options")
	}

	var byKey map[string]string
	if err := json.Unmarshal(raw, &byKey); err == nil {
		upper := make(map[string]string, len(byKey))
		for k, v := range byKey {
			upper[strings.ToUpper(strings.TrimSpace(k))] = v
		}
		return domain.Options{A: upper["A"], B: upper["B"], C: upper["C"], D: upper["D"]}, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) != len(domain.OptionKeys) {
			return domain.Options{}, fmt.Errorf("expected 4 options, got %d", len(list))
		}
		return domain.Options{A: stripLabel(list[0]), B: stripLabel(list[1]), C: stripLabel(list[2]), D: stripLabel(list[3])}, nil
	}

	return domain.Options{}, fmt.Errorf("options must be an object or a list")
}

// stripLabel drops a leading "A. " or "B) " style label.
func stripLabel(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && domain.IsValidOption(strings.ToUpper(s[:1])) && (s[1] == '.' || s[1] == ')' || s[1] == ':') {
		return strings.TrimSpace(s[2:])
	}
	return s
}

// normaliseAnswer reduces "b", "B.", "(B)" or "B) text" to "B". Anything
// else is returned unchanged for the evaluator to flag.
func normaliseAnswer(s string) string {
	t := strings.ToUpper(strings.TrimSpace(s))
	t = strings.TrimLeft(t, "(")
	if len(t) >= 1 && domain.IsValidOption(t[:1]) && (len(t) == 1 || strings.ContainsRune(".):", rune(t[1]))) {
		return t[:1]
	}
	return strings.TrimSpace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
