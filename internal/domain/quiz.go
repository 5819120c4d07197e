package domain

import (
	"fmt"
	"time"
)

// Difficulty levels a question may carry.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const questionOptionCount = 4

// Question is a single multiple-choice question. Immutable once created.
type Question struct {
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation"`
}

// Validate checks the structural invariants of a question: exactly four
// distinct options, the answer being one of them, and a known difficulty.
func (q *Question) Validate() error {
	if q.Text == "" {
		return NewFormatError("question text is empty")
	}
	if len(q.Options) != questionOptionCount {
		return NewFormatError(fmt.Sprintf("question %q has %d options, want %d", q.Text, len(q.Options), questionOptionCount))
	}
	seen := make(map[string]struct{}, len(q.Options))
	answerFound := false
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return NewFormatError(fmt.Sprintf("question %q has duplicate option %q", q.Text, opt))
		}
		seen[opt] = struct{}{}
		if opt == q.Answer {
			answerFound = true
		}
	}
	if !answerFound {
		return NewFormatError(fmt.Sprintf("question %q answer is not one of its options", q.Text))
	}
	switch q.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return NewFormatError(fmt.Sprintf("question %q has unknown difficulty %q", q.Text, q.Difficulty))
	}
	return nil
}

// Quiz is the structured shape the quiz model call must yield.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// Validate checks every question. An empty quiz is invalid: the generation
// step either produces a complete quiz or fails.
func (q *Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return NewFormatError("quiz has no questions")
	}
	for i := range q.Questions {
		if err := q.Questions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// QuizRecord is the persisted unit of work, one per distinct source URL.
// Records are created once, at successful completion of the full pipeline,
// and never mutated or regenerated afterwards.
type QuizRecord struct {
	ID             int64
	URL            string
	Title          string
	ArticlePreview string
	Questions      []Question
	RelatedTopics  []string
	Summary        string
	RawHTML        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Article is the result of extracting a source page.
type Article struct {
	Title   string
	Content string
	RawHTML string
}
