package domain

import (
	"context"
	"time"
)

// QuestionType identifies how a question is answered and graded.
type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	FreeText       QuestionType = "free_text"
)

// IsChoice reports whether answers reference option IDs rather than raw text.
func (t QuestionType) IsChoice() bool {
	return t == SingleChoice || t == MultipleChoice
}

// Option is one selectable answer of a choice question.
type Option struct {
	ID        string
	Text      string
	IsCorrect bool
}

// Question is an immutable description of a single quiz question. For choice
// types the option set carries the answer key; for true/false and free text
// CorrectAnswer holds the canonical string.
type Question struct {
	ID            string
	Text          string
	Type          QuestionType
	Options       []Option
	CorrectAnswer string
	Points        int
}

// PointsOrDefault returns the question's point value, defaulting to 1.
func (q *Question) PointsOrDefault() int {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}

// CorrectOptionIDs returns the IDs of all options flagged correct.
func (q *Question) CorrectOptionIDs() []string {
	ids := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		if opt.IsCorrect {
			ids = append(ids, opt.ID)
		}
	}
	return ids
}

// Quiz is the assessment aggregate, loaded read-only at session start and
// discarded at session end.
type Quiz struct {
	ID                 string
	Title              string
	Description        string
	PassingScore       int // percentage, 0-100
	TimeLimitMinutes   int // 0 means untimed
	RandomizeQuestions bool
	ShowFeedbackDuring bool
	Questions          []Question
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Timed reports whether a session over this quiz runs under a countdown.
func (q *Quiz) Timed() bool {
	return q.TimeLimitMinutes > 0
}

// QuestionByID returns the question with the given ID, or nil.
func (q *Quiz) QuestionByID(id string) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i]
		}
	}
	return nil
}

// Validate validates the quiz definition
func (q *Quiz) Validate() error {
	if q.Title == "" {
		return NewInvalidInputError("title is required")
	}
	if q.PassingScore < 0 || q.PassingScore > 100 {
		return NewInvalidInputError("passing score must be between 0 and 100")
	}
	if q.TimeLimitMinutes < 0 {
		return NewInvalidInputError("time limit must not be negative")
	}
	return nil
}

// QuizRepository defines the interface for quiz persistence
type QuizRepository interface {
	// GetQuizByID retrieves the full quiz aggregate including questions and options
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)

	// SaveQuiz persists a new quiz aggregate
	SaveQuiz(ctx context.Context, quiz *Quiz) error
}
