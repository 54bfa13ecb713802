package models

import (
	"database/sql"
	"time"
)

// Quiz is the DB model for one assessment definition.
type Quiz struct {
	ID                 string         `db:"id"`
	Title              string         `db:"title"`
	Description        sql.NullString `db:"description"`
	PassingScore       int            `db:"passing_score"`
	TimeLimitMinutes   sql.NullInt64  `db:"time_limit_minutes"`
	RandomizeQuestions int            `db:"randomize_questions"`
	ShowFeedbackDuring int            `db:"show_feedback_during"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
	DeletedAt          sql.NullTime   `db:"deleted_at"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Question is the DB model for one question of a quiz.
type Question struct {
	ID            string         `db:"id"`
	QuizID        string         `db:"quiz_id"`
	Text          string         `db:"question_text"`
	QuestionType  string         `db:"question_type"`
	CorrectAnswer sql.NullString `db:"correct_answer"`
	Points        sql.NullInt64  `db:"points"`
	Position      int            `db:"position"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestionOption is the DB model for one option of a choice question.
type QuestionOption struct {
	ID         string    `db:"id"`
	QuestionID string    `db:"question_id"`
	Text       string    `db:"option_text"`
	IsCorrect  int       `db:"is_correct"`
	Position   int       `db:"position"`
	CreatedAt  time.Time `db:"created_at"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}

// AssignmentProgress is the DB model for the per-learner completion sink.
type AssignmentProgress struct {
	ID                 string         `db:"id"`
	AssignmentID       sql.NullString `db:"assignment_id"`
	UserID             string         `db:"user_id"`
	ContentID          string         `db:"content_id"`
	ContentType        string         `db:"content_type"`
	Status             string         `db:"status"`
	ProgressPercentage int            `db:"progress_percentage"`
	ScorePercentage    sql.NullInt64  `db:"score_percentage"`
	Passed             sql.NullInt64  `db:"passed"`
	CompletedAt        sql.NullTime   `db:"completed_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

func (AssignmentProgress) TableName() string {
	return "training_assignments"
}

// Certificate is the DB model for issued completion certificates.
type Certificate struct {
	ID              string         `db:"id"`
	UserID          string         `db:"user_id"`
	RecipientName   sql.NullString `db:"recipient_name"`
	RecipientEmail  sql.NullString `db:"recipient_email"`
	CertificateType string         `db:"certificate_type"`
	Title           string         `db:"title"`
	Description     sql.NullString `db:"description"`
	ContentID       string         `db:"content_id"`
	Score           int            `db:"score"`
	PassingScore    int            `db:"passing_score"`
	CompletionDate  time.Time      `db:"completion_date"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (Certificate) TableName() string {
	return "certificates"
}
