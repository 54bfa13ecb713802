package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"trainhub/internal/domain"
	"trainhub/internal/repository/models"
	"trainhub/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// GetQuizByID loads the full aggregate: quiz row, questions in position
// order, and options in position order. Returns (nil, nil) when no quiz
// exists, mirroring sql.ErrNoRows.
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var modelQuiz models.Quiz
	quizQuery := `SELECT
		id "id",
		title "title",
		description "description",
		passing_score "passing_score",
		time_limit_minutes "time_limit_minutes",
		randomize_questions "randomize_questions",
		show_feedback_during "show_feedback_during",
		created_at "created_at",
		updated_at "updated_at",
		deleted_at "deleted_at"
	FROM quizzes
	WHERE id = :1
	AND deleted_at IS NULL`

	if err := a.db.GetContext(ctx, &modelQuiz, quizQuery, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz %s: %w", id, err)
	}

	var modelQuestions []models.Question
	questionQuery := `SELECT
		id "id",
		quiz_id "quiz_id",
		question_text "question_text",
		question_type "question_type",
		correct_answer "correct_answer",
		points "points",
		position "position",
		created_at "created_at",
		updated_at "updated_at"
	FROM questions
	WHERE quiz_id = :1
	ORDER BY position`

	if err := a.db.SelectContext(ctx, &modelQuestions, questionQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get questions for quiz %s: %w", id, err)
	}

	quiz := toDomainQuiz(&modelQuiz)
	for i := range modelQuestions {
		question := toDomainQuestion(&modelQuestions[i])

		var modelOptions []models.QuestionOption
		optionQuery := `SELECT
			id "id",
			question_id "question_id",
			option_text "option_text",
			is_correct "is_correct",
			position "position",
			created_at "created_at"
		FROM question_options
		WHERE question_id = :1
		ORDER BY position`

		if err := a.db.SelectContext(ctx, &modelOptions, optionQuery, question.ID); err != nil {
			return nil, fmt.Errorf("failed to get options for question %s: %w", question.ID, err)
		}
		for j := range modelOptions {
			question.Options = append(question.Options, domain.Option{
				ID:        modelOptions[j].ID,
				Text:      modelOptions[j].Text,
				IsCorrect: modelOptions[j].IsCorrect != 0,
			})
		}

		quiz.Questions = append(quiz.Questions, question)
	}

	return quiz, nil
}

// SaveQuiz persists a new quiz aggregate. Used by the seed tool; the API
// server treats quiz definitions as read-only.
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if err := quiz.Validate(); err != nil {
		return err
	}
	now := time.Now()
	if quiz.ID == "" {
		quiz.ID = util.NewULID()
	}

	quizInsert := `INSERT INTO quizzes
		(id, title, description, passing_score, time_limit_minutes, randomize_questions, show_feedback_during, created_at, updated_at)
	VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`

	if _, err := a.db.ExecContext(ctx, quizInsert,
		quiz.ID,
		quiz.Title,
		util.StringToNullString(quiz.Description),
		quiz.PassingScore,
		quiz.TimeLimitMinutes,
		boolToInt(quiz.RandomizeQuestions),
		boolToInt(quiz.ShowFeedbackDuring),
		now,
		now,
	); err != nil {
		return fmt.Errorf("failed to insert quiz: %w", err)
	}

	questionInsert := `INSERT INTO questions
		(id, quiz_id, question_text, question_type, correct_answer, points, position, created_at, updated_at)
	VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`
	optionInsert := `INSERT INTO question_options
		(id, question_id, option_text, is_correct, position, created_at)
	VALUES (:1, :2, :3, :4, :5, :6)`

	for i := range quiz.Questions {
		question := &quiz.Questions[i]
		if question.ID == "" {
			question.ID = util.NewULID()
		}
		if _, err := a.db.ExecContext(ctx, questionInsert,
			question.ID,
			quiz.ID,
			question.Text,
			string(question.Type),
			util.StringToNullString(question.CorrectAnswer),
			question.PointsOrDefault(),
			i,
			now,
			now,
		); err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}

		for j := range question.Options {
			option := &question.Options[j]
			if option.ID == "" {
				option.ID = util.NewULID()
			}
			if _, err := a.db.ExecContext(ctx, optionInsert,
				option.ID,
				question.ID,
				option.Text,
				boolToInt(option.IsCorrect),
				j,
				now,
			); err != nil {
				return fmt.Errorf("failed to insert option: %w", err)
			}
		}
	}

	return nil
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	return &domain.Quiz{
		ID:                 m.ID,
		Title:              m.Title,
		Description:        m.Description.String,
		PassingScore:       m.PassingScore,
		TimeLimitMinutes:   int(m.TimeLimitMinutes.Int64),
		RandomizeQuestions: m.RandomizeQuestions != 0,
		ShowFeedbackDuring: m.ShowFeedbackDuring != 0,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toDomainQuestion(m *models.Question) domain.Question {
	return domain.Question{
		ID:            m.ID,
		Text:          m.Text,
		Type:          domain.QuestionType(m.QuestionType),
		CorrectAnswer: m.CorrectAnswer.String,
		Points:        int(m.Points.Int64),
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
