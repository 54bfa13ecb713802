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

// sqlxProgressRepository implements domain.ProgressRepository using sqlx.
type sqlxProgressRepository struct {
	db *sqlx.DB
}

// NewSQLXProgressRepository creates a new instance of sqlxProgressRepository.
func NewSQLXProgressRepository(db *sqlx.DB) domain.ProgressRepository {
	return &sqlxProgressRepository{db: db}
}

// UpsertProgress persists or replaces the (user, content) row via MERGE.
// Last write wins per session; nothing reconciles prior attempts.
func (r *sqlxProgressRepository) UpsertProgress(ctx context.Context, progress *domain.AssignmentProgress) error {
	if progress.ID == "" {
		progress.ID = util.NewULID()
	}
	progress.UpdatedAt = time.Now()

	query := `MERGE INTO training_assignments t
	USING (SELECT :1 user_id, :2 content_id FROM dual) s
	ON (t.user_id = s.user_id AND t.content_id = s.content_id)
	WHEN MATCHED THEN UPDATE SET
		t.assignment_id = :3,
		t.status = :4,
		t.progress_percentage = :5,
		t.score_percentage = :6,
		t.passed = :7,
		t.completed_at = :8,
		t.updated_at = :9
	WHEN NOT MATCHED THEN INSERT
		(id, assignment_id, user_id, content_id, content_type, status, progress_percentage, score_percentage, passed, completed_at, updated_at)
	VALUES (:10, :11, :12, :13, :14, :15, :16, :17, :18, :19, :20)`

	model := fromDomainProgress(progress)
	_, err := r.db.ExecContext(ctx, query,
		model.UserID, model.ContentID,
		model.AssignmentID, model.Status, model.ProgressPercentage,
		model.ScorePercentage, model.Passed, model.CompletedAt, model.UpdatedAt,
		model.ID, model.AssignmentID, model.UserID, model.ContentID, model.ContentType,
		model.Status, model.ProgressPercentage, model.ScorePercentage, model.Passed,
		model.CompletedAt, model.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert progress for user %s content %s: %w", progress.UserID, progress.ContentID, err)
	}
	return nil
}

// GetProgressByUserAndContent returns the progress row, or nil when none exists.
func (r *sqlxProgressRepository) GetProgressByUserAndContent(ctx context.Context, userID, contentID string) (*domain.AssignmentProgress, error) {
	var model models.AssignmentProgress
	query := `SELECT
		id "id",
		assignment_id "assignment_id",
		user_id "user_id",
		content_id "content_id",
		content_type "content_type",
		status "status",
		progress_percentage "progress_percentage",
		score_percentage "score_percentage",
		passed "passed",
		completed_at "completed_at",
		updated_at "updated_at"
	FROM training_assignments
	WHERE user_id = :1 AND content_id = :2`

	if err := r.db.GetContext(ctx, &model, query, userID, contentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return toDomainProgress(&model), nil
}

// ListProgressByUser returns all progress rows for a user, newest first.
func (r *sqlxProgressRepository) ListProgressByUser(ctx context.Context, userID string) ([]*domain.AssignmentProgress, error) {
	var rows []models.AssignmentProgress
	query := `SELECT
		id "id",
		assignment_id "assignment_id",
		user_id "user_id",
		content_id "content_id",
		content_type "content_type",
		status "status",
		progress_percentage "progress_percentage",
		score_percentage "score_percentage",
		passed "passed",
		completed_at "completed_at",
		updated_at "updated_at"
	FROM training_assignments
	WHERE user_id = :1
	ORDER BY updated_at DESC`

	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list progress for user %s: %w", userID, err)
	}

	result := make([]*domain.AssignmentProgress, 0, len(rows))
	for i := range rows {
		result = append(result, toDomainProgress(&rows[i]))
	}
	return result, nil
}

func toDomainProgress(m *models.AssignmentProgress) *domain.AssignmentProgress {
	var completedAt *time.Time
	if m.CompletedAt.Valid {
		completedAt = &m.CompletedAt.Time
	}
	return &domain.AssignmentProgress{
		ID:                 m.ID,
		AssignmentID:       m.AssignmentID.String,
		UserID:             m.UserID,
		ContentID:          m.ContentID,
		ContentType:        m.ContentType,
		Status:             domain.ProgressStatus(m.Status),
		ProgressPercentage: m.ProgressPercentage,
		ScorePercentage:    int(m.ScorePercentage.Int64),
		Passed:             m.Passed.Int64 != 0,
		CompletedAt:        completedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func fromDomainProgress(p *domain.AssignmentProgress) *models.AssignmentProgress {
	var completedAt sql.NullTime
	if p.CompletedAt != nil {
		completedAt = util.TimeToNullTime(*p.CompletedAt)
	}
	passed := sql.NullInt64{Int64: 0, Valid: true}
	if p.Passed {
		passed.Int64 = 1
	}
	return &models.AssignmentProgress{
		ID:                 p.ID,
		AssignmentID:       util.StringToNullString(p.AssignmentID),
		UserID:             p.UserID,
		ContentID:          p.ContentID,
		ContentType:        p.ContentType,
		Status:             string(p.Status),
		ProgressPercentage: p.ProgressPercentage,
		ScorePercentage:    sql.NullInt64{Int64: int64(p.ScorePercentage), Valid: true},
		Passed:             passed,
		CompletedAt:        completedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
