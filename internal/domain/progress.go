package domain

import (
	"context"
	"time"
)

// ProgressStatus is the lifecycle state of a training assignment.
type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

// AssignmentProgress is one row of the per-learner completion sink: one row
// per (user, content) pair, upserted on write.
type AssignmentProgress struct {
	ID                 string
	AssignmentID       string // optional, empty for self-started sessions
	UserID             string
	ContentID          string
	ContentType        string // always "quiz" for this service
	Status             ProgressStatus
	ProgressPercentage int
	ScorePercentage    int
	Passed             bool
	CompletedAt        *time.Time
	UpdatedAt          time.Time
}

// ProgressRepository is the persistence port for the assignment/progress sink.
type ProgressRepository interface {
	// UpsertProgress persists or replaces the (user, content) progress row.
	UpsertProgress(ctx context.Context, progress *AssignmentProgress) error

	// GetProgressByUserAndContent returns the progress row, or nil when none exists.
	GetProgressByUserAndContent(ctx context.Context, userID, contentID string) (*AssignmentProgress, error)

	// ListProgressByUser returns all progress rows for a user, newest first.
	ListProgressByUser(ctx context.Context, userID string) ([]*AssignmentProgress, error)
}
