package service

import (
	"context"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
)

// ProgressService exposes a learner's training record.
type ProgressService interface {
	ListMyProgress(ctx context.Context, userID string) ([]*dto.ProgressResponse, error)
	GetMyProgressForContent(ctx context.Context, userID, contentID string) (*dto.ProgressResponse, error)
}

type progressService struct {
	repo domain.ProgressRepository
}

// NewProgressService creates a new instance of progressService
func NewProgressService(repo domain.ProgressRepository) ProgressService {
	return &progressService{repo: repo}
}

func (s *progressService) ListMyProgress(ctx context.Context, userID string) ([]*dto.ProgressResponse, error) {
	records, err := s.repo.ListProgressByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.ProgressResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, progressToResponse(record))
	}
	return responses, nil
}

func (s *progressService) GetMyProgressForContent(ctx context.Context, userID, contentID string) (*dto.ProgressResponse, error) {
	record, err := s.repo.GetProgressByUserAndContent(ctx, userID, contentID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.NewNotFoundError("no progress recorded for this content")
	}
	return progressToResponse(record), nil
}

func progressToResponse(record *domain.AssignmentProgress) *dto.ProgressResponse {
	return &dto.ProgressResponse{
		AssignmentID:       record.AssignmentID,
		ContentID:          record.ContentID,
		ContentType:        record.ContentType,
		Status:             string(record.Status),
		ProgressPercentage: record.ProgressPercentage,
		ScorePercentage:    record.ScorePercentage,
		Passed:             record.Passed,
		CompletedAt:        record.CompletedAt,
	}
}
