package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"trainhub/internal/cache"
	"trainhub/internal/domain"
	"trainhub/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// QuizCacheService serves quiz aggregates from Redis, falling back to the
// database. Concurrent misses for the same quiz collapse into one load.
type QuizCacheService struct {
	repo    domain.QuizRepository
	cache   domain.Cache
	ttl     time.Duration
	loaders singleflight.Group
}

// NewQuizCacheService creates a new instance of QuizCacheService
func NewQuizCacheService(repo domain.QuizRepository, c domain.Cache, ttl time.Duration) *QuizCacheService {
	return &QuizCacheService{repo: repo, cache: c, ttl: ttl}
}

// GetQuiz returns the full quiz aggregate, nil when the quiz does not exist.
func (s *QuizCacheService) GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	key := cache.GenerateCacheKey("quiz", "definition", quizID)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var quiz domain.Quiz
		if err := json.Unmarshal([]byte(cached), &quiz); err == nil {
			return &quiz, nil
		}
		logger.Get().Warn("Failed to decode cached quiz, falling back to DB",
			zap.String("quizID", quizID))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("Cache lookup failed, falling back to DB",
			zap.String("quizID", quizID),
			zap.Error(err))
	}

	result, err, _ := s.loaders.Do(key, func() (interface{}, error) {
		quiz, err := s.repo.GetQuizByID(ctx, quizID)
		if err != nil {
			return nil, err
		}
		if quiz == nil {
			return (*domain.Quiz)(nil), nil
		}
		if data, err := json.Marshal(quiz); err == nil {
			if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
				logger.Get().Warn("Failed to cache quiz",
					zap.String("quizID", quizID),
					zap.Error(err))
			}
		}
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Quiz), nil
}

// Invalidate drops a quiz from the cache, used after seeding or edits.
func (s *QuizCacheService) Invalidate(ctx context.Context, quizID string) error {
	return s.cache.Delete(ctx, cache.GenerateCacheKey("quiz", "definition", quizID))
}
