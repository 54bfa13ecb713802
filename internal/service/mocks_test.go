package service

import (
	"context"
	"sync"
	"time"

	"trainhub/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

func (m *MockQuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) UpsertProgress(ctx context.Context, progress *domain.AssignmentProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) GetProgressByUserAndContent(ctx context.Context, userID, contentID string) (*domain.AssignmentProgress, error) {
	args := m.Called(ctx, userID, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssignmentProgress), args.Error(1)
}

func (m *MockProgressRepository) ListProgressByUser(ctx context.Context, userID string) ([]*domain.AssignmentProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AssignmentProgress), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// recordingTrigger captures issuance requests synchronously so tests can
// assert on exactly which submissions earned a certificate.
type recordingTrigger struct {
	mu       sync.Mutex
	requests []domain.CertificateRequest
}

func (t *recordingTrigger) RequestIssuance(req domain.CertificateRequest) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests = append(t.requests, req)
}

func (t *recordingTrigger) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.requests)
}

// staticQuizProvider serves fixed quizzes without any cache machinery.
type staticQuizProvider struct {
	quizzes map[string]*domain.Quiz
}

func (p *staticQuizProvider) GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	return p.quizzes[quizID], nil
}
