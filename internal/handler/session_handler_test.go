package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/handler"
	"trainhub/internal/middleware"
	"trainhub/internal/service"
	"trainhub/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIdentity = dto.UserIdentity{ID: "user-1", Name: "Dana Kim", Email: "dana@hotel.example"}

type stubQuizProvider struct {
	quizzes map[string]*domain.Quiz
}

func (s *stubQuizProvider) GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error) {
	return s.quizzes[quizID], nil
}

type stubProgressRepo struct {
	upserts int
	fail    bool
	row     *domain.AssignmentProgress
}

func (s *stubProgressRepo) UpsertProgress(ctx context.Context, p *domain.AssignmentProgress) error {
	s.upserts++
	if s.fail && p.Status == domain.StatusCompleted {
		return assert.AnError
	}
	return nil
}

func (s *stubProgressRepo) GetProgressByUserAndContent(ctx context.Context, userID, contentID string) (*domain.AssignmentProgress, error) {
	if s.row != nil && s.row.ContentID == contentID {
		return s.row, nil
	}
	return nil, nil
}

func (s *stubProgressRepo) ListProgressByUser(ctx context.Context, userID string) ([]*domain.AssignmentProgress, error) {
	return nil, nil
}

type noopTrigger struct{}

func (noopTrigger) RequestIssuance(req domain.CertificateRequest) {}

// testAuth injects a fixed identity, standing in for the JWT middleware.
func testAuth(c *fiber.Ctx) error {
	c.Locals(middleware.UserIDKey, testIdentity.ID)
	c.Locals(middleware.IdentityKey, testIdentity)
	return c.Next()
}

func buildQuiz() *domain.Quiz {
	q1 := util.NewULID()
	q2 := util.NewULID()
	return &domain.Quiz{
		ID:           util.NewULID(),
		Title:        "Front Desk Emergency Procedures",
		PassingScore: 70,
		Questions: []domain.Question{
			{
				ID:   q1,
				Text: "Where is the main fire panel?",
				Type: domain.SingleChoice,
				Options: []domain.Option{
					{ID: util.NewULID(), Text: "Lobby back office", IsCorrect: true},
					{ID: util.NewULID(), Text: "Pool deck"},
				},
			},
			{
				ID:            q2,
				Text:          "Guests must use elevators during a fire.",
				Type:          domain.TrueFalse,
				CorrectAnswer: "false",
			},
		},
	}
}

func setupApp(quiz *domain.Quiz, progressRepo domain.ProgressRepository) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})

	provider := &stubQuizProvider{quizzes: map[string]*domain.Quiz{quiz.ID: quiz}}
	sessions := service.NewSessionService(provider, progressRepo, noopTrigger{})
	sessionHandler := handler.NewSessionHandler(sessions)
	quizHandler := handler.NewQuizHandler(provider, service.NewProgressService(progressRepo))

	api := app.Group("/api", testAuth)
	api.Post("/sessions", sessionHandler.StartSession)
	api.Get("/sessions/:id", sessionHandler.GetSession)
	api.Get("/sessions/:id/questions/:index", sessionHandler.GetQuestion)
	api.Put("/sessions/:id/answers/:question_id", sessionHandler.SetAnswer)
	api.Put("/sessions/:id/position", sessionHandler.Navigate)
	api.Post("/sessions/:id/submit", sessionHandler.Submit)
	api.Get("/sessions/:id/result", sessionHandler.GetResult)
	api.Delete("/sessions/:id", sessionHandler.Abandon)
	api.Get("/quizzes/:id", quizHandler.GetQuizSummary)
	api.Get("/progress", quizHandler.GetMyProgress)
	api.Get("/progress/:content_id", quizHandler.GetMyProgressForContent)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestSessionFlow_StartAnswerSubmit(t *testing.T) {
	quiz := buildQuiz()
	app := setupApp(quiz, &stubProgressRepo{})

	var started dto.SessionResponse
	status := doJSON(t, app, "POST", "/api/sessions", dto.StartSessionRequest{QuizID: quiz.ID}, &started)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "ACTIVE", started.Status)
	assert.Equal(t, 2, started.TotalQuestions)

	// Answer both questions correctly.
	answers := map[string]dto.AnswerRequest{
		quiz.Questions[0].ID: {SelectedOptionIDs: []string{quiz.Questions[0].Options[0].ID}},
		quiz.Questions[1].ID: {TextAnswer: "False"},
	}
	for questionID, body := range answers {
		var ack dto.AnswerAck
		status := doJSON(t, app, "PUT", "/api/sessions/"+started.SessionID+"/answers/"+questionID, body, &ack)
		require.Equal(t, fiber.StatusOK, status)
		assert.True(t, ack.Recorded)
	}

	var result dto.ResultResponse
	status = doJSON(t, app, "POST", "/api/sessions/"+started.SessionID+"/submit", nil, &result)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 100, result.ScorePercentage)
	assert.True(t, result.Passed)
	assert.True(t, result.CertificateEarned)

	// Submitting again conflicts.
	status = doJSON(t, app, "POST", "/api/sessions/"+started.SessionID+"/submit", nil, nil)
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestSessionFlow_PersistenceFailureReturns503(t *testing.T) {
	quiz := buildQuiz()
	repo := &stubProgressRepo{fail: true}
	app := setupApp(quiz, repo)

	var started dto.SessionResponse
	doJSON(t, app, "POST", "/api/sessions", dto.StartSessionRequest{QuizID: quiz.ID}, &started)

	status := doJSON(t, app, "POST", "/api/sessions/"+started.SessionID+"/submit", nil, nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)

	// The session stays answerable after the failed submit.
	var state dto.SessionResponse
	status = doJSON(t, app, "GET", "/api/sessions/"+started.SessionID, nil, &state)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ACTIVE", state.Status)
}

func TestStartSession_ValidationAndNotFound(t *testing.T) {
	quiz := buildQuiz()
	app := setupApp(quiz, &stubProgressRepo{})

	status := doJSON(t, app, "POST", "/api/sessions", dto.StartSessionRequest{QuizID: "not-a-ulid"}, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status = doJSON(t, app, "POST", "/api/sessions", dto.StartSessionRequest{QuizID: util.NewULID()}, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestGetQuestion_HidesAnswerKey(t *testing.T) {
	quiz := buildQuiz()
	app := setupApp(quiz, &stubProgressRepo{})

	var started dto.SessionResponse
	doJSON(t, app, "POST", "/api/sessions", dto.StartSessionRequest{QuizID: quiz.ID}, &started)

	req := httptest.NewRequest("GET", "/api/sessions/"+started.SessionID+"/questions/0", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "is_correct")
	assert.NotContains(t, string(raw), "IsCorrect")
}

func TestNavigate_Clamps(t *testing.T) {
	quiz := buildQuiz()
	app := setupApp(quiz, &stubProgressRepo{})

	var started dto.SessionResponse
	doJSON(t, app, "POST", "/api/sessions", dto.StartSessionRequest{QuizID: quiz.ID}, &started)

	var state dto.SessionResponse
	status := doJSON(t, app, "PUT", "/api/sessions/"+started.SessionID+"/position", dto.NavigateRequest{Index: 42}, &state)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, state.Position)
}

func TestAbandon_Returns204AndForgetsSession(t *testing.T) {
	quiz := buildQuiz()
	app := setupApp(quiz, &stubProgressRepo{})

	var started dto.SessionResponse
	doJSON(t, app, "POST", "/api/sessions", dto.StartSessionRequest{QuizID: quiz.ID}, &started)

	status := doJSON(t, app, "DELETE", "/api/sessions/"+started.SessionID, nil, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status = doJSON(t, app, "GET", "/api/sessions/"+started.SessionID, nil, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestGetQuizSummary(t *testing.T) {
	quiz := buildQuiz()
	app := setupApp(quiz, &stubProgressRepo{})

	var summary dto.QuizSummaryResponse
	status := doJSON(t, app, "GET", "/api/quizzes/"+quiz.ID, nil, &summary)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, quiz.Title, summary.Title)
	assert.Equal(t, 2, summary.QuestionCount)

	status = doJSON(t, app, "GET", "/api/quizzes/"+util.NewULID(), nil, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status = doJSON(t, app, "GET", "/api/quizzes/not-a-ulid", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestGetMyProgressForContent(t *testing.T) {
	quiz := buildQuiz()
	repo := &stubProgressRepo{row: &domain.AssignmentProgress{
		UserID:          testIdentity.ID,
		ContentID:       quiz.ID,
		ContentType:     "quiz",
		Status:          domain.StatusCompleted,
		ScorePercentage: 100,
		Passed:          true,
	}}
	app := setupApp(quiz, repo)

	var row dto.ProgressResponse
	status := doJSON(t, app, "GET", "/api/progress/"+quiz.ID, nil, &row)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, quiz.ID, row.ContentID)
	assert.Equal(t, string(domain.StatusCompleted), row.Status)
	assert.True(t, row.Passed)

	status = doJSON(t, app, "GET", "/api/progress/"+util.NewULID(), nil, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status = doJSON(t, app, "GET", "/api/progress/not-a-ulid", nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
