package service

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/logger"
	"trainhub/internal/util"

	"go.uber.org/zap"
)

// SessionState is the submission controller state of one session.
type SessionState string

const (
	StateActive     SessionState = "ACTIVE"
	StateSubmitting SessionState = "SUBMITTING"
	StateSubmitted  SessionState = "SUBMITTED"
)

// Registry retention. Submitted sessions stay long enough for the results
// view; active sessions the learner walked away from are reaped after the
// idle window so the registry cannot grow without bound.
const (
	submittedRetention = time.Hour
	idleRetention      = 12 * time.Hour
	sweepInterval      = 5 * time.Minute
)

// QuizSession is the in-memory state of one learner taking one quiz. Each
// session owns its ledger, its clock and its submission latch; the mutex
// serializes all handlers touching the same session, so the latch
// check-and-set never races.
type QuizSession struct {
	id           string
	quiz         *domain.Quiz
	order        []int // indexes into quiz.Questions, shuffled when configured
	identity     dto.UserIdentity
	assignmentID string
	ledger       *domain.AnswerLedger
	position     int
	state        SessionState
	result       *domain.AttemptResult
	deadline     time.Time // zero when untimed
	expired      bool
	startedAt    time.Time
	lastActive   time.Time
	stopClock    context.CancelFunc

	mu sync.Mutex
}

// remainingSecondsLocked reports the countdown, clamped at zero.
func (s *QuizSession) remainingSecondsLocked(now time.Time) int {
	if s.deadline.IsZero() {
		return 0
	}
	left := int(math.Ceil(s.deadline.Sub(now).Seconds()))
	if left < 0 {
		return 0
	}
	return left
}

// SessionService contains the quiz-taking use cases.
type SessionService interface {
	StartSession(ctx context.Context, identity dto.UserIdentity, req *dto.StartSessionRequest) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	GetQuestion(ctx context.Context, userID, sessionID string, index int) (*dto.QuestionView, error)
	SetAnswer(ctx context.Context, userID, sessionID, questionID string, req *dto.AnswerRequest) (*dto.AnswerAck, error)
	Navigate(ctx context.Context, userID, sessionID string, index int) (*dto.SessionResponse, error)
	Submit(ctx context.Context, userID, sessionID string) (*dto.ResultResponse, error)
	GetResult(ctx context.Context, userID, sessionID string) (*dto.ResultResponse, error)
	Abandon(ctx context.Context, userID, sessionID string) error

	// StartJanitor runs the periodic registry sweep until ctx is cancelled.
	StartJanitor(ctx context.Context)
}

// CertificateTrigger requests certificate issuance without blocking the
// caller. Implementations must swallow failures; issuance is never part of
// the submission contract.
type CertificateTrigger interface {
	RequestIssuance(req domain.CertificateRequest)
}

// sessionService implements SessionService
type sessionService struct {
	quizzes      QuizProvider
	progressRepo domain.ProgressRepository
	certificates CertificateTrigger

	mu       sync.RWMutex
	sessions map[string]*QuizSession

	now func() time.Time
}

// QuizProvider loads quiz definitions (cache-backed in production).
type QuizProvider interface {
	GetQuiz(ctx context.Context, quizID string) (*domain.Quiz, error)
}

// NewSessionService creates a new instance of sessionService
func NewSessionService(quizzes QuizProvider, progressRepo domain.ProgressRepository, certificates CertificateTrigger) SessionService {
	return NewSessionServiceWithClock(quizzes, progressRepo, certificates, time.Now)
}

// NewSessionServiceWithClock allows deterministic timestamps in tests.
func NewSessionServiceWithClock(quizzes QuizProvider, progressRepo domain.ProgressRepository, certificates CertificateTrigger, now func() time.Time) SessionService {
	return &sessionService{
		quizzes:      quizzes,
		progressRepo: progressRepo,
		certificates: certificates,
		sessions:     make(map[string]*QuizSession),
		now:          now,
	}
}

// StartSession loads the quiz, builds a fresh session with an empty ledger
// and, for timed quizzes, starts the countdown. A retake is a brand-new
// session; nothing is carried over from prior attempts.
func (s *sessionService) StartSession(ctx context.Context, identity dto.UserIdentity, req *dto.StartSessionRequest) (*dto.SessionResponse, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, req.QuizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(req.QuizID)
	}

	now := s.now()
	session := &QuizSession{
		id:           util.NewULID(),
		quiz:         quiz,
		order:        questionOrder(quiz),
		identity:     identity,
		assignmentID: req.AssignmentID,
		ledger:       domain.NewAnswerLedger(),
		state:        StateActive,
		startedAt:    now,
		lastActive:   now,
	}
	if quiz.Timed() {
		session.deadline = now.Add(time.Duration(quiz.TimeLimitMinutes) * time.Minute)
	}

	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()

	if quiz.Timed() {
		s.startClock(session)
	}

	// Mark the assignment in progress. Best effort: a failure here must not
	// block the learner from taking the quiz.
	if err := s.progressRepo.UpsertProgress(ctx, &domain.AssignmentProgress{
		AssignmentID: req.AssignmentID,
		UserID:       identity.ID,
		ContentID:    quiz.ID,
		ContentType:  "quiz",
		Status:       domain.StatusInProgress,
	}); err != nil {
		logger.Get().Warn("Failed to mark assignment in progress",
			zap.String("sessionID", session.id),
			zap.String("quizID", quiz.ID),
			zap.Error(err))
	}

	logger.Get().Info("Quiz session started",
		zap.String("sessionID", session.id),
		zap.String("quizID", quiz.ID),
		zap.String("userID", identity.ID),
		zap.Bool("timed", quiz.Timed()))

	return s.sessionResponse(session), nil
}

// startClock runs the countdown for a timed session. The timer is owned by
// the session, never process-wide; Abandon and Submit cancel it.
func (s *sessionService) startClock(session *QuizSession) {
	clockCtx, cancel := context.WithCancel(context.Background())

	session.mu.Lock()
	session.stopClock = cancel
	deadline := session.deadline
	session.mu.Unlock()

	go func() {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		select {
		case <-clockCtx.Done():
			return
		case <-timer.C:
			s.expireSession(session.id)
		}
	}()
}

// expireSession handles clock expiry: the single automatic submission
// trigger. It fires at most once per session; an expiry racing an explicit
// submit loses to the latch and becomes a no-op.
func (s *sessionService) expireSession(sessionID string) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return
	}

	session.mu.Lock()
	if session.expired {
		session.mu.Unlock()
		return
	}
	session.expired = true
	session.mu.Unlock()

	logger.Get().Info("Quiz session expired, auto-submitting",
		zap.String("sessionID", sessionID),
		zap.String("quizID", session.quiz.ID))

	if _, err := s.submit(context.Background(), session, true); err != nil {
		// The learner can still retry explicitly; the latch was released.
		logger.Get().Error("Auto-submit after expiry failed",
			zap.String("sessionID", sessionID),
			zap.Error(err))
	}
}

// Submit is the explicit submission path.
func (s *sessionService) Submit(ctx context.Context, userID, sessionID string) (*dto.ResultResponse, error) {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	result, err := s.submit(ctx, session, false)
	if err != nil {
		return nil, err
	}
	return s.resultResponse(session, result), nil
}

// submit drives the submission controller: latch, grade, persist, effects.
// The latch transition ACTIVE -> SUBMITTING happens synchronously under the
// session mutex so a concurrent expiry-and-explicit-submit race produces at
// most one submission.
func (s *sessionService) submit(ctx context.Context, session *QuizSession, auto bool) (*domain.AttemptResult, error) {
	session.mu.Lock()
	switch session.state {
	case StateSubmitted, StateSubmitting:
		result := session.result
		session.mu.Unlock()
		if auto {
			// Expiry after an accepted or in-flight submission is a no-op.
			return result, nil
		}
		return nil, domain.NewSessionSubmittedError(session.id)
	}
	session.state = StateSubmitting
	quiz := session.quiz
	ledger := session.ledger
	identity := session.identity
	assignmentID := session.assignmentID
	session.mu.Unlock()

	result := domain.Grade(quiz, ledger, identity.ID, s.now())

	completedAt := result.SubmittedAt
	progress := &domain.AssignmentProgress{
		AssignmentID:       assignmentID,
		UserID:             identity.ID,
		ContentID:          quiz.ID,
		ContentType:        "quiz",
		Status:             domain.StatusCompleted,
		ProgressPercentage: 100,
		ScorePercentage:    result.ScorePercentage,
		Passed:             result.Passed,
		CompletedAt:        &completedAt,
	}
	if err := s.progressRepo.UpsertProgress(ctx, progress); err != nil {
		// Release the latch so the learner (or the auto path) may retry; the
		// ledger is unchanged, so the result is recomputed on retry.
		session.mu.Lock()
		session.state = StateActive
		session.mu.Unlock()
		logger.Get().Error("Failed to persist attempt result",
			zap.String("sessionID", session.id),
			zap.String("quizID", quiz.ID),
			zap.Error(err))
		return nil, domain.NewSubmissionFailedError(err)
	}

	session.mu.Lock()
	session.state = StateSubmitted
	session.result = result
	stop := session.stopClock
	session.stopClock = nil
	session.mu.Unlock()
	if stop != nil {
		stop()
	}

	logger.Get().Info("Quiz session submitted",
		zap.String("sessionID", session.id),
		zap.String("quizID", quiz.ID),
		zap.String("userID", identity.ID),
		zap.Int("score", result.ScorePercentage),
		zap.Bool("passed", result.Passed),
		zap.Int("answered", ledger.Len()),
		zap.Bool("auto", auto))

	// Certificate issuance is a non-critical enhancement and must never
	// surface as a submission error. Only an exact 100% earns one.
	if result.Perfect() {
		s.certificates.RequestIssuance(domain.CertificateRequest{
			UserID:         identity.ID,
			RecipientName:  identity.Name,
			RecipientEmail: identity.Email,
			QuizID:         quiz.ID,
			QuizTitle:      quiz.Title,
			PassingScore:   quiz.PassingScore,
			CompletionDate: result.SubmittedAt,
		})
	}

	return result, nil
}

// SetAnswer records or overwrites the learner's response in the ledger.
func (s *sessionService) SetAnswer(ctx context.Context, userID, sessionID, questionID string, req *dto.AnswerRequest) (*dto.AnswerAck, error) {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.state != StateActive {
		return nil, domain.NewSessionSubmittedError(sessionID)
	}
	question := session.quiz.QuestionByID(questionID)
	if question == nil {
		return nil, domain.NewQuestionNotInSessionError(questionID)
	}

	answer := domain.Answer{
		OptionIDs: req.SelectedOptionIDs,
		Text:      req.TextAnswer,
	}
	session.ledger.Set(questionID, answer)
	session.lastActive = s.now()

	ack := &dto.AnswerAck{QuestionID: questionID, Recorded: true}
	if session.quiz.ShowFeedbackDuring {
		// Inline feedback grades just this question against the ledger.
		scratch := domain.NewAnswerLedger()
		scratch.Set(questionID, answer)
		single := &domain.Quiz{ID: session.quiz.ID, Questions: []domain.Question{*question}}
		correct := domain.Grade(single, scratch, userID, s.now()).CorrectCount == 1
		ack.Correct = &correct
	}
	return ack, nil
}

// Navigate moves the current question index, clamped to the valid range.
// Navigation is independent of answer completeness.
func (s *sessionService) Navigate(ctx context.Context, userID, sessionID string, index int) (*dto.SessionResponse, error) {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	if index < 0 {
		index = 0
	}
	if max := len(session.quiz.Questions) - 1; index > max {
		if max < 0 {
			max = 0
		}
		index = max
	}
	session.position = index
	session.lastActive = s.now()
	session.mu.Unlock()

	return s.sessionResponse(session), nil
}

// GetSession returns the current state of a session.
func (s *sessionService) GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionResponse(session), nil
}

// GetQuestion returns the question at the given index in session order,
// stripped of the answer key.
func (s *sessionService) GetQuestion(ctx context.Context, userID, sessionID string, index int) (*dto.QuestionView, error) {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if index < 0 || index >= len(session.order) {
		return nil, domain.NewInvalidInputError("question index out of range")
	}
	question := &session.quiz.Questions[session.order[index]]

	view := &dto.QuestionView{
		Index:        index,
		QuestionID:   question.ID,
		Text:         question.Text,
		QuestionType: string(question.Type),
		Points:       question.PointsOrDefault(),
	}
	for _, opt := range question.Options {
		view.Options = append(view.Options, dto.OptionView{ID: opt.ID, Text: opt.Text})
	}
	return view, nil
}

// GetResult returns the attempt result once the session is submitted.
func (s *sessionService) GetResult(ctx context.Context, userID, sessionID string) (*dto.ResultResponse, error) {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	result := session.result
	session.mu.Unlock()
	if result == nil {
		return nil, domain.NewSessionNotSubmittedError(sessionID)
	}
	return s.resultResponse(session, result), nil
}

// Abandon tears the session down without submitting: the clock stops and no
// submission may occur afterwards.
func (s *sessionService) Abandon(ctx context.Context, userID, sessionID string) error {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	session.expired = true // block a clock fire that lost the race
	stop := session.stopClock
	session.stopClock = nil
	session.mu.Unlock()
	if stop != nil {
		stop()
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	logger.Get().Info("Quiz session abandoned",
		zap.String("sessionID", sessionID),
		zap.String("userID", userID))
	return nil
}

// StartJanitor sweeps the registry periodically until ctx is cancelled.
func (s *sessionService) StartJanitor(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(s.now())
			}
		}
	}()
}

// sweep evicts sessions nothing will come back for: submitted sessions past
// the results-view retention, and active sessions idle past the abandonment
// window (which also covers timed sessions whose expiry submit failed and
// was never retried). Evicted clocks are cancelled. Returns the eviction
// count.
func (s *sessionService) sweep(now time.Time) int {
	s.mu.Lock()
	var evicted []*QuizSession
	for id, session := range s.sessions {
		session.mu.Lock()
		var stale bool
		switch session.state {
		case StateSubmitted:
			stale = session.result != nil && now.Sub(session.result.SubmittedAt) > submittedRetention
		case StateActive:
			stale = now.Sub(session.lastActive) > idleRetention
		}
		if stale {
			session.expired = true
			stop := session.stopClock
			session.stopClock = nil
			session.mu.Unlock()
			if stop != nil {
				stop()
			}
			delete(s.sessions, id)
			evicted = append(evicted, session)
			continue
		}
		session.mu.Unlock()
	}
	s.mu.Unlock()

	if len(evicted) > 0 {
		logger.Get().Info("Swept stale quiz sessions", zap.Int("evicted", len(evicted)))
	}
	return len(evicted)
}

// ownedSession resolves a session and enforces that it belongs to the
// caller. Foreign sessions are indistinguishable from missing ones.
func (s *sessionService) ownedSession(userID, sessionID string) (*QuizSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || session.identity.ID != userID {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	return session, nil
}

func (s *sessionService) sessionResponse(session *QuizSession) *dto.SessionResponse {
	session.mu.Lock()
	defer session.mu.Unlock()
	return &dto.SessionResponse{
		SessionID:        session.id,
		QuizID:           session.quiz.ID,
		QuizTitle:        session.quiz.Title,
		Status:           string(session.state),
		TotalQuestions:   len(session.quiz.Questions),
		Position:         session.position,
		AnsweredIDs:      session.ledger.AnsweredIDs(),
		Timed:            session.quiz.Timed(),
		RemainingSeconds: session.remainingSecondsLocked(s.now()),
	}
}

func (s *sessionService) resultResponse(session *QuizSession, result *domain.AttemptResult) *dto.ResultResponse {
	resp := &dto.ResultResponse{
		SessionID:         session.id,
		QuizID:            result.QuizID,
		ScorePercentage:   result.ScorePercentage,
		Passed:            result.Passed,
		CorrectCount:      result.CorrectCount,
		TotalQuestions:    result.TotalQuestions,
		SubmittedAt:       result.SubmittedAt,
		CertificateEarned: result.Perfect(),
	}
	for _, qr := range result.Questions {
		resp.Questions = append(resp.Questions, dto.QuestionResultView{
			QuestionID: qr.QuestionID,
			Correct:    qr.Correct,
			Answered:   qr.Answered,
		})
	}
	return resp
}

// questionOrder returns the presentation order, shuffled when the quiz is
// configured to randomize.
func questionOrder(quiz *domain.Quiz) []int {
	order := make([]int, len(quiz.Questions))
	for i := range order {
		order[i] = i
	}
	if quiz.RandomizeQuestions {
		rand.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}
	return order
}
