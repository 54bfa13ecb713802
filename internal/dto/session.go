package dto

import "time"

// UserIdentity is the authenticated learner resolved by the auth middleware.
type UserIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StartSessionRequest opens a new assessment session.
// @Description Request body for starting a quiz session
type StartSessionRequest struct {
	QuizID       string `json:"quiz_id"`
	AssignmentID string `json:"assignment_id,omitempty"`
}

// SessionResponse is the session state exposed to the UI.
// @Description Current state of a quiz session
type SessionResponse struct {
	SessionID        string   `json:"session_id"`
	QuizID           string   `json:"quiz_id"`
	QuizTitle        string   `json:"quiz_title"`
	Status           string   `json:"status"`
	TotalQuestions   int      `json:"total_questions"`
	Position         int      `json:"position"`
	AnsweredIDs      []string `json:"answered_question_ids"`
	Timed            bool     `json:"timed"`
	RemainingSeconds int      `json:"remaining_seconds,omitempty"`
}

// OptionView is an option as shown to the learner; correctness never leaves
// the server while a session is active.
type OptionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuestionView is one question as shown to the learner.
type QuestionView struct {
	Index        int          `json:"index"`
	QuestionID   string       `json:"question_id"`
	Text         string       `json:"text"`
	QuestionType string       `json:"question_type"`
	Options      []OptionView `json:"options,omitempty"`
	Points       int          `json:"points"`
}

// AnswerRequest records or overwrites the learner's response to one question.
// @Description Request body for answering a question
type AnswerRequest struct {
	SelectedOptionIDs []string `json:"selected_option_ids,omitempty"`
	TextAnswer        string   `json:"text_answer,omitempty"`
}

// AnswerAck confirms a recorded answer. Correct is populated only when the
// quiz is configured to show feedback during the session.
type AnswerAck struct {
	QuestionID string `json:"question_id"`
	Recorded   bool   `json:"recorded"`
	Correct    *bool  `json:"correct,omitempty"`
}

// NavigateRequest moves the learner's current question index.
type NavigateRequest struct {
	Index int `json:"index"`
}

// QuestionResultView is the per-question review entry of a finished attempt.
type QuestionResultView struct {
	QuestionID string `json:"question_id"`
	Correct    bool   `json:"correct"`
	Answered   bool   `json:"answered"`
}

// ResultResponse is the attempt result shown after submission.
// @Description Outcome of a submitted quiz session
type ResultResponse struct {
	SessionID         string               `json:"session_id"`
	QuizID            string               `json:"quiz_id"`
	ScorePercentage   int                  `json:"score_percentage"`
	Passed            bool                 `json:"passed"`
	CorrectCount      int                  `json:"correct_count"`
	TotalQuestions    int                  `json:"total_questions"`
	Questions         []QuestionResultView `json:"questions"`
	SubmittedAt       time.Time            `json:"submitted_at"`
	CertificateEarned bool                 `json:"certificate_earned"`
}

// QuizSummaryResponse is quiz metadata for the assignment list UI.
// @Description Quiz metadata without questions
type QuizSummaryResponse struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	QuestionCount    int    `json:"question_count"`
	PassingScore     int    `json:"passing_score"`
	TimeLimitMinutes int    `json:"time_limit_minutes,omitempty"`
}

// ProgressResponse is one row of a learner's training progress.
type ProgressResponse struct {
	AssignmentID       string     `json:"assignment_id,omitempty"`
	ContentID          string     `json:"content_id"`
	ContentType        string     `json:"content_type"`
	Status             string     `json:"status"`
	ProgressPercentage int        `json:"progress_percentage"`
	ScorePercentage    int        `json:"score_percentage"`
	Passed             bool       `json:"passed"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
