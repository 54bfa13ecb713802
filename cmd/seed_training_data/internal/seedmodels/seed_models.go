package seedmodels

// SeedOption defines one option of a choice question in the JSON seed file.
type SeedOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// SeedQuestion defines one question in the JSON seed file.
type SeedQuestion struct {
	Text          string       `json:"text"`
	QuestionType  string       `json:"question_type"`
	Options       []SeedOption `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	Points        int          `json:"points,omitempty"`
}

// SeedQuiz defines one training quiz in the JSON seed file.
type SeedQuiz struct {
	Title              string         `json:"title"`
	Description        string         `json:"description,omitempty"`
	PassingScore       int            `json:"passing_score"`
	TimeLimitMinutes   int            `json:"time_limit_minutes,omitempty"`
	RandomizeQuestions bool           `json:"randomize_questions,omitempty"`
	ShowFeedbackDuring bool           `json:"show_feedback_during,omitempty"`
	Questions          []SeedQuestion `json:"questions"`
}
