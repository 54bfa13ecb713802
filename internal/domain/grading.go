package domain

import (
	"math"
	"strings"
	"time"
)

// QuestionResult is the per-question correctness used by the review display.
type QuestionResult struct {
	QuestionID string
	Correct    bool
	Answered   bool
	Points     int
}

// AttemptResult is the immutable, derived outcome of one scored session.
// It is created exactly once at submission time; nothing mutates it later.
type AttemptResult struct {
	QuizID          string
	UserID          string
	ScorePercentage int
	Passed          bool
	CorrectCount    int
	TotalQuestions  int
	Questions       []QuestionResult
	SubmittedAt     time.Time
}

// Perfect reports whether every question was answered correctly.
func (r *AttemptResult) Perfect() bool {
	return r.ScorePercentage == 100
}

// Grade scores a ledger against a quiz. It is pure and total: absent answers
// and malformed questions (no options, no option flagged correct, empty
// canonical answer) grade as incorrect rather than failing, and a quiz with
// zero questions scores 0%.
func Grade(quiz *Quiz, ledger *AnswerLedger, userID string, now time.Time) *AttemptResult {
	result := &AttemptResult{
		QuizID:         quiz.ID,
		UserID:         userID,
		TotalQuestions: len(quiz.Questions),
		Questions:      make([]QuestionResult, 0, len(quiz.Questions)),
		SubmittedAt:    now,
	}

	for i := range quiz.Questions {
		question := &quiz.Questions[i]
		answer, answered := ledger.Get(question.ID)

		correct := false
		if answered {
			correct = gradeQuestion(question, answer)
		}
		if correct {
			result.CorrectCount++
		}

		result.Questions = append(result.Questions, QuestionResult{
			QuestionID: question.ID,
			Correct:    correct,
			Answered:   answered,
			Points:     question.PointsOrDefault(),
		})
	}

	if result.TotalQuestions > 0 {
		result.ScorePercentage = int(math.Round(100 * float64(result.CorrectCount) / float64(result.TotalQuestions)))
	}
	result.Passed = result.ScorePercentage >= quiz.PassingScore

	return result
}

// gradeQuestion decides correctness of a single recorded answer.
func gradeQuestion(question *Question, answer Answer) bool {
	if question.Type.IsChoice() {
		return gradeChoice(question, answer.OptionIDs)
	}
	return gradeText(question.CorrectAnswer, answer.Text)
}

// gradeChoice requires the selected set to match the correct set exactly.
// A question with no options, or none flagged correct, is a data-quality
// defect and grades as incorrect.
func gradeChoice(question *Question, selected []string) bool {
	correct := question.CorrectOptionIDs()
	if len(correct) == 0 || len(selected) == 0 {
		return false
	}
	if len(correct) != len(selected) {
		return false
	}

	correctSet := make(map[string]struct{}, len(correct))
	for _, id := range correct {
		correctSet[id] = struct{}{}
	}
	matched := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		if _, ok := correctSet[id]; !ok {
			return false
		}
		matched[id] = struct{}{}
	}
	// Duplicate selections of the same option must not pass a length check.
	return len(matched) == len(correctSet)
}

// gradeText compares case-insensitively after trimming whitespace. An empty
// canonical answer grades as incorrect.
func gradeText(canonical, given string) bool {
	canonical = strings.TrimSpace(canonical)
	given = strings.TrimSpace(given)
	if canonical == "" || given == "" {
		return false
	}
	return strings.EqualFold(canonical, given)
}
