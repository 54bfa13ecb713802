package domain

// Answer is a learner's current response to one question. For choice
// questions OptionIDs carries the selected option identities; for true/false
// and free-text questions Text carries the raw string.
type Answer struct {
	OptionIDs []string
	Text      string
}

// AnswerLedger is the in-memory, session-scoped record of the learner's
// responses. It is born empty at session start and discarded once a
// submission has been accepted; a retake gets a fresh instance. The ledger
// performs no validation of value shape; grading decides correctness at
// submission time.
type AnswerLedger struct {
	answers map[string]Answer
}

// NewAnswerLedger creates an empty ledger.
func NewAnswerLedger() *AnswerLedger {
	return &AnswerLedger{answers: make(map[string]Answer)}
}

// Set overwrites any prior value for the question.
func (l *AnswerLedger) Set(questionID string, answer Answer) {
	l.answers[questionID] = answer
}

// Get returns the current answer and whether one has been recorded.
// An absent entry means "unanswered".
func (l *AnswerLedger) Get(questionID string) (Answer, bool) {
	a, ok := l.answers[questionID]
	return a, ok
}

// AnsweredIDs returns the IDs of all questions with a recorded answer.
func (l *AnswerLedger) AnsweredIDs() []string {
	ids := make([]string, 0, len(l.answers))
	for id := range l.answers {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of recorded answers.
func (l *AnswerLedger) Len() int {
	return len(l.answers)
}
