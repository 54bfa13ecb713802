package validation

import (
	"regexp"
	"strings"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
)

const maxTextAnswerLength = 2000
const maxSelectedOptions = 50

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateStartSessionRequest validates the start session request
func (v *Validator) ValidateStartSessionRequest(req *dto.StartSessionRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.QuizID) == "" {
		errors = append(errors, domain.NewMissingFieldError("quiz_id"))
	} else if !isValidULID(req.QuizID) {
		errors = append(errors, domain.NewInvalidFormatError("quiz_id", req.QuizID))
	}

	if req.AssignmentID != "" && !isValidULID(req.AssignmentID) {
		errors = append(errors, domain.NewInvalidFormatError("assignment_id", req.AssignmentID))
	}

	return errors
}

// ValidateAnswerRequest validates an answer submission for one question
func (v *Validator) ValidateAnswerRequest(questionID string, req *dto.AnswerRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(questionID) == "" {
		errors = append(errors, domain.NewMissingFieldError("question_id"))
	} else if !isValidULID(questionID) {
		errors = append(errors, domain.NewInvalidFormatError("question_id", questionID))
	}

	if len(req.SelectedOptionIDs) > maxSelectedOptions {
		errors = append(errors, domain.NewOutOfRangeError("selected_option_ids", len(req.SelectedOptionIDs), 0, maxSelectedOptions))
	}
	for _, optionID := range req.SelectedOptionIDs {
		if !isValidULID(optionID) {
			errors = append(errors, domain.NewInvalidFormatError("selected_option_ids", optionID))
			break
		}
	}

	if len(req.TextAnswer) > maxTextAnswerLength {
		errors = append(errors, domain.NewOutOfRangeError("text_answer", len(req.TextAnswer), 0, maxTextAnswerLength))
	}

	return errors
}

// ValidateSessionID validates a session id path parameter
func (v *Validator) ValidateSessionID(sessionID string) domain.ValidationErrors {
	return v.ValidateULIDParam("session_id", sessionID)
}

// ValidateQuizID validates a quiz id path parameter
func (v *Validator) ValidateQuizID(quizID string) domain.ValidationErrors {
	return v.ValidateULIDParam("quiz_id", quizID)
}

// ValidateULIDParam validates a path parameter that must be a ULID. The field
// name is carried into the validation error so callers see which parameter
// was bad.
func (v *Validator) ValidateULIDParam(field, value string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(value) == "" {
		errors = append(errors, domain.NewMissingFieldError(field))
	} else if !isValidULID(value) {
		errors = append(errors, domain.NewInvalidFormatError(field, value))
	}

	return errors
}

// Helper functions for validation

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	// ULID is 26 characters long, base32 encoded
	if len(s) != 26 {
		return false
	}
	// Check if all characters are valid base32 (Crockford's Base32)
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}
