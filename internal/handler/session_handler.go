package handler

import (
	"strconv"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/middleware"
	"trainhub/internal/service"
	"trainhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler handles quiz session HTTP requests
type SessionHandler struct {
	sessions  service.SessionService
	validator *validation.Validator
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(sessions service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessions:  sessions,
		validator: validation.NewValidator(),
	}
}

// StartSession godoc
// @Summary Start a quiz session
// @Description Creates a fresh attempt for the given quiz; timed quizzes start their countdown immediately
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body dto.StartSessionRequest true "Quiz to start"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req dto.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateStartSessionRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.sessions.StartSession(c.Context(), identity, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSession godoc
// @Summary Get session state
// @Description Returns status, position, answered questions and remaining time
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	sessionID := c.Params("id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	resp, err := h.sessions.GetSession(c.Context(), identity.ID, sessionID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetQuestion godoc
// @Summary Get a question by index
// @Description Returns the question at the given position in session order, without the answer key
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Question index"
// @Success 200 {object} dto.QuestionView
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/questions/{index} [get]
func (h *SessionHandler) GetQuestion(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	sessionID := c.Params("id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("index", c.Params("index"))}
	}

	resp, err := h.sessions.GetQuestion(c.Context(), identity.ID, sessionID, index)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SetAnswer godoc
// @Summary Record an answer
// @Description Records or overwrites the answer for one question; allowed any number of times before submission
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param question_id path string true "Question ID"
// @Param request body dto.AnswerRequest true "Selected options or text answer"
// @Success 200 {object} dto.AnswerAck
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/answers/{question_id} [put]
func (h *SessionHandler) SetAnswer(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	sessionID := c.Params("id")
	questionID := c.Params("question_id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateAnswerRequest(questionID, &req); len(errs) > 0 {
		return errs
	}

	resp, err := h.sessions.SetAnswer(c.Context(), identity.ID, sessionID, questionID, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Navigate godoc
// @Summary Move the current question position
// @Description Sets the current question index; out-of-range values are clamped
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.NavigateRequest true "Target index"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/position [put]
func (h *SessionHandler) Navigate(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	sessionID := c.Params("id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	var req dto.NavigateRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	resp, err := h.sessions.Navigate(c.Context(), identity.ID, sessionID, req.Index)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Submit godoc
// @Summary Submit the session for grading
// @Description Grades the attempt, persists the result and returns it; a session can be submitted once
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ResultResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) Submit(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	sessionID := c.Params("id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	resp, err := h.sessions.Submit(c.Context(), identity.ID, sessionID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetResult godoc
// @Summary Get the graded result
// @Description Returns the attempt result of a submitted session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.ResultResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id}/result [get]
func (h *SessionHandler) GetResult(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	sessionID := c.Params("id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	resp, err := h.sessions.GetResult(c.Context(), identity.ID, sessionID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Abandon godoc
// @Summary Abandon the session
// @Description Discards the attempt without grading; the countdown stops
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Abandon(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	sessionID := c.Params("id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	if err := h.sessions.Abandon(c.Context(), identity.ID, sessionID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
