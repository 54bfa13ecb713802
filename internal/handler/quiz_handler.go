package handler

import (
	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/middleware"
	"trainhub/internal/service"
	"trainhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz metadata HTTP requests
type QuizHandler struct {
	quizzes   service.QuizProvider
	progress  service.ProgressService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(quizzes service.QuizProvider, progress service.ProgressService) *QuizHandler {
	return &QuizHandler{
		quizzes:   quizzes,
		progress:  progress,
		validator: validation.NewValidator(),
	}
}

// GetQuizSummary godoc
// @Summary Get quiz metadata
// @Description Returns quiz title, passing score and time limit without any questions
// @Tags quiz
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizSummaryResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuizSummary(c *fiber.Ctx) error {
	quizID := c.Params("id")
	if errs := h.validator.ValidateQuizID(quizID); len(errs) > 0 {
		return errs
	}

	quiz, err := h.quizzes.GetQuiz(c.Context(), quizID)
	if err != nil {
		return err
	}
	if quiz == nil {
		return domain.NewQuizNotFoundError(quizID)
	}

	return c.JSON(dto.QuizSummaryResponse{
		ID:               quiz.ID,
		Title:            quiz.Title,
		Description:      quiz.Description,
		QuestionCount:    len(quiz.Questions),
		PassingScore:     quiz.PassingScore,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
	})
}

// GetMyProgress godoc
// @Summary List my training progress
// @Description Returns the caller's assignment progress rows, most recent first
// @Tags progress
// @Produce json
// @Success 200 {array} dto.ProgressResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /progress [get]
func (h *QuizHandler) GetMyProgress(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	rows, err := h.progress.ListMyProgress(c.Context(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(rows)
}

// GetMyProgressForContent godoc
// @Summary Get my progress for one piece of content
// @Description Returns the caller's progress row for the given content id
// @Tags progress
// @Produce json
// @Param content_id path string true "Content ID"
// @Success 200 {object} dto.ProgressResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /progress/{content_id} [get]
func (h *QuizHandler) GetMyProgressForContent(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	contentID := c.Params("content_id")
	if errs := h.validator.ValidateULIDParam("content_id", contentID); len(errs) > 0 {
		return errs
	}

	row, err := h.progress.GetMyProgressForContent(c.Context(), identity.ID, contentID)
	if err != nil {
		return err
	}
	return c.JSON(row)
}
