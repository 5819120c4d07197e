package handler

import (
	"strconv"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/dto"
	"wiki-quiz/internal/service"
	"wiki-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// GenerateQuiz handles POST /api/generate-quiz
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be valid JSON")
	}

	if err := h.validator.ValidateGenerateQuizRequest(req.URL); err != nil {
		return err
	}

	resp, err := h.service.GenerateFromURL(c.UserContext(), req.URL)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// GetHistory handles GET /api/history
func (h *QuizHandler) GetHistory(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 10)

	resp, err := h.service.GetHistory(c.UserContext(), skip, limit)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// GetQuizDetail handles GET /api/quiz/:id
func (h *QuizHandler) GetQuizDetail(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return domain.NewInvalidInputError("quiz id must be an integer")
	}

	resp, err := h.service.GetQuizByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// GetStats handles GET /api/stats
func (h *QuizHandler) GetStats(c *fiber.Ctx) error {
	resp, err := h.service.GetStats(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// Health handles GET /health
func (h *QuizHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "healthy"})
}
