package middleware

import (
	"errors"
	"net/http"

	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// quotaGuidance names the configuration an operator should check when the
// model capability is quota-limited; a generic message here would send them
// hunting for malformed input instead.
const quotaGuidance = "LLM quota exhausted or model unavailable. " +
	"Check GEMINI_API_KEY, enable billing for your Google Cloud project, " +
	"or set a different llm.model in the configuration (e.g. gemini-1.5-flash)."

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ErrorHandler is the centralized error handler wired into the fiber app.
// Domain errors map to their HTTP statuses; everything else is a 500.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)
			message := domainErr.Message
			if domainErr.Code == domain.ErrQuotaExceeded {
				message = quotaGuidance
			}

			log.Error("Domain error occurred",
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.Int("status", statusCode),
				zap.String("path", c.Path()),
				zap.Error(domainErr.Cause),
			)

			return c.Status(statusCode).JSON(ErrorResponse{
				Code:    string(domainErr.Code),
				Message: message,
				Status:  statusCode,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("HTTP error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		}

		log.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)

		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    string(domain.ErrInternal),
			Message: "Internal server error",
			Status:  http.StatusInternalServerError,
		})
	}
}

// mapDomainErrorToHTTPStatus maps domain error codes to HTTP status codes.
// Quota exhaustion is deliberately kept apart from client errors: it is a
// service availability condition, not a bad request.
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrQuotaExceeded:
		return http.StatusServiceUnavailable
	case domain.ErrInvalidInput, domain.ErrInvalidSource, domain.ErrFetchFailed,
		domain.ErrExtractionFailed, domain.ErrFormatError, domain.ErrLLMServiceError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
