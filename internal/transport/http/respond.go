package http

import (
	"errors"
	"net/http"

	"complexity-quiz-service/internal/domain"
	"complexity-quiz-service/internal/telemetry"
	"github.com/gin-gonic/gin"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	telemetry.Error("http.error", map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": RequestIDFromContext(c),
	})
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message, Details: details},
	})
}

// errorStatus maps domain sentinels to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrCatalogNotFound),
		errors.Is(err, domain.ErrConsentNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrQuizComplete):
		return http.StatusConflict, "quiz_complete"
	case errors.Is(err, domain.ErrResultsNotReady):
		return http.StatusConflict, "results_not_ready"
	case errors.Is(err, domain.ErrQuestionUnanswered):
		return http.StatusUnprocessableEntity, "question_unanswered"
	case errors.Is(err, domain.ErrUnknownIntent),
		errors.Is(err, domain.ErrInvalidLead):
		return http.StatusBadRequest, "invalid"
	case errors.Is(err, domain.ErrLeadExportUnsupported):
		return http.StatusNotImplemented, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func respondDomainError(c *gin.Context, err error, details any) {
	status, code := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Unexpected server error"
	}
	respondError(c, status, code, message, details)
}
