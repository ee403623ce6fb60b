package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-assistant/internal/metrics"
	"alfredoptarigan/resume-assistant/internal/models"
	"alfredoptarigan/resume-assistant/internal/services"
)

const (
	msgInvalidPayload       = "Invalid request payload"
	msgCoverLetterFailed    = "Failed to generate cover letter"
	msgAnalyzeContentFailed = "Failed to analyze content"

	// RequestIDLocalKey is where the request id middleware stores the id.
	RequestIDLocalKey = "requestid"
)

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(RequestIDLocalKey).(string); ok {
		return id
	}
	return ""
}

// requestContext carries the request id into the service layer.
func requestContext(c *fiber.Ctx) context.Context {
	return services.WithRequestID(c.UserContext(), requestID(c))
}

func respondInvalid(c *fiber.Ctx, endpoint string, details []string) error {
	metrics.RequestsTotal.WithLabelValues(endpoint, metrics.OutcomeInvalid).Inc()
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Success: false,
		Error:   msgInvalidPayload,
		Details: details,
	})
}

func respondFailure(c *fiber.Ctx, endpoint, message string) error {
	metrics.RequestsTotal.WithLabelValues(endpoint, metrics.OutcomeUpstreamError).Inc()
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Success: false,
		Error:   message,
	})
}
