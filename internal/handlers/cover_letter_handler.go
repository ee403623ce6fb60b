package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-assistant/internal/metrics"
	"alfredoptarigan/resume-assistant/internal/models"
	"alfredoptarigan/resume-assistant/internal/services"
	"alfredoptarigan/resume-assistant/internal/validation"
)

type CoverLetterHandler struct {
	generationService services.GenerationService
	validator         *validation.Validator
	logger            *zap.Logger
}

func NewCoverLetterHandler(
	generationService services.GenerationService,
	validator *validation.Validator,
	logger *zap.Logger,
) *CoverLetterHandler {
	return &CoverLetterHandler{
		generationService: generationService,
		validator:         validator,
		logger:            logger.Named("cover_letter"),
	}
}

// HandleGenerate handles POST /generate-cover-letter
func (h *CoverLetterHandler) HandleGenerate(c *fiber.Ctx) error {
	var req models.CoverLetterRequest

	if err := c.BodyParser(&req); err != nil {
		return respondInvalid(c, models.EndpointCoverLetter, []string{"request body must be a JSON object"})
	}

	if errs := h.validator.Struct(&req); len(errs) > 0 {
		return respondInvalid(c, models.EndpointCoverLetter, errs)
	}

	letter, err := h.generationService.GenerateCoverLetter(requestContext(c), &req)
	if err != nil {
		h.logger.Error("Error generating cover letter",
			zap.String("request_id", requestID(c)),
			zap.Error(err),
		)
		return respondFailure(c, models.EndpointCoverLetter, msgCoverLetterFailed)
	}

	metrics.RequestsTotal.WithLabelValues(models.EndpointCoverLetter, metrics.OutcomeSuccess).Inc()
	return c.Status(fiber.StatusOK).JSON(models.CoverLetterResponse{
		Success: true,
		Letter:  letter,
	})
}
