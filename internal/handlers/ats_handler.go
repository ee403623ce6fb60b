package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-assistant/internal/metrics"
	"alfredoptarigan/resume-assistant/internal/models"
	"alfredoptarigan/resume-assistant/internal/services"
	"alfredoptarigan/resume-assistant/internal/validation"
)

type ATSHandler struct {
	generationService services.GenerationService
	documentParser    services.DocumentParserService
	validator         *validation.Validator
	maxFileSize       int64
	logger            *zap.Logger
}

func NewATSHandler(
	generationService services.GenerationService,
	documentParser services.DocumentParserService,
	validator *validation.Validator,
	maxFileSize int64,
	logger *zap.Logger,
) *ATSHandler {
	return &ATSHandler{
		generationService: generationService,
		documentParser:    documentParser,
		validator:         validator,
		maxFileSize:       maxFileSize,
		logger:            logger.Named("ats"),
	}
}

// HandleAnalyze handles POST /analyze-ats
func (h *ATSHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.ATSRequest

	if err := c.BodyParser(&req); err != nil {
		return respondInvalid(c, models.EndpointATS, []string{"request body must be a JSON object"})
	}

	if errs := h.validator.Struct(&req); len(errs) > 0 {
		return respondInvalid(c, models.EndpointATS, errs)
	}

	return h.analyze(c, req.JobTitle, req.Content)
}

// HandleUpload handles POST /analyze-ats/upload (multipart: resume, jobTitle)
func (h *ATSHandler) HandleUpload(c *fiber.Ctx) error {
	var req models.ATSUploadRequest

	if err := c.BodyParser(&req); err != nil {
		return respondInvalid(c, models.EndpointATS, []string{"request body must be multipart/form-data"})
	}

	if errs := h.validator.Struct(&req); len(errs) > 0 {
		return respondInvalid(c, models.EndpointATS, errs)
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return respondInvalid(c, models.EndpointATS, []string{"resume is required"})
	}

	if fileHeader.Size > h.maxFileSize {
		return respondInvalid(c, models.EndpointATS, []string{
			fmt.Sprintf("resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondInvalid(c, models.EndpointATS, []string{"resume could not be opened"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return respondInvalid(c, models.EndpointATS, []string{"resume could not be read"})
	}

	content, err := h.documentParser.ExtractText(fileHeader.Filename, data)
	if err != nil {
		h.logger.Info("rejected resume upload",
			zap.String("request_id", requestID(c)),
			zap.String("filename", fileHeader.Filename),
			zap.Error(err),
		)
		return respondInvalid(c, models.EndpointATS, []string{fmt.Sprintf("resume: %v", err)})
	}

	return h.analyze(c, req.JobTitle, content)
}

func (h *ATSHandler) analyze(c *fiber.Ctx, jobTitle, content string) error {
	result, err := h.generationService.AnalyzeATS(requestContext(c), jobTitle, content)
	if err != nil {
		h.logger.Error("Error analyzing ATS compatibility",
			zap.String("request_id", requestID(c)),
			zap.Error(err),
		)
		return respondFailure(c, models.EndpointATS, msgAnalyzeContentFailed)
	}

	metrics.RequestsTotal.WithLabelValues(models.EndpointATS, metrics.OutcomeSuccess).Inc()
	return c.Status(fiber.StatusOK).JSON(models.ATSResponse{
		Success:  true,
		Score:    result.Score,
		Feedback: result.Feedback,
	})
}
