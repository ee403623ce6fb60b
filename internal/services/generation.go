package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/resume-assistant/internal/metrics"
	"alfredoptarigan/resume-assistant/internal/models"
	"alfredoptarigan/resume-assistant/internal/repositories"
)

type GenerationService interface {
	GenerateCoverLetter(ctx context.Context, req *models.CoverLetterRequest) (string, error)
	AnalyzeATS(ctx context.Context, jobTitle, content string) (*models.ATSResult, error)
}

type generationService struct {
	geminiService GeminiService
	logRepo       repositories.GenerationLogRepository
	promptBuilder *PromptBuilder
	structuredATS bool
	logger        *zap.Logger
}

func NewGenerationService(
	geminiService GeminiService,
	logRepo repositories.GenerationLogRepository,
	structuredATS bool,
	logger *zap.Logger,
) GenerationService {
	return &generationService{
		geminiService: geminiService,
		logRepo:       logRepo,
		promptBuilder: NewPromptBuilder(),
		structuredATS: structuredATS,
		logger:        logger.Named("generation"),
	}
}

// ATSResponseSchema is the JSON shape requested from the model for ATS
// analysis when structured output is on.
func ATSResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score": {
				Type:        genai.TypeInteger,
				Description: "ATS compatibility score out of 100",
			},
			"feedback": {
				Type:        genai.TypeString,
				Description: "Detailed feedback on keyword usage, structure, and potential improvements",
			},
		},
		Required: []string{"score", "feedback"},
	}
}

// GenerateCoverLetter implements GenerationService. The model text is
// returned unchanged.
func (s *generationService) GenerateCoverLetter(ctx context.Context, req *models.CoverLetterRequest) (string, error) {
	prompt := s.promptBuilder.BuildCoverLetterPrompt(req)

	start := time.Now()
	letter, err := s.geminiService.GenerateText(ctx, prompt)
	elapsed := time.Since(start)
	metrics.ModelCallDuration.WithLabelValues(models.EndpointCoverLetter).Observe(elapsed.Seconds())

	s.record(ctx, &generationRecord{
		endpoint: models.EndpointCoverLetter,
		prompt:   prompt,
		response: letter,
		elapsed:  elapsed,
		err:      err,
	})

	if err != nil {
		return "", fmt.Errorf("failed to generate cover letter: %w", err)
	}

	return letter, nil
}

// AnalyzeATS implements GenerationService.
func (s *generationService) AnalyzeATS(ctx context.Context, jobTitle, content string) (*models.ATSResult, error) {
	prompt := s.promptBuilder.BuildATSPrompt(jobTitle, content)

	var (
		output string
		err    error
	)

	start := time.Now()
	if s.structuredATS {
		output, err = s.geminiService.GenerateStructured(ctx, prompt, ATSResponseSchema())
	} else {
		output, err = s.geminiService.GenerateText(ctx, prompt)
	}
	elapsed := time.Since(start)
	metrics.ModelCallDuration.WithLabelValues(models.EndpointATS).Observe(elapsed.Seconds())

	if err != nil {
		s.record(ctx, &generationRecord{
			endpoint: models.EndpointATS,
			prompt:   prompt,
			elapsed:  elapsed,
			err:      err,
		})
		return nil, fmt.Errorf("failed to analyze content: %w", err)
	}

	result, source := ParseATSResponse(output)
	metrics.ATSParseTotal.WithLabelValues(string(source)).Inc()
	if source == ParseSourceDefault {
		s.logger.Warn("ATS response had no score or feedback, using defaults",
			zap.String("request_id", RequestIDFromContext(ctx)),
			zap.Int("response_chars", len(output)),
		)
	}

	s.record(ctx, &generationRecord{
		endpoint: models.EndpointATS,
		prompt:   prompt,
		response: output,
		score:    &result.Score,
		elapsed:  elapsed,
	})

	return &result, nil
}

type generationRecord struct {
	endpoint string
	prompt   string
	response string
	score    *int
	elapsed  time.Duration
	err      error
}

// record writes the generation log. Failures are logged and otherwise
// ignored so they never affect the caller's response.
func (s *generationService) record(ctx context.Context, rec *generationRecord) {
	entry := &models.GenerationLog{
		RequestID:      RequestIDFromContext(ctx),
		Endpoint:       rec.endpoint,
		Status:         models.StatusSucceeded,
		Model:          s.geminiService.ModelName(),
		PromptChars:    len(rec.prompt),
		ResponseChars:  len(rec.response),
		Score:          rec.score,
		DurationMillis: rec.elapsed.Milliseconds(),
	}
	if rec.err != nil {
		msg := rec.err.Error()
		entry.Status = models.StatusFailed
		entry.ErrorMessage = &msg
	}

	if err := s.logRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write generation log",
			zap.String("endpoint", rec.endpoint),
			zap.String("request_id", entry.RequestID),
			zap.Error(err),
		)
	}
}

type requestIDKey struct{}

// WithRequestID attaches the HTTP request id so downstream logs and the
// generation log can be correlated.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
