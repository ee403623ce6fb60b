package server

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"alfredoptarigan/resume-assistant/internal/config"
	"alfredoptarigan/resume-assistant/internal/handlers"
	"alfredoptarigan/resume-assistant/internal/models"
	"alfredoptarigan/resume-assistant/internal/services"
	"alfredoptarigan/resume-assistant/internal/validation"
)

const (
	msgOriginNotAllowed = "Origin not allowed"

	// multipartHeadroom covers multipart framing on top of MaxFileSize; the
	// upload handler enforces the file limit itself.
	multipartHeadroom = 1 << 20
)

type Dependencies struct {
	Config            *config.Config
	GenerationService services.GenerationService
	DocumentParser    services.DocumentParserService
	Logger            *zap.Logger
}

// New wires middleware and routes into a Fiber app.
func New(deps Dependencies) *fiber.App {
	cfg := deps.Config
	log := deps.Logger

	app := fiber.New(fiber.Config{
		AppName:               "Resume Assistant API",
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             int(cfg.Storage.MaxFileSize) + multipartHeadroom,
		ErrorHandler:          customErrorHandler(log),
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: handlers.RequestIDLocalKey,
	}))
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(originGuard(cfg.CORS.AllowedOrigin, log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigin,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	validator := validation.New()
	coverLetterHandler := handlers.NewCoverLetterHandler(deps.GenerationService, validator, log)
	atsHandler := handlers.NewATSHandler(
		deps.GenerationService,
		deps.DocumentParser,
		validator,
		cfg.Storage.MaxFileSize,
		log,
	)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API endpoints
	app.Post("/generate-cover-letter", coverLetterHandler.HandleGenerate)
	app.Post("/analyze-ats", atsHandler.HandleAnalyze)
	app.Post("/analyze-ats/upload", atsHandler.HandleUpload)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Assistant API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /generate-cover-letter",
				"POST /analyze-ats",
				"POST /analyze-ats/upload",
				"GET /health",
				"GET /metrics",
			},
		})
	})

	return app
}

// originGuard rejects any request whose Origin header is present and differs
// from the single allowed origin, before it reaches CORS or a handler.
// Requests without an Origin header are not cross-origin and pass through.
func originGuard(allowedOrigin string, log *zap.Logger) fiber.Handler {
	allowed := normalizeOrigin(allowedOrigin)

	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" || normalizeOrigin(origin) == allowed {
			return c.Next()
		}

		log.Debug("rejected cross-origin request",
			zap.String("origin", origin),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		)
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse{
			Success: false,
			Error:   msgOriginNotAllowed,
		})
	}
}

func normalizeOrigin(origin string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
}

func customErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		} else {
			log.Error("unhandled error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(models.ErrorResponse{
			Success: false,
			Error:   message,
		})
	}
}
