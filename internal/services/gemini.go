package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/resume-assistant/internal/config"
)

// ErrUpstream wraps every failure of the model API: network, auth, quota,
// API status and unusable responses.
var ErrUpstream = errors.New("upstream model request failed")

type GeminiService interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateStructured asks for a JSON response that matches schema.
	GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
	ModelName() string
}

type geminiService struct {
	apiKey    string
	baseURL   string
	modelName string
	logger    *zap.Logger

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiService does not contact the API or validate the key; the client
// is created on the first generation call.
func NewGeminiService(cfg config.GeminiConfig, logger *zap.Logger) GeminiService {
	return &geminiService{
		apiKey:    cfg.APIKey,
		baseURL:   cfg.BaseURL,
		modelName: cfg.Model,
		logger:    logger.Named("gemini"),
	}
}

func (g *geminiService) ModelName() string {
	return g.modelName
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt, nil)
}

// GenerateStructured implements GeminiService.
func (g *geminiService) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	return g.generate(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
}

func (g *geminiService) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	client, err := g.getClient()
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrUpstream)
	}

	text := resp.Text()
	if text == "" {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked: %s", ErrUpstream, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no text content in response", ErrUpstream)
	}

	g.logger.Debug("gemini response received",
		zap.String("model", g.modelName),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("response_chars", len(text)),
	)

	return text, nil
}

func (g *geminiService) getClient() (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrUpstream)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gemini client: %w", ErrUpstream, err)
	}

	g.client = client
	return client, nil
}
