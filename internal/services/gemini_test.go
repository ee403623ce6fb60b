package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/resume-assistant/internal/config"
)

type capturedRequest struct {
	path   string
	apiKey string
	body   string
}

func newGeminiTestServer(t *testing.T, status int, response string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()

	var (
		mu       sync.Mutex
		captured []capturedRequest
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mu.Lock()
		captured = append(captured, capturedRequest{
			path:   r.URL.Path,
			apiKey: r.Header.Get("x-goog-api-key"),
			body:   string(body),
		})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return srv, &captured
}

func textResponse(text string) string {
	return `{"candidates":[{"content":{"role":"model","parts":[{"text":` + jsonString(text) + `}]},"finishReason":"STOP"}]}`
}

func jsonString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func TestGeminiGenerateText(t *testing.T) {
	srv, captured := newGeminiTestServer(t, http.StatusOK, textResponse("Dear Hiring Manager,\nRegards"))

	svc := NewGeminiService(config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-test",
		BaseURL: srv.URL,
	}, zap.NewNop())

	text, err := svc.GenerateText(context.Background(), "write a letter")

	require.NoError(t, err)
	assert.Equal(t, "Dear Hiring Manager,\nRegards", text)
	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Contains(t, req.path, "gemini-test")
	assert.True(t, strings.HasSuffix(req.path, ":generateContent"))
	assert.Equal(t, "test-key", req.apiKey)
	assert.Contains(t, req.body, "write a letter")
	assert.NotContains(t, req.body, "responseMimeType")
}

func TestGeminiGenerateStructured(t *testing.T) {
	srv, captured := newGeminiTestServer(t, http.StatusOK, textResponse(`{"score":81,"feedback":"ok"}`))

	svc := NewGeminiService(config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-test",
		BaseURL: srv.URL,
	}, zap.NewNop())

	text, err := svc.GenerateStructured(context.Background(), "analyze", ATSResponseSchema())

	require.NoError(t, err)
	assert.Equal(t, `{"score":81,"feedback":"ok"}`, text)
	require.Len(t, *captured, 1)
	assert.Contains(t, (*captured)[0].body, `"responseMimeType":"application/json"`)
	assert.Contains(t, (*captured)[0].body, "responseSchema")
}

func TestGeminiUpstreamStatusError(t *testing.T) {
	srv, _ := newGeminiTestServer(t, http.StatusBadRequest,
		`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)

	svc := NewGeminiService(config.GeminiConfig{
		APIKey:  "bad-key",
		Model:   "gemini-test",
		BaseURL: srv.URL,
	}, zap.NewNop())

	_, err := svc.GenerateText(context.Background(), "prompt")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGeminiEmptyResponse(t *testing.T) {
	srv, _ := newGeminiTestServer(t, http.StatusOK, `{"candidates":[]}`)

	svc := NewGeminiService(config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-test",
		BaseURL: srv.URL,
	}, zap.NewNop())

	_, err := svc.GenerateText(context.Background(), "prompt")

	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGeminiBlockedPrompt(t *testing.T) {
	srv, _ := newGeminiTestServer(t, http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`)

	svc := NewGeminiService(config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-test",
		BaseURL: srv.URL,
	}, zap.NewNop())

	_, err := svc.GenerateText(context.Background(), "prompt")

	require.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGeminiMissingAPIKeyFailsOnUse(t *testing.T) {
	svc := NewGeminiService(config.GeminiConfig{Model: "gemini-test"}, zap.NewNop())

	assert.Equal(t, "gemini-test", svc.ModelName())

	_, err := svc.GenerateText(context.Background(), "prompt")

	require.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}
