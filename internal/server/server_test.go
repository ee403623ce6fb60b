package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/resume-assistant/internal/config"
	"alfredoptarigan/resume-assistant/internal/models"
	"alfredoptarigan/resume-assistant/internal/services"
)

const testOrigin = "https://allowed.example.org"

type stubGenerationService struct {
	requestID string
}

func (s *stubGenerationService) GenerateCoverLetter(ctx context.Context, _ *models.CoverLetterRequest) (string, error) {
	s.requestID = services.RequestIDFromContext(ctx)
	return "letter", nil
}

func (s *stubGenerationService) AnalyzeATS(ctx context.Context, _, _ string) (*models.ATSResult, error) {
	s.requestID = services.RequestIDFromContext(ctx)
	return &models.ATSResult{Score: 50, Feedback: "ok"}, nil
}

func newTestServer(t *testing.T, svc services.GenerationService) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		Server:  config.ServerConfig{Port: "3000", Env: "test"},
		CORS:    config.CORSConfig{AllowedOrigin: testOrigin},
		Storage: config.StorageConfig{MaxFileSize: 1 << 20},
	}

	return New(Dependencies{
		Config:            cfg,
		GenerationService: svc,
		DocumentParser:    services.NewDocumentParserService(),
		Logger:            zap.NewNop(),
	})
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func atsRequest(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/analyze-ats",
		strings.NewReader(`{"content":"Go","jobTitle":"Engineer"}`))
	req.Header.Set("Content-Type", "application/json")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func TestAllowedOriginGetsCORSHeaders(t *testing.T) {
	svc := &stubGenerationService{}
	app := newTestServer(t, svc)

	resp, err := app.Test(atsRequest(testOrigin), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, svc.requestID)
	assert.Equal(t, svc.requestID, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestDisallowedOriginIsRejected(t *testing.T) {
	svc := &stubGenerationService{}
	app := newTestServer(t, svc)

	resp, err := app.Test(atsRequest("https://evil.example.com"), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, map[string]any{"success": false, "error": "Origin not allowed"}, decode(t, resp))
	assert.Empty(t, svc.requestID)
}

func TestRequestWithoutOriginPasses(t *testing.T) {
	svc := &stubGenerationService{}
	app := newTestServer(t, svc)

	resp, err := app.Test(atsRequest(""), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(50), decode(t, resp)["score"])
}

func TestPreflight(t *testing.T) {
	tests := []struct {
		name       string
		origin     string
		wantStatus int
		wantACAO   string
	}{
		{"allowed origin", testOrigin, http.StatusNoContent, testOrigin},
		{"other origin", "https://evil.example.com", http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestServer(t, &stubGenerationService{})

			req := httptest.NewRequest(http.MethodOptions, "/generate-cover-letter", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			req.Header.Set("Access-Control-Request-Headers", "Content-Type")

			resp, err := app.Test(req, -1)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantACAO, resp.Header.Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestHealth(t *testing.T) {
	app := newTestServer(t, &stubGenerationService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["time"])
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestServer(t, &stubGenerationService{})

	_, err := app.Test(atsRequest(""), -1)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "resume_assistant_requests_total")
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	app := newTestServer(t, &stubGenerationService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/nope", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestPanicIsRecovered(t *testing.T) {
	app := newTestServer(t, &stubGenerationService{})
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, map[string]any{"success": false, "error": "Internal server error"}, decode(t, resp))
}

func TestNormalizeOrigin(t *testing.T) {
	assert.Equal(t, "https://allowed.example.org", normalizeOrigin(" HTTPS://Allowed.Example.org/ "))
}

func TestOversizedUploadReachesSizeCheck(t *testing.T) {
	svc := &stubGenerationService{}
	app := newTestServer(t, svc)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("jobTitle", "Data Engineer"))
	part, err := w.CreateFormFile("resume", "resume.txt")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("a"), (1<<20)+1))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze-ats/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Invalid request payload", body["error"])
	assert.Equal(t, []any{"resume file too large. Max size: 1048576 bytes"}, body["details"])
	assert.Empty(t, svc.requestID)
}
