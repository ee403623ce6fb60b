package services

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"alfredoptarigan/resume-assistant/internal/models"
)

// ParseSource tells which strategy produced an ATSResult.
type ParseSource string

const (
	ParseSourceStructured ParseSource = "structured"
	ParseSourcePattern    ParseSource = "pattern"
	ParseSourceDefault    ParseSource = "default"
)

var (
	scorePattern    = regexp.MustCompile(`(?i)Score: (\d+)`)
	feedbackPattern = regexp.MustCompile(`(?is)Feedback:(.*)`)
)

type structuredATS struct {
	Score    *int    `json:"score"`
	Feedback *string `json:"feedback"`
}

// ParseATSResponse shapes free-form model output into an ATSResult.
//
// A reply that is entirely one JSON object with score or feedback wins.
// Otherwise the first "Score: N" and the text after the first "Feedback:"
// are used; a score too large for int is capped at math.MaxInt. Anything
// still missing falls back to score 0 and models.DefaultATSFeedback; a miss
// is never an error.
func ParseATSResponse(raw string) (models.ATSResult, ParseSource) {
	if result, ok := parseStructuredATS(raw); ok {
		return result, ParseSourceStructured
	}

	result := models.ATSResult{Feedback: models.DefaultATSFeedback}
	source := ParseSourceDefault

	if m := scorePattern.FindStringSubmatch(raw); m != nil {
		score, err := strconv.Atoi(m[1])
		switch {
		case err == nil:
			result.Score = score
			source = ParseSourcePattern
		case errors.Is(err, strconv.ErrRange):
			result.Score = math.MaxInt
			source = ParseSourcePattern
		}
	}

	if m := feedbackPattern.FindStringSubmatch(raw); m != nil {
		result.Feedback = strings.TrimSpace(m[1])
		source = ParseSourcePattern
	}

	return result, source
}

func parseStructuredATS(raw string) (models.ATSResult, bool) {
	jsonStr, ok := extractJSONObject(raw)
	if !ok {
		return models.ATSResult{}, false
	}

	var parsed structuredATS
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return models.ATSResult{}, false
	}
	if parsed.Score == nil && parsed.Feedback == nil {
		return models.ATSResult{}, false
	}

	result := models.ATSResult{Feedback: models.DefaultATSFeedback}
	if parsed.Score != nil {
		result.Score = *parsed.Score
	}
	if parsed.Feedback != nil && strings.TrimSpace(*parsed.Feedback) != "" {
		result.Feedback = strings.TrimSpace(*parsed.Feedback)
	}
	return result, true
}

// extractJSONObject returns the reply as a JSON object candidate when the
// whole reply, minus surrounding markdown fences, is a single object.
func extractJSONObject(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		return "", false
	}
	return text, true
}
