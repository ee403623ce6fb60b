package models

const DefaultATSFeedback = "No feedback available."

// ATSResult is the shaped outcome of an ATS analysis. Score is not clamped.
type ATSResult struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

type CoverLetterResponse struct {
	Success bool   `json:"success"`
	Letter  string `json:"letter"`
}

type ATSResponse struct {
	Success  bool   `json:"success"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}
