package models

import (
	"time"

	"github.com/google/uuid"
)

type GenerationStatus string

const (
	StatusSucceeded GenerationStatus = "succeeded"
	StatusFailed    GenerationStatus = "failed"
)

const (
	EndpointCoverLetter = "generate-cover-letter"
	EndpointATS         = "analyze-ats"
)

// GenerationLog is request metadata only. Prompts, request fields and model
// output are never stored.
type GenerationLog struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID      string           `gorm:"type:text;index" json:"request_id"`
	Endpoint       string           `gorm:"type:text;not null" json:"endpoint"`
	Status         GenerationStatus `gorm:"type:text;not null" json:"status"`
	Model          string           `gorm:"type:text" json:"model"`
	PromptChars    int              `json:"prompt_chars"`
	ResponseChars  int              `json:"response_chars"`
	Score          *int             `json:"score,omitempty"`
	DurationMillis int64            `json:"duration_ms"`
	ErrorMessage   *string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (GenerationLog) TableName() string {
	return "generation_logs"
}
