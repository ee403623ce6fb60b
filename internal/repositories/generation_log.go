package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-assistant/internal/models"
)

type GenerationLogRepository interface {
	Create(ctx context.Context, entry *models.GenerationLog) error
}

type generationLogRepository struct {
	db *gorm.DB
}

// NewGenerationLogRepository returns a gorm-backed repository, or a no-op
// one when db is nil (generation log disabled).
func NewGenerationLogRepository(db *gorm.DB) GenerationLogRepository {
	if db == nil {
		return noopGenerationLogRepository{}
	}
	return &generationLogRepository{db: db}
}

func (r *generationLogRepository) Create(ctx context.Context, entry *models.GenerationLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create generation log: %w", err)
	}
	return nil
}

type noopGenerationLogRepository struct{}

func (noopGenerationLogRepository) Create(context.Context, *models.GenerationLog) error {
	return nil
}
