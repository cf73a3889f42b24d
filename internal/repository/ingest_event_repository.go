package repository

import (
	"fmt"

	"gorm.io/gorm"

	"docuquery/internal/model"
)

type IngestEventRepository struct {
	db *gorm.DB
}

func NewIngestEventRepository(db *gorm.DB) *IngestEventRepository {
	return &IngestEventRepository{db: db}
}

func (r *IngestEventRepository) Create(event *model.IngestEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("create ingest event failed: %w", err)
	}
	return nil
}

// ListByFileName returns a file's progress trail, oldest first.
func (r *IngestEventRepository) ListByFileName(fileName string, limit int) ([]model.IngestEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var events []model.IngestEvent
	if err := r.db.Where("file_name = ?", fileName).Order("created_at ASC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list ingest events failed: %w", err)
	}
	return events, nil
}
