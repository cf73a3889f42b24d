package model

import "time"

// IngestEvent is a persisted progress milestone from the ingestion pipeline.
// Events are published to the progress queue during ingestion and written by
// the ingest event worker, so the upload UI can poll a per-file trail.
type IngestEvent struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FileName     string    `gorm:"size:256;not null;index" json:"file_name"`
	Stage        string    `gorm:"size:32;not null" json:"stage"`
	Progress     int       `gorm:"not null" json:"progress"` // 0-100
	Message      string    `gorm:"size:512" json:"message"`
	IsProcessing bool      `gorm:"not null" json:"is_processing"`
	CreatedAt    time.Time `json:"created_at"`
}
