package model

import (
	"encoding/json"
	"time"
)

// ChunkType records which chunking tier produced a chunk.
type ChunkType string

const (
	ChunkTypeParagraph     ChunkType = "paragraph"
	ChunkTypeSentenceGroup ChunkType = "sentence-group"
	ChunkTypeFallback      ChunkType = "fallback"
)

// Position is a character offset range of a chunk within its page segment
// (PDF) or within the whole document text (other kinds).
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ChunkMeta is the positional metadata attached to a chunk.
type ChunkMeta struct {
	PageNumber *int      `json:"page_number,omitempty"` // 0-based, PDF only
	Position   *Position `json:"position,omitempty"`
	ChunkType  ChunkType `json:"chunk_type"`
}

// Chunk is a retrieval-sized excerpt of a document's text.
// Chunks are immutable after creation and removed only by the cascade
// from document deletion.
type Chunk struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	DocumentID string    `gorm:"size:36;not null;index" json:"document_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Metadata   string    `gorm:"type:text" json:"-"` // JSON ChunkMeta
	CreatedAt  time.Time `json:"created_at"`
}

// Meta returns the parsed chunk metadata; zero value on parse error.
func (c *Chunk) Meta() ChunkMeta {
	var m ChunkMeta
	if c.Metadata == "" {
		return m
	}
	_ = json.Unmarshal([]byte(c.Metadata), &m)
	return m
}

// SetMeta stores the chunk metadata as JSON.
func (c *Chunk) SetMeta(m ChunkMeta) {
	b, _ := json.Marshal(m)
	c.Metadata = string(b)
}
