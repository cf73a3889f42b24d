package model

import (
	"encoding/json"
	"time"
)

// Embedding is the vector representation of exactly one chunk.
// Vector and Tokens are stored as JSON arrays for portability; Tokens is
// informational only and plays no part in similarity search.
type Embedding struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ChunkID   string    `gorm:"size:36;not null;uniqueIndex" json:"chunk_id"`
	Vector    string    `gorm:"type:mediumtext" json:"-"` // JSON array of float32
	Tokens    string    `gorm:"type:text" json:"-"`       // JSON array of string
	CreatedAt time.Time `json:"created_at"`
}

// VectorData returns the parsed embedding vector; nil on parse error.
func (e *Embedding) VectorData() []float32 {
	if e.Vector == "" {
		return nil
	}
	var v []float32
	_ = json.Unmarshal([]byte(e.Vector), &v)
	return v
}

// SetVector stores the vector as JSON.
func (e *Embedding) SetVector(vec []float32) {
	if len(vec) == 0 {
		e.Vector = "[]"
		return
	}
	b, _ := json.Marshal(vec)
	e.Vector = string(b)
}

// TokenData returns the parsed token list; nil on parse error.
func (e *Embedding) TokenData() []string {
	if e.Tokens == "" {
		return nil
	}
	var t []string
	_ = json.Unmarshal([]byte(e.Tokens), &t)
	return t
}

// SetTokens stores the token list as JSON.
func (e *Embedding) SetTokens(tokens []string) {
	if len(tokens) == 0 {
		e.Tokens = "[]"
		return
	}
	b, _ := json.Marshal(tokens)
	e.Tokens = string(b)
}
