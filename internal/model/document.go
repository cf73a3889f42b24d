package model

import (
	"encoding/json"
	"time"
)

// DocumentType identifies the source format of an uploaded file.
type DocumentType string

const (
	DocumentTypePDF   DocumentType = "pdf"
	DocumentTypeDOCX  DocumentType = "docx"
	DocumentTypeImage DocumentType = "image"
	DocumentTypeText  DocumentType = "text"
)

// IsValid reports whether t is one of the supported document types.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypePDF, DocumentTypeDOCX, DocumentTypeImage, DocumentTypeText:
		return true
	}
	return false
}

// MetaKeyContext is the metadata key holding the project context tag a
// document was uploaded under.
const MetaKeyContext = "context_id"

// Document is an uploaded file after text extraction.
// Metadata is stored as a JSON object for portability.
type Document struct {
	ID         string       `gorm:"primaryKey;size:36" json:"id"`
	Name       string       `gorm:"size:256;not null" json:"name"`
	Type       DocumentType `gorm:"size:16;not null" json:"type"`
	Content    string       `gorm:"type:longtext" json:"content"`
	RawContent string       `gorm:"type:longtext" json:"-"`
	Metadata   string       `gorm:"type:text" json:"-"` // JSON object
	UploadDate time.Time    `json:"upload_date"`
}

// Meta returns the parsed metadata map; empty map on parse error.
func (d *Document) Meta() map[string]any {
	m := map[string]any{}
	if d.Metadata == "" {
		return m
	}
	_ = json.Unmarshal([]byte(d.Metadata), &m)
	return m
}

// SetMeta stores the metadata map as JSON.
func (d *Document) SetMeta(m map[string]any) {
	if len(m) == 0 {
		d.Metadata = "{}"
		return
	}
	b, _ := json.Marshal(m)
	d.Metadata = string(b)
}

// ContextID returns the project context tag, or "" when untagged.
func (d *Document) ContextID() string {
	if v, ok := d.Meta()[MetaKeyContext].(string); ok {
		return v
	}
	return ""
}
