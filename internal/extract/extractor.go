// Package extract converts raw uploaded files into plain text, dispatching by
// detected file kind. Extraction failures are fatal to the single file only;
// batch callers continue with the next file.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"docuquery/internal/model"
	"docuquery/internal/progress"
)

// DefaultOCRLanguage is the fixed tesseract language used for image uploads.
const DefaultOCRLanguage = "eng"

type Extractor struct {
	ocrLang string
}

func NewExtractor() *Extractor {
	return &Extractor{ocrLang: DefaultOCRLanguage}
}

// Extract returns the plain text of data according to kind, reporting
// milestones to sink along the way.
func (e *Extractor) Extract(ctx context.Context, name string, data []byte, kind model.DocumentType, sink progress.Sink) (string, error) {
	if sink == nil {
		sink = progress.NopSink
	}
	report(sink, name, "extract", 5, fmt.Sprintf("Extracting text from %s", name))

	var (
		text string
		err  error
	)
	switch kind {
	case model.DocumentTypePDF:
		text, err = e.extractPDF(name, data, sink)
	case model.DocumentTypeDOCX:
		text, err = extractDOCX(data)
	case model.DocumentTypeImage:
		text, err = e.extractImage(ctx, name, data, sink)
	case model.DocumentTypeText:
		text = decodeText(data)
	default:
		return "", fmt.Errorf("unsupported document type: %s", kind)
	}
	if err != nil {
		return "", err
	}

	report(sink, name, "extract", 30, "Text extraction complete")
	return text, nil
}

// DetectType maps a file name (and optional content type) to a document type.
func DetectType(name, contentType string) (model.DocumentType, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return model.DocumentTypePDF, nil
	case ".docx", ".doc":
		return model.DocumentTypeDOCX, nil
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
		return model.DocumentTypeImage, nil
	case ".txt", ".md", ".csv", ".log":
		return model.DocumentTypeText, nil
	}
	switch {
	case contentType == "application/pdf":
		return model.DocumentTypePDF, nil
	case strings.HasPrefix(contentType, "image/"):
		return model.DocumentTypeImage, nil
	case strings.HasPrefix(contentType, "text/"):
		return model.DocumentTypeText, nil
	}
	return "", fmt.Errorf("unsupported file type: %s", name)
}

// decodeText returns the byte content as UTF-8 text, replacing invalid
// sequences so downstream chunking never sees broken runes.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}

func report(sink progress.Sink, name, stage string, pct int, msg string) {
	sink.Report(progress.Update{
		FileName:     name,
		Stage:        stage,
		Progress:     pct,
		Message:      msg,
		IsProcessing: true,
	})
}
