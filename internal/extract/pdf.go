package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"docuquery/internal/progress"
)

// NoExtractableTextSentinel is returned when no page of a PDF yields any
// non-whitespace text.
const NoExtractableTextSentinel = "No text content could be extracted from this PDF"

// PageErrorPlaceholder marks a page whose extraction failed. It is shorter
// than the chunker's minimum chunk length, so failed pages never become
// retrievable chunks.
const PageErrorPlaceholder = "[error]"

// extractPDF walks pages in order, prefixing each page's text with a
// "Page <n>:" marker so chunking can recover page boundaries. A failing page
// is replaced with a placeholder and extraction continues.
func (e *Extractor) extractPDF(name string, data []byte, sink progress.Sink) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf failed: %w", err)
	}

	total := reader.NumPage()
	var pages []string
	anyText := false

	for n := 1; n <= total; n++ {
		text, pageErr := extractPage(reader, n)
		if pageErr != nil {
			pages = append(pages, fmt.Sprintf("Page %d: %s", n, PageErrorPlaceholder))
			continue
		}
		if strings.TrimSpace(text) != "" {
			anyText = true
		}
		pages = append(pages, fmt.Sprintf("Page %d: %s", n, text))

		pct := 5 + (20*n)/max(total, 1)
		report(sink, name, "extract", pct, fmt.Sprintf("Extracted page %d of %d", n, total))
	}

	if !anyText {
		return NoExtractableTextSentinel, nil
	}
	return strings.Join(pages, "\n\n"), nil
}

// extractPage joins the page's text items with spaces. The pdf library can
// panic on malformed content streams, so the panic is converted to a per-page
// error here.
func extractPage(reader *pdf.Reader, n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d content panic: %v", n, r)
		}
	}()

	page := reader.Page(n)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is missing", n)
	}

	content := page.Content()
	parts := make([]string, 0, len(content.Text))
	for _, item := range content.Text {
		if item.S == "" {
			continue
		}
		parts = append(parts, item.S)
	}
	return strings.Join(parts, " "), nil
}
