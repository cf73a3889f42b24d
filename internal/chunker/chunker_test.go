package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuquery/internal/extract"
	"docuquery/internal/model"
)

func contentsOf(chunks []model.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Content
	}
	return out
}

func TestChunkParagraphs(t *testing.T) {
	text := "First paragraph with enough text.\n\nSecond paragraph, also long enough.\n\nshort"
	chunks := Chunk("doc-1", text, model.DocumentTypeText)

	require.Len(t, chunks, 2)
	assert.Equal(t, "First paragraph with enough text.", chunks[0].Content)
	assert.Equal(t, "Second paragraph, also long enough.", chunks[1].Content)

	meta := chunks[0].Meta()
	assert.Equal(t, model.ChunkTypeParagraph, meta.ChunkType)
	assert.Nil(t, meta.PageNumber)
	require.NotNil(t, meta.Position)
	assert.Equal(t, 0, meta.Position.Start)
	assert.Equal(t, len(chunks[0].Content), meta.Position.End)

	second := chunks[1].Meta()
	require.NotNil(t, second.Position)
	assert.Equal(t, strings.Index(text, chunks[1].Content), second.Position.Start)
}

func TestChunkPDFRecordsPageNumbers(t *testing.T) {
	text := "Page 1: Introduction paragraph with plenty of words.\n\nPage 2: Second page paragraph, equally long."
	chunks := Chunk("doc-1", text, model.DocumentTypePDF)

	require.Len(t, chunks, 2)
	first := chunks[0].Meta()
	second := chunks[1].Meta()
	require.NotNil(t, first.PageNumber)
	require.NotNil(t, second.PageNumber)
	assert.Equal(t, 0, *first.PageNumber)
	assert.Equal(t, 1, *second.PageNumber)
	assert.Equal(t, model.ChunkTypeParagraph, first.ChunkType)
}

func TestChunkPDFBlankPageKeepsNumbering(t *testing.T) {
	// Page 2 carries no text; page 3 must still be numbered 2.
	text := "Page 1: Opening page paragraph with enough words.\n\n" +
		"Page 2: \n\n" +
		"Page 3: Closing page paragraph with enough words."
	chunks := Chunk("doc-1", text, model.DocumentTypePDF)

	require.Len(t, chunks, 2)
	first := chunks[0].Meta()
	second := chunks[1].Meta()
	require.NotNil(t, first.PageNumber)
	require.NotNil(t, second.PageNumber)
	assert.Equal(t, 0, *first.PageNumber)
	assert.Equal(t, 2, *second.PageNumber)
	assert.Contains(t, chunks[1].Content, "Closing page")
}

func TestChunkPDFFailedPageYieldsNoChunks(t *testing.T) {
	// A failed page is marked with the extraction placeholder; it must not
	// become a chunk, and later pages keep their numbers.
	text := "Page 1: Readable first page with real paragraph text.\n\n" +
		"Page 2: " + extract.PageErrorPlaceholder + "\n\n" +
		"Page 3: Readable third page with real paragraph text."
	chunks := Chunk("doc-1", text, model.DocumentTypePDF)

	require.Len(t, chunks, 2)
	var pages []int
	for _, c := range chunks {
		assert.NotContains(t, c.Content, extract.PageErrorPlaceholder)
		meta := c.Meta()
		require.NotNil(t, meta.PageNumber)
		pages = append(pages, *meta.PageNumber)
	}
	assert.Equal(t, []int{0, 2}, pages)
}

func TestChunkPDFSentinelYieldsFallback(t *testing.T) {
	chunks := Chunk("doc-1", extract.NoExtractableTextSentinel, model.DocumentTypePDF)

	require.Len(t, chunks, 1)
	assert.Equal(t, extract.NoExtractableTextSentinel, chunks[0].Content)
	assert.Equal(t, model.ChunkTypeFallback, chunks[0].Meta().ChunkType)
	assert.Nil(t, chunks[0].Meta().PageNumber)
}

func TestChunkIdempotent(t *testing.T) {
	text := "Alpha paragraph content here.\n\nBeta paragraph content here.\n\nGamma paragraph content here."
	a := Chunk("doc-1", text, model.DocumentTypeText)
	b := Chunk("doc-1", text, model.DocumentTypeText)

	require.Equal(t, len(a), len(b))
	assert.Equal(t, contentsOf(a), contentsOf(b))
	for i := range a {
		assert.Equal(t, a[i].Meta(), b[i].Meta())
	}
}

func TestChunkDropsShortFragments(t *testing.T) {
	chunks := Chunk("doc-1", "ok\n\nfine\n\nThis one is long enough to keep.", model.DocumentTypeText)
	require.Len(t, chunks, 1)
	assert.Equal(t, "This one is long enough to keep.", chunks[0].Content)
	for _, c := range chunks {
		assert.GreaterOrEqual(t, len(strings.TrimSpace(c.Content)), MinChunkLength)
	}
}

func TestChunkSentenceGroupDensification(t *testing.T) {
	// 3 paragraphs, > 1000 characters total: paragraph chunking is too
	// coarse, so sentence grouping must take over.
	sentence := "This sentence pads the paragraph with a reasonable number of words. "
	para := strings.TrimSpace(strings.Repeat(sentence, 6))
	text := para + "\n\n" + para + "\n\n" + para
	require.Greater(t, len(text), densifyMinTextLen)

	chunks := Chunk("doc-1", text, model.DocumentTypeText)
	require.GreaterOrEqual(t, len(chunks), 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Content), maxSentenceGroupLen)
		assert.Equal(t, model.ChunkTypeSentenceGroup, c.Meta().ChunkType)
	}
}

func TestChunkEmptyTextYieldsFallback(t *testing.T) {
	for _, text := range []string{"", "   \n\t  "} {
		chunks := Chunk("doc-1", text, model.DocumentTypeText)
		require.Len(t, chunks, 1)
		assert.Equal(t, FallbackContent, chunks[0].Content)
		assert.Equal(t, model.ChunkTypeFallback, chunks[0].Meta().ChunkType)
	}
}

func TestChunkShortTextYieldsFallbackWithText(t *testing.T) {
	chunks := Chunk("doc-1", "tiny", model.DocumentTypeText)
	require.Len(t, chunks, 1)
	assert.Equal(t, "tiny", chunks[0].Content)
	assert.Equal(t, model.ChunkTypeFallback, chunks[0].Meta().ChunkType)
}

func TestChunkNonEmptyAlwaysYieldsAtLeastOne(t *testing.T) {
	texts := []string{
		"A single healthy paragraph of text.",
		"word",
		strings.Repeat("x", 2000),
	}
	for _, text := range texts {
		chunks := Chunk("doc-1", text, model.DocumentTypeText)
		assert.NotEmpty(t, chunks, "text %q", text[:min(len(text), 20)])
	}
}
