// Package chunker splits extracted document text into retrieval-sized units.
// The strategy is layered: page-aware for PDFs, then paragraph-aware, then a
// sentence-grouping densification for short-paragraph documents, with a final
// single-chunk guarantee so every document owns at least one chunk.
package chunker

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"docuquery/internal/model"
)

const (
	// MinChunkLength drops fragments shorter than this after trimming.
	MinChunkLength = 10
	// densifyMinChunks and densifyMinTextLen trigger sentence-group
	// re-chunking when paragraph splitting was too coarse.
	densifyMinChunks  = 5
	densifyMinTextLen = 1000
	// maxSentenceGroupLen caps one sentence-group chunk.
	maxSentenceGroupLen = 500

	// FallbackContent fills the placeholder chunk for empty documents.
	FallbackContent = "No content available"
)

var (
	pageMarkerRe = regexp.MustCompile(`Page \d+:`)
	paragraphRe  = regexp.MustCompile(`\n\s*\n`)
	sentenceRe   = regexp.MustCompile(`[^.!?]*[.!?]+|[^.!?]+$`)
)

// Chunk splits text into ordered chunks for documentID. The returned order
// follows document order (page, paragraph, sentence group); retrieval
// re-ranks, so ordering only matters for reproducibility.
func Chunk(documentID, text string, kind model.DocumentType) []model.Chunk {
	var chunks []model.Chunk

	if kind == model.DocumentTypePDF {
		chunks = chunkPages(documentID, text)
	} else {
		chunks = chunkParagraphs(documentID, text, nil)
	}

	if len(chunks) < densifyMinChunks && len(text) > densifyMinTextLen {
		if dense := chunkSentenceGroups(documentID, text); len(dense) > 0 {
			chunks = dense
		}
	}

	if len(chunks) == 0 {
		chunks = append(chunks, fallbackChunk(documentID, text))
	}
	return chunks
}

// chunkPages splits PDF content on the page markers emitted by extraction and
// paragraph-splits each page segment. Segment 0 precedes the first marker and
// is never page content; every later segment is one page, blank or not, so
// page numbers stay aligned with the source document. Marker-less text yields
// no chunks here and falls through to the fallback chunk.
func chunkPages(documentID, text string) []model.Chunk {
	segments := pageMarkerRe.Split(text, -1)
	var chunks []model.Chunk
	for i := 1; i < len(segments); i++ {
		pageNum := i - 1
		chunks = append(chunks, chunkParagraphs(documentID, segments[i], &pageNum)...)
	}
	return chunks
}

// chunkParagraphs splits on blank-line boundaries and records each
// paragraph's character offsets within text.
func chunkParagraphs(documentID, text string, pageNumber *int) []model.Chunk {
	var chunks []model.Chunk
	searchFrom := 0
	for _, para := range paragraphRe.Split(text, -1) {
		trimmed := strings.TrimSpace(para)
		if len(trimmed) < MinChunkLength {
			continue
		}
		start := strings.Index(text[searchFrom:], trimmed)
		if start >= 0 {
			start += searchFrom
			searchFrom = start + len(trimmed)
		} else {
			start = searchFrom
		}
		chunks = append(chunks, newChunk(documentID, trimmed, model.ChunkMeta{
			PageNumber: pageNumber,
			Position:   &model.Position{Start: start, End: start + len(trimmed)},
			ChunkType:  model.ChunkTypeParagraph,
		}))
	}
	return chunks
}

// chunkSentenceGroups re-chunks the whole text by sentence boundaries,
// greedily grouping consecutive sentences up to the group cap.
func chunkSentenceGroups(documentID, text string) []model.Chunk {
	sentences := sentenceRe.FindAllString(text, -1)
	var chunks []model.Chunk
	var group strings.Builder
	flush := func() {
		trimmed := strings.TrimSpace(group.String())
		group.Reset()
		if len(trimmed) < MinChunkLength {
			return
		}
		chunks = append(chunks, newChunk(documentID, trimmed, model.ChunkMeta{
			ChunkType: model.ChunkTypeSentenceGroup,
		}))
	}
	for _, sentence := range sentences {
		s := strings.TrimSpace(sentence)
		if s == "" {
			continue
		}
		if group.Len() > 0 && group.Len()+len(s)+1 > maxSentenceGroupLen {
			flush()
		}
		if group.Len() > 0 {
			group.WriteByte(' ')
		}
		group.WriteString(s)
	}
	flush()
	return chunks
}

func fallbackChunk(documentID, text string) model.Chunk {
	content := strings.TrimSpace(text)
	if content == "" {
		content = FallbackContent
	}
	return newChunk(documentID, content, model.ChunkMeta{
		ChunkType: model.ChunkTypeFallback,
	})
}

func newChunk(documentID, content string, meta model.ChunkMeta) model.Chunk {
	c := model.Chunk{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	c.SetMeta(meta)
	return c
}
