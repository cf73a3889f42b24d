// Package app holds the ingestion and query orchestrators. Services compose
// the extractor, chunker, embedder, store, and providers; they own no
// transport or persistence details of their own.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"docuquery/internal/chunker"
	"docuquery/internal/embedding"
	"docuquery/internal/extract"
	"docuquery/internal/model"
	"docuquery/internal/progress"
	"docuquery/internal/store"
)

// embedBatchSize bounds how many chunk texts go to the embedding backend in
// one request.
const embedBatchSize = 16

// FileInput is one uploaded file awaiting ingestion.
type FileInput struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileFailure records a single file that failed during batch ingestion.
type FileFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// BatchResult is the outcome of a batch upload: documents that made it in
// and per-file failures for the rest.
type BatchResult struct {
	Documents []model.Document `json:"documents"`
	Failures  []FileFailure    `json:"failures,omitempty"`
}

// IngestService runs the ingestion pipeline: extract, store document, chunk,
// store chunks, embed, store embeddings.
type IngestService struct {
	store     store.Store
	extractor *extract.Extractor
	embedder  embedding.Generator
	sink      progress.Sink
}

func NewIngestService(st store.Store, ex *extract.Extractor, gen embedding.Generator, sink progress.Sink) *IngestService {
	if sink == nil {
		sink = progress.NopSink
	}
	return &IngestService{store: st, extractor: ex, embedder: gen, sink: sink}
}

// IngestFile runs one file through the full pipeline. contextID tags the
// document for retrieval scoping; empty means untagged (matches the default
// context).
func (s *IngestService) IngestFile(ctx context.Context, name string, data []byte, kind model.DocumentType, contextID string) (*model.Document, error) {
	s.report(name, "extract", 0, "Starting extraction", true)

	text, err := s.extractor.Extract(ctx, name, data, kind, s.sink)
	if err != nil {
		s.report(name, "extract", 100, fmt.Sprintf("Extraction failed: %v", err), false)
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}

	doc := &model.Document{
		ID:         uuid.NewString(),
		Name:       name,
		Type:       kind,
		Content:    text,
		RawContent: text,
		UploadDate: time.Now(),
	}
	meta := map[string]any{"size": len(data)}
	if contextID != "" {
		meta[model.MetaKeyContext] = contextID
	}
	doc.SetMeta(meta)

	if err := s.store.AddDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("store document %s: %w", name, err)
	}
	s.report(name, "chunk", 60, "Splitting into chunks", true)

	chunks := chunker.Chunk(doc.ID, text, kind)
	if err := s.store.AddChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("store chunks for %s: %w", name, err)
	}
	s.report(name, "embed", 75, fmt.Sprintf("Embedding %d chunks", len(chunks)), true)

	if err := s.embedChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("embed chunks for %s: %w", name, err)
	}

	s.report(name, "done", 100, "Ingestion complete", false)
	return doc, nil
}

// IngestBatch processes files strictly sequentially. A failed file is
// recorded and the batch moves on; it never aborts the remaining files.
func (s *IngestService) IngestBatch(ctx context.Context, files []FileInput, contextID string) BatchResult {
	var result BatchResult
	for _, f := range files {
		kind, err := extract.DetectType(f.Name, f.ContentType)
		if err != nil {
			result.Failures = append(result.Failures, FileFailure{Name: f.Name, Error: err.Error()})
			continue
		}
		doc, err := s.IngestFile(ctx, f.Name, f.Data, kind, contextID)
		if err != nil {
			log.Printf("ingest %s failed: %v", f.Name, err)
			result.Failures = append(result.Failures, FileFailure{Name: f.Name, Error: err.Error()})
			continue
		}
		result.Documents = append(result.Documents, *doc)
	}
	return result
}

// embedChunks embeds chunk texts in batches and stores one embedding per
// chunk. An unconfigured embedding backend is fine: retrieval falls back to
// lexical scoring, so the document simply carries no vectors.
func (s *IngestService) embedChunks(ctx context.Context, chunks []model.Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		results, err := s.embedder.Embed(ctx, texts)
		if errors.Is(err, embedding.ErrNotConfigured) {
			return nil
		}
		if err != nil {
			return err
		}
		if len(results) != len(batch) {
			return fmt.Errorf("embedding count mismatch: got %d for %d chunks", len(results), len(batch))
		}

		embeddings := make([]model.Embedding, len(batch))
		for i, r := range results {
			e := model.Embedding{ID: uuid.NewString(), ChunkID: batch[i].ID}
			e.SetVector(r.Vector)
			e.SetTokens(r.Tokens)
			embeddings[i] = e
		}
		if err := s.store.AddEmbeddings(ctx, embeddings); err != nil {
			return err
		}
	}
	return nil
}

func (s *IngestService) report(name, stage string, pct int, msg string, processing bool) {
	s.sink.Report(progress.Update{
		FileName:     name,
		Stage:        stage,
		Progress:     pct,
		Message:      msg,
		IsProcessing: processing,
	})
}
