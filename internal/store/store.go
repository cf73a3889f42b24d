// Package store persists documents, chunks, and embeddings and maintains
// referential integrity between them. Every mutating call ends with an orphan
// sweep: chunks whose document is gone and embeddings whose chunk is gone are
// deleted in the same transaction as the mutation.
package store

import (
	"context"
	"errors"

	"docuquery/internal/model"
)

var (
	// ErrDocumentNotFound is returned when a document id does not exist.
	ErrDocumentNotFound = errors.New("document not found")
)

// Store is the persistence substrate shared by ingestion and querying.
type Store interface {
	AddDocument(ctx context.Context, doc *model.Document) error
	GetDocuments(ctx context.Context) ([]model.Document, error)
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	// RemoveDocument deletes a document and cascades to its chunks and their
	// embeddings.
	RemoveDocument(ctx context.Context, id string) error

	AddChunks(ctx context.Context, chunks []model.Chunk) error
	GetChunks(ctx context.Context, documentID string) ([]model.Chunk, error)
	GetChunksByIDs(ctx context.Context, ids []string) ([]model.Chunk, error)
	// GetChunksByDocumentIDs returns chunks for all listed documents in
	// creation order.
	GetChunksByDocumentIDs(ctx context.Context, documentIDs []string) ([]model.Chunk, error)

	AddEmbeddings(ctx context.Context, embeddings []model.Embedding) error
	// GetEmbeddingsByDocumentIDs returns embeddings whose owning chunk belongs
	// to one of the listed documents, in chunk creation order.
	GetEmbeddingsByDocumentIDs(ctx context.Context, documentIDs []string) ([]model.Embedding, error)
}
