package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docuquery/internal/model"
)

// MySQLStore is the gorm-backed Store implementation. Each mutator runs in a
// single transaction together with the orphan sweep, so a failed write never
// leaves dangling chunks or embeddings behind.
type MySQLStore struct {
	db *gorm.DB
}

func NewMySQLStore(db *gorm.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) AddDocument(ctx context.Context, doc *model.Document) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return fmt.Errorf("create document failed: %w", err)
		}
		return pruneOrphans(tx)
	})
}

func (s *MySQLStore) GetDocuments(ctx context.Context) ([]model.Document, error) {
	var docs []model.Document
	if err := s.db.WithContext(ctx).Order("upload_date ASC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}

func (s *MySQLStore) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

func (s *MySQLStore) RemoveDocument(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&model.Document{})
		if res.Error != nil {
			return fmt.Errorf("delete document failed: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrDocumentNotFound
		}
		return pruneOrphans(tx)
	})
}

func (s *MySQLStore) AddChunks(ctx context.Context, chunks []model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&chunks).Error; err != nil {
			return fmt.Errorf("create chunks failed: %w", err)
		}
		return pruneOrphans(tx)
	})
}

func (s *MySQLStore) GetChunks(ctx context.Context, documentID string) ([]model.Chunk, error) {
	var chunks []model.Chunk
	if err := s.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC, id ASC").
		Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("list chunks failed: %w", err)
	}
	return chunks, nil
}

func (s *MySQLStore) GetChunksByIDs(ctx context.Context, ids []string) ([]model.Chunk, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var chunks []model.Chunk
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("list chunks by ids failed: %w", err)
	}
	return chunks, nil
}

func (s *MySQLStore) GetChunksByDocumentIDs(ctx context.Context, documentIDs []string) ([]model.Chunk, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}
	var chunks []model.Chunk
	if err := s.db.WithContext(ctx).
		Where("document_id IN ?", documentIDs).
		Order("created_at ASC, id ASC").
		Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("list chunks by documents failed: %w", err)
	}
	return chunks, nil
}

func (s *MySQLStore) AddEmbeddings(ctx context.Context, embeddings []model.Embedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&embeddings).Error; err != nil {
			return fmt.Errorf("create embeddings failed: %w", err)
		}
		return pruneOrphans(tx)
	})
}

func (s *MySQLStore) GetEmbeddingsByDocumentIDs(ctx context.Context, documentIDs []string) ([]model.Embedding, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}
	var embeddings []model.Embedding
	if err := s.db.WithContext(ctx).
		Joins("JOIN chunks ON chunks.id = embeddings.chunk_id").
		Where("chunks.document_id IN ?", documentIDs).
		Order("chunks.created_at ASC, chunks.id ASC").
		Find(&embeddings).Error; err != nil {
		return nil, fmt.Errorf("list embeddings by documents failed: %w", err)
	}
	return embeddings, nil
}

// pruneOrphans deletes chunks whose document no longer exists and embeddings
// whose chunk no longer exists. Runs inside the caller's transaction.
func pruneOrphans(tx *gorm.DB) error {
	liveDocs := tx.Model(&model.Document{}).Select("id")
	if err := tx.Where("document_id NOT IN (?)", liveDocs).Delete(&model.Chunk{}).Error; err != nil {
		return fmt.Errorf("prune orphan chunks failed: %w", err)
	}
	liveChunks := tx.Model(&model.Chunk{}).Select("id")
	if err := tx.Where("chunk_id NOT IN (?)", liveChunks).Delete(&model.Embedding{}).Error; err != nil {
		return fmt.Errorf("prune orphan embeddings failed: %w", err)
	}
	return nil
}
