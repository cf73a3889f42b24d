package store

import (
	"context"
	"sort"
	"sync"

	"docuquery/internal/model"
)

// MemoryStore is an in-memory Store with the same orphan-sweep semantics as
// the MySQL implementation. It backs tests and running without a database.
type MemoryStore struct {
	mu         sync.Mutex
	documents  map[string]model.Document
	chunks     map[string]model.Chunk
	embeddings map[string]model.Embedding
	seq        int            // insertion counter for deterministic ordering
	order      map[string]int // chunk id -> insertion sequence
	docOrder   map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents:  make(map[string]model.Document),
		chunks:     make(map[string]model.Chunk),
		embeddings: make(map[string]model.Embedding),
		order:      make(map[string]int),
		docOrder:   make(map[string]int),
	}
}

func (s *MemoryStore) AddDocument(_ context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.documents[doc.ID] = *doc
	s.docOrder[doc.ID] = s.seq
	s.prune()
	return nil
}

func (s *MemoryStore) GetDocuments(_ context.Context) ([]model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := make([]model.Document, 0, len(s.documents))
	for _, d := range s.documents {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return s.docOrder[docs[i].ID] < s.docOrder[docs[j].ID] })
	return docs, nil
}

func (s *MemoryStore) GetDocument(_ context.Context, id string) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return &doc, nil
}

func (s *MemoryStore) RemoveDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return ErrDocumentNotFound
	}
	delete(s.documents, id)
	delete(s.docOrder, id)
	s.prune()
	return nil
}

func (s *MemoryStore) AddChunks(_ context.Context, chunks []model.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		s.seq++
		s.chunks[c.ID] = c
		s.order[c.ID] = s.seq
	}
	s.prune()
	return nil
}

func (s *MemoryStore) GetChunks(_ context.Context, documentID string) ([]model.Chunk, error) {
	return s.GetChunksByDocumentIDs(context.Background(), []string{documentID})
}

func (s *MemoryStore) GetChunksByIDs(_ context.Context, ids []string) ([]model.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Chunk
	for _, id := range ids {
		if c, ok := s.chunks[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemoryStore) GetChunksByDocumentIDs(_ context.Context, documentIDs []string) ([]model.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[string]bool, len(documentIDs))
	for _, id := range documentIDs {
		wanted[id] = true
	}
	var out []model.Chunk
	for _, c := range s.chunks {
		if wanted[c.DocumentID] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.order[out[i].ID] < s.order[out[j].ID] })
	return out, nil
}

func (s *MemoryStore) AddEmbeddings(_ context.Context, embeddings []model.Embedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range embeddings {
		s.embeddings[e.ID] = e
	}
	s.prune()
	return nil
}

func (s *MemoryStore) GetEmbeddingsByDocumentIDs(_ context.Context, documentIDs []string) ([]model.Embedding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[string]bool, len(documentIDs))
	for _, id := range documentIDs {
		wanted[id] = true
	}
	var out []model.Embedding
	for _, e := range s.embeddings {
		c, ok := s.chunks[e.ChunkID]
		if ok && wanted[c.DocumentID] {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.order[out[i].ChunkID] < s.order[out[j].ChunkID] })
	return out, nil
}

// prune recomputes the live document and chunk id sets and deletes anything
// not reachable from them. Callers must hold the lock.
func (s *MemoryStore) prune() {
	for id, c := range s.chunks {
		if _, ok := s.documents[c.DocumentID]; !ok {
			delete(s.chunks, id)
			delete(s.order, id)
		}
	}
	for id, e := range s.embeddings {
		if _, ok := s.chunks[e.ChunkID]; !ok {
			delete(s.embeddings, id)
		}
	}
}
