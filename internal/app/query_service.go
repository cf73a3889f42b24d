package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docuquery/internal/embedding"
	"docuquery/internal/model"
	"docuquery/internal/provider"
	"docuquery/internal/search"
	"docuquery/internal/store"
)

// NoRelevantInfoAnswer is returned when retrieval finds nothing; it is a
// defined response, not an error, and no provider call is made.
const NoRelevantInfoAnswer = "I couldn't find relevant information in your documents to answer this question. Try uploading documents related to your question or rephrasing it."

// promptInstructions is appended to every grounding prompt.
const promptInstructions = `Instructions:
- Answer only from the context provided above.
- If the context does not contain the information needed, say so explicitly.
- When quoting or referencing a document, cite its name and page where available.`

// Source is one retrieved chunk returned alongside the answer, resolved to
// its owning document for citation display.
type Source struct {
	DocumentID   string          `json:"document_id"`
	DocumentName string          `json:"document_name"`
	Content      string          `json:"content"`
	Metadata     model.ChunkMeta `json:"metadata"`
	Score        float64         `json:"score"`
}

// Answer is the orchestrator's result: the generated text plus every source
// that was fed to the model, cited or not.
type Answer struct {
	Text    string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// QueryService composes retrieval and generation: embed the query, rank
// stored chunks, assemble a grounding prompt, invoke the provider.
type QueryService struct {
	store    store.Store
	embedder embedding.Generator
	contexts *ContextService
	limit    int
}

func NewQueryService(st store.Store, gen embedding.Generator, contexts *ContextService, limit int) *QueryService {
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	return &QueryService{store: st, embedder: gen, contexts: contexts, limit: limit}
}

// Answer runs the full query path. contextID narrows retrieval to documents
// tagged with it; empty means all documents. The provider is chosen by the
// caller, credentials validated before this point.
func (s *QueryService) Answer(ctx context.Context, query, contextID string, prov provider.Provider) (*Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	docs, err := s.store.GetDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	docs = filterByContext(docs, contextID)
	if len(docs) == 0 {
		return &Answer{Text: NoRelevantInfoAnswer, Sources: []Source{}}, nil
	}

	docIDs := make([]string, len(docs))
	namesByID := make(map[string]string, len(docs))
	for i, d := range docs {
		docIDs[i] = d.ID
		namesByID[d.ID] = d.Name
	}

	matches, err := s.retrieve(ctx, query, contextID, docIDs)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return &Answer{Text: NoRelevantInfoAnswer, Sources: []Source{}}, nil
	}

	sources := make([]Source, len(matches))
	for i, m := range matches {
		sources[i] = Source{
			DocumentID:   m.Chunk.DocumentID,
			DocumentName: namesByID[m.Chunk.DocumentID],
			Content:      m.Chunk.Content,
			Metadata:     m.Chunk.Meta(),
			Score:        m.Score,
		}
	}

	prompt := s.buildPrompt(query, contextID, sources)
	text := prov.GenerateAnswer(ctx, prompt)
	return &Answer{Text: text, Sources: sources}, nil
}

// retrieve ranks chunks by cosine similarity when an embedding backend is
// configured, otherwise by lexical keyword overlap.
func (s *QueryService) retrieve(ctx context.Context, query, contextID string, docIDs []string) ([]search.Match, error) {
	results, err := s.embedder.Embed(ctx, []string{query})
	if errors.Is(err, embedding.ErrNotConfigured) {
		return s.retrieveLexical(ctx, query, contextID, docIDs)
	}
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors for one text", len(results))
	}

	embeddings, err := s.store.GetEmbeddingsByDocumentIDs(ctx, docIDs)
	if err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}
	if len(embeddings) == 0 {
		// Documents ingested without a backend carry no vectors.
		return s.retrieveLexical(ctx, query, contextID, docIDs)
	}

	chunks, err := s.store.GetChunksByDocumentIDs(ctx, docIDs)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	chunksByID := make(map[string]model.Chunk, len(chunks))
	for _, c := range chunks {
		chunksByID[c.ID] = c
	}
	return search.CosineRank(results[0].Vector, embeddings, chunksByID, s.limit), nil
}

func (s *QueryService) retrieveLexical(ctx context.Context, query, contextID string, docIDs []string) ([]search.Match, error) {
	chunks, err := s.store.GetChunksByDocumentIDs(ctx, docIDs)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	return search.LexicalRank(query, chunks, s.contexts.Get(contextID).Keywords, s.limit), nil
}

// buildPrompt assembles the grounding prompt: context preamble, retrieved
// chunks each prefixed with a citation, the literal question, and the fixed
// instruction block.
func (s *QueryService) buildPrompt(query, contextID string, sources []Source) string {
	preamble := s.contexts.Get(contextID).PromptPrefix
	if preamble == "" {
		preamble = defaultContext.PromptPrefix
	}

	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\nContext from the user's documents:\n\n")
	for _, src := range sources {
		b.WriteString(citation(src))
		b.WriteString("\n")
		b.WriteString(src.Content)
		b.WriteString("\n\n")
	}
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\n")
	b.WriteString(promptInstructions)
	return b.String()
}

// citation renders the source header shown to the model. Page numbers are
// stored 0-based and displayed 1-based.
func citation(src Source) string {
	if src.Metadata.PageNumber != nil {
		return fmt.Sprintf("[Source: %s, page %d]", src.DocumentName, *src.Metadata.PageNumber+1)
	}
	return fmt.Sprintf("[Source: %s]", src.DocumentName)
}

// filterByContext keeps documents tagged with contextID. An empty contextID
// or the default context keeps everything, including untagged documents.
func filterByContext(docs []model.Document, contextID string) []model.Document {
	if contextID == "" || contextID == DefaultContextID {
		return docs
	}
	var filtered []model.Document
	for _, d := range docs {
		if d.ContextID() == contextID {
			filtered = append(filtered, d)
		}
	}
	return filtered
}
