package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuquery/internal/embedding"
	"docuquery/internal/model"
	"docuquery/internal/provider"
	"docuquery/internal/store"
)

// recordingProvider captures the prompt and returns a canned answer.
type recordingProvider struct {
	prompt string
	calls  int
}

func (p *recordingProvider) ListModels(context.Context) []provider.ModelInfo { return nil }

func (p *recordingProvider) GenerateAnswer(_ context.Context, prompt string) string {
	p.calls++
	p.prompt = prompt
	return "canned answer"
}

func testContexts(t *testing.T) *ContextService {
	t.Helper()
	cs, err := NewContextService("")
	require.NoError(t, err)
	return cs
}

// seedDocument stores one document with a single chunk and an embedding
// whose vector is given.
func seedDocument(t *testing.T, st store.Store, name, contextID, content string, vec []float32) model.Document {
	t.Helper()
	ctx := context.Background()

	doc := &model.Document{ID: "doc-" + name, Name: name, Type: model.DocumentTypeText, Content: content}
	if contextID != "" {
		doc.SetMeta(map[string]any{model.MetaKeyContext: contextID})
	}
	require.NoError(t, st.AddDocument(ctx, doc))

	chunk := model.Chunk{ID: "chunk-" + name, DocumentID: doc.ID, Content: content}
	chunk.SetMeta(model.ChunkMeta{ChunkType: model.ChunkTypeParagraph})
	require.NoError(t, st.AddChunks(ctx, []model.Chunk{chunk}))

	if vec != nil {
		emb := model.Embedding{ID: "emb-" + name, ChunkID: chunk.ID}
		emb.SetVector(vec)
		require.NoError(t, st.AddEmbeddings(ctx, []model.Embedding{emb}))
	}
	return *doc
}

func TestAnswerRetrievesAndPrompts(t *testing.T) {
	st := store.NewMemoryStore()
	seedDocument(t, st, "contract.txt", "", "The termination clause requires 30 days notice.", []float32{1, 0, 0})
	seedDocument(t, st, "recipe.txt", "", "Whisk the eggs and fold in the flour.", []float32{0, 1, 0})

	// Query vector aligned with the contract chunk.
	gen := &fixedQueryGenerator{vector: []float32{1, 0, 0}}
	svc := NewQueryService(st, gen, testContexts(t), 5)
	prov := &recordingProvider{}

	answer, err := svc.Answer(context.Background(), "What does the termination clause say?", "", prov)
	require.NoError(t, err)
	assert.Equal(t, "canned answer", answer.Text)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "contract.txt", answer.Sources[0].DocumentName)

	assert.Contains(t, prov.prompt, "expert document analysis assistant")
	assert.Contains(t, prov.prompt, "[Source: contract.txt]")
	assert.Contains(t, prov.prompt, "termination clause requires 30 days")
	assert.Contains(t, prov.prompt, "Question: What does the termination clause say?")
	assert.Contains(t, prov.prompt, "Answer only from the context")
}

func TestAnswerContextFilterShortCircuits(t *testing.T) {
	st := store.NewMemoryStore()
	seedDocument(t, st, "contract.txt", "legal", "The termination clause requires 30 days notice.", []float32{1, 0, 0})

	gen := &fixedQueryGenerator{vector: []float32{1, 0, 0}}
	svc := NewQueryService(st, gen, testContexts(t), 5)
	prov := &recordingProvider{}

	answer, err := svc.Answer(context.Background(), "anything", "medical", prov)
	require.NoError(t, err)
	assert.Equal(t, NoRelevantInfoAnswer, answer.Text)
	assert.Empty(t, answer.Sources)
	assert.Zero(t, prov.calls, "no provider call on the empty path")
}

func TestAnswerNoMatchesShortCircuits(t *testing.T) {
	st := store.NewMemoryStore()
	seedDocument(t, st, "doc.txt", "", "Some content here.", []float32{0, 1, 0})

	// Orthogonal query vector: every similarity is zero.
	gen := &fixedQueryGenerator{vector: []float32{1, 0, 0}}
	svc := NewQueryService(st, gen, testContexts(t), 5)
	prov := &recordingProvider{}

	answer, err := svc.Answer(context.Background(), "unrelated question", "", prov)
	require.NoError(t, err)
	assert.Equal(t, NoRelevantInfoAnswer, answer.Text)
	assert.Zero(t, prov.calls)
}

func TestAnswerLexicalFallback(t *testing.T) {
	st := store.NewMemoryStore()
	// No embeddings stored, no backend configured.
	seedDocument(t, st, "contract.txt", "", "The termination clause requires 30 days notice.", nil)
	seedDocument(t, st, "recipe.txt", "", "Whisk the eggs and fold in the flour.", nil)

	svc := NewQueryService(st, embedding.Disabled{}, testContexts(t), 5)
	prov := &recordingProvider{}

	answer, err := svc.Answer(context.Background(), "termination notice period", "", prov)
	require.NoError(t, err)
	assert.Equal(t, "canned answer", answer.Text)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "contract.txt", answer.Sources[0].DocumentName)
}

func TestAnswerPageCitation(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	doc := &model.Document{ID: "doc-1", Name: "report.pdf", Type: model.DocumentTypePDF}
	require.NoError(t, st.AddDocument(ctx, doc))
	page := 2
	chunk := model.Chunk{ID: "chunk-1", DocumentID: doc.ID, Content: "Revenue grew in the third quarter."}
	chunk.SetMeta(model.ChunkMeta{PageNumber: &page, ChunkType: model.ChunkTypeParagraph})
	require.NoError(t, st.AddChunks(ctx, []model.Chunk{chunk}))

	svc := NewQueryService(st, embedding.Disabled{}, testContexts(t), 5)
	prov := &recordingProvider{}

	_, err := svc.Answer(ctx, "revenue growth", "", prov)
	require.NoError(t, err)
	assert.Contains(t, prov.prompt, "[Source: report.pdf, page 3]", "stored 0-based, displayed 1-based")
}

func TestAnswerRejectsEmptyQuery(t *testing.T) {
	svc := NewQueryService(store.NewMemoryStore(), embedding.Disabled{}, testContexts(t), 5)
	_, err := svc.Answer(context.Background(), "   ", "", &recordingProvider{})
	assert.Error(t, err)
}

// fixedQueryGenerator returns one fixed vector for any input.
type fixedQueryGenerator struct {
	vector []float32
}

func (g *fixedQueryGenerator) Embed(_ context.Context, texts []string) ([]embedding.Result, error) {
	results := make([]embedding.Result, len(texts))
	for i := range texts {
		results[i] = embedding.Result{Vector: g.vector}
	}
	return results, nil
}

func (g *fixedQueryGenerator) Dimensions() int { return len(g.vector) }
