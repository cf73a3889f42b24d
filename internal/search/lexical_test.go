package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuquery/internal/model"
)

func lexChunk(id, content string) model.Chunk {
	return model.Chunk{ID: id, DocumentID: "doc-1", Content: content}
}

func TestLexicalRankScoresByKeywordCount(t *testing.T) {
	chunks := []model.Chunk{
		lexChunk("a", "The quarterly revenue grew while revenue forecasts held."),
		lexChunk("b", "Revenue is discussed once here."),
		lexChunk("c", "Nothing relevant in this chunk at all."),
	}

	matches := LexicalRank("revenue growth", chunks, nil, 5)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].Chunk.ID)
	assert.Equal(t, "b", matches[1].Chunk.ID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestLexicalRankContextKeywordBonus(t *testing.T) {
	chunks := []model.Chunk{
		lexChunk("plain", "The report covers the topic in detail."),
		lexChunk("finance", "The report covers EBITDA margins in detail."),
	}

	noBonus := LexicalRank("report detail", chunks, nil, 5)
	require.Len(t, noBonus, 2)
	assert.Equal(t, noBonus[0].Score, noBonus[1].Score)
	assert.Equal(t, "plain", noBonus[0].Chunk.ID, "ties keep input order")

	boosted := LexicalRank("report detail", chunks, []string{"EBITDA"}, 5)
	require.Len(t, boosted, 2)
	assert.Equal(t, "finance", boosted[0].Chunk.ID)
}

func TestLexicalRankNoOverlap(t *testing.T) {
	chunks := []model.Chunk{lexChunk("a", "completely unrelated material")}
	assert.Empty(t, LexicalRank("quantum chromodynamics", chunks, nil, 5))
	assert.Empty(t, LexicalRank("", chunks, nil, 5))
	assert.Empty(t, LexicalRank("anything", nil, nil, 5))
}

func TestLexicalRankLimit(t *testing.T) {
	var chunks []model.Chunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, lexChunk(string(rune('a'+i)), "shared keyword text"))
	}
	assert.Len(t, LexicalRank("keyword", chunks, nil, 0), DefaultLimit)
	assert.Len(t, LexicalRank("keyword", chunks, nil, 3), 3)
}

func TestQueryKeywordsDropsShortFragments(t *testing.T) {
	assert.Equal(t, []string{"what", "is", "ebitda"}, queryKeywords("What is EBITDA?"))
	assert.Empty(t, queryKeywords("a i ,"))
}
