package search

import (
	"math"
	"sort"

	"docuquery/internal/model"
)

// CosineRank scores every stored embedding against the query vector and
// returns the owning chunks of the top matches, most similar first.
//
// This is a brute-force scan over all embeddings, which is fine for the
// corpus sizes this service handles. Ties keep the embeddings' iteration
// order (stable sort); no further tie-break is defined. Embeddings whose
// chunk is missing from chunksByID are skipped. An all-zero score set, a
// zero query vector, or an empty embedding set all yield an empty result,
// which callers treat as "no relevant information", not an error.
func CosineRank(query []float32, embeddings []model.Embedding, chunksByID map[string]model.Chunk, limit int) []Match {
	limit = normalizeLimit(limit)
	if len(query) == 0 || len(embeddings) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(embeddings))
	for _, emb := range embeddings {
		chunk, ok := chunksByID[emb.ChunkID]
		if !ok {
			continue
		}
		score := cosine(query, emb.VectorData())
		matches = append(matches, Match{Chunk: chunk, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	var nonZero []Match
	for _, m := range matches {
		if m.Score == 0 {
			continue
		}
		nonZero = append(nonZero, m)
		if len(nonZero) == limit {
			break
		}
	}
	return nonZero
}

// cosine returns the cosine similarity of a and b, 0 when either vector has
// zero magnitude or the lengths disagree.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
