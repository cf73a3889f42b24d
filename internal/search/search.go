// Package search ranks stored chunks against a query, either by cosine
// similarity over embedding vectors or by lexical keyword scoring when no
// embedding backend is configured.
package search

import "docuquery/internal/model"

// DefaultLimit is the number of chunks returned when the caller does not ask
// for a specific count.
const DefaultLimit = 5

// Match pairs a retrieved chunk with its relevance score. Scores from the
// cosine and lexical strategies are not comparable to each other.
type Match struct {
	Chunk model.Chunk `json:"chunk"`
	Score float64     `json:"score"`
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
