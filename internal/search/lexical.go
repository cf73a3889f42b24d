package search

import (
	"sort"
	"strings"

	"docuquery/internal/model"
)

// contextKeywordBonus is added per occurrence of an active-context keyword,
// on top of the plain query-keyword count.
const contextKeywordBonus = 0.5

// LexicalRank scores chunks by keyword overlap with the query. It is the
// retrieval strategy when no embedding backend is configured.
//
// The query is lowercased and split on whitespace; each chunk scores the
// total occurrence count of those keywords in its lowercased content.
// Keywords of the active context add a smaller bonus per occurrence, so a
// "finance" context surfaces finance-flavored chunks first. Chunks scoring
// zero are dropped; an empty result means no keyword overlap at all.
func LexicalRank(query string, chunks []model.Chunk, contextKeywords []string, limit int) []Match {
	limit = normalizeLimit(limit)
	keywords := queryKeywords(query)
	if len(keywords) == 0 || len(chunks) == 0 {
		return nil
	}

	var matches []Match
	for _, chunk := range chunks {
		content := strings.ToLower(chunk.Content)
		var score float64
		for _, kw := range keywords {
			score += float64(strings.Count(content, kw))
		}
		for _, kw := range contextKeywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			score += contextKeywordBonus * float64(strings.Count(content, kw))
		}
		if score > 0 {
			matches = append(matches, Match{Chunk: chunk, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// queryKeywords lowercases and splits the query, dropping single-character
// fragments that would match almost everything.
func queryKeywords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'()")
		if len(f) < 2 {
			continue
		}
		keywords = append(keywords, f)
	}
	return keywords
}
