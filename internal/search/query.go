package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Hit is one ranked match.
type Hit struct {
	Position int     // catalog position of the record
	Score    float64 // Bleve relevance score
}

// Match ranks records against free text and returns at most limit hits, best first.
// Equal scores keep catalog order. Blank text matches nothing.
func (s *BookIndex) Match(ctx context.Context, text string, limit int) ([]Hit, error) {
	text = strings.TrimSpace(text)
	if text == "" || limit <= 0 {
		return []Hit{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildMatchQuery(text), limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		pos, err := parseDocID(h.ID)
		if err != nil {
			s.logger.Warn("skipping hit with malformed id", "id", h.ID, "error", err)
			continue
		}
		hits = append(hits, Hit{Position: pos, Score: h.Score})
	}
	return hits, nil
}

// buildMatchQuery weights the description highest, then the title, then authors.
func buildMatchQuery(text string) query.Query {
	descMatch := bleve.NewMatchQuery(text)
	descMatch.SetField("description")
	descMatch.SetBoost(2.0)

	titleMatch := bleve.NewMatchQuery(text)
	titleMatch.SetField("title")
	titleMatch.SetBoost(1.0)

	authorsMatch := bleve.NewMatchQuery(text)
	authorsMatch.SetField("authors")
	authorsMatch.SetBoost(0.5)

	return bleve.NewDisjunctionQuery(descMatch, titleMatch, authorsMatch)
}
