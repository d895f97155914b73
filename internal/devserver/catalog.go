// Package devserver is a local stand-in for the catalog backend. It serves the REST
// contract the client consumes from an in-memory catalog so the client can be run
// and tested end to end without the production recommendation engine.
package devserver

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"github.com/listenupapp/bookfinder/internal/domain"
	"github.com/listenupapp/bookfinder/internal/errors"
	"github.com/listenupapp/bookfinder/internal/search"
)

//go:embed sample_catalog.json
var sampleCatalog []byte

// BrowseLimit is the number of records GET /books returns.
const BrowseLimit = 20

// DefaultSearchLimit applies when /search is called without a limit.
const DefaultSearchLimit = 10

// Filter vocabulary served by GET /categories and accepted by POST /recommendations.
//
//nolint:gochecknoglobals // Static vocabulary
var (
	Categories = []string{domain.FilterAll, "Fiction", "Nonfiction", "Children's Fiction", "Children's Nonfiction"}
	Tones      = []string{domain.FilterAll, "Happy", "Surprising", "Angry", "Suspenseful", "Sad"}

	toneColumns = map[string]string{
		"Happy":       "joy",
		"Surprising":  "surprise",
		"Angry":       "anger",
		"Suspenseful": "fear",
		"Sad":         "sadness",
	}
)

// Catalog holds the records in file order and a full-text index over them.
type Catalog struct {
	books  []domain.Book
	index  *search.BookIndex
	logger *slog.Logger
}

// LoadCatalog reads a JSON array of books from path. An empty path loads the
// built-in sample.
func LoadCatalog(path string, logger *slog.Logger) (*Catalog, error) {
	data := sampleCatalog
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data = raw
	}

	var books []domain.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	return NewCatalog(books, logger)
}

// NewCatalog indexes books. Records without a thumbnail get the no-cover sentinel.
func NewCatalog(books []domain.Book, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	books = slices.Clone(books)
	for i := range books {
		if strings.TrimSpace(books[i].LargeThumbnail) == "" {
			books[i].LargeThumbnail = domain.NoCoverSentinel
		}
	}

	index, err := search.NewBookIndex(search.Options{Logger: logger})
	if err != nil {
		return nil, err
	}
	if err := index.IndexBooks(books); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("index catalog: %w", err)
	}

	logger.Info("catalog loaded", "books", len(books))
	return &Catalog{books: books, index: index, logger: logger}, nil
}

// Close releases the index.
func (c *Catalog) Close() error {
	return c.index.Close()
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.books)
}

// List returns the first BrowseLimit records.
func (c *Catalog) List() []domain.Book {
	return slices.Clone(c.books[:min(BrowseLimit, len(c.books))])
}

// Get returns the first record with the given isbn13.
func (c *Catalog) Get(isbn13 string) (*domain.Book, error) {
	if strings.TrimSpace(isbn13) == "" {
		return nil, errors.Validation("ISBN13 cannot be empty.")
	}
	if !domain.ValidISBN13(isbn13) {
		return nil, errors.Validation("ISBN13 must be a 13-digit number string.")
	}

	for i := range c.books {
		if c.books[i].ISBN13 == isbn13 {
			b := c.books[i]
			return &b, nil
		}
	}
	return nil, errors.NotFound("Book not found")
}

// Search returns up to limit records whose title or authors contain q, ignoring
// case, in catalog order.
func (c *Catalog) Search(q string, limit int) []domain.Book {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	needle := strings.ToLower(q)

	out := []domain.Book{}
	for _, b := range c.books {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Authors), needle) {
			out = append(out, b)
		}
	}
	return out
}

// Recommend ranks records against q.Query, keeps the best InitialTopK, filters by
// category, orders by the tone's emotion score, and cuts to FinalTopK.
func (c *Catalog) Recommend(ctx context.Context, q domain.RecommendationQuery) ([]domain.Book, error) {
	if err := validateRecommendation(q); err != nil {
		return nil, err
	}

	hits, err := c.index.Match(ctx, q.Query, q.InitialTopK)
	if errors.Is(err, search.ErrClosed) {
		return nil, errors.Wrap(err, errors.CodeUnavailable, "Recommendation index is not available.")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "recommendation search failed")
	}

	recs := make([]domain.Book, 0, len(hits))
	for _, h := range hits {
		b := c.books[h.Position]
		if q.Category != domain.FilterAll && b.SimpleCategories != q.Category {
			continue
		}
		recs = append(recs, b)
	}

	if col, ok := toneColumns[q.Tone]; ok {
		sortByEmotion(recs, col)
	}

	c.logger.Debug("recommendations computed",
		"query", q.Query,
		"category", q.Category,
		"tone", q.Tone,
		"candidates", len(hits),
		"returned", min(len(recs), q.FinalTopK),
	)

	return recs[:min(len(recs), q.FinalTopK)], nil
}

// Vocabulary returns the selectable categories and tones.
func (c *Catalog) Vocabulary() domain.FilterVocabulary {
	return domain.FilterVocabulary{
		Categories: slices.Clone(Categories),
		Tones:      slices.Clone(Tones),
	}
}

func validateRecommendation(q domain.RecommendationQuery) error {
	switch {
	case strings.TrimSpace(q.Query) == "":
		return errors.Validation("Query for recommendations cannot be empty.")
	case !slices.Contains(Categories, q.Category):
		return errors.Validationf("Invalid category: '%s'. Valid categories are: %s", q.Category, strings.Join(Categories, ", "))
	case !slices.Contains(Tones, q.Tone):
		return errors.Validationf("Invalid tone: '%s'. Valid tones are: %s", q.Tone, strings.Join(Tones, ", "))
	case q.InitialTopK <= 0:
		return errors.Validation("initial_top_k must be greater than 0.")
	case q.FinalTopK <= 0:
		return errors.Validation("final_top_k must be greater than 0.")
	case q.FinalTopK > q.InitialTopK:
		return errors.Validation("final_top_k cannot be greater than initial_top_k.")
	}
	return nil
}

// sortByEmotion orders books by the named score, highest first. Records without the
// score go last; ties keep their relative order.
func sortByEmotion(books []domain.Book, column string) {
	slices.SortStableFunc(books, func(a, b domain.Book) int {
		av, aok := a.Emotion(column)
		bv, bok := b.Emotion(column)
		switch {
		case aok && !bok:
			return -1
		case !aok && bok:
			return 1
		case av > bv:
			return -1
		case av < bv:
			return 1
		default:
			return 0
		}
	})
}
