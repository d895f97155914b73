package catalog

import (
	"context"
	"net/url"
	"strconv"

	"github.com/listenupapp/bookfinder/internal/domain"
)

// DefaultSearchLimit is the result limit sent when the caller passes none.
const DefaultSearchLimit = 10

// ListBooks returns the default catalog listing.
func (c *Client) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.getJSON(ctx, "/books", nil, &books); err != nil {
		return nil, wrapError("listBooks", "/books", err)
	}
	return nonNil(books), nil
}

// GetBook returns a single book by isbn13.
func (c *Client) GetBook(ctx context.Context, isbn13 string) (*domain.Book, error) {
	path := "/books/" + url.PathEscape(isbn13)
	if !domain.ValidISBN13(isbn13) {
		return nil, &Error{Op: "getBook", Path: path, Err: ErrInvalidISBN}
	}

	var book domain.Book
	if err := c.getJSON(ctx, path, nil, &book); err != nil {
		return nil, wrapError("getBook", path, err)
	}
	return &book, nil
}

// Search runs a free-text search. A non-positive limit sends DefaultSearchLimit.
func (c *Client) Search(ctx context.Context, q string, limit int) ([]domain.Book, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query := url.Values{}
	query.Set("q", q)
	query.Set("limit", strconv.Itoa(limit))

	var books []domain.Book
	if err := c.getJSON(ctx, "/search", query, &books); err != nil {
		return nil, wrapError("search", "/search", err)
	}
	return nonNil(books), nil
}

// Recommend requests personalized results. Results keep the backend's relevance order.
func (c *Client) Recommend(ctx context.Context, q domain.RecommendationQuery) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.postJSON(ctx, "/recommendations", q, &books); err != nil {
		return nil, wrapError("recommend", "/recommendations", err)
	}
	return nonNil(books), nil
}

// Categories returns the filter vocabulary for the recommendation form.
func (c *Client) Categories(ctx context.Context) (domain.FilterVocabulary, error) {
	var vocab domain.FilterVocabulary
	if err := c.getJSON(ctx, "/categories", nil, &vocab); err != nil {
		return domain.FilterVocabulary{}, wrapError("categories", "/categories", err)
	}
	vocab.Categories = nonNil(vocab.Categories)
	vocab.Tones = nonNil(vocab.Tones)
	return vocab, nil
}

// nonNil turns a JSON null into an empty sequence.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
