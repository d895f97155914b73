package devserver

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookfinder/internal/domain"
)

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-books",
		Method:      http.MethodGet,
		Path:        "/books",
		Summary:     "List books",
		Description: "Returns the first 20 catalog records",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-book",
		Method:      http.MethodGet,
		Path:        "/books/{isbn13}",
		Summary:     "Get book",
		Description: "Returns one catalog record by isbn13",
		Tags:        []string{"Books"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "search-books",
		Method:      http.MethodGet,
		Path:        "/search",
		Summary:     "Search books",
		Description: "Case-insensitive substring match on title or authors",
		Tags:        []string{"Books"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "recommend",
		Method:      http.MethodPost,
		Path:        "/recommendations",
		Summary:     "Recommend books",
		Description: "Ranks books against a free-text description with optional category and tone",
		Tags:        []string{"Recommendations"},
		Errors:      []int{http.StatusBadRequest},
	}, s.handleRecommend)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-categories",
		Method:      http.MethodGet,
		Path:        "/categories",
		Summary:     "Filter vocabulary",
		Description: "Selectable categories and tones",
		Tags:        []string{"Recommendations"},
	}, s.handleCategories)
}

// === DTOs ===

// BooksOutput is a list of catalog records.
type BooksOutput struct {
	Body []domain.Book
}

// BookOutput is a single catalog record.
type BookOutput struct {
	Body *domain.Book
}

// GetBookInput identifies a record.
type GetBookInput struct {
	ISBN13 string `path:"isbn13" doc:"13-digit ISBN"`
}

// SearchInput contains search parameters.
type SearchInput struct {
	Query string `query:"q" required:"true" minLength:"1" doc:"Search query for book titles or authors"`
	Limit int    `query:"limit" default:"10" minimum:"1" doc:"Maximum number of results"`
}

// RecommendationBody is the POST /recommendations request. Absent optional fields
// take their defaults; present values are validated as sent.
type RecommendationBody struct {
	Query       string  `json:"query" doc:"Free-text description of the desired book"`
	Category    *string `json:"category,omitempty" doc:"Category filter (default All)"`
	Tone        *string `json:"tone,omitempty" doc:"Tone ordering (default All)"`
	InitialTopK *int    `json:"initial_top_k,omitempty" doc:"Candidates retrieved before filtering (default 50)"`
	FinalTopK   *int    `json:"final_top_k,omitempty" doc:"Books returned (default 16)"`
}

// RecommendInput wraps the request body for huma.
type RecommendInput struct {
	Body RecommendationBody
}

// CategoriesOutput is the filter vocabulary.
type CategoriesOutput struct {
	Body domain.FilterVocabulary
}

// === Handlers ===

func (s *Server) handleListBooks(_ context.Context, _ *struct{}) (*BooksOutput, error) {
	return &BooksOutput{Body: s.catalog.List()}, nil
}

func (s *Server) handleGetBook(_ context.Context, input *GetBookInput) (*BookOutput, error) {
	book, err := s.catalog.Get(input.ISBN13)
	if err != nil {
		return nil, statusError(err)
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleSearch(_ context.Context, input *SearchInput) (*BooksOutput, error) {
	return &BooksOutput{Body: s.catalog.Search(input.Query, input.Limit)}, nil
}

func (s *Server) handleRecommend(ctx context.Context, input *RecommendInput) (*BooksOutput, error) {
	q := input.Body.toQuery()

	books, err := s.catalog.Recommend(ctx, q)
	if err != nil {
		s.logger.Debug("recommendation rejected", "error", err)
		return nil, statusError(err)
	}
	return &BooksOutput{Body: books}, nil
}

func (s *Server) handleCategories(_ context.Context, _ *struct{}) (*CategoriesOutput, error) {
	return &CategoriesOutput{Body: s.catalog.Vocabulary()}, nil
}

// toQuery fills absent fields with the defaults.
func (b RecommendationBody) toQuery() domain.RecommendationQuery {
	q := domain.NewRecommendationQuery()
	q.Query = b.Query
	if b.Category != nil {
		q.Category = *b.Category
	}
	if b.Tone != nil {
		q.Tone = *b.Tone
	}
	if b.InitialTopK != nil {
		q.InitialTopK = *b.InitialTopK
	}
	if b.FinalTopK != nil {
		q.FinalTopK = *b.FinalTopK
	}
	return q
}
