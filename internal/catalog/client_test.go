package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookfinder/internal/domain"
	domainerrors "github.com/listenupapp/bookfinder/internal/errors"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name)) //#nosec G304 -- Test fixture
	require.NoError(t, err, "load fixture %s", name)
	return data
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(Options{BaseURL: server.URL, RPS: 1000}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(client.Close)

	return client
}

func TestClient_ListBooks(t *testing.T) {
	fixture := loadFixture(t, "books.json")

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/books", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		w.Write(fixture) //nolint:errcheck // Test handler
	})

	books, err := client.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 3)

	// Order is preserved as sent.
	assert.Equal(t, "9780002005883", books[0].ISBN13)
	assert.Equal(t, "9780002261982", books[1].ISBN13)
	assert.False(t, books[1].HasCover())
	assert.Nil(t, books[2].AverageRating)
}

func TestClient_ListBooks_NullIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("null")) //nolint:errcheck // Test handler
	})

	books, err := client.ListBooks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    error
		wantMsg    string
		wantCode   domainerrors.Code
	}{
		{
			name:       "not found with detail",
			statusCode: http.StatusNotFound,
			body:       `{"detail":"Book not found"}`,
			wantErr:    ErrNotFound,
			wantMsg:    "Book not found",
			wantCode:   domainerrors.CodeNotFound,
		},
		{
			name:       "validation list detail",
			statusCode: http.StatusUnprocessableEntity,
			body:       `{"detail":[{"loc":["query","q"],"msg":"field required"}]}`,
			wantErr:    ErrBadRequest,
			wantMsg:    "field required",
			wantCode:   domainerrors.CodeValidation,
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			wantErr:    ErrRateLimited,
			wantMsg:    "Request failed with status code 429 (Too Many Requests)",
			wantCode:   domainerrors.CodeUnavailable,
		},
		{
			name:       "server error without body",
			statusCode: http.StatusInternalServerError,
			body:       "Internal Server Error",
			wantErr:    ErrServer,
			wantMsg:    "Request failed with status code 500 (Internal Server Error)",
			wantCode:   domainerrors.CodeTransport,
		},
		{
			name:       "unexpected status",
			statusCode: http.StatusForbidden,
			wantErr:    ErrUnexpectedStatus,
			wantMsg:    "Request failed with status code 403 (Forbidden)",
			wantCode:   domainerrors.CodeTransport,
		},
		{
			name:       "service unavailable",
			statusCode: http.StatusServiceUnavailable,
			wantErr:    ErrServer,
			wantMsg:    "Request failed with status code 503 (Service Unavailable)",
			wantCode:   domainerrors.CodeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				if tt.body != "" {
					w.Write([]byte(tt.body)) //nolint:errcheck // Test handler
				}
			})

			_, err := client.Search(context.Background(), "gilead", 20)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.wantCode, domainerrors.CodeOf(err))

			var ce *Error
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, "search", ce.Op)
			assert.Equal(t, tt.statusCode, ce.Status)
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := New(Options{BaseURL: url, RPS: 1000}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer client.Close()

	_, err := client.ListBooks(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, domainerrors.ErrTransport)
	assert.NotErrorIs(t, err, domainerrors.ErrUnavailable)
	assert.Contains(t, err.Error(), "Network error:")
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
	})
	defer close(release)
	client.http.Timeout = 20 * time.Millisecond

	_, err := client.ListBooks(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "Request timed out", err.Error())
}

func TestClient_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"not":"a list"}`)) //nolint:errcheck // Test handler
	})

	_, err := client.ListBooks(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestClient_GetBook(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/books/9780002005883", r.URL.Path)
		w.Write([]byte(`{"isbn13":"9780002005883","title":"Gilead"}`)) //nolint:errcheck // Test handler
	})

	book, err := client.GetBook(context.Background(), "9780002005883")
	require.NoError(t, err)
	assert.Equal(t, "Gilead", book.Title)
}

func TestClient_GetBook_InvalidISBNNeverSent(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) { calls++ })

	_, err := client.GetBook(context.Background(), "12345")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidISBN)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Equal(t, "ISBN13 must be a 13-digit number string.", err.Error())
	assert.Zero(t, calls)
}

func TestClient_Search_Params(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit string
	}{
		{name: "explicit limit", limit: 20, wantLimit: "20"},
		{name: "default limit", limit: 0, wantLimit: "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/search", r.URL.Path)
				assert.Equal(t, "war & peace", r.URL.Query().Get("q"))
				assert.Equal(t, tt.wantLimit, r.URL.Query().Get("limit"))
				w.Write([]byte(`[]`)) //nolint:errcheck // Test handler
			})

			books, err := client.Search(context.Background(), "war & peace", tt.limit)
			require.NoError(t, err)
			assert.Empty(t, books)
		})
	}
}

func TestClient_Recommend(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got domain.RecommendationQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "a quiet book about grief", got.Query)
		assert.Equal(t, "Fiction", got.Category)
		assert.Equal(t, "Sad", got.Tone)
		assert.Equal(t, 8, got.FinalTopK)
		assert.Equal(t, 50, got.InitialTopK)

		w.Write([]byte(`[{"isbn13":"2"},{"isbn13":"1"}]`)) //nolint:errcheck // Test handler
	})

	q := domain.NewRecommendationQuery()
	q.Query = "a quiet book about grief"
	q.Category = "Fiction"
	q.Tone = "Sad"
	q.FinalTopK = 8

	books, err := client.Recommend(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "2", books[0].ISBN13)
}

func TestClient_Categories(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories", r.URL.Path)
		w.Write([]byte(`{"categories":["All","Fiction"],"tones":null}`)) //nolint:errcheck // Test handler
	})

	vocab, err := client.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"All", "Fiction"}, vocab.Categories)
	assert.NotNil(t, vocab.Tones)
	assert.Empty(t, vocab.Tones)
}

func TestClient_ProbeCover(t *testing.T) {
	var methods []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		switch r.URL.Path {
		case "/ok.jpg":
			w.WriteHeader(http.StatusOK)
		case "/nohead.jpg":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := New(Options{BaseURL: "http://unused", RPS: 1000}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer client.Close()

	ctx := context.Background()

	assert.NoError(t, client.ProbeCover(ctx, server.URL+"/ok.jpg"))
	assert.Equal(t, []string{http.MethodHead}, methods)

	methods = nil
	assert.NoError(t, client.ProbeCover(ctx, server.URL+"/nohead.jpg"))
	assert.Equal(t, []string{http.MethodHead, http.MethodGet}, methods)

	err := client.ProbeCover(ctx, server.URL+"/missing.jpg")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, client.ProbeCover(ctx, domain.NoCoverSentinel), ErrNoCover)
	assert.ErrorIs(t, client.ProbeCover(ctx, ""), ErrNoCover)
	assert.ErrorIs(t, client.ProbeCover(ctx, "relative/cover.jpg"), ErrNoCover)
}

func TestParseDetail(t *testing.T) {
	assert.Equal(t, "Book not found", parseDetail([]byte(`{"detail":"Book not found"}`)))
	assert.Equal(t, "bad", parseDetail([]byte(`{"detail":[{"msg":"bad"}]}`)))
	assert.Empty(t, parseDetail([]byte(`<html>oops</html>`)))
	assert.Empty(t, parseDetail(nil))
}
