// Package view owns what the client is currently showing: the active mode, the cached
// result sequence of each mode, the open detail record, and the shared loading/error
// status.
//
// A fetch-triggering operation marks the start of a request and returns a Fetch. The
// Fetch talks to the gateway without touching controller state; its Result is handed
// back to Apply on the owning goroutine. Callers that run everything on one goroutine
// can use Do.
package view

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/listenupapp/bookfinder/internal/domain"
	"github.com/listenupapp/bookfinder/internal/errors"
)

// Gateway is the subset of the catalog client the controller calls.
type Gateway interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	GetBook(ctx context.Context, isbn13 string) (*domain.Book, error)
	Search(ctx context.Context, q string, limit int) ([]domain.Book, error)
	Recommend(ctx context.Context, q domain.RecommendationQuery) ([]domain.Book, error)
}

// DefaultSearchLimit is the number of search results requested.
const DefaultSearchLimit = 20

// Titles shown above the grid.
const (
	TitleBrowse          = "Featured Books"
	titleSearch          = "Search Results (%d found)"
	titleRecommendations = "Recommendations for You (%d books)"
)

// Op identifies which operation produced a Result.
type Op int

// Fetch-triggering operations.
const (
	OpLoadInitial Op = iota
	OpSearch
	OpRecommend
	OpDetail
)

func (o Op) String() string {
	switch o {
	case OpLoadInitial:
		return "loadInitial"
	case OpSearch:
		return "search"
	case OpRecommend:
		return "recommend"
	case OpDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Result is the outcome of one Fetch.
type Result struct {
	Op    Op
	Books []domain.Book
	Book  *domain.Book
	Err   error
}

// Fetch performs one gateway call. It must not touch controller state.
type Fetch func(ctx context.Context) Result

// Controller is the single source of truth for the displayed data. It is not safe for
// concurrent use; one goroutine owns it.
type Controller struct {
	gateway     Gateway
	searchLimit int
	logger      *slog.Logger

	mode   domain.Mode
	browse []domain.Book
	search []domain.Book
	recs   []domain.Book
	detail *domain.Book

	loading bool
	err     error
	// failedOp is the op whose failure set err.
	failedOp Op
	// browseLoaded is set by the first successful initial load and never cleared.
	browseLoaded bool
}

// Option customizes a Controller.
type Option func(*Controller)

// WithSearchLimit sets the result limit sent with searches.
func WithSearchLimit(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.searchLimit = n
		}
	}
}

// WithLogger sets the logger for state transitions.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates a controller in browse mode with nothing loaded.
func New(gw Gateway, opts ...Option) *Controller {
	c := &Controller{
		gateway:     gw,
		searchLimit: DefaultSearchLimit,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		mode:        domain.ModeBrowse,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// begin marks the start of a fetch: loading on, error cleared.
func (c *Controller) begin(op Op) {
	c.loading = true
	c.err = nil
	c.logger.Debug("fetch started", "op", op.String(), "mode", c.mode.String())
}

// LoadInitial starts fetching the default book list.
func (c *Controller) LoadInitial() Fetch {
	c.begin(OpLoadInitial)
	gw := c.gateway
	return func(ctx context.Context) Result {
		books, err := gw.ListBooks(ctx)
		return Result{Op: OpLoadInitial, Books: books, Err: err}
	}
}

// RunSearch starts a search for the trimmed query. A blank query means "clear search":
// the view reverts to browse and nil is returned because nothing needs fetching.
func (c *Controller) RunSearch(query string) Fetch {
	q := strings.TrimSpace(query)
	if q == "" {
		c.SwitchToBrowse()
		return nil
	}

	c.begin(OpSearch)
	gw, limit := c.gateway, c.searchLimit
	return func(ctx context.Context) Result {
		books, err := gw.Search(ctx, q, limit)
		return Result{Op: OpSearch, Books: books, Err: err}
	}
}

// RunRecommendation starts a recommendation request. The caller has already checked
// that the query text is not blank.
func (c *Controller) RunRecommendation(q domain.RecommendationQuery) Fetch {
	c.begin(OpRecommend)
	gw := c.gateway
	return func(ctx context.Context) Result {
		books, err := gw.Recommend(ctx, q)
		return Result{Op: OpRecommend, Books: books, Err: err}
	}
}

// OpenDetail starts fetching the full record for the detail overlay.
func (c *Controller) OpenDetail(isbn13 string) Fetch {
	c.begin(OpDetail)
	gw := c.gateway
	return func(ctx context.Context) Result {
		book, err := gw.GetBook(ctx, isbn13)
		return Result{Op: OpDetail, Book: book, Err: err}
	}
}

// Apply records a finished fetch. Loading always ends. On failure the error is stored
// and every cached sequence is left as it was. On success the result replaces the
// sequence of the mode the fetch belongs to, and that mode becomes active.
func (c *Controller) Apply(r Result) {
	c.loading = false

	if r.Err != nil {
		c.err = r.Err
		c.failedOp = r.Op
		c.logger.Warn("fetch failed", "op", r.Op.String(), "code", errors.CodeOf(r.Err), "error", r.Err)
		return
	}

	switch r.Op {
	case OpLoadInitial:
		c.browse = orEmpty(r.Books)
		c.browseLoaded = true
		c.mode = domain.ModeBrowse
	case OpSearch:
		c.search = orEmpty(r.Books)
		c.mode = domain.ModeSearch
	case OpRecommend:
		c.recs = orEmpty(r.Books)
		c.mode = domain.ModeRecommendations
	case OpDetail:
		c.detail = r.Book
	}

	c.logger.Debug("fetch applied", "op", r.Op.String(), "mode", c.mode.String(), "count", len(c.Current()))
}

// Do runs f and applies its result. A nil f is a no-op.
func (c *Controller) Do(ctx context.Context, f Fetch) {
	if f == nil {
		return
	}
	c.Apply(f(ctx))
}

// SwitchToBrowse makes browse active again, reusing whatever browse data is cached.
func (c *Controller) SwitchToBrowse() {
	c.mode = domain.ModeBrowse
}

// CloseDetail dismisses the detail overlay.
func (c *Controller) CloseDetail() {
	c.detail = nil
}

// Mode returns the active mode.
func (c *Controller) Mode() domain.Mode {
	return c.mode
}

// Current returns the active mode's result sequence in backend order.
func (c *Controller) Current() []domain.Book {
	switch c.mode {
	case domain.ModeSearch:
		return c.search
	case domain.ModeRecommendations:
		return c.recs
	default:
		return c.browse
	}
}

// Title returns the label for the active mode.
func (c *Controller) Title() string {
	switch c.mode {
	case domain.ModeSearch:
		return fmt.Sprintf(titleSearch, len(c.search))
	case domain.ModeRecommendations:
		return fmt.Sprintf(titleRecommendations, len(c.recs))
	default:
		return TitleBrowse
	}
}

// IsEmpty reports whether there is nothing to show and nothing on the way.
func (c *Controller) IsEmpty() bool {
	return len(c.Current()) == 0 && !c.loading
}

// Loading reports whether a fetch is in flight.
func (c *Controller) Loading() bool {
	return c.loading
}

// Err returns the error of the last failed fetch, or nil.
func (c *Controller) Err() error {
	return c.err
}

// ShowFatal reports whether the error must replace the whole page: the initial load
// failed and no browse list was ever loaded. An empty but successful browse load does
// not count as a failure.
func (c *Controller) ShowFatal() bool {
	return c.err != nil && c.failedOp == OpLoadInitial && !c.browseLoaded
}

// Detail returns the record shown in the detail overlay, if open.
func (c *Controller) Detail() (*domain.Book, bool) {
	return c.detail, c.detail != nil
}

func orEmpty(books []domain.Book) []domain.Book {
	if books == nil {
		return []domain.Book{}
	}
	return books
}
