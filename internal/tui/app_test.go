package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookfinder/internal/domain"
	"github.com/listenupapp/bookfinder/internal/query"
	"github.com/listenupapp/bookfinder/internal/validation"
	"github.com/listenupapp/bookfinder/internal/view"
)

type fakeGateway struct {
	books     []domain.Book
	listErr   error
	results   []domain.Book
	searchErr error
	recs      []domain.Book
	vocab     domain.FilterVocabulary
	vocabErr  error
	book      *domain.Book

	listCalls   int
	searchCalls int
	recCalls    int
	getCalls    int
	lastRec     domain.RecommendationQuery
}

func (f *fakeGateway) ListBooks(context.Context) ([]domain.Book, error) {
	f.listCalls++
	return f.books, f.listErr
}

func (f *fakeGateway) GetBook(context.Context, string) (*domain.Book, error) {
	f.getCalls++
	return f.book, nil
}

func (f *fakeGateway) Search(context.Context, string, int) ([]domain.Book, error) {
	f.searchCalls++
	return f.results, f.searchErr
}

func (f *fakeGateway) Recommend(_ context.Context, q domain.RecommendationQuery) ([]domain.Book, error) {
	f.recCalls++
	f.lastRec = q
	return f.recs, nil
}

func (f *fakeGateway) Categories(context.Context) (domain.FilterVocabulary, error) {
	return f.vocab, f.vocabErr
}

func testBooks(titles ...string) []domain.Book {
	out := make([]domain.Book, len(titles))
	for i, title := range titles {
		out[i] = domain.Book{ISBN13: "978000000000" + string(rune('0'+i)), Title: title}
	}
	return out
}

func newTestApp(gw *fakeGateway, probe CoverProber) App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := New(Config{
		Controller:      view.New(gw),
		Search:          query.NewSearchBuilder(),
		Recommendations: query.NewRecommendationBuilder(gw, validation.New(), logger),
		ProbeCover:      probe,
	})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 60})
	return m.(App)
}

// collect executes cmd and returns the application messages it produced, expanding
// batches. Spinner ticks and cursor blinks are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case fetchDoneMsg, vocabularyMsg, coverProbedMsg:
		return []tea.Msg{msg}
	}
	return nil
}

// run feeds every message produced by cmd back into the model until nothing is left.
func run(a App, cmd tea.Cmd) App {
	for _, msg := range collect(cmd) {
		m, next := a.Update(msg)
		a = run(m.(App), next)
	}
	return a
}

func press(a App, msg tea.KeyMsg) (App, tea.Cmd) {
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func typeText(a App, s string) App {
	a, _ = press(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return a
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func (f *fakeGateway) totalCalls() int {
	return f.listCalls + f.searchCalls + f.recCalls + f.getCalls
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInit_LoadsBrowse(t *testing.T) {
	gw := &fakeGateway{books: testBooks("Gilead", "Spider's Web")}
	a := newTestApp(gw, nil)

	a = run(a, a.Init())

	out := a.View()
	assert.Equal(t, 1, gw.listCalls)
	assert.Contains(t, out, "Featured Books")
	assert.Contains(t, out, "Gilead")
	assert.Contains(t, out, "Spider's Web")
	assert.NotContains(t, out, loadingText)
}

func TestInit_ShowsSpinnerWhileLoading(t *testing.T) {
	a := newTestApp(&fakeGateway{}, nil)
	_ = a.Init()

	assert.Contains(t, a.View(), loadingText)
	assert.NotContains(t, a.View(), emptyTitle)
}

func TestFatalThenRetry(t *testing.T) {
	gw := &fakeGateway{listErr: errors.New("Network error: refused")}
	a := newTestApp(gw, nil)

	a = run(a, a.Init())

	out := a.View()
	assert.Contains(t, out, fatalTitle)
	assert.Contains(t, out, "Network error: refused")
	assert.Contains(t, out, fatalRetry)
	assert.NotContains(t, out, "Featured Books")

	gw.listErr = nil
	gw.books = testBooks("Gilead")

	a, cmd := press(a, runes("r"))
	require.NotNil(t, cmd)
	a = run(a, cmd)

	out = a.View()
	assert.NotContains(t, out, fatalTitle)
	assert.Contains(t, out, "Gilead")
	assert.NoError(t, a.ctrl.Err())
	assert.Equal(t, 2, gw.listCalls)
}

func TestSearch_SecondSubmitIgnoredWhileLoading(t *testing.T) {
	gw := &fakeGateway{books: testBooks("Gilead"), results: testBooks("Dune", "Dune Messiah")}
	a := newTestApp(gw, nil)
	a = run(a, a.Init())

	a = typeText(a, "dune")
	a, first := press(a, keyEnter)
	require.NotNil(t, first)
	assert.True(t, a.ctrl.Loading())

	a, second := press(a, keyEnter)
	assert.Nil(t, second)
	assert.NotContains(t, a.View(), "Gilead", "stale results hidden while loading")

	a = run(a, first)

	assert.Equal(t, 1, gw.searchCalls)
	assert.Equal(t, domain.ModeSearch, a.ctrl.Mode())
	assert.Contains(t, a.View(), "Search Results (2 found)")
	assert.Contains(t, a.View(), "Dune Messiah")
}

func TestFetchKeysIgnoredWhileLoading(t *testing.T) {
	tests := []struct {
		name  string
		focus focus
		key   tea.KeyMsg
	}{
		{"search submit", focusSearch, keyEnter},
		{"recommendation query submit", focusRecQuery, keyEnter},
		{"category selector submit", focusCategory, keyEnter},
		{"tone selector submit", focusTone, keyEnter},
		{"result count selector submit", focusTopK, keyEnter},
		{"grid open detail", focusGrid, keyEnter},
		{"grid retry key", focusGrid, runes("r")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{books: testBooks("Gilead", "Spider's Web"), book: &domain.Book{ISBN13: "1"}}
			a := newTestApp(gw, nil)
			a = run(a, a.Init())

			a.searchInput.SetValue("dune")
			a.search.SetText("dune")
			a.recInput.SetValue("something hopeful")
			a.recs.SetText("something hopeful")
			a.setFocus(tt.focus)

			inFlight := a.ctrl.LoadInitial()
			require.True(t, a.ctrl.Loading())
			calls := gw.totalCalls()

			a, cmd := press(a, tt.key)

			assert.Nil(t, cmd)
			assert.Equal(t, calls, gw.totalCalls())
			assert.True(t, a.ctrl.Loading())

			a.ctrl.Apply(inFlight(context.Background()))
			assert.False(t, a.ctrl.Loading())
		})
	}
}

func TestRetryIgnoredWhileRetryLoading(t *testing.T) {
	gw := &fakeGateway{listErr: errors.New("Network error: refused")}
	a := newTestApp(gw, nil)
	a = run(a, a.Init())
	require.True(t, a.ctrl.ShowFatal())

	gw.listErr = nil
	gw.books = testBooks("Gilead")

	a, first := press(a, runes("r"))
	require.NotNil(t, first)
	require.True(t, a.ctrl.Loading())

	a, second := press(a, runes("r"))
	assert.Nil(t, second)

	a = run(a, first)

	assert.Equal(t, 2, gw.listCalls)
	assert.Contains(t, a.View(), "Gilead")
}

func TestEmptyBrowseThenSearchFailureStaysInline(t *testing.T) {
	gw := &fakeGateway{searchErr: errors.New("Request failed with status code 500")}
	a := newTestApp(gw, nil)
	a = run(a, a.Init())
	require.False(t, a.ctrl.ShowFatal())

	a = typeText(a, "dune")
	a, cmd := press(a, keyEnter)
	a = run(a, cmd)

	out := a.View()
	assert.False(t, a.ctrl.ShowFatal())
	assert.Contains(t, out, "Request failed with status code 500")
	assert.NotContains(t, out, fatalTitle)
	assert.NotContains(t, out, fatalRetry)

	// Focus still moves, so the search can be edited and resubmitted.
	a, _ = press(a, keyTab)
	assert.Equal(t, focusRecQuery, a.focus)

	a, _ = press(a, tea.KeyMsg{Type: tea.KeyShiftTab})
	gw.searchErr = nil
	gw.results = testBooks("Dune")
	a, cmd = press(a, keyEnter)
	require.NotNil(t, cmd)
	a = run(a, cmd)

	assert.Equal(t, 1, gw.listCalls)
	assert.Equal(t, 2, gw.searchCalls)
	assert.Contains(t, a.View(), "Search Results (1 found)")
}

func TestSearch_TypingIgnoredWhileLoading(t *testing.T) {
	a := newTestApp(&fakeGateway{}, nil)
	_ = a.Init()

	a = typeText(a, "x")

	assert.Empty(t, a.searchInput.Value())
}

func TestSearch_BlankRevertsToBrowse(t *testing.T) {
	gw := &fakeGateway{books: testBooks("Gilead"), results: testBooks("Dune")}
	a := newTestApp(gw, nil)
	a = run(a, a.Init())

	a = typeText(a, "dune")
	a, cmd := press(a, keyEnter)
	a = run(a, cmd)
	require.Equal(t, domain.ModeSearch, a.ctrl.Mode())

	// Clear the field, then submit the blank query.
	a, _ = press(a, keyEsc)
	a = typeText(a, "   ")
	a, cmd = press(a, keyEnter)

	assert.Nil(t, cmd)
	assert.Equal(t, 1, gw.searchCalls)
	assert.Equal(t, domain.ModeBrowse, a.ctrl.Mode())
	assert.Contains(t, a.View(), "Featured Books")
}

func TestSearch_FailureShowsInlineBanner(t *testing.T) {
	gw := &fakeGateway{books: testBooks("Gilead"), results: testBooks("Dune")}
	a := newTestApp(gw, nil)
	a = run(a, a.Init())

	a = typeText(a, "dune")
	a, cmd := press(a, keyEnter)
	a = run(a, cmd)

	gw.searchErr = errors.New("Request failed with status code 500")
	a, cmd = press(a, keyEnter)
	a = run(a, cmd)

	out := a.View()
	assert.Contains(t, out, "Request failed with status code 500")
	assert.NotContains(t, out, fatalRetry)
	assert.Contains(t, out, "Dune")
}

func TestSearch_EmptyResults(t *testing.T) {
	gw := &fakeGateway{books: testBooks("Gilead")}
	a := newTestApp(gw, nil)
	a = run(a, a.Init())

	a = typeText(a, "zzz")
	a, cmd := press(a, keyEnter)
	a = run(a, cmd)

	out := a.View()
	assert.Contains(t, out, emptyTitle)
	assert.Contains(t, out, emptySubtitle)
	assert.Contains(t, out, "Search Results (0 found)")
}

func TestRecommendation_Submit(t *testing.T) {
	gw := &fakeGateway{
		books: testBooks("Gilead"),
		recs:  testBooks("The Road"),
		vocab: domain.FilterVocabulary{
			Categories: []string{"All", "Fiction"},
			Tones:      []string{"All", "Sad"},
		},
	}
	a := newTestApp(gw, nil)
	a = run(a, a.Init())

	a, _ = press(a, keyTab)
	a = typeText(a, "  bleak and beautiful  ")
	a, _ = press(a, keyTab)
	a, _ = press(a, keyRight)
	a, _ = press(a, keyTab)
	a, _ = press(a, keyRight)
	a, cmd := press(a, keyEnter)
	require.NotNil(t, cmd)
	a = run(a, cmd)

	require.Equal(t, 1, gw.recCalls)
	assert.Equal(t, "bleak and beautiful", gw.lastRec.Query)
	assert.Equal(t, "Fiction", gw.lastRec.Category)
	assert.Equal(t, "Sad", gw.lastRec.Tone)
	assert.Equal(t, 16, gw.lastRec.FinalTopK)
	assert.Contains(t, a.View(), "Recommendations for You (1 books)")
}

func TestRecommendation_BlankQueryRejected(t *testing.T) {
	gw := &fakeGateway{books: testBooks("Gilead")}
	a := newTestApp(gw, nil)
	a = run(a, a.Init())

	a, _ = press(a, keyTab)
	a, cmd := press(a, keyEnter)

	assert.Nil(t, cmd)
	assert.Zero(t, gw.recCalls)
	assert.NotEmpty(t, a.FormError())
	assert.NoError(t, a.ctrl.Err())
}

func TestRecommendation_ValidationMessageShown(t *testing.T) {
	gw := &fakeGateway{books: testBooks("Gilead")}
	a := newTestApp(gw, nil)
	a = run(a, a.Init())

	a.setFocus(focusRecQuery)
	a.recs.SetText(strings.Repeat("a", 1001))
	a, cmd := press(a, keyEnter)

	assert.Nil(t, cmd)
	assert.Zero(t, gw.recCalls)
	assert.NotEmpty(t, a.FormError())
	assert.NotEqual(t, "Please describe what you'd like to read.", a.FormError())
}

func TestRecommendation_VocabularyFailureDoesNotBlock(t *testing.T) {
	gw := &fakeGateway{books: testBooks("Gilead"), vocabErr: errors.New("boom"), recs: testBooks("X")}
	a := newTestApp(gw, nil)
	a = run(a, a.Init())

	out := a.View()
	assert.NotContains(t, out, "boom")
	assert.Contains(t, out, "Gilead")

	a, _ = press(a, keyTab)
	a = typeText(a, "anything")
	a, cmd := press(a, keyEnter)
	a = run(a, cmd)

	assert.Equal(t, 1, gw.recCalls)
	assert.Equal(t, "All", gw.lastRec.Category)
}

func TestCoverProbeFailureFallsBackToPlaceholder(t *testing.T) {
	books := []domain.Book{
		{ISBN13: "1", Title: "Broken", LargeThumbnail: "https://covers.example.com/broken.jpg"},
	}
	gw := &fakeGateway{books: books}
	probed := 0
	probe := func(context.Context, string) error {
		probed++
		return errors.New("404")
	}
	a := newTestApp(gw, probe)

	a = run(a, a.Init())

	assert.Equal(t, 1, probed)
	out := a.View()
	assert.NotContains(t, out, "▣ cover")
	assert.Contains(t, out, "📚")
	assert.NoError(t, a.ctrl.Err())
	assert.False(t, a.ctrl.Loading())
}

func TestCoverProbeSuccessKeepsImage(t *testing.T) {
	books := []domain.Book{
		{ISBN13: "1", Title: "Fine", LargeThumbnail: "https://covers.example.com/ok.jpg"},
		{ISBN13: "2", Title: "None", LargeThumbnail: domain.NoCoverSentinel},
	}
	probed := 0
	a := newTestApp(&fakeGateway{books: books}, func(context.Context, string) error {
		probed++
		return nil
	})

	a = run(a, a.Init())

	assert.Equal(t, 1, probed, "sentinel covers are never probed")
	assert.Contains(t, a.View(), "▣ cover")
}

func TestGrid_NavigationAndDetail(t *testing.T) {
	book := &domain.Book{ISBN13: "9780000000001", Title: "Second", Description: strings.Repeat("long ", 40)}
	gw := &fakeGateway{books: testBooks("First", "Second", "Third", "Fourth", "Fifth"), book: book}
	a := newTestApp(gw, nil)
	a = run(a, a.Init())

	for range 5 {
		a, _ = press(a, keyTab)
	}
	require.Equal(t, focusGrid, a.focus)

	require.Equal(t, 4, a.columns())

	a, _ = press(a, runes("h"))
	assert.Equal(t, 0, a.Cursor())

	a, _ = press(a, keyDown)
	assert.Equal(t, 4, a.Cursor())

	a, _ = press(a, keyDown)
	assert.Equal(t, 4, a.Cursor(), "no row below")

	a, _ = press(a, tea.KeyMsg{Type: tea.KeyUp})
	a, _ = press(a, runes("l"))
	assert.Equal(t, 1, a.Cursor())

	a, cmd := press(a, keyEnter)
	require.NotNil(t, cmd)
	a = run(a, cmd)

	_, open := a.ctrl.Detail()
	require.True(t, open)
	assert.Contains(t, a.View(), "9780000000001")

	a, _ = press(a, keyEsc)
	_, open = a.ctrl.Detail()
	assert.False(t, open)
	assert.Contains(t, a.View(), "Featured Books")
}

func TestGrid_BrowseKeyReusesCache(t *testing.T) {
	gw := &fakeGateway{books: testBooks("Gilead"), results: testBooks("Dune")}
	a := newTestApp(gw, nil)
	a = run(a, a.Init())

	a = typeText(a, "dune")
	a, cmd := press(a, keyEnter)
	a = run(a, cmd)

	for range 5 {
		a, _ = press(a, keyTab)
	}
	a, cmd = press(a, runes("b"))
	assert.Nil(t, cmd)
	a, cmd = press(a, runes("b"))
	assert.Nil(t, cmd)

	assert.Equal(t, 1, gw.listCalls)
	assert.Equal(t, domain.ModeBrowse, a.ctrl.Mode())
	assert.Contains(t, a.View(), "Gilead")
}

func TestQuit(t *testing.T) {
	a := newTestApp(&fakeGateway{}, nil)
	_, cmd := press(a, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
