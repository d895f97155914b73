package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/listenupapp/bookfinder/internal/errors"
	"github.com/listenupapp/bookfinder/internal/normalize"
	"github.com/listenupapp/bookfinder/internal/query"
	"github.com/listenupapp/bookfinder/internal/view"
)

// CoverProber checks that a cover URL loads. A nil prober shows every usable URL as
// an image.
type CoverProber func(ctx context.Context, url string) error

type focus int

const (
	focusSearch focus = iota
	focusRecQuery
	focusCategory
	focusTone
	focusTopK
	focusGrid
	focusCount
)

type coverState int

const (
	coverPending coverState = iota + 1
	coverLoaded
	coverFailed
)

const (
	defaultWidth  = 100
	defaultHeight = 32
)

// Config holds the collaborators of App.
type Config struct {
	Controller      *view.Controller
	Search          *query.SearchBuilder
	Recommendations *query.RecommendationBuilder
	ProbeCover      CoverProber
	// Context bounds every fetch the UI starts. Defaults to context.Background.
	Context context.Context
	Logger  *slog.Logger
}

// App is the root Bubble Tea model. It never calls the catalog itself: fetches are
// returned by the controller and builders and run as commands.
type App struct {
	ctx    context.Context
	ctrl   *view.Controller
	search *query.SearchBuilder
	recs   *query.RecommendationBuilder
	probe  CoverProber
	logger *slog.Logger

	keys        keyMap
	help        help.Model
	spinner     spinner.Model
	searchInput textinput.Model
	recInput    textinput.Model
	detailView  viewport.Model

	focus   focus
	cursor  int
	formErr string
	covers  map[string]coverState

	width  int
	height int
}

// New creates the root model.
func New(cfg Config) App {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	si := textinput.New()
	si.Placeholder = "Search for books by title or author..."
	si.CharLimit = 200
	si.Width = 50
	si.Focus()

	ri := textinput.New()
	ri.Placeholder = "Describe the kind of book you're looking for..."
	ri.CharLimit = 1000
	ri.Width = 50

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorSpinner)

	return App{
		ctx:         ctx,
		ctrl:        cfg.Controller,
		search:      cfg.Search,
		recs:        cfg.Recommendations,
		probe:       cfg.ProbeCover,
		logger:      logger,
		keys:        defaultKeyMap(),
		help:        help.New(),
		spinner:     s,
		searchInput: si,
		recInput:    ri,
		detailView:  viewport.New(defaultWidth-8, defaultHeight-8),
		focus:       focusSearch,
		covers:      make(map[string]coverState),
		width:       defaultWidth,
		height:      defaultHeight,
	}
}

// Init starts the initial browse fetch and the vocabulary fetch.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, a.startFetch(a.ctrl.LoadInitial())}
	if f := a.recs.Mount(); f != nil {
		ctx := a.ctx
		cmds = append(cmds, func() tea.Msg {
			return vocabularyMsg{Result: f(ctx)}
		})
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.detailView.Width = max(msg.Width-8, 20)
		a.detailView.Height = max(msg.Height-8, 5)
		return a, nil

	case spinner.TickMsg:
		if !a.ctrl.Loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case fetchDoneMsg:
		return a.handleFetchDone(msg.Result)

	case vocabularyMsg:
		a.recs.ApplyVocabulary(msg.Result)
		return a, nil

	case coverProbedMsg:
		if msg.Err != nil {
			a.covers[msg.URL] = coverFailed
		} else {
			a.covers[msg.URL] = coverLoaded
		}
		return a, nil
	}

	return a, nil
}

func (a App) handleFetchDone(r view.Result) (tea.Model, tea.Cmd) {
	a.ctrl.Apply(r)

	if r.Err != nil {
		a.logger.Debug("fetch failed", "op", r.Op.String(), "error", r.Err)
		return a, nil
	}

	if r.Op == view.OpDetail {
		if book, ok := a.ctrl.Detail(); ok {
			a.detailView.SetContent(renderDetailBody(normalize.NewDetail(*book), a.detailView.Width))
			a.detailView.GotoTop()
		}
		return a, nil
	}

	a.cursor = 0
	return a, a.probeCovers()
}

// startFetch wraps a controller fetch as a command and keeps the spinner ticking.
func (a App) startFetch(f view.Fetch) tea.Cmd {
	if f == nil {
		return nil
	}
	ctx := a.ctx
	return tea.Batch(
		func() tea.Msg { return fetchDoneMsg{Result: f(ctx)} },
		a.spinner.Tick,
	)
}

// probeCovers issues one probe per usable cover URL in the current results that has
// not been probed yet.
func (a App) probeCovers() tea.Cmd {
	if a.probe == nil {
		return nil
	}

	var cmds []tea.Cmd
	for _, b := range a.ctrl.Current() {
		if normalize.Cover(b.LargeThumbnail) != normalize.CoverImage {
			continue
		}
		u := b.LargeThumbnail
		if _, seen := a.covers[u]; seen {
			continue
		}
		a.covers[u] = coverPending

		probe, ctx := a.probe, a.ctx
		cmds = append(cmds, func() tea.Msg {
			return coverProbedMsg{URL: u, Err: probe(ctx, u)}
		})
	}
	return tea.Batch(cmds...)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Quit) {
		return a, tea.Quit
	}

	if _, open := a.ctrl.Detail(); open {
		if key.Matches(msg, a.keys.Close) {
			a.ctrl.CloseDetail()
			return a, nil
		}
		var cmd tea.Cmd
		a.detailView, cmd = a.detailView.Update(msg)
		return a, cmd
	}

	if a.ctrl.ShowFatal() {
		switch {
		case key.Matches(msg, a.keys.Retry):
			return a, a.startFetch(a.ctrl.LoadInitial())
		case key.Matches(msg, a.keys.QuitGrid):
			return a, tea.Quit
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Next):
		a.setFocus((a.focus + 1) % focusCount)
		return a, nil
	case key.Matches(msg, a.keys.Prev):
		a.setFocus((a.focus + focusCount - 1) % focusCount)
		return a, nil
	}

	switch a.focus {
	case focusSearch:
		return a.handleSearchKey(msg)
	case focusRecQuery:
		return a.handleRecQueryKey(msg)
	case focusCategory, focusTone, focusTopK:
		return a.handleSelectorKey(msg)
	default:
		return a.handleGridKey(msg)
	}
}

func (a *App) setFocus(f focus) {
	a.focus = f
	a.searchInput.Blur()
	a.recInput.Blur()
	switch f {
	case focusSearch:
		a.searchInput.Focus()
	case focusRecQuery:
		a.recInput.Focus()
	}
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.ctrl.Loading() {
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Submit):
		f := a.search.Submit(a.ctrl)
		if f == nil {
			a.clampCursor()
		}
		return a, a.startFetch(f)
	case key.Matches(msg, a.keys.Clear):
		a.searchInput.SetValue("")
		a.search.Clear(a.ctrl)
		a.clampCursor()
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	a.search.SetText(a.searchInput.Value())
	return a, cmd
}

func (a App) handleRecQueryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.ctrl.Loading() {
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Submit):
		return a.submitRecommendation()
	case key.Matches(msg, a.keys.Clear):
		a.recInput.SetValue("")
		a.recs.SetText("")
		return a, nil
	}

	var cmd tea.Cmd
	a.recInput, cmd = a.recInput.Update(msg)
	a.recs.SetText(a.recInput.Value())
	return a, cmd
}

func (a App) handleSelectorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.ctrl.Loading() {
		return a, nil
	}

	delta := 0
	switch {
	case key.Matches(msg, a.keys.Submit):
		return a.submitRecommendation()
	case key.Matches(msg, a.keys.Left):
		delta = -1
	case key.Matches(msg, a.keys.Right):
		delta = 1
	default:
		return a, nil
	}

	switch a.focus {
	case focusCategory:
		a.recs.CycleCategory(delta)
	case focusTone:
		a.recs.CycleTone(delta)
	case focusTopK:
		a.recs.CycleTopK(delta)
	}
	return a, nil
}

func (a App) submitRecommendation() (tea.Model, tea.Cmd) {
	f, err := a.recs.Submit(a.ctrl)
	if err != nil {
		switch {
		case strings.TrimSpace(a.recs.Query().Query) == "":
			a.formErr = "Please describe what you'd like to read."
		case errors.Is(err, errors.ErrValidation):
			a.formErr = err.Error()
		default:
			a.logger.Error("recommendation submit failed", "error", err)
			a.formErr = err.Error()
		}
		return a, nil
	}
	a.formErr = ""
	return a, a.startFetch(f)
}

func (a App) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(a.ctrl.Current())
	cols := a.columns()

	switch {
	case key.Matches(msg, a.keys.QuitGrid):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Browse):
		a.ctrl.SwitchToBrowse()
		a.cursor = 0
	case key.Matches(msg, a.keys.Left):
		a.cursor--
	case key.Matches(msg, a.keys.Right):
		a.cursor++
	case key.Matches(msg, a.keys.Up):
		if a.cursor-cols >= 0 {
			a.cursor -= cols
		}
	case key.Matches(msg, a.keys.Down):
		if a.cursor+cols < n {
			a.cursor += cols
		}
	case key.Matches(msg, a.keys.Open):
		if a.ctrl.Loading() || n == 0 {
			return a, nil
		}
		a.clampCursor()
		return a, a.startFetch(a.ctrl.OpenDetail(a.ctrl.Current()[a.cursor].ISBN13))
	}

	a.clampCursor()
	return a, nil
}

func (a *App) clampCursor() {
	n := len(a.ctrl.Current())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// columns returns how many cards fit side by side, 1 to 4.
func (a App) columns() int {
	return min(max(a.width/minCardWidth, 1), 4)
}

// Cursor returns the selected card index.
func (a App) Cursor() int {
	return a.cursor
}

// FormError returns the recommendation form's validation message, if any.
func (a App) FormError() string {
	return a.formErr
}
