package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/listenupapp/bookfinder/internal/domain"
	"github.com/listenupapp/bookfinder/internal/normalize"
)

const (
	minCardWidth = 32
	cardHeight   = 11
	coverLines   = 3

	loadingText   = "Loading books..."
	fatalTitle    = "Oops! Something went wrong"
	fatalRetry    = "Press r to try again"
	emptyTitle    = "No books found"
	emptySubtitle = "Try adjusting your search or recommendation criteria"
)

// View renders the whole screen.
func (a App) View() string {
	if book, open := a.ctrl.Detail(); open {
		return a.renderDetail(book)
	}
	if a.ctrl.ShowFatal() {
		return a.renderFatal()
	}

	sections := []string{
		a.renderHeader(),
		a.renderSearch(),
		a.renderRecommendationForm(),
	}

	if a.ctrl.Loading() {
		sections = append(sections, a.spinner.View()+" "+mutedStyle.Render(loadingText))
	}
	if err := a.ctrl.Err(); err != nil {
		sections = append(sections, bannerStyle.Render("⚠ "+err.Error()))
	}

	sections = append(sections, titleStyle.Render(a.ctrl.Title()))

	// Results are hidden while a fetch is in flight.
	switch {
	case a.ctrl.Loading():
	case a.ctrl.IsEmpty():
		sections = append(sections,
			"",
			lipgloss.NewStyle().Bold(true).Render("  📚 "+emptyTitle),
			mutedStyle.Render("  "+emptySubtitle),
		)
	default:
		sections = append(sections, a.renderGrid())
	}

	sections = append(sections, a.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) renderHeader() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("📚 Book Recommender"),
		subtitleStyle.Render("Discover your next favorite book"),
	)
}

func (a App) label(text string, f focus) string {
	if a.focus == f {
		return focusedLabel.Render(text)
	}
	return labelStyle.Render(text)
}

func (a App) input(v string) string {
	if a.ctrl.Loading() {
		return disabledStyle.Render(v)
	}
	return v
}

func (a App) renderSearch() string {
	return "\n" + a.label("Search", focusSearch) + a.input(a.searchInput.View())
}

func (a App) selector(value string, f focus) string {
	text := "‹ " + value + " ›"
	switch {
	case a.ctrl.Loading():
		return disabledStyle.Render(text)
	case a.focus == f:
		return focusedSelectorStyle.Render(text)
	default:
		return selectorStyle.Render(text)
	}
}

func (a App) renderRecommendationForm() string {
	q := a.recs.Query()

	line := lipgloss.JoinHorizontal(lipgloss.Top,
		a.label("Category", focusCategory), a.selector(q.Category, focusCategory), "  ",
		a.label("Tone", focusTone), a.selector(q.Tone, focusTone), "  ",
		a.label("Results", focusTopK), a.selector(strconv.Itoa(q.FinalTopK), focusTopK),
	)

	rows := []string{
		a.label("Describe", focusRecQuery) + a.input(a.recInput.View()),
		line,
	}
	if a.formErr != "" {
		rows = append(rows, formErrorStyle.Render(a.formErr))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a App) renderGrid() string {
	cards := normalize.Cards(a.ctrl.Current())
	if len(cards) == 0 {
		return ""
	}

	cols := a.columns()
	inner := max(a.width/cols-4, 12)

	// Rows that fit below the form; keep the cursor row visible.
	visibleRows := max((a.height-16)/(cardHeight+2), 1)
	cursorRow := a.cursor / cols
	firstRow := max(cursorRow-visibleRows+1, 0)

	var rows []string
	for start := firstRow * cols; start < len(cards) && len(rows) < visibleRows; start += cols {
		end := min(start+cols, len(cards))
		rendered := make([]string, 0, cols)
		for i := start; i < end; i++ {
			rendered = append(rendered, a.renderCard(cards[i], inner, i == a.cursor && a.focus == focusGrid))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}

	totalRows := (len(cards) + cols - 1) / cols
	if totalRows > visibleRows {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %d of %d", a.cursor+1, len(cards))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a App) renderCard(c normalize.Card, width int, selected bool) string {
	wrap := lipgloss.NewStyle().Width(width)

	meta := ratingStyle.Render("★ " + c.Rating)
	if c.Category != "" {
		meta += "  " + chipStyle.Render(c.Category)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		a.renderCover(c, width),
		wrap.Inherit(cardTitleStyle).MaxHeight(2).Render(c.Title),
		wrap.Foreground(colorMuted).MaxHeight(1).Render("by "+c.Authors),
		wrap.MaxHeight(3).Render(c.Description),
		meta,
	)

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Width(width + 2).Height(cardHeight).Render(body)
}

// renderCover draws the cover area. A usable URL shows the image frame until its
// probe fails; everything else shows the placeholder glyph.
func (a App) renderCover(c normalize.Card, width int) string {
	box := lipgloss.NewStyle().Width(width).Height(coverLines).Align(lipgloss.Center, lipgloss.Center)

	if c.Cover == normalize.CoverImage && a.covers[c.CoverURL] != coverFailed {
		return box.Inherit(coverImageStyle).Render("▣ cover")
	}
	return box.Inherit(coverPlaceholder).Render("📚")
}

func (a App) renderFatal() string {
	msg := ""
	if err := a.ctrl.Err(); err != nil {
		msg = err.Error()
	}

	box := fatalBoxStyle.Width(min(a.width-4, 60)).Render(lipgloss.JoinVertical(lipgloss.Center,
		"⚠",
		fatalTitleStyle.Render(fatalTitle),
		"",
		msg,
		"",
		mutedStyle.Render(fatalRetry),
	))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

func (a App) renderDetail(book *domain.Book) string {
	d := normalize.NewDetail(*book)
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(d.Title),
		overlayStyle.Render(a.detailView.View()),
		a.help.View(helpKeys{a.keys.Close, a.keys.Up, a.keys.Down}),
	)
}

// renderDetailBody lays out the full record for the detail viewport.
func renderDetailBody(d normalize.Detail, width int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", cardTitleStyle.Render(d.Title))
	fmt.Fprintf(&b, "by %s\n\n", d.Authors)
	fmt.Fprintf(&b, "ISBN     %s\n", d.ISBN13)
	fmt.Fprintf(&b, "Rating   %s\n", ratingStyle.Render("★ "+d.Rating))
	if d.Category != "" {
		fmt.Fprintf(&b, "Category %s\n", chipStyle.Render(d.Category))
	}
	if d.Cover == normalize.CoverImage {
		fmt.Fprintf(&b, "Cover    %s\n", d.CoverURL)
	}
	if len(d.Emotions) > 0 {
		parts := make([]string, 0, len(d.Emotions))
		for _, e := range d.Emotions {
			parts = append(parts, fmt.Sprintf("%s %.2f", e.Name, e.Score))
		}
		fmt.Fprintf(&b, "Tone     %s\n", strings.Join(parts, "  "))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(max(width, 20)).Render(d.FullDescription))

	return b.String()
}

func (a App) renderHelp() string {
	var keys helpKeys
	switch a.focus {
	case focusSearch:
		keys = helpKeys{a.keys.Submit, a.keys.Clear, a.keys.Next, a.keys.Quit}
	case focusRecQuery:
		keys = helpKeys{a.keys.Submit, a.keys.Clear, a.keys.Next, a.keys.Quit}
	case focusCategory, focusTone, focusTopK:
		keys = helpKeys{a.keys.Left, a.keys.Right, a.keys.Submit, a.keys.Next, a.keys.Quit}
	default:
		keys = helpKeys{a.keys.Up, a.keys.Down, a.keys.Left, a.keys.Right, a.keys.Open, a.keys.Browse, a.keys.QuitGrid}
	}
	return "\n" + a.help.View(keys)
}
