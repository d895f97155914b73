// Package query holds the form state behind the search box and the recommendation form
// and turns a submission into a controller call.
package query

import (
	"strings"

	"github.com/listenupapp/bookfinder/internal/view"
)

// SearchRunner starts a search. A blank query means "clear search".
type SearchRunner interface {
	RunSearch(q string) view.Fetch
}

// SearchBuilder holds the search box text.
type SearchBuilder struct {
	text string
}

// NewSearchBuilder returns an empty search builder.
func NewSearchBuilder() *SearchBuilder {
	return &SearchBuilder{}
}

// SetText replaces the field contents.
func (b *SearchBuilder) SetText(s string) {
	b.text = s
}

// Text returns the field contents as typed.
func (b *SearchBuilder) Text() string {
	return b.text
}

// Submit hands the trimmed text to r. Blank text is the same as Clear, except that
// the field keeps what was typed.
func (b *SearchBuilder) Submit(r SearchRunner) view.Fetch {
	return r.RunSearch(strings.TrimSpace(b.text))
}

// Clear empties the field and tells r to clear the search.
func (b *SearchBuilder) Clear(r SearchRunner) view.Fetch {
	b.text = ""
	return r.RunSearch("")
}
