// Package tui is the terminal front end: a Bubble Tea model that renders the view
// controller's current data as a card grid and turns key presses into builder and
// controller calls.
package tui

import (
	"github.com/listenupapp/bookfinder/internal/query"
	"github.com/listenupapp/bookfinder/internal/view"
)

// fetchDoneMsg carries a finished controller fetch back to Update.
type fetchDoneMsg struct {
	Result view.Result
}

// vocabularyMsg carries the filter vocabulary fetch result.
type vocabularyMsg struct {
	Result query.VocabularyResult
}

// coverProbedMsg reports whether a cover URL loaded.
type coverProbedMsg struct {
	URL string
	Err error
}
