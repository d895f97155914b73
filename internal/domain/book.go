// Package domain contains the data model shared by the bookfinder client: catalog book
// records as the backend sends them, recommendation requests, and filter vocabulary.
package domain

import (
	"strings"
	"unicode"
)

// NoCoverSentinel is the thumbnail value the backend uses for a book without cover art.
// It coexists with an absent thumbnail; both mean "no cover".
const NoCoverSentinel = "cover-not-found.jpg"

// ISBN13Length is the number of digits in a valid isbn13 identifier.
const ISBN13Length = 13

// Book is a catalog record received verbatim from the backend.
//
// Optional numeric fields are pointers so an absent value can be told apart from zero.
// Absent strings decode as "" and are treated the same as empty by the display layer.
type Book struct {
	ISBN13           string   `json:"isbn13"`
	Title            string   `json:"title"`
	Authors          string   `json:"authors,omitempty"` // semicolon-separated
	Description      string   `json:"description,omitempty"`
	AverageRating    *float64 `json:"average_rating,omitempty"`
	SimpleCategories string   `json:"simple_categories,omitempty"`
	LargeThumbnail   string   `json:"large_thumbnail,omitempty"`

	// Emotion scores attached by the recommendation pipeline.
	Joy      *float64 `json:"joy,omitempty"`
	Surprise *float64 `json:"surprise,omitempty"`
	Anger    *float64 `json:"anger,omitempty"`
	Fear     *float64 `json:"fear,omitempty"`
	Sadness  *float64 `json:"sadness,omitempty"`
}

// HasCover reports whether the thumbnail is usable: present and not the sentinel.
func (b *Book) HasCover() bool {
	return CoverUsable(b.LargeThumbnail)
}

// Uncategorized reports whether the record carries no category.
func (b *Book) Uncategorized() bool {
	return strings.TrimSpace(b.SimpleCategories) == ""
}

// Emotion returns the score for the named emotion column and whether it is present.
// Names match the backend columns: joy, surprise, anger, fear, sadness.
func (b *Book) Emotion(name string) (float64, bool) {
	var v *float64
	switch name {
	case "joy":
		v = b.Joy
	case "surprise":
		v = b.Surprise
	case "anger":
		v = b.Anger
	case "fear":
		v = b.Fear
	case "sadness":
		v = b.Sadness
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// CoverUsable reports whether a thumbnail URL may be loaded. Only the exact sentinel
// value is rejected; any other URL is tried and falls back at render time if it fails.
func CoverUsable(url string) bool {
	return url != "" && url != NoCoverSentinel
}

// ValidISBN13 reports whether s is exactly 13 ASCII digits.
func ValidISBN13(s string) bool {
	if len(s) != ISBN13Length {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
