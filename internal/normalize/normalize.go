// Package normalize maps raw catalog records into display-ready text.
//
// Every function is total: any input, including zero values, yields a printable result.
package normalize

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/listenupapp/bookfinder/internal/domain"
)

// Fallback strings shown when a field is missing.
const (
	UnknownAuthor = "Unknown Author"
	NoDescription = "No description available"
	NoRating      = "N/A"
	Ellipsis      = "..."
)

// DefaultMaxWords is the description length used on cards.
const DefaultMaxWords = 15

// Authors formats a semicolon-separated author list.
//
//	""           -> "Unknown Author"
//	"A;B"        -> "A & B"
//	"A;B;C;D"    -> "A and 3 others"
//	"A;;B"       -> "A & B"
//
// Entries are trimmed and blank entries are dropped before counting, so stray or
// trailing separators never produce an empty name or inflate the count.
func Authors(raw string) string {
	var names []string
	for _, part := range strings.Split(raw, ";") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}

	switch {
	case len(names) == 0:
		return UnknownAuthor
	case len(names) > 2:
		return names[0] + " and " + strconv.Itoa(len(names)-1) + " others"
	default:
		return strings.Join(names, " & ")
	}
}

// Description shortens text to at most maxWords whitespace-separated words, appending
// Ellipsis when anything was cut. Text within the limit is returned unchanged.
// A non-positive maxWords uses DefaultMaxWords.
func Description(text string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return NoDescription
	}
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + Ellipsis
}

// Rating formats an average rating to one decimal place. Absent is "N/A"; zero is "0.0".
func Rating(r *float64) string {
	if r == nil {
		return NoRating
	}
	return strconv.FormatFloat(*r, 'f', 1, 64)
}

// CoverKind is the result of a cover decision.
type CoverKind int

// Cover outcomes.
const (
	CoverPlaceholder CoverKind = iota
	CoverImage
)

func (k CoverKind) String() string {
	if k == CoverImage {
		return "image"
	}
	return "placeholder"
}

// Cover decides whether a thumbnail URL should be loaded. Absent and the no-cover
// sentinel select the placeholder; any other value selects the image path.
func Cover(thumbnail string) CoverKind {
	if domain.CoverUsable(thumbnail) {
		return CoverImage
	}
	return CoverPlaceholder
}

// Category returns the chip label for a record, or "" when uncategorized.
func Category(raw string) string {
	return strings.TrimSpace(Text(raw))
}

// Text strips null bytes and normalizes to NFC so combining sequences from the
// backend render as single glyphs.
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
	return norm.NFC.String(s)
}
