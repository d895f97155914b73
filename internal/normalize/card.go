package normalize

import (
	"strconv"
	"strings"

	"github.com/listenupapp/bookfinder/internal/domain"
)

// Card is the renderable form of a book.
type Card struct {
	// Key is unique within one result sequence even when the backend repeats an isbn13.
	Key         string
	ISBN13      string
	Title       string
	Authors     string
	Description string
	Rating      string
	Category    string
	Cover       CoverKind
	CoverURL    string
}

// NewCard normalizes b into a card at position index of its sequence.
func NewCard(b domain.Book, index int) Card {
	title := strings.TrimSpace(Text(b.Title))
	if title == "" {
		title = "Untitled"
	}

	c := Card{
		Key:         b.ISBN13 + "-" + strconv.Itoa(index),
		ISBN13:      b.ISBN13,
		Title:       title,
		Authors:     Authors(Text(b.Authors)),
		Description: Description(Text(b.Description), DefaultMaxWords),
		Rating:      Rating(b.AverageRating),
		Category:    Category(b.SimpleCategories),
		Cover:       Cover(b.LargeThumbnail),
	}
	if c.Cover == CoverImage {
		c.CoverURL = b.LargeThumbnail
	}
	return c
}

// Cards normalizes a result sequence, keeping its order.
func Cards(books []domain.Book) []Card {
	cards := make([]Card, len(books))
	for i, b := range books {
		cards[i] = NewCard(b, i)
	}
	return cards
}

// Emotion is one named emotion score.
type Emotion struct {
	Name  string
	Score float64
}

// emotionNames lists the score columns in display order.
//
//nolint:gochecknoglobals // Static lookup table
var emotionNames = []string{"joy", "surprise", "anger", "fear", "sadness"}

// Detail is the full, untruncated form of a book for the detail overlay.
type Detail struct {
	Card
	FullDescription string
	Emotions        []Emotion // only scores present on the record
}

// NewDetail normalizes b for the detail overlay.
func NewDetail(b domain.Book) Detail {
	full := strings.TrimSpace(Text(b.Description))
	if full == "" {
		full = NoDescription
	}
	d := Detail{Card: NewCard(b, 0), FullDescription: full}
	for _, name := range emotionNames {
		if score, ok := b.Emotion(name); ok {
			d.Emotions = append(d.Emotions, Emotion{Name: name, Score: score})
		}
	}
	return d
}
