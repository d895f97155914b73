// Package search provides full-text matching of catalog records using Bleve. The
// dev server uses it to rank recommendation candidates by how well a free-text
// description matches each book.
package search

import (
	"fmt"
	"strconv"

	"github.com/listenupapp/bookfinder/internal/domain"
)

// BookDocument is the indexed form of one catalog record.
type BookDocument struct {
	// Position is the record's index in the catalog. It is the document identity, so
	// duplicate isbn13 values index as separate documents.
	Position    int
	Title       string
	Authors     string
	Description string
}

// NewBookDocument builds the document for the record at position.
func NewBookDocument(position int, b domain.Book) *BookDocument {
	return &BookDocument{
		Position:    position,
		Title:       b.Title,
		Authors:     b.Authors,
		Description: b.Description,
	}
}

// ID returns the zero-padded document ID. Padding keeps lexical ID order equal to
// catalog order for tie-breaking.
func (d *BookDocument) ID() string {
	return docID(d.Position)
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *BookDocument) ToMap() map[string]any {
	return map[string]any{
		"title":       d.Title,
		"authors":     d.Authors,
		"description": d.Description,
	}
}

func docID(position int) string {
	return fmt.Sprintf("%08d", position)
}

func parseDocID(id string) (int, error) {
	return strconv.Atoi(id)
}
