package search

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/listenupapp/bookfinder/internal/domain"
)

// BookIndex wraps an in-memory Bleve index of catalog records.
//
// All methods are safe for concurrent use.
type BookIndex struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the index.
type Options struct {
	Logger *slog.Logger // uses discard if nil
}

// ErrClosed is returned by queries against a closed index.
var ErrClosed = bleve.ErrorIndexClosed

// batchSize bounds the number of documents committed per Bleve batch.
const batchSize = 500

// NewBookIndex creates an empty in-memory index.
func NewBookIndex(opts Options) (*BookIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &BookIndex{index: index, logger: logger}, nil
}

// Close releases the index.
func (s *BookIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexBooks indexes every record of a catalog, keyed by position.
func (s *BookIndex) IndexBooks(books []domain.Book) error {
	docs := make([]*BookDocument, len(books))
	for i, b := range books {
		docs[i] = NewBookDocument(i, b)
	}
	return s.IndexDocuments(docs)
}

// IndexDocuments indexes documents in batches.
func (s *BookIndex) IndexDocuments(docs []*BookDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))

		batch := s.index.NewBatch()
		for _, doc := range docs[i:end] {
			if err := batch.Index(doc.ID(), doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID(), err)
			}
		}

		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	s.logger.Debug("indexed books", "count", len(docs))
	return nil
}

// DocumentCount returns the number of indexed documents.
func (s *BookIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}
