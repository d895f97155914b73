package query

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/listenupapp/bookfinder/internal/domain"
	"github.com/listenupapp/bookfinder/internal/errors"
	"github.com/listenupapp/bookfinder/internal/validation"
	"github.com/listenupapp/bookfinder/internal/view"
)

// VocabularyLoader fetches the filter vocabulary.
type VocabularyLoader interface {
	Categories(ctx context.Context) (domain.FilterVocabulary, error)
}

// RecommendationRunner starts a recommendation request.
type RecommendationRunner interface {
	RunRecommendation(q domain.RecommendationQuery) view.Fetch
}

// VocabularyResult is the outcome of a vocabulary fetch.
type VocabularyResult struct {
	Vocabulary domain.FilterVocabulary
	Err        error
}

// VocabularyFetch performs the vocabulary call without touching builder state.
type VocabularyFetch func(ctx context.Context) VocabularyResult

// RecommendationBuilder holds the recommendation form. The filter vocabulary is
// requested once per builder; if that fails the form keeps working with no options.
type RecommendationBuilder struct {
	loader    VocabularyLoader
	validator *validation.Validator
	logger    *slog.Logger

	q         domain.RecommendationQuery
	vocab     domain.FilterVocabulary
	requested bool
}

// NewRecommendationBuilder returns a builder with the default query.
func NewRecommendationBuilder(loader VocabularyLoader, v *validation.Validator, logger *slog.Logger) *RecommendationBuilder {
	return &RecommendationBuilder{
		loader:    loader,
		validator: v,
		logger:    logger,
		q:         domain.NewRecommendationQuery(),
		vocab:     domain.FilterVocabulary{Categories: []string{}, Tones: []string{}},
	}
}

// Mount returns the vocabulary fetch the first time it is called and nil afterwards.
func (b *RecommendationBuilder) Mount() VocabularyFetch {
	if b.requested {
		return nil
	}
	b.requested = true

	loader := b.loader
	return func(ctx context.Context) VocabularyResult {
		vocab, err := loader.Categories(ctx)
		return VocabularyResult{Vocabulary: vocab, Err: err}
	}
}

// ApplyVocabulary stores a fetched vocabulary. A failure is logged and otherwise ignored.
func (b *RecommendationBuilder) ApplyVocabulary(r VocabularyResult) {
	if r.Err != nil {
		b.logger.Warn("filter vocabulary unavailable, continuing without options", "error", r.Err)
		return
	}

	b.vocab = domain.FilterVocabulary{
		Categories: slices.Clone(r.Vocabulary.Categories),
		Tones:      slices.Clone(r.Vocabulary.Tones),
	}
	if b.vocab.Categories == nil {
		b.vocab.Categories = []string{}
	}
	if b.vocab.Tones == nil {
		b.vocab.Tones = []string{}
	}
	if b.vocab.Empty() {
		b.logger.Info("filter vocabulary is empty, selectors stay on All")
	}
}

// LoadVocabulary mounts and applies synchronously.
func (b *RecommendationBuilder) LoadVocabulary(ctx context.Context) {
	if f := b.Mount(); f != nil {
		b.ApplyVocabulary(f(ctx))
	}
}

// Categories returns the selectable categories, possibly empty.
func (b *RecommendationBuilder) Categories() []string {
	return b.vocab.Categories
}

// Tones returns the selectable tones, possibly empty.
func (b *RecommendationBuilder) Tones() []string {
	return b.vocab.Tones
}

// Query returns the current form values.
func (b *RecommendationBuilder) Query() domain.RecommendationQuery {
	return b.q
}

// SetText sets the free-text query.
func (b *RecommendationBuilder) SetText(s string) {
	b.q.Query = s
}

// CycleCategory moves the category selection by delta through the vocabulary.
func (b *RecommendationBuilder) CycleCategory(delta int) {
	b.q.Category = cycle(b.vocab.Categories, b.q.Category, delta)
}

// CycleTone moves the tone selection by delta through the vocabulary.
func (b *RecommendationBuilder) CycleTone(delta int) {
	b.q.Tone = cycle(b.vocab.Tones, b.q.Tone, delta)
}

// CycleTopK moves the result count by delta through domain.TopKOptions.
func (b *RecommendationBuilder) CycleTopK(delta int) {
	i := slices.Index(domain.TopKOptions, b.q.FinalTopK)
	if i < 0 {
		b.q.FinalTopK = domain.DefaultFinalTopK
		return
	}
	n := len(domain.TopKOptions)
	b.q.FinalTopK = domain.TopKOptions[((i+delta)%n+n)%n]
}

// Submit validates the form and hands it to r. A blank query is rejected with a
// validation error and r is not called.
func (b *RecommendationBuilder) Submit(r RecommendationRunner) (view.Fetch, error) {
	q := b.q
	q.Query = strings.TrimSpace(q.Query)

	if q.Query == "" {
		return nil, errors.ValidationWithDetails("query is required",
			map[string]string{"query": "is required"})
	}
	if err := b.validator.Validate(q); err != nil {
		return nil, err
	}

	return r.RunRecommendation(q), nil
}

// cycle returns the option delta steps from current. With no options the current
// value is kept.
func cycle(options []string, current string, delta int) string {
	n := len(options)
	if n == 0 {
		return current
	}
	i := slices.Index(options, current)
	if i < 0 {
		if delta < 0 {
			return options[n-1]
		}
		return options[0]
	}
	return options[((i+delta)%n+n)%n]
}
