package validation_test

import (
	"testing"

	"github.com/listenupapp/bookfinder/internal/domain"
	"github.com/listenupapp/bookfinder/internal/errors"
	"github.com/listenupapp/bookfinder/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_RecommendationQueryValid(t *testing.T) {
	v := validation.New()

	q := domain.NewRecommendationQuery()
	q.Query = "a story about forgiveness"

	assert.NoError(t, v.Validate(q))
}

func TestValidator_RecommendationQueryErrors(t *testing.T) {
	v := validation.New()

	//nolint:govet // fieldalignment: Minor memory optimization not worth the complexity in test code
	tests := []struct {
		name      string
		mutate    func(q *domain.RecommendationQuery)
		wantField string
	}{
		{
			name:      "empty query",
			mutate:    func(q *domain.RecommendationQuery) { q.Query = "" },
			wantField: "query",
		},
		{
			name:      "whitespace query",
			mutate:    func(q *domain.RecommendationQuery) { q.Query = "   \t" },
			wantField: "query",
		},
		{
			name:      "unsupported top k",
			mutate:    func(q *domain.RecommendationQuery) { q.FinalTopK = 10 },
			wantField: "final_top_k",
		},
		{
			name:      "initial below final",
			mutate:    func(q *domain.RecommendationQuery) { q.InitialTopK = 8; q.FinalTopK = 16 },
			wantField: "initial_top_k",
		},
		{
			name:      "missing category",
			mutate:    func(q *domain.RecommendationQuery) { q.Category = "" },
			wantField: "category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := domain.NewRecommendationQuery()
			q.Query = "dragons"
			tt.mutate(&q)

			err := v.Validate(q)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation))

			fields := validation.Fields(err)
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidator_Var(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Var("9780002005883", "len=13,numeric"))

	err := v.Var("97800020", "len=13,numeric")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be exactly 13 characters")
}
