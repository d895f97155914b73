package domain

// FilterAll is the category/tone value meaning "no filter".
const FilterAll = "All"

// Recommendation defaults.
const (
	DefaultFinalTopK   = 16
	DefaultInitialTopK = 50
)

// TopKOptions are the selectable result counts, in display order.
//
//nolint:gochecknoglobals // Static option list
var TopKOptions = []int{8, 16, 24, 32}

// RecommendationQuery is the body of POST /recommendations.
type RecommendationQuery struct {
	Query       string `json:"query" validate:"required,notblank,max=1000"`
	Category    string `json:"category" validate:"required"`
	Tone        string `json:"tone" validate:"required"`
	FinalTopK   int    `json:"final_top_k" validate:"oneof=8 16 24 32"`
	InitialTopK int    `json:"initial_top_k,omitempty" validate:"omitempty,gtefield=FinalTopK"`
}

// NewRecommendationQuery returns a query with the documented defaults and an empty text.
func NewRecommendationQuery() RecommendationQuery {
	return RecommendationQuery{
		Category:    FilterAll,
		Tone:        FilterAll,
		FinalTopK:   DefaultFinalTopK,
		InitialTopK: DefaultInitialTopK,
	}
}

// ValidTopK reports whether k is one of TopKOptions.
func ValidTopK(k int) bool {
	for _, opt := range TopKOptions {
		if opt == k {
			return true
		}
	}
	return false
}

// FilterVocabulary is the response of GET /categories: the selectable category and tone
// values, in backend order.
type FilterVocabulary struct {
	Categories []string `json:"categories"`
	Tones      []string `json:"tones"`
}

// Empty reports whether neither list has options.
func (v FilterVocabulary) Empty() bool {
	return len(v.Categories) == 0 && len(v.Tones) == 0
}
