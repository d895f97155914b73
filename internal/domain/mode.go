package domain

// Mode is the active view variant.
type Mode int

// View modes. Browse is the zero value so a fresh view starts there.
const (
	ModeBrowse Mode = iota
	ModeSearch
	ModeRecommendations
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "browse"
	case ModeSearch:
		return "search"
	case ModeRecommendations:
		return "recommendations"
	default:
		return "unknown"
	}
}
