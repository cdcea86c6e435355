package search

import (
	"errors"

	"mdbase/app/models"
)

// Search modes accepted by the documents search endpoint.
const (
	ModeBasic    = "basic"
	ModeFulltext = "fulltext"
)

// Keyword and pagination bounds for search requests.
const (
	KeywordMaxLen  = 200
	PerPageMax     = 50
	PerPageDefault = 10
)

// ErrUnsupportedSearchMode is returned when fulltext mode is requested
// against a store without a fulltext index. There is no silent fallback
// to basic mode.
var ErrUnsupportedSearchMode = errors.New("unsupported search mode: fulltext requires a MySQL fulltext index")

// SearchOptions is the validated input of a search request.
type SearchOptions struct {
	Keyword   string
	Page      int
	PerPage   int
	Mode      string
	Highlight bool
}

// SearchHighlight carries the per-field highlighted fragments. A field is
// present only when it contains the keyword.
type SearchHighlight struct {
	Title          string `json:"title,omitempty"`
	Excerpt        string `json:"excerpt,omitempty"`
	ContentPreview string `json:"content_preview,omitempty"`
}

// Empty reports whether no field produced a fragment.
func (h *SearchHighlight) Empty() bool {
	return h.Title == "" && h.Excerpt == "" && h.ContentPreview == ""
}

// SearchResult is one matched document. RelevanceScore is present only in
// fulltext mode; Highlights only when requested and at least one field
// matched. ContentPreview is always present.
type SearchResult struct {
	*models.DocumentResponse
	RelevanceScore *float64         `json:"relevance_score,omitempty"`
	Highlights     *SearchHighlight `json:"highlights,omitempty"`
	ContentPreview string           `json:"content_preview"`
}

// SearchResponse is the paginated search envelope. SearchTimeMs is wall-clock
// elapsed time stamped at the boundary, rounded to two decimals.
type SearchResponse struct {
	Items        []*SearchResult `json:"items"`
	Total        int64           `json:"total"`
	Pages        int             `json:"pages"`
	CurrentPage  int             `json:"current_page"`
	PerPage      int             `json:"per_page"`
	Keyword      string          `json:"keyword"`
	SearchMode   string          `json:"search_mode"`
	SearchTimeMs float64         `json:"search_time_ms"`
}
