package types

// ErrorResponse is the uniform error payload returned by all controllers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse carries a human-readable confirmation, optionally with the
// affected entity.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PaginatedResponse is the list envelope shared by every paginated endpoint.
type PaginatedResponse struct {
	Items       any   `json:"items"`
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
}

// TotalPages computes the page count for a total under a page size.
func TotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
