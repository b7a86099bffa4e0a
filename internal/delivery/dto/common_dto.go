package dto

// PageQuery carries 1-based pagination parameters from the query string.
type PageQuery struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Paginated[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}
