package types

// Pagination is a page request. Page is 1-based.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// HasNext reports whether rows remain after this page.
func (p Pagination) HasNext(total int64) bool {
	return p.Limit > 0 && int64(p.Offset()+p.Limit) < total
}

// Page is one page of results plus the total row count and links to the
// neighbouring pages.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
