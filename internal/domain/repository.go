// Package domain provides types shared by the shop's domain packages.
package domain

// Page contains pagination options for list operations.
type Page struct {
	Limit  int
	Offset int
}

// DefaultLimit is used when a list request carries no limit.
const DefaultLimit = 50

// Normalize applies the default limit and clamps negative values.
func (p Page) Normalize() Page {
	if p.Limit <= 0 || p.Limit > 500 {
		p.Limit = DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// Paginate slices items according to p. Used by the in-memory store.
func Paginate[T any](items []T, p Page) ListResult[T] {
	p = p.Normalize()
	res := ListResult[T]{TotalCount: int64(len(items)), Limit: p.Limit, Offset: p.Offset, Items: []T{}}
	if p.Offset >= len(items) {
		return res
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	res.Items = items[p.Offset:end]
	return res
}
