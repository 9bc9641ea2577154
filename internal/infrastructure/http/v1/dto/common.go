// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"kiosko/internal/core/id"
	"kiosko/internal/domain"
)

// ListQuery carries paging parameters shared by list endpoints.
type ListQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Page converts the query to a domain page.
func (q ListQuery) Page() domain.Page {
	return domain.Page{Limit: q.Limit, Offset: q.Offset}.Normalize()
}

// RangeQuery is a calendar date range. Dates are YYYY-MM-DD in the shop's timezone,
// both ends inclusive.
type RangeQuery struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// ListResponse wraps list results with pagination.
type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// FromListResult maps each item of res with fn.
func FromListResult[S, T any](res domain.ListResult[S], fn func(S) T) ListResponse[T] {
	items := make([]T, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, fn(it))
	}
	return ListResponse[T]{
		Items:      items,
		TotalCount: res.TotalCount,
		Limit:      res.Limit,
		Offset:     res.Offset,
	}
}

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// parseID converts a value already checked by the uuid binding rule.
func parseID(s string) id.ID {
	v, err := id.Parse(s)
	if err != nil {
		return id.Nil()
	}
	return v
}

func parseOptionalID(s *string) *id.ID {
	if s == nil || *s == "" {
		return nil
	}
	return id.Ptr(parseID(*s))
}
