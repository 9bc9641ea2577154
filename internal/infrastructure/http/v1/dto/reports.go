package dto

// TopProductsQuery selects the best sellers of a date range.
type TopProductsQuery struct {
	RangeQuery
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ExpiringLotsQuery sets the look-ahead window in days.
type ExpiringLotsQuery struct {
	Days *int `form:"days" binding:"omitempty,min=0,max=3650"`
}
