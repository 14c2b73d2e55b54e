package model

import "math"

type Customer struct {
	ID          int    `db:"id" json:"id"`
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	PhoneNumber string `db:"phone_number" json:"phone_number"`
}

// CustomerInput is the full payload accepted by create and update
type CustomerInput struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required,digits10"`
}

// CustomerFilter carries the listing query. Zero values mean "use the default".
type CustomerFilter struct {
	Search string
	Page   int
	Limit  int
	Sort   string
	Order  string
}

// Offset is the number of rows skipped before the requested page.
// It saturates at math.MaxInt instead of wrapping.
func (f CustomerFilter) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// CustomerPage is one page of a listing plus the totals needed to paginate
type CustomerPage struct {
	Customers  []Customer
	Total      int
	Page       int
	Limit      int
	TotalPages int
}
