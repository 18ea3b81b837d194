package models

import "time"

type Product struct {
	ID             string
	Title          string
	Description    string
	Characteristic string
	Category       string
	Price          float64
	OldPrice       float64
	Hit            bool
	Discount       bool
	InStock        bool
	URLImages      []string
	CreatedAt      time.Time
}

// ProductFilter narrows and orders a subcategory listing. Nil pointer
// fields mean "no constraint".
type ProductFilter struct {
	Subcategory string
	Sort        string
	MinPrice    *float64
	MaxPrice    *float64
	Discount    *bool
	Hit         *bool
	InStock     *bool
}

// Sort orders accepted by ProductFilter.
const (
	SortPopular   = "popular"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)
