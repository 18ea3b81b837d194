package models

// Subcategory is a named entry inside a category.
type Subcategory struct {
	Title  string `json:"title"`
	URLImg string `json:"urlImg,omitempty"`
}

type Category struct {
	ID            string
	Title         string
	OriginTitle   string
	URLImg        string
	Subcategories []Subcategory
}
