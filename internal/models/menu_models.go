package models

import "time"

// MenuItem is a static menu entry managed by administrative CRUD. Orders and
// POS bills copy the name and price at ordering time rather than referencing
// the menu row.
type MenuItem struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Category    string    `json:"category" db:"category"`
	Description *string   `json:"description,omitempty" db:"description"`
	Price       float64   `json:"price" db:"price" binding:"required"`
	Available   bool      `json:"available" db:"available"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// MenuItemFilters defines the available filters for querying menu items.
type MenuItemFilters struct {
	Category  *string
	Available *bool
}
