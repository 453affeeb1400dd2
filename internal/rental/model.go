package rental

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("rental not found")
	ErrNameRequired    = errors.New("name cannot be empty")
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrDetailsRequired = errors.New("details cannot be empty")
)

// Rental is one bookable unit in the catalog. Available is a cached
// denormalization of "no active booking holds this unit"; once the rental is
// live, only the booking engine writes it.
type Rental struct {
	ID         string
	Name       string
	Category   string
	Details    string
	PriceCents int64 // price per day, fixed-point cents
	Available  bool
	ImagePath  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Filter defines parameters for listing rentals.
type Filter struct {
	Category  string
	Available *bool
	Keyword   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
