package http

import (
	"time"

	"github.com/Humphrey256/Rentify01/internal/pkg/request"
	"github.com/Humphrey256/Rentify01/internal/rental"
)

// ListRentalsRequest defines query parameters for browsing the catalog.
type ListRentalsRequest struct {
	request.ListParams
	Category  string `form:"category"`
	Available *bool  `form:"available"`
	Keyword   string `form:"keyword"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=name price_cents created_at"`
}

type RentalResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Details    string    `json:"details"`
	PriceCents int64     `json:"price_cents"`
	Available  bool      `json:"available"`
	ImageURL   *string   `json:"image_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewRentalResponse(r *rental.Rental) RentalResponse {
	var imageURL *string
	if r.ImagePath != nil {
		u := "/media/" + *r.ImagePath
		imageURL = &u
	}

	return RentalResponse{
		ID:         r.ID,
		Name:       r.Name,
		Category:   r.Category,
		Details:    r.Details,
		PriceCents: r.PriceCents,
		Available:  r.Available,
		ImageURL:   imageURL,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type CreateRentalRequest struct {
	Name       string `json:"name" binding:"required"`
	Category   string `json:"category"`
	Details    string `json:"details" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required,gt=0"`
}

type UpdateRentalRequest struct {
	Name       *string `json:"name"`
	Category   *string `json:"category"`
	Details    *string `json:"details"`
	PriceCents *int64  `json:"price_cents"`
}
