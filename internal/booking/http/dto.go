package http

import (
	"time"

	"github.com/Humphrey256/Rentify01/internal/booking"
	"github.com/Humphrey256/Rentify01/internal/payment"
)

// CreateBookingRequest is the payload for creating a reservation. Dates are
// inclusive calendar dates. A zero total price asks the server to compute it
// from the rental's daily rate.
type CreateBookingRequest struct {
	RentalID        string    `json:"rental_id" binding:"required,uuid"`
	StartDate       time.Time `json:"start_date" binding:"required" time_format:"2006-01-02"`
	EndDate         time.Time `json:"end_date" binding:"required" time_format:"2006-01-02"`
	TotalPriceCents int64     `json:"total_price_cents"`
	PaymentMethod   string    `json:"payment_method" binding:"required"`
}

// UpdateBookingDatesRequest moves a booking to a new inclusive date window.
type UpdateBookingDatesRequest struct {
	StartDate time.Time `json:"start_date" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `json:"end_date" binding:"required" time_format:"2006-01-02"`
}

// ConfirmPaymentRequest reports a gateway transaction reference for
// verification.
type ConfirmPaymentRequest struct {
	TxRef string `json:"tx_ref" binding:"required"`
}

type BookingResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	RentalID        string    `json:"rental_id"`
	RentalName      string    `json:"rental_name"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	TotalPriceCents int64     `json:"total_price_cents"`
	PaymentMethod   string    `json:"payment_method"`
	PaymentStatus   string    `json:"payment_status"`
	TxRef           *string   `json:"tx_ref,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		RentalID:        b.RentalID,
		RentalName:      b.RentalName,
		StartDate:       b.StartDate.Format(time.DateOnly),
		EndDate:         b.EndDate.Format(time.DateOnly),
		TotalPriceCents: b.TotalPriceCents,
		PaymentMethod:   string(b.PaymentMethod),
		PaymentStatus:   string(b.PaymentStatus),
		TxRef:           b.TxRef,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// CreateBookingResponse returns the stored booking plus, for online payments,
// the checkout payload the client should redirect to.
type CreateBookingResponse struct {
	Booking BookingResponse  `json:"booking"`
	Payment *payment.Payload `json:"payment,omitempty"`
}

type UpdateBookingDatesResponse struct {
	Booking            BookingResponse `json:"booking"`
	AdditionalDueCents int64           `json:"additional_due_cents"`
}
