package booking

import (
	"net/http"
	"time"

	"github.com/Humphrey256/Rentify01/internal/pkg/apperror"
)

var (
	ErrMissingFields        = apperror.New(http.StatusBadRequest, "missing required fields")
	ErrRentalNotFound       = apperror.New(http.StatusNotFound, "rental not found")
	ErrRentalUnavailable    = apperror.New(http.StatusConflict, "rental is not available for the requested dates")
	ErrInvalidDateRange     = apperror.New(http.StatusBadRequest, "start date must not be after end date")
	ErrPastStartDate        = apperror.New(http.StatusBadRequest, "start date cannot be in the past")
	ErrInvalidPrice         = apperror.New(http.StatusBadRequest, "total price must be positive and match the rental rate")
	ErrInvalidPaymentMethod = apperror.New(http.StatusBadRequest, "payment method must be Online or Physical")
	ErrPaymentSetupFailed   = apperror.New(http.StatusBadGateway, "failed to set up online payment")
	ErrPaymentNotVerified   = apperror.New(http.StatusPaymentRequired, "payment could not be verified")
	ErrNotFound             = apperror.New(http.StatusNotFound, "booking not found")
	ErrCancelWindowExpired  = apperror.New(http.StatusConflict, "bookings can only be cancelled within 24 hours of creation")
	ErrPermissionDenied     = apperror.New(http.StatusForbidden, "permission denied")
)

// PaymentMethod is a closed set: the renter either pays through the online
// gateway or in person when picking up the rental.
type PaymentMethod string

const (
	PaymentOnline   PaymentMethod = "Online"
	PaymentPhysical PaymentMethod = "Physical"
)

// Valid reports whether m is one of the two supported methods.
func (m PaymentMethod) Valid() bool {
	return m == PaymentOnline || m == PaymentPhysical
}

type PaymentStatus string

const (
	StatusPending           PaymentStatus = "Pending"
	StatusCompleted         PaymentStatus = "Completed"
	StatusPendingAdditional PaymentStatus = "PendingAdditionalPayment"
)

// Booking is a reservation of one rental unit for an inclusive date range.
// While a booking exists, the rental's availability flag is false; the flag is
// restored by Cancel or Complete.
type Booking struct {
	ID              string
	UserID          string
	RentalID        string
	RentalName      string
	StartDate       time.Time // UTC midnight
	EndDate         time.Time // UTC midnight, inclusive
	TotalPriceCents int64
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	TxRef           *string // payment transaction reference, set for Online bookings
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Window returns the reservation window claimed by the booking.
func (b *Booking) Window() Window {
	return Window{Start: b.StartDate, End: b.EndDate}
}

// Window is an inclusive date interval used for overlap arithmetic.
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two inclusive windows share at least one day:
// a.start <= b.end AND b.start <= a.end.
func (w Window) Overlaps(o Window) bool {
	return !w.Start.After(o.End) && !o.Start.After(w.End)
}

// Days returns the number of days the window spans. A single-day booking
// (start == end) counts as one day.
func (w Window) Days() int64 {
	return int64(w.End.Sub(w.Start)/(24*time.Hour)) + 1
}

// DateOnly truncates t to a UTC calendar date. Booking dates are stored at
// UTC midnight so that overlap and "today" comparisons are exact.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
