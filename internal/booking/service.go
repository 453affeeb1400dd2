package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Humphrey256/Rentify01/internal/clock"
	"github.com/Humphrey256/Rentify01/internal/obs"
	"github.com/Humphrey256/Rentify01/internal/payment"
	"github.com/Humphrey256/Rentify01/internal/pkg/apperror"
	"github.com/Humphrey256/Rentify01/internal/rental"
	"github.com/Humphrey256/Rentify01/internal/user"
)

const (
	// Bookings may be cancelled up to 24 hours after creation.
	cancelWindow = 24 * time.Hour

	// Outbound calls (notifications, payment gateway) never block a
	// reservation operation indefinitely.
	sideEffectTimeout = 5 * time.Second
	paymentTimeout    = 15 * time.Second
)

// RentalRegistry is the slice of the rental catalog the engine consumes: it
// reads price and availability and is the sole writer of the availability
// flag.
type RentalRegistry interface {
	GetByID(ctx context.Context, id string) (*rental.Rental, error)
	SetAvailability(ctx context.Context, id string, available bool) error
}

// Notifier receives lifecycle events. Failures are logged and swallowed.
type Notifier interface {
	Notify(ctx context.Context, userID, message string, data map[string]any) error
}

// UserDirectory resolves the paying user's contact details for the payment
// gateway.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type CreateRequest struct {
	UserID          string
	RentalID        string
	StartDate       time.Time
	EndDate         time.Time
	TotalPriceCents int64 // 0 means "compute from the rental's daily rate"
	PaymentMethod   PaymentMethod
}

// CreateResult carries the stored booking and, for online payments, the
// checkout payload the client redirects to.
type CreateResult struct {
	Booking *Booking
	Payment *payment.Payload
}

// UpdateResult reports a date change. AdditionalDueCents is non-zero when the
// new window costs more than was already paid.
type UpdateResult struct {
	Booking            *Booking
	AdditionalDueCents int64
}

// Service is the reservation engine. It owns the only pieces of shared
// mutable state in the system: the set of bookings per rental and the
// rental's availability flag. All operations that touch them are serialized
// per rental id.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*CreateResult, error)
	Cancel(ctx context.Context, bookingID, actingUserID string) error
	Complete(ctx context.Context, bookingID, actingUserID string, isAdmin bool) error
	ConfirmPayment(ctx context.Context, txRef, userID string) (*Booking, error)
	UpdateDates(ctx context.Context, bookingID, userID string, newStart, newEnd time.Time) (*UpdateResult, error)

	GetByID(ctx context.Context, id, userID string, isAdmin bool) (*Booking, error)
	ActiveBookings(ctx context.Context, userID string) ([]*Booking, error)
	History(ctx context.Context, userID string) ([]*Booking, error)
}

type service struct {
	repo     Repository
	rentals  RentalRegistry
	users    UserDirectory
	notifier Notifier
	payments payment.Gateway
	clk      clock.Clock
	metrics  *obs.Metrics
	locks    *rentalLocker
}

func NewService(
	repo Repository,
	rentals RentalRegistry,
	users UserDirectory,
	notifier Notifier,
	payments payment.Gateway,
	clk clock.Clock,
	metrics *obs.Metrics,
) Service {
	return &service{
		repo:     repo,
		rentals:  rentals,
		users:    users,
		notifier: notifier,
		payments: payments,
		clk:      clk,
		metrics:  metrics,
		locks:    newRentalLocker(),
	}
}

// observe classifies the outcome of an operation for metrics: business-rule
// rejections carry an apperror, anything else is an infrastructure error.
func (s *service) observe(op string, started time.Time, err error) {
	result := "success"
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			result = "rejected"
		} else {
			result = "error"
		}
	}
	s.metrics.Observe(op, result, started)
}

func (s *service) Create(ctx context.Context, req CreateRequest) (result *CreateResult, err error) {
	started := s.clk.Now()
	defer func() { s.observe("create", started, err) }()

	if req.UserID == "" || req.RentalID == "" || req.StartDate.IsZero() ||
		req.EndDate.IsZero() || req.PaymentMethod == "" {
		return nil, ErrMissingFields
	}

	// Serialize the check-then-act sequence (availability read, overlap scan,
	// insert, availability flip) against other reservation operations on the
	// same rental. This is what guarantees at most one concurrent create can
	// win an overlapping window.
	s.locks.Lock(req.RentalID)
	defer s.locks.Unlock(req.RentalID)

	rent, err := s.rentals.GetByID(ctx, req.RentalID)
	if err != nil {
		if errors.Is(err, rental.ErrNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, fmt.Errorf("resolve rental: %w", err)
	}

	// The flag is a fast-path rejection; the overlap scan below is ground truth.
	if !rent.Available {
		return nil, ErrRentalUnavailable
	}

	start := DateOnly(req.StartDate)
	end := DateOnly(req.EndDate)

	if start.After(end) {
		return nil, ErrInvalidDateRange
	}
	if start.Before(clock.Today(s.clk)) {
		return nil, ErrPastStartDate
	}

	window := Window{Start: start, End: end}
	expected := window.Days() * rent.PriceCents

	total := req.TotalPriceCents
	if total == 0 {
		total = expected
	}
	if total <= 0 || total != expected {
		return nil, ErrInvalidPrice
	}

	if !req.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	overlap, err := s.repo.HasOverlap(ctx, req.RentalID, start, end, "")
	if err != nil {
		return nil, fmt.Errorf("overlap check: %w", err)
	}
	if overlap {
		return nil, ErrRentalUnavailable
	}

	b := &Booking{
		UserID:          req.UserID,
		RentalID:        req.RentalID,
		RentalName:      rent.Name,
		StartDate:       start,
		EndDate:         end,
		TotalPriceCents: total,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   StatusPending,
	}
	if req.PaymentMethod == PaymentOnline {
		txRef := uuid.New().String()
		b.TxRef = &txRef
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("store booking: %w", err)
	}

	if err := s.rentals.SetAvailability(ctx, req.RentalID, false); err != nil {
		// The booking must not be observable without its hold on the rental.
		if delErr := s.repo.Delete(ctx, b.ID); delErr != nil {
			log.Printf("booking: compensation delete failed for %s: %v", b.ID, delErr)
		}
		return nil, fmt.Errorf("hold rental: %w", err)
	}
	s.metrics.HoldTaken()

	s.notify(b.UserID, "Your booking has been confirmed.", map[string]any{
		"booking_id": b.ID,
		"rental_id":  b.RentalID,
		"start_date": start.Format(time.DateOnly),
		"end_date":   end.Format(time.DateOnly),
	})

	result = &CreateResult{Booking: b}

	if req.PaymentMethod == PaymentOnline {
		payload, err := s.initiatePayment(ctx, b)
		if err != nil {
			s.compensateCreate(b)
			log.Printf("booking: payment setup failed for %s: %v", b.ID, err)
			return nil, ErrPaymentSetupFailed
		}
		result.Payment = payload
	}

	return result, nil
}

func (s *service) initiatePayment(ctx context.Context, b *Booking) (*payment.Payload, error) {
	u, err := s.users.GetByID(ctx, b.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve customer: %w", err)
	}

	customer := payment.Customer{Email: u.Email}
	if u.PhoneNumber != nil {
		customer.PhoneNumber = *u.PhoneNumber
	}
	if u.DisplayName != nil {
		customer.Name = *u.DisplayName
	}

	payCtx, cancel := context.WithTimeout(ctx, paymentTimeout)
	defer cancel()

	return s.payments.Initiate(payCtx, payment.InitiateRequest{
		TxRef:       *b.TxRef,
		AmountCents: b.TotalPriceCents,
		Currency:    "USD",
		Customer:    customer,
	})
}

// compensateCreate undoes a freshly created booking after payment setup
// fails: the booking row is removed and the rental returns to the pool. The
// caller still holds the rental lock.
func (s *service) compensateCreate(b *Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if err := s.repo.Delete(ctx, b.ID); err != nil {
		log.Printf("booking: compensation delete failed for %s: %v", b.ID, err)
	}
	if err := s.rentals.SetAvailability(ctx, b.RentalID, true); err != nil {
		log.Printf("booking: compensation release failed for rental %s: %v", b.RentalID, err)
	}
	s.metrics.HoldReleased()
}

func (s *service) Cancel(ctx context.Context, bookingID, actingUserID string) (err error) {
	started := s.clk.Now()
	defer func() { s.observe("cancel", started, err) }()

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	// Do not reveal other users' bookings.
	if b.UserID != actingUserID {
		return ErrNotFound
	}

	if s.clk.Now().Sub(b.CreatedAt) > cancelWindow {
		return ErrCancelWindowExpired
	}

	s.locks.Lock(b.RentalID)
	defer s.locks.Unlock(b.RentalID)

	if err := s.repo.Delete(ctx, b.ID); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if err := s.rentals.SetAvailability(ctx, b.RentalID, true); err != nil {
		return fmt.Errorf("release rental: %w", err)
	}
	s.metrics.HoldReleased()

	s.notify(b.UserID, "Your booking has been cancelled.", map[string]any{
		"booking_id": b.ID,
		"rental_id":  b.RentalID,
	})

	return nil
}

func (s *service) Complete(ctx context.Context, bookingID, actingUserID string, isAdmin bool) (err error) {
	started := s.clk.Now()
	defer func() { s.observe("complete", started, err) }()

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		// Completing an already-removed booking is a no-op, not an error.
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if !isAdmin && b.UserID != actingUserID {
		return ErrPermissionDenied
	}

	s.locks.Lock(b.RentalID)
	defer s.locks.Unlock(b.RentalID)

	rent, err := s.rentals.GetByID(ctx, b.RentalID)
	if err != nil {
		if errors.Is(err, rental.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("resolve rental: %w", err)
	}

	// Already released: idempotent success without a duplicate notification.
	if rent.Available && b.PaymentStatus == StatusCompleted {
		return nil
	}

	b.PaymentStatus = StatusCompleted
	if err := s.repo.Update(ctx, b); err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if err := s.rentals.SetAvailability(ctx, b.RentalID, true); err != nil {
		return fmt.Errorf("release rental: %w", err)
	}
	s.metrics.HoldReleased()

	s.notify(b.UserID, "Your rental period has ended. Thanks for booking with us!", map[string]any{
		"booking_id": b.ID,
		"rental_id":  b.RentalID,
	})

	return nil
}

func (s *service) ConfirmPayment(ctx context.Context, txRef, userID string) (b *Booking, err error) {
	started := s.clk.Now()
	defer func() { s.observe("confirm_payment", started, err) }()

	if txRef == "" {
		return nil, ErrMissingFields
	}

	b, err = s.repo.GetByTxRef(ctx, txRef)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotFound
	}
	if b.PaymentStatus == StatusCompleted {
		return b, nil
	}

	payCtx, cancel := context.WithTimeout(ctx, paymentTimeout)
	defer cancel()

	ok, err := s.payments.Verify(payCtx, txRef)
	if err != nil {
		log.Printf("booking: payment verification error for %s: %v", txRef, err)
		return nil, ErrPaymentNotVerified
	}
	if !ok {
		return nil, ErrPaymentNotVerified
	}

	b.PaymentStatus = StatusCompleted
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	// Availability is untouched here: the hold was taken at creation and is
	// only released by Cancel or Complete.

	s.notify(b.UserID, "Your payment has been confirmed.", map[string]any{
		"booking_id": b.ID,
		"tx_ref":     txRef,
	})

	return b, nil
}

func (s *service) UpdateDates(ctx context.Context, bookingID, userID string, newStart, newEnd time.Time) (result *UpdateResult, err error) {
	started := s.clk.Now()
	defer func() { s.observe("update_dates", started, err) }()

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotFound
	}

	start := DateOnly(newStart)
	end := DateOnly(newEnd)

	if start.After(end) {
		return nil, ErrInvalidDateRange
	}
	if start.Before(clock.Today(s.clk)) {
		return nil, ErrPastStartDate
	}

	rent, err := s.rentals.GetByID(ctx, b.RentalID)
	if err != nil {
		if errors.Is(err, rental.ErrNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, fmt.Errorf("resolve rental: %w", err)
	}

	s.locks.Lock(b.RentalID)
	defer s.locks.Unlock(b.RentalID)

	// The new window must not collide with anyone else's booking.
	overlap, err := s.repo.HasOverlap(ctx, b.RentalID, start, end, b.ID)
	if err != nil {
		return nil, fmt.Errorf("overlap check: %w", err)
	}
	if overlap {
		return nil, ErrRentalUnavailable
	}

	newTotal := Window{Start: start, End: end}.Days() * rent.PriceCents
	additional := newTotal - b.TotalPriceCents

	b.StartDate = start
	b.EndDate = end
	if additional > 0 {
		b.TotalPriceCents = newTotal
		b.PaymentStatus = StatusPendingAdditional
	} else {
		additional = 0
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	return &UpdateResult{Booking: b, AdditionalDueCents: additional}, nil
}

func (s *service) GetByID(ctx context.Context, id, userID string, isAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && b.UserID != userID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) ActiveBookings(ctx context.Context, userID string) ([]*Booking, error) {
	return s.repo.ListActive(ctx, userID, clock.Today(s.clk))
}

func (s *service) History(ctx context.Context, userID string) ([]*Booking, error) {
	return s.repo.ListHistory(ctx, userID, clock.Today(s.clk))
}

// notify writes a lifecycle notification on a best-effort basis. A detached
// context bounds the write so neither request cancellation nor a slow sink
// can affect the reservation outcome.
func (s *service) notify(userID, message string, data map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	if err := s.notifier.Notify(ctx, userID, message, data); err != nil {
		log.Printf("booking: failed to notify user %s: %v", userID, err)
	}
}
