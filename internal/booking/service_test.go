package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Humphrey256/Rentify01/internal/payment"
	"github.com/Humphrey256/Rentify01/internal/rental"
	"github.com/Humphrey256/Rentify01/internal/user"
)

// fixedClock lets tests pin "now" and move it forward.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeRepo is an in-memory Repository.
type fakeRepo struct {
	mu       sync.Mutex
	bookings map[string]*Booking
	now      func() time.Time
}

func newFakeRepo(now func() time.Time) *fakeRepo {
	return &fakeRepo{
		bookings: make(map[string]*Booking),
		now:      now,
	}
}

func (r *fakeRepo) Create(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = uuid.New().String()
	b.CreatedAt = r.now()
	b.UpdatedAt = b.CreatedAt

	stored := *b
	r.bookings[b.ID] = &stored
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) GetByTxRef(ctx context.Context, txRef string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bookings {
		if b.TxRef != nil && *b.TxRef == txRef {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) Update(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[b.ID]; !ok {
		return ErrNotFound
	}
	b.UpdatedAt = r.now()
	stored := *b
	r.bookings[b.ID] = &stored
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeRepo) HasOverlap(ctx context.Context, rentalID string, start, end time.Time, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	window := Window{Start: start, End: end}
	for _, b := range r.bookings {
		if b.RentalID != rentalID || b.ID == excludeID {
			continue
		}
		if b.Window().Overlaps(window) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) ListActive(ctx context.Context, userID string, today time.Time) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Booking
	for _, b := range r.bookings {
		if b.UserID == userID && !b.EndDate.Before(today) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *fakeRepo) ListHistory(ctx context.Context, userID string, today time.Time) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Booking
	for _, b := range r.bookings {
		if b.UserID == userID && b.EndDate.Before(today) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.After(out[j].EndDate) })
	return out, nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

// fakeRegistry is an in-memory RentalRegistry.
type fakeRegistry struct {
	mu      sync.Mutex
	rentals map[string]*rental.Rental
	setErr  error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{rentals: make(map[string]*rental.Rental)}
}

func (f *fakeRegistry) add(r *rental.Rental) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *r
	f.rentals[r.ID] = &cp
}

func (f *fakeRegistry) GetByID(ctx context.Context, id string) (*rental.Rental, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.rentals[id]
	if !ok {
		return nil, rental.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRegistry) SetAvailability(ctx context.Context, id string, available bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setErr != nil {
		return f.setErr
	}
	r, ok := f.rentals[id]
	if !ok {
		return rental.ErrNotFound
	}
	r.Available = available
	return nil
}

func (f *fakeRegistry) available(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rentals[id].Available
}

// fakeNotifier records delivered messages.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (f *fakeNotifier) Notify(ctx context.Context, userID, message string, data map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

// fakeDirectory resolves test users.
type fakeDirectory struct {
	users map[string]*user.User
}

func (f *fakeDirectory) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

// fakeGateway stubs the payment provider.
type fakeGateway struct {
	mu          sync.Mutex
	initErr     error
	verifyOK    bool
	verifyErr   error
	initiated   []payment.InitiateRequest
	verifyCalls int
}

func (f *fakeGateway) Initiate(ctx context.Context, req payment.InitiateRequest) (*payment.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.initErr != nil {
		return nil, f.initErr
	}
	f.initiated = append(f.initiated, req)
	return &payment.Payload{
		TxRef: req.TxRef,
		Link:  "https://checkout.example.com/" + req.TxRef,
	}, nil
}

func (f *fakeGateway) Verify(ctx context.Context, txRef string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyCalls++
	return f.verifyOK, f.verifyErr
}

type testEnv struct {
	service  Service
	repo     *fakeRepo
	registry *fakeRegistry
	notifier *fakeNotifier
	gateway  *fakeGateway
	clk      *fixedClock
	today    time.Time
}

const (
	testRentalID = "11111111-1111-1111-1111-111111111111"
	testUserID   = "22222222-2222-2222-2222-222222222222"
	otherUserID  = "33333333-3333-3333-3333-333333333333"
	dailyRate    = int64(5000)
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	clk := &fixedClock{now: today.Add(10 * time.Hour)}
	repo := newFakeRepo(clk.Now)

	registry := newFakeRegistry()
	registry.add(&rental.Rental{
		ID:         testRentalID,
		Name:       "Canon EOS R5",
		Category:   "Cameras",
		PriceCents: dailyRate,
		Available:  true,
	})

	users := &fakeDirectory{users: map[string]*user.User{
		testUserID: {ID: testUserID, Email: "renter@example.com"},
	}}

	notifier := &fakeNotifier{}
	gateway := &fakeGateway{verifyOK: true}

	svc := NewService(repo, registry, users, notifier, gateway, clk, nil)

	return &testEnv{
		service:  svc,
		repo:     repo,
		registry: registry,
		notifier: notifier,
		gateway:  gateway,
		clk:      clk,
		today:    today,
	}
}

func (e *testEnv) createBooking(t *testing.T, start, end time.Time) *Booking {
	t.Helper()

	result, err := e.service.Create(context.Background(), CreateRequest{
		UserID:        testUserID,
		RentalID:      testRentalID,
		StartDate:     start,
		EndDate:       end,
		PaymentMethod: PaymentPhysical,
	})
	require.NoError(t, err)
	return result.Booking
}

func TestCreatePhysicalBooking(t *testing.T) {
	env := newTestEnv(t)
	start := env.today.AddDate(0, 0, 1)
	end := env.today.AddDate(0, 0, 3)

	result, err := env.service.Create(context.Background(), CreateRequest{
		UserID:        testUserID,
		RentalID:      testRentalID,
		StartDate:     start,
		EndDate:       end,
		PaymentMethod: PaymentPhysical,
	})
	require.NoError(t, err)

	b := result.Booking
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "Canon EOS R5", b.RentalName)
	assert.Equal(t, 3*dailyRate, b.TotalPriceCents)
	assert.Equal(t, StatusPending, b.PaymentStatus)
	assert.Nil(t, b.TxRef)
	assert.Nil(t, result.Payment)

	assert.False(t, env.registry.available(testRentalID), "rental should be held")
	assert.Equal(t, 1, env.notifier.count())
}

func TestCreateSingleDayCostsOneDay(t *testing.T) {
	env := newTestEnv(t)
	day := env.today.AddDate(0, 0, 2)

	b := env.createBooking(t, day, day)
	assert.Equal(t, dailyRate, b.TotalPriceCents)
}

func TestCreateSuppliedPriceMustMatchRate(t *testing.T) {
	env := newTestEnv(t)
	start := env.today.AddDate(0, 0, 1)
	end := env.today.AddDate(0, 0, 2)

	_, err := env.service.Create(context.Background(), CreateRequest{
		UserID:          testUserID,
		RentalID:        testRentalID,
		StartDate:       start,
		EndDate:         end,
		TotalPriceCents: dailyRate, // two days cost double
		PaymentMethod:   PaymentPhysical,
	})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	// A matching supplied total is accepted.
	result, err := env.service.Create(context.Background(), CreateRequest{
		UserID:          testUserID,
		RentalID:        testRentalID,
		StartDate:       start,
		EndDate:         end,
		TotalPriceCents: 2 * dailyRate,
		PaymentMethod:   PaymentPhysical,
	})
	require.NoError(t, err)
	assert.Equal(t, 2*dailyRate, result.Booking.TotalPriceCents)
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	tomorrow := env.today.AddDate(0, 0, 1)

	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{
			name: "missing rental id",
			req: CreateRequest{
				UserID:        testUserID,
				StartDate:     tomorrow,
				EndDate:       tomorrow,
				PaymentMethod: PaymentPhysical,
			},
			wantErr: ErrMissingFields,
		},
		{
			name: "missing payment method",
			req: CreateRequest{
				UserID:    testUserID,
				RentalID:  testRentalID,
				StartDate: tomorrow,
				EndDate:   tomorrow,
			},
			wantErr: ErrMissingFields,
		},
		{
			name: "start after end",
			req: CreateRequest{
				UserID:        testUserID,
				RentalID:      testRentalID,
				StartDate:     tomorrow.AddDate(0, 0, 5),
				EndDate:       tomorrow,
				PaymentMethod: PaymentPhysical,
			},
			wantErr: ErrInvalidDateRange,
		},
		{
			name: "start in the past",
			req: CreateRequest{
				UserID:        testUserID,
				RentalID:      testRentalID,
				StartDate:     env.today.AddDate(0, 0, -1),
				EndDate:       tomorrow,
				PaymentMethod: PaymentPhysical,
			},
			wantErr: ErrPastStartDate,
		},
		{
			name: "unknown payment method",
			req: CreateRequest{
				UserID:        testUserID,
				RentalID:      testRentalID,
				StartDate:     tomorrow,
				EndDate:       tomorrow,
				PaymentMethod: PaymentMethod("Crypto"),
			},
			wantErr: ErrInvalidPaymentMethod,
		},
		{
			name: "unknown rental",
			req: CreateRequest{
				UserID:        testUserID,
				RentalID:      "44444444-4444-4444-4444-444444444444",
				StartDate:     tomorrow,
				EndDate:       tomorrow,
				PaymentMethod: PaymentPhysical,
			},
			wantErr: ErrRentalNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, 0, env.repo.count(), "no booking should be stored")
	assert.True(t, env.registry.available(testRentalID))
}

func TestCreateStartingTodayIsAllowed(t *testing.T) {
	env := newTestEnv(t)
	// "now" is 10:00 on booking day; a start date of today must not count as past.
	b := env.createBooking(t, env.today, env.today.AddDate(0, 0, 1))
	assert.Equal(t, env.today, b.StartDate)
}

func TestCreateRejectsOverlap(t *testing.T) {
	env := newTestEnv(t)
	start := env.today.AddDate(0, 0, 5)
	end := env.today.AddDate(0, 0, 8)
	env.createBooking(t, start, end)

	// Force the fast-path flag open so the overlap scan does the rejecting.
	require.NoError(t, env.registry.SetAvailability(context.Background(), testRentalID, true))

	overlapping := []struct {
		name       string
		start, end time.Time
	}{
		{"identical window", start, end},
		{"starts inside", start.AddDate(0, 0, 1), end.AddDate(0, 0, 3)},
		{"ends inside", start.AddDate(0, 0, -2), start},
		{"fully contains", start.AddDate(0, 0, -1), end.AddDate(0, 0, 1)},
		{"shares single boundary day", end, end.AddDate(0, 0, 2)},
	}

	for _, tt := range overlapping {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Create(context.Background(), CreateRequest{
				UserID:        otherUserID,
				RentalID:      testRentalID,
				StartDate:     tt.start,
				EndDate:       tt.end,
				PaymentMethod: PaymentPhysical,
			})
			assert.ErrorIs(t, err, ErrRentalUnavailable)
		})
	}

	assert.Equal(t, 1, env.repo.count())
}

func TestCreateUnavailableFlagRejects(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.registry.SetAvailability(context.Background(), testRentalID, false))

	_, err := env.service.Create(context.Background(), CreateRequest{
		UserID:        testUserID,
		RentalID:      testRentalID,
		StartDate:     env.today.AddDate(0, 0, 1),
		EndDate:       env.today.AddDate(0, 0, 2),
		PaymentMethod: PaymentPhysical,
	})
	assert.ErrorIs(t, err, ErrRentalUnavailable)
}

func TestConcurrentCreateExactlyOneWins(t *testing.T) {
	env := newTestEnv(t)
	start := env.today.AddDate(0, 0, 1)
	end := env.today.AddDate(0, 0, 4)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.service.Create(context.Background(), CreateRequest{
				UserID:        testUserID,
				RentalID:      testRentalID,
				StartDate:     start,
				EndDate:       end,
				PaymentMethod: PaymentPhysical,
			})
			errs[i] = err
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrRentalUnavailable)
		}
	}
	assert.Equal(t, 1, successes, "exactly one create must win")
	assert.Equal(t, 1, env.repo.count())
	assert.False(t, env.registry.available(testRentalID))
}

func TestCreateOnlineInitiatesPayment(t *testing.T) {
	env := newTestEnv(t)
	start := env.today.AddDate(0, 0, 1)
	end := env.today.AddDate(0, 0, 2)

	result, err := env.service.Create(context.Background(), CreateRequest{
		UserID:        testUserID,
		RentalID:      testRentalID,
		StartDate:     start,
		EndDate:       end,
		PaymentMethod: PaymentOnline,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Booking.TxRef)
	require.NotNil(t, result.Payment)
	assert.Equal(t, *result.Booking.TxRef, result.Payment.TxRef)
	assert.Contains(t, result.Payment.Link, "checkout.example.com")

	require.Len(t, env.gateway.initiated, 1)
	assert.Equal(t, 2*dailyRate, env.gateway.initiated[0].AmountCents)
	assert.Equal(t, "renter@example.com", env.gateway.initiated[0].Customer.Email)
}

func TestCreateOnlinePaymentSetupFailureCompensates(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.initErr = errors.New("gateway down")

	_, err := env.service.Create(context.Background(), CreateRequest{
		UserID:        testUserID,
		RentalID:      testRentalID,
		StartDate:     env.today.AddDate(0, 0, 1),
		EndDate:       env.today.AddDate(0, 0, 2),
		PaymentMethod: PaymentOnline,
	})
	assert.ErrorIs(t, err, ErrPaymentSetupFailed)

	assert.Equal(t, 0, env.repo.count(), "booking must be rolled back")
	assert.True(t, env.registry.available(testRentalID), "rental must return to the pool")
}

func TestCreateAvailabilityFlipFailureCompensates(t *testing.T) {
	env := newTestEnv(t)
	env.registry.setErr = errors.New("db write failed")

	_, err := env.service.Create(context.Background(), CreateRequest{
		UserID:        testUserID,
		RentalID:      testRentalID,
		StartDate:     env.today.AddDate(0, 0, 1),
		EndDate:       env.today.AddDate(0, 0, 2),
		PaymentMethod: PaymentPhysical,
	})
	require.Error(t, err)
	assert.Equal(t, 0, env.repo.count(), "booking must not survive without its hold")
}

func TestCancelWithinWindow(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBooking(t, env.today.AddDate(0, 0, 1), env.today.AddDate(0, 0, 3))

	env.clk.Advance(23*time.Hour + 59*time.Minute)
	require.NoError(t, env.service.Cancel(context.Background(), b.ID, testUserID))

	assert.Equal(t, 0, env.repo.count())
	assert.True(t, env.registry.available(testRentalID))
}

func TestCancelAtExactWindowBoundary(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBooking(t, env.today.AddDate(0, 0, 1), env.today.AddDate(0, 0, 3))

	// Exactly 24h after creation is still inside the window.
	env.clk.Advance(cancelWindow)
	assert.NoError(t, env.service.Cancel(context.Background(), b.ID, testUserID))
}

func TestCancelAfterWindowExpires(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBooking(t, env.today.AddDate(0, 0, 2), env.today.AddDate(0, 0, 3))

	env.clk.Advance(24*time.Hour + time.Minute)
	err := env.service.Cancel(context.Background(), b.ID, testUserID)
	assert.ErrorIs(t, err, ErrCancelWindowExpired)

	assert.Equal(t, 1, env.repo.count(), "booking must remain")
	assert.False(t, env.registry.available(testRentalID))
}

func TestCancelSomeoneElsesBookingLooksMissing(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBooking(t, env.today.AddDate(0, 0, 1), env.today.AddDate(0, 0, 2))

	err := env.service.Cancel(context.Background(), b.ID, otherUserID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelThenRebookSameWindow(t *testing.T) {
	env := newTestEnv(t)
	start := env.today.AddDate(0, 0, 1)
	end := env.today.AddDate(0, 0, 3)

	b := env.createBooking(t, start, end)
	require.NoError(t, env.service.Cancel(context.Background(), b.ID, testUserID))

	rebooked := env.createBooking(t, start, end)
	assert.NotEqual(t, b.ID, rebooked.ID)
	assert.False(t, env.registry.available(testRentalID))
}

func TestCompleteReleasesRental(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBooking(t, env.today.AddDate(0, 0, 1), env.today.AddDate(0, 0, 2))
	notified := env.notifier.count()

	require.NoError(t, env.service.Complete(context.Background(), b.ID, testUserID, false))

	stored, err := env.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.PaymentStatus)
	assert.True(t, env.registry.available(testRentalID))
	assert.Equal(t, notified+1, env.notifier.count())

	// Completing again is a no-op with no second notification.
	require.NoError(t, env.service.Complete(context.Background(), b.ID, testUserID, false))
	assert.Equal(t, notified+1, env.notifier.count())
}

func TestCompleteMissingBookingIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	err := env.service.Complete(context.Background(), uuid.New().String(), testUserID, false)
	assert.NoError(t, err)
}

func TestCompletePermissions(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBooking(t, env.today.AddDate(0, 0, 1), env.today.AddDate(0, 0, 2))

	err := env.service.Complete(context.Background(), b.ID, otherUserID, false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// An admin may complete on the renter's behalf.
	assert.NoError(t, env.service.Complete(context.Background(), b.ID, otherUserID, true))
	assert.True(t, env.registry.available(testRentalID))
}

func TestConfirmPayment(t *testing.T) {
	env := newTestEnv(t)
	result, err := env.service.Create(context.Background(), CreateRequest{
		UserID:        testUserID,
		RentalID:      testRentalID,
		StartDate:     env.today.AddDate(0, 0, 1),
		EndDate:       env.today.AddDate(0, 0, 2),
		PaymentMethod: PaymentOnline,
	})
	require.NoError(t, err)
	txRef := *result.Booking.TxRef

	b, err := env.service.ConfirmPayment(context.Background(), txRef, testUserID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, b.PaymentStatus)

	// The hold stays until Cancel or Complete.
	assert.False(t, env.registry.available(testRentalID))

	// Confirming again is idempotent and skips the gateway.
	calls := env.gateway.verifyCalls
	b, err = env.service.ConfirmPayment(context.Background(), txRef, testUserID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, b.PaymentStatus)
	assert.Equal(t, calls, env.gateway.verifyCalls)
}

func TestConfirmPaymentFailures(t *testing.T) {
	env := newTestEnv(t)
	result, err := env.service.Create(context.Background(), CreateRequest{
		UserID:        testUserID,
		RentalID:      testRentalID,
		StartDate:     env.today.AddDate(0, 0, 1),
		EndDate:       env.today.AddDate(0, 0, 2),
		PaymentMethod: PaymentOnline,
	})
	require.NoError(t, err)
	txRef := *result.Booking.TxRef

	_, err = env.service.ConfirmPayment(context.Background(), "", testUserID)
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = env.service.ConfirmPayment(context.Background(), "no-such-ref", testUserID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.service.ConfirmPayment(context.Background(), txRef, otherUserID)
	assert.ErrorIs(t, err, ErrNotFound)

	env.gateway.verifyOK = false
	_, err = env.service.ConfirmPayment(context.Background(), txRef, testUserID)
	assert.ErrorIs(t, err, ErrPaymentNotVerified)

	env.gateway.verifyErr = errors.New("gateway timeout")
	_, err = env.service.ConfirmPayment(context.Background(), txRef, testUserID)
	assert.ErrorIs(t, err, ErrPaymentNotVerified)

	stored, err := env.repo.GetByID(context.Background(), result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.PaymentStatus)
}

func TestUpdateDatesExtension(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBooking(t, env.today.AddDate(0, 0, 1), env.today.AddDate(0, 0, 2))

	result, err := env.service.UpdateDates(context.Background(),
		b.ID, testUserID, env.today.AddDate(0, 0, 1), env.today.AddDate(0, 0, 4))
	require.NoError(t, err)

	assert.Equal(t, 2*dailyRate, result.AdditionalDueCents)
	assert.Equal(t, 4*dailyRate, result.Booking.TotalPriceCents)
	assert.Equal(t, StatusPendingAdditional, result.Booking.PaymentStatus)
}

func TestUpdateDatesShrinkKeepsPrice(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBooking(t, env.today.AddDate(0, 0, 1), env.today.AddDate(0, 0, 4))

	result, err := env.service.UpdateDates(context.Background(),
		b.ID, testUserID, env.today.AddDate(0, 0, 1), env.today.AddDate(0, 0, 2))
	require.NoError(t, err)

	assert.Zero(t, result.AdditionalDueCents)
	assert.Equal(t, 4*dailyRate, result.Booking.TotalPriceCents, "no refunds on shrink")
	assert.Equal(t, StatusPending, result.Booking.PaymentStatus)
}

func TestUpdateDatesRejectsOverlap(t *testing.T) {
	env := newTestEnv(t)
	mine := env.createBooking(t, env.today.AddDate(0, 0, 1), env.today.AddDate(0, 0, 2))

	// A second booking further out holds days 5..7.
	require.NoError(t, env.registry.SetAvailability(context.Background(), testRentalID, true))
	env.createBooking(t, env.today.AddDate(0, 0, 5), env.today.AddDate(0, 0, 7))

	_, err := env.service.UpdateDates(context.Background(),
		mine.ID, testUserID, env.today.AddDate(0, 0, 1), env.today.AddDate(0, 0, 6))
	assert.ErrorIs(t, err, ErrRentalUnavailable)

	// Extending over its own current window is fine.
	result, err := env.service.UpdateDates(context.Background(),
		mine.ID, testUserID, env.today.AddDate(0, 0, 1), env.today.AddDate(0, 0, 4))
	require.NoError(t, err)
	assert.Equal(t, env.today.AddDate(0, 0, 4), result.Booking.EndDate)
}

func TestUpdateDatesValidation(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBooking(t, env.today.AddDate(0, 0, 1), env.today.AddDate(0, 0, 2))

	_, err := env.service.UpdateDates(context.Background(),
		b.ID, testUserID, env.today.AddDate(0, 0, 3), env.today.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = env.service.UpdateDates(context.Background(),
		b.ID, testUserID, env.today.AddDate(0, 0, -2), env.today.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrPastStartDate)

	_, err = env.service.UpdateDates(context.Background(),
		b.ID, otherUserID, env.today.AddDate(0, 0, 1), env.today.AddDate(0, 0, 2))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByIDOwnership(t *testing.T) {
	env := newTestEnv(t)
	b := env.createBooking(t, env.today.AddDate(0, 0, 1), env.today.AddDate(0, 0, 2))

	got, err := env.service.GetByID(context.Background(), b.ID, testUserID, false)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = env.service.GetByID(context.Background(), b.ID, otherUserID, false)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = env.service.GetByID(context.Background(), b.ID, otherUserID, true)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
}

func TestActiveAndHistorySplit(t *testing.T) {
	env := newTestEnv(t)

	// History entry: seed directly, Create refuses past start dates.
	past := &Booking{
		UserID:          testUserID,
		RentalID:        testRentalID,
		StartDate:       env.today.AddDate(0, 0, -10),
		EndDate:         env.today.AddDate(0, 0, -8),
		TotalPriceCents: 3 * dailyRate,
		PaymentMethod:   PaymentPhysical,
		PaymentStatus:   StatusCompleted,
	}
	require.NoError(t, env.repo.Create(context.Background(), past))

	// A booking ending today is still active.
	endingToday := env.createBooking(t, env.today, env.today)
	require.NoError(t, env.registry.SetAvailability(context.Background(), testRentalID, true))
	future := env.createBooking(t, env.today.AddDate(0, 0, 20), env.today.AddDate(0, 0, 22))

	active, err := env.service.ActiveBookings(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, endingToday.ID, active[0].ID, "active bookings are ordered by start date")
	assert.Equal(t, future.ID, active[1].ID)

	history, err := env.service.History(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, past.ID, history[0].ID)
}
