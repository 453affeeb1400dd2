package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Humphrey256/Rentify01/internal/api"
	"github.com/Humphrey256/Rentify01/internal/auth"
	"github.com/Humphrey256/Rentify01/internal/booking"
	"github.com/Humphrey256/Rentify01/internal/clock"
	"github.com/Humphrey256/Rentify01/internal/issue"
	"github.com/Humphrey256/Rentify01/internal/notification"
	"github.com/Humphrey256/Rentify01/internal/obs"
	"github.com/Humphrey256/Rentify01/internal/payment"
	"github.com/Humphrey256/Rentify01/internal/pkg/storage"
	"github.com/Humphrey256/Rentify01/internal/rental"
	"github.com/Humphrey256/Rentify01/internal/review"
	"github.com/Humphrey256/Rentify01/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	AllowOrigins []string
	StoragePath  string

	FlutterwaveSecretKey string
	FlutterwaveBaseURL   string
	PaymentRedirectURL   string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	metrics := obs.NewMetrics(prometheus.DefaultRegisterer)
	clk := clock.System{}

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to init local storage: %w", err)
	}

	gateway := payment.NewFlutterwaveGateway(payment.FlutterwaveConfig{
		BaseURL:     cfg.FlutterwaveBaseURL,
		SecretKey:   cfg.FlutterwaveSecretKey,
		RedirectURL: cfg.PaymentRedirectURL,
	})

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Rental Module
	rentalRepo := rental.NewPgxRepository(cfg.DBPool)
	rentalService := rental.NewService(rentalRepo, store)

	// Notification Module
	notificationRepo := notification.NewPgxRepository(cfg.DBPool)
	notificationService := notification.NewService(notificationRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(
		bookingRepo, rentalService, userService, notificationService,
		gateway, clk, metrics,
	)

	// Review Module
	reviewRepo := review.NewPgxRepository(cfg.DBPool)
	reviewService := review.NewService(reviewRepo, rentalService)

	// Issue Module
	issueRepo := issue.NewPgxRepository(cfg.DBPool)
	issueService := issue.NewService(issueRepo, rentalService)

	// Router
	router := api.NewRouter(api.RouterConfig{
		UserService:         userService,
		RentalService:       rentalService,
		BookingService:      bookingService,
		NotificationService: notificationService,
		ReviewService:       reviewService,
		IssueService:        issueService,
		JWTManager:          jwtManager,
		AllowOrigins:        cfg.AllowOrigins,
		MediaDir:            cfg.StoragePath,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
