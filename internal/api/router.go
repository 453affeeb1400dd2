package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Humphrey256/Rentify01/internal/auth"
	"github.com/Humphrey256/Rentify01/internal/booking"
	bookingHttp "github.com/Humphrey256/Rentify01/internal/booking/http"
	"github.com/Humphrey256/Rentify01/internal/issue"
	issueHttp "github.com/Humphrey256/Rentify01/internal/issue/http"
	"github.com/Humphrey256/Rentify01/internal/notification"
	notificationHttp "github.com/Humphrey256/Rentify01/internal/notification/http"
	"github.com/Humphrey256/Rentify01/internal/rental"
	rentalHttp "github.com/Humphrey256/Rentify01/internal/rental/http"
	"github.com/Humphrey256/Rentify01/internal/review"
	reviewHttp "github.com/Humphrey256/Rentify01/internal/review/http"
	"github.com/Humphrey256/Rentify01/internal/user"
	userHttp "github.com/Humphrey256/Rentify01/internal/user/http"
)

// RouterConfig carries the services and infrastructure the router wires into
// handlers.
type RouterConfig struct {
	UserService         user.Service
	RentalService       rental.Service
	BookingService      booking.Service
	NotificationService notification.Service
	ReviewService       review.Service
	IssueService        issue.Service

	JWTManager   *auth.JWTManager
	AllowOrigins []string
	MediaDir     string
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, Logger, Auth) and registers routes for each module.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()

	// Logger writes request lines to the console; Recovery turns panics into 500s.
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware validates the request's JWT; adminMiddleware further
	// requires the authenticated user to be an admin.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	adminMiddleware := RequireAdmin(cfg.UserService)

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	rentalHandler := rentalHttp.NewHandler(cfg.RentalService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.UserService)
	notificationHandler := notificationHttp.NewHandler(cfg.NotificationService)
	reviewHandler := reviewHttp.NewHandler(cfg.ReviewService, cfg.UserService)
	issueHandler := issueHttp.NewHandler(cfg.IssueService, cfg.UserService)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		rentalHttp.RegisterRoutes(v1, rentalHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		notificationHttp.RegisterRoutes(v1, notificationHandler, authMiddleware)
		reviewHttp.RegisterRoutes(v1, reviewHandler, authMiddleware)
		issueHttp.RegisterRoutes(v1, issueHandler, authMiddleware, adminMiddleware)
	}

	// Uploaded rental images are served from local storage.
	if cfg.MediaDir != "" {
		r.Static("/media", cfg.MediaDir)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
