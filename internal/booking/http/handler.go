package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Humphrey256/Rentify01/internal/auth"
	"github.com/Humphrey256/Rentify01/internal/booking"
	"github.com/Humphrey256/Rentify01/internal/pkg/response"
	"github.com/Humphrey256/Rentify01/internal/user"
)

type Handler struct {
	service     booking.Service
	userService user.Service
}

func NewHandler(service booking.Service, userService user.Service) *Handler {
	return &Handler{
		service:     service,
		userService: userService,
	}
}

// isAdmin reports whether the current user has admin privileges.
func (h *Handler) isAdmin(c *gin.Context, userID string) bool {
	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return u.IsAdmin
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		UserID:          userID,
		RentalID:        body.RentalID,
		StartDate:       body.StartDate,
		EndDate:         body.EndDate,
		TotalPriceCents: body.TotalPriceCents,
		PaymentMethod:   booking.PaymentMethod(body.PaymentMethod),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, CreateBookingResponse{
		Booking: NewBookingResponse(result.Booking),
		Payment: result.Payment,
	})
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	b, err := h.service.GetByID(c.Request.Context(), id, userID, h.isAdmin(c, userID))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	if err := h.service.Cancel(c.Request.Context(), id, userID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Complete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	if err := h.service.Complete(c.Request.Context(), id, userID, h.isAdmin(c, userID)); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

func (h *Handler) ConfirmPayment(c *gin.Context) {
	var body ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	b, err := h.service.ConfirmPayment(c.Request.Context(), body.TxRef, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) UpdateDates(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateBookingDatesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	result, err := h.service.UpdateDates(c.Request.Context(), id, userID, body.StartDate, body.EndDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, UpdateBookingDatesResponse{
		Booking:            NewBookingResponse(result.Booking),
		AdditionalDueCents: result.AdditionalDueCents,
	})
}

func (h *Handler) Active(c *gin.Context) {
	userID := auth.GetUserID(c)
	bookings, err := h.service.ActiveBookings(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(bookings))
}

func (h *Handler) History(c *gin.Context) {
	userID := auth.GetUserID(c)
	bookings, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(bookings))
}

func toResponses(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	return items
}
