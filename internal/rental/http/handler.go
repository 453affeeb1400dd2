package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Humphrey256/Rentify01/internal/pkg/response"
	"github.com/Humphrey256/Rentify01/internal/rental"
)

type Handler struct {
	service rental.Service
}

func NewHandler(service rental.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListRentalsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := rental.Filter{
		Category:  req.Category,
		Available: req.Available,
		Keyword:   req.Keyword,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	rentals, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rentals"})
		return
	}

	items := make([]RentalResponse, len(rentals))
	for i, r := range rentals {
		items[i] = NewRentalResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, rental.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rental not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get rental"})
		return
	}

	c.JSON(http.StatusOK, NewRentalResponse(r))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRentalRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	r, err := h.service.Create(c.Request.Context(), rental.CreateRequest{
		Name:       body.Name,
		Category:   body.Category,
		Details:    body.Details,
		PriceCents: body.PriceCents,
	})
	if err != nil {
		switch {
		case errors.Is(err, rental.ErrNameRequired),
			errors.Is(err, rental.ErrDetailsRequired),
			errors.Is(err, rental.ErrInvalidPrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create rental"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewRentalResponse(r))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateRentalRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	r, err := h.service.Update(c.Request.Context(), id, rental.UpdateRequest{
		Name:       body.Name,
		Category:   body.Category,
		Details:    body.Details,
		PriceCents: body.PriceCents,
	})
	if err != nil {
		switch {
		case errors.Is(err, rental.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "rental not found"})
		case errors.Is(err, rental.ErrNameRequired),
			errors.Is(err, rental.ErrDetailsRequired),
			errors.Is(err, rental.ErrInvalidPrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update rental"})
		}
		return
	}

	c.JSON(http.StatusOK, NewRentalResponse(r))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, rental.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rental not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete rental"})
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadImage accepts a multipart image and attaches it to the rental.
func (h *Handler) UploadImage(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer src.Close()

	r, err := h.service.UploadImage(c.Request.Context(), id, header.Filename, src)
	if err != nil {
		if errors.Is(err, rental.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "rental not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload image"})
		return
	}

	c.JSON(http.StatusOK, NewRentalResponse(r))
}
