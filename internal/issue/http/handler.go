package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Humphrey256/Rentify01/internal/auth"
	"github.com/Humphrey256/Rentify01/internal/issue"
	"github.com/Humphrey256/Rentify01/internal/rental"
	"github.com/Humphrey256/Rentify01/internal/user"
)

type Handler struct {
	service     issue.Service
	userService user.Service
}

func NewHandler(service issue.Service, userService user.Service) *Handler {
	return &Handler{
		service:     service,
		userService: userService,
	}
}

func (h *Handler) isAdmin(c *gin.Context, userID string) bool {
	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return u.IsAdmin
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateIssueRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	i, err := h.service.Create(c.Request.Context(), issue.CreateRequest{
		UserID:      userID,
		RentalID:    body.RentalID,
		Description: body.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, issue.ErrDescriptionRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, rental.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "rental not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create issue"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewIssueResponse(i))
}

func (h *Handler) List(c *gin.Context) {
	userID := auth.GetUserID(c)

	issues, err := h.service.List(c.Request.Context(), userID, h.isAdmin(c, userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list issues"})
		return
	}

	items := make([]IssueResponse, len(issues))
	for i, iss := range issues {
		items[i] = NewIssueResponse(iss)
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) SetStatus(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateIssueStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	i, err := h.service.SetStatus(c.Request.Context(), id, issue.Status(body.Status))
	if err != nil {
		switch {
		case errors.Is(err, issue.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "issue not found"})
		case errors.Is(err, issue.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update issue"})
		}
		return
	}

	c.JSON(http.StatusOK, NewIssueResponse(i))
}
