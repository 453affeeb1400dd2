package http

import (
	"time"

	"github.com/Humphrey256/Rentify01/internal/issue"
)

type CreateIssueRequest struct {
	RentalID    string `json:"rental_id" binding:"required,uuid"`
	Description string `json:"description" binding:"required"`
}

type UpdateIssueStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Pending Resolved"`
}

type IssueResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	RentalID    string    `json:"rental_id"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewIssueResponse(i *issue.Issue) IssueResponse {
	return IssueResponse{
		ID:          i.ID,
		UserID:      i.UserID,
		RentalID:    i.RentalID,
		Description: i.Description,
		Status:      string(i.Status),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
