package issue

import (
	"context"
	"strings"

	"github.com/Humphrey256/Rentify01/internal/rental"
)

type CreateRequest struct {
	UserID      string
	RentalID    string
	Description string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Issue, error)
	// List returns the user's own issues, or every issue for admins.
	List(ctx context.Context, userID string, isAdmin bool) ([]*Issue, error)
	SetStatus(ctx context.Context, id string, status Status) (*Issue, error)
}

type service struct {
	repo    Repository
	rentals rental.Service
}

func NewService(repo Repository, rentals rental.Service) Service {
	return &service{repo: repo, rentals: rentals}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Issue, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	if _, err := s.rentals.GetByID(ctx, req.RentalID); err != nil {
		return nil, err
	}

	i := &Issue{
		UserID:      req.UserID,
		RentalID:    req.RentalID,
		Description: req.Description,
		Status:      StatusPending,
	}

	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *service) List(ctx context.Context, userID string, isAdmin bool) ([]*Issue, error) {
	if isAdmin {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) SetStatus(ctx context.Context, id string, status Status) (*Issue, error) {
	if status != StatusPending && status != StatusResolved {
		return nil, ErrInvalidStatus
	}

	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	i.Status = status
	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}
