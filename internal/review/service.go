package review

import (
	"context"
	"strings"

	"github.com/Humphrey256/Rentify01/internal/rental"
)

type CreateRequest struct {
	UserID   string
	RentalID string
	Rating   int
	Comment  string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Review, error)
	ListByRental(ctx context.Context, rentalID string) ([]*Review, error)
	Delete(ctx context.Context, id, actingUserID string, isAdmin bool) error
}

type service struct {
	repo    Repository
	rentals rental.Service
}

func NewService(repo Repository, rentals rental.Service) Service {
	return &service{repo: repo, rentals: rentals}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if strings.TrimSpace(req.Comment) == "" {
		return nil, ErrCommentRequired
	}

	// The rental must exist; surface its error as-is so the handler can map it.
	if _, err := s.rentals.GetByID(ctx, req.RentalID); err != nil {
		return nil, err
	}

	r := &Review{
		UserID:   req.UserID,
		RentalID: req.RentalID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) ListByRental(ctx context.Context, rentalID string) ([]*Review, error) {
	return s.repo.ListByRental(ctx, rentalID)
}

func (s *service) Delete(ctx context.Context, id, actingUserID string, isAdmin bool) error {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && r.UserID != actingUserID {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}
