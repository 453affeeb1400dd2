package rental

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/Humphrey256/Rentify01/internal/pkg/storage"
)

type CreateRequest struct {
	Name       string
	Category   string
	Details    string
	PriceCents int64
}

type UpdateRequest struct {
	Name       *string
	Category   *string
	Details    *string
	PriceCents *int64
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Rental, error)
	GetByID(ctx context.Context, id string) (*Rental, error)
	List(ctx context.Context, filter Filter) ([]*Rental, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Rental, error)
	Delete(ctx context.Context, id string) error

	// SetAvailability flips the rental's availability flag. Consumed by the
	// booking engine when a booking takes or releases the unit.
	SetAvailability(ctx context.Context, id string, available bool) error

	// UploadImage stores the rental's photo plus a thumbnail and records the
	// storage path on the rental.
	UploadImage(ctx context.Context, id, filename string, content io.Reader) (*Rental, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	imgProc *storage.ImageProcessor
}

func NewService(repo Repository, store storage.Storage) Service {
	return &service{
		repo:    repo,
		storage: store,
		imgProc: storage.NewImageProcessor(),
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Rental, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(req.Details) == "" {
		return nil, ErrDetailsRequired
	}
	if req.PriceCents <= 0 {
		return nil, ErrInvalidPrice
	}

	r := &Rental{
		Name:       req.Name,
		Category:   req.Category,
		Details:    req.Details,
		PriceCents: req.PriceCents,
		Available:  true, // new rentals enter the pool unheld
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Rental, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Rental, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Rental, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		r.Name = *req.Name
	}
	if req.Category != nil {
		r.Category = *req.Category
	}
	if req.Details != nil {
		if strings.TrimSpace(*req.Details) == "" {
			return nil, ErrDetailsRequired
		}
		r.Details = *req.Details
	}
	if req.PriceCents != nil {
		if *req.PriceCents <= 0 {
			return nil, ErrInvalidPrice
		}
		r.PriceCents = *req.PriceCents
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if r.ImagePath != nil {
		_ = s.storage.Delete(ctx, *r.ImagePath)
	}
	return nil
}

func (s *service) SetAvailability(ctx context.Context, id string, available bool) error {
	return s.repo.SetAvailability(ctx, id, available)
}

func (s *service) UploadImage(ctx context.Context, id, filename string, content io.Reader) (*Rental, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fileBytes, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("failed to read image content: %w", err)
	}

	imageID := uuid.New().String()
	path := fmt.Sprintf("rentals/%s/%s.jpg", r.ID, imageID)

	if err := s.storage.Save(ctx, path, bytes.NewReader(fileBytes)); err != nil {
		return nil, fmt.Errorf("failed to save rental image: %w", err)
	}

	// Thumbnail generation is best effort; a missing thumbnail never fails
	// the upload.
	if thumb, err := s.imgProc.GenerateThumbnail(bytes.NewReader(fileBytes), 200, 200); err == nil {
		tPath := fmt.Sprintf("rentals/%s/%s_thumb.jpg", r.ID, imageID)
		_ = s.storage.Save(ctx, tPath, thumb)
	}

	old := r.ImagePath
	r.ImagePath = &path
	if err := s.repo.Update(ctx, r); err != nil {
		_ = s.storage.Delete(ctx, path)
		return nil, err
	}
	if old != nil {
		_ = s.storage.Delete(ctx, *old)
	}
	return r, nil
}
