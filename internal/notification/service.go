package notification

import (
	"context"
	"strings"
)

type Service interface {
	// Notify records a message for the user. Callers treat delivery as
	// best effort; the booking engine never fails an operation because a
	// notification could not be written.
	Notify(ctx context.Context, userID, message string, data map[string]any) error

	// ListUnread returns the user's unread notifications, newest first.
	ListUnread(ctx context.Context, userID string) ([]*Notification, error)

	// MarkRead flags one of the user's notifications as read.
	MarkRead(ctx context.Context, id, userID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Notify(ctx context.Context, userID, message string, data map[string]any) error {
	if strings.TrimSpace(message) == "" {
		return ErrMessageRequired
	}

	n := &Notification{
		UserID:  userID,
		Message: message,
		Data:    data,
	}
	return s.repo.Create(ctx, n)
}

func (s *service) ListUnread(ctx context.Context, userID string) ([]*Notification, error) {
	return s.repo.ListUnread(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}
