package notification

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("notification not found")
	ErrMessageRequired = errors.New("message is required")
)

// Notification is a message delivered to a user's in-app inbox. Booking
// lifecycle events (confirmed, cancelled, completed) land here.
type Notification struct {
	ID        string
	UserID    string
	Message   string
	Data      map[string]any // structured context, stored as jsonb
	IsRead    bool
	CreatedAt time.Time
}
