package review

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("review not found")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrCommentRequired  = errors.New("comment cannot be empty")
	ErrPermissionDenied = errors.New("permission denied")
)

// Review is a user's rating of a rental.
type Review struct {
	ID        string
	UserID    string
	RentalID  string
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
