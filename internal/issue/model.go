package issue

import (
	"errors"
	"time"
)

var (
	ErrNotFound            = errors.New("issue not found")
	ErrDescriptionRequired = errors.New("description cannot be empty")
	ErrInvalidStatus       = errors.New("invalid issue status")
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusResolved Status = "Resolved"
)

// Issue is a problem report a renter files against a rental.
type Issue struct {
	ID          string
	UserID      string
	RentalID    string
	Description string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
