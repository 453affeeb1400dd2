package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
)

// User represents an account in the marketplace. Phone number and display
// name are optional but feed the payment gateway's customer payload when set.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	PhoneNumber  *string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
	IsAdmin      bool
}

// Filter defines filter options for listing users.
type Filter struct {
	Email    string
	IsActive *bool

	Page     int
	PageSize int
}
