package payment

import (
	"context"
	"errors"
)

var (
	ErrInitiateFailed = errors.New("payment initiation failed")
	ErrVerifyFailed   = errors.New("payment verification failed")
)

// Customer identifies the paying user to the gateway.
type Customer struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
	Name        string `json:"name"`
}

// InitiateRequest asks the gateway for a hosted payment link.
type InitiateRequest struct {
	TxRef       string
	AmountCents int64
	Currency    string
	Customer    Customer
}

// Payload is the payment-initiation data handed back to the client so it can
// redirect the user to the gateway's checkout page.
type Payload struct {
	TxRef          string         `json:"tx_ref"`
	Amount         string         `json:"amount"`
	Currency       string         `json:"currency"`
	PaymentOptions string         `json:"payment_options"`
	RedirectURL    string         `json:"redirect_url"`
	Link           string         `json:"link,omitempty"`
	Customer       Customer       `json:"customer"`
	Customizations Customizations `json:"customizations"`
}

// Customizations controls the branding of the hosted checkout page.
type Customizations struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

// Gateway abstracts the payment provider. Initiate produces a checkout
// payload for a transaction reference; Verify confirms whether the referenced
// transaction actually settled.
type Gateway interface {
	Initiate(ctx context.Context, req InitiateRequest) (*Payload, error)
	Verify(ctx context.Context, txRef string) (bool, error)
}
