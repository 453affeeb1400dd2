package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// FlutterwaveConfig carries the credentials and endpoints for the Flutterwave
// v3 API.
type FlutterwaveConfig struct {
	BaseURL     string // e.g. https://api.flutterwave.com
	SecretKey   string
	RedirectURL string // where the gateway sends the user after checkout
	Timeout     time.Duration
}

// FlutterwaveGateway implements Gateway against the Flutterwave hosted
// payments API.
type FlutterwaveGateway struct {
	cfg    FlutterwaveConfig
	client *http.Client
}

func NewFlutterwaveGateway(cfg FlutterwaveConfig) *FlutterwaveGateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &FlutterwaveGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// formatAmount renders cents as a fixed-point decimal string, e.g. 30000 ->
// "300.00". Floats are avoided so prices survive the round trip exactly.
func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

type initiateBody struct {
	TxRef          string         `json:"tx_ref"`
	Amount         string         `json:"amount"`
	Currency       string         `json:"currency"`
	RedirectURL    string         `json:"redirect_url"`
	PaymentOptions string         `json:"payment_options"`
	Customer       Customer       `json:"customer"`
	Customizations Customizations `json:"customizations"`
}

type initiateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

func (g *FlutterwaveGateway) Initiate(ctx context.Context, req InitiateRequest) (*Payload, error) {
	body := initiateBody{
		TxRef:          req.TxRef,
		Amount:         formatAmount(req.AmountCents),
		Currency:       req.Currency,
		RedirectURL:    g.cfg.RedirectURL,
		PaymentOptions: "card,banktransfer",
		Customer:       req.Customer,
		Customizations: Customizations{
			Title:       "Rental Booking",
			Description: "Payment for rental booking",
		},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.cfg.BaseURL+"/v3/payments", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitiateFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gateway returned %s", ErrInitiateFailed, resp.Status)
	}

	var parsed initiateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrInitiateFailed, err)
	}
	if parsed.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrInitiateFailed, parsed.Message)
	}

	return &Payload{
		TxRef:          req.TxRef,
		Amount:         body.Amount,
		Currency:       req.Currency,
		PaymentOptions: body.PaymentOptions,
		RedirectURL:    g.cfg.RedirectURL,
		Link:           parsed.Data.Link,
		Customer:       req.Customer,
		Customizations: body.Customizations,
	}, nil
}

type verifyResponse struct {
	Status string `json:"status"`
	Data   struct {
		TxRef  string `json:"tx_ref"`
		Status string `json:"status"`
	} `json:"data"`
}

func (g *FlutterwaveGateway) Verify(ctx context.Context, txRef string) (bool, error) {
	endpoint := g.cfg.BaseURL + "/v3/transactions/verify_by_reference?tx_ref=" + url.QueryEscape(txRef)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build verify request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.SecretKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrVerifyFailed, err)
	}
	defer resp.Body.Close()

	// An unknown reference is a definitive "not paid", not an infrastructure
	// failure.
	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: gateway returned %s", ErrVerifyFailed, resp.Status)
	}

	var parsed verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return false, fmt.Errorf("%w: decode response: %v", ErrVerifyFailed, err)
	}

	return parsed.Status == "success" &&
		parsed.Data.Status == "successful" &&
		parsed.Data.TxRef == txRef, nil
}
