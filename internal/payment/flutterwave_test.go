package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{50, "0.50"},
		{100, "1.00"},
		{30000, "300.00"},
		{123456, "1234.56"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(tt.cents))
	}
}

func TestFlutterwaveInitiate(t *testing.T) {
	var gotAuth string
	var gotBody initiateBody

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v3/payments", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"status":  "success",
			"message": "Hosted Link",
			"data":    map[string]any{"link": "https://checkout.flutterwave.com/pay/abc123"},
		})
	}))
	defer srv.Close()

	g := NewFlutterwaveGateway(FlutterwaveConfig{
		BaseURL:     srv.URL,
		SecretKey:   "sk_test",
		RedirectURL: "https://app.example.com/payment-status",
	})

	payload, err := g.Initiate(context.Background(), InitiateRequest{
		TxRef:       "tx-123",
		AmountCents: 30000,
		Currency:    "USD",
		Customer:    Customer{Email: "renter@example.com", Name: "Renter"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.Equal(t, "tx-123", gotBody.TxRef)
	assert.Equal(t, "300.00", gotBody.Amount)
	assert.Equal(t, "USD", gotBody.Currency)
	assert.Equal(t, "card,banktransfer", gotBody.PaymentOptions)
	assert.Equal(t, "https://app.example.com/payment-status", gotBody.RedirectURL)
	assert.Equal(t, "renter@example.com", gotBody.Customer.Email)

	assert.Equal(t, "https://checkout.flutterwave.com/pay/abc123", payload.Link)
	assert.Equal(t, "tx-123", payload.TxRef)
	assert.Equal(t, "300.00", payload.Amount)
}

func TestFlutterwaveInitiateRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":  "error",
			"message": "Invalid currency",
		})
	}))
	defer srv.Close()

	g := NewFlutterwaveGateway(FlutterwaveConfig{BaseURL: srv.URL, SecretKey: "sk"})

	_, err := g.Initiate(context.Background(), InitiateRequest{TxRef: "tx-1", AmountCents: 100, Currency: "XXX"})
	assert.ErrorIs(t, err, ErrInitiateFailed)
}

func TestFlutterwaveInitiateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewFlutterwaveGateway(FlutterwaveConfig{BaseURL: srv.URL, SecretKey: "sk"})

	_, err := g.Initiate(context.Background(), InitiateRequest{TxRef: "tx-1", AmountCents: 100, Currency: "USD"})
	assert.ErrorIs(t, err, ErrInitiateFailed)
}

func TestFlutterwaveVerify(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		want      bool
		wantError bool
	}{
		{
			name: "settled transaction",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "tx-123", r.URL.Query().Get("tx_ref"))
				json.NewEncoder(w).Encode(map[string]any{
					"status": "success",
					"data":   map[string]any{"tx_ref": "tx-123", "status": "successful"},
				})
			},
			want: true,
		},
		{
			name: "pending transaction",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"status": "success",
					"data":   map[string]any{"tx_ref": "tx-123", "status": "pending"},
				})
			},
			want: false,
		},
		{
			name: "reference mismatch",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"status": "success",
					"data":   map[string]any{"tx_ref": "tx-other", "status": "successful"},
				})
			},
			want: false,
		},
		{
			name: "unknown reference",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			want: false,
		},
		{
			name: "gateway failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			g := NewFlutterwaveGateway(FlutterwaveConfig{BaseURL: srv.URL, SecretKey: "sk"})
			ok, err := g.Verify(context.Background(), "tx-123")

			if tt.wantError {
				assert.ErrorIs(t, err, ErrVerifyFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}
