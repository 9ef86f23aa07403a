package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/VishnuPrakashVP/wedding-app/apperrors"
)

// Gateway creates orders with the external payment provider and reads back
// payment records. The callback verification protocol (HMAC over
// orderId|paymentId) lives in the pipeline, so any HMAC-based provider can
// sit behind this interface.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int, currency, receipt string) (string, error)
	FetchPayment(ctx context.Context, paymentID string) (Payment, error)
}

// Payment is the provider's record of a captured payment.
type Payment struct {
	ID       string `json:"payment_id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Method   string `json:"method"`
}

const gatewayTimeout = 10 * time.Second

// HTTPGateway talks to a provider's REST order API with basic auth.
type HTTPGateway struct {
	URL    string
	KeyID  string
	Secret string
	Client *http.Client
}

func NewHTTPGateway(url, keyID, secret string) *HTTPGateway {
	return &HTTPGateway{
		URL:    url,
		KeyID:  keyID,
		Secret: secret,
		Client: &http.Client{Timeout: gatewayTimeout},
	}
}

type gatewayOrderRequest struct {
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type gatewayOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder obtains a gateway order id. Timeouts and transport failures
// surface as ErrGatewayUnavailable, which the caller may retry with the same
// idempotency key. There is no retry loop in here.
func (g *HTTPGateway) CreateOrder(ctx context.Context, amount int, currency, receipt string) (string, error) {
	body, err := json.Marshal(gatewayOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return "", fmt.Errorf("encoding order request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating order request: %w", err)
	}
	req.SetBasicAuth(g.KeyID, g.Secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway order call failed: %w", apperrors.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("gateway returned %d: %w", resp.StatusCode, apperrors.ErrGatewayUnavailable)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", apperrors.Validationf("gateway rejected order with status %d", resp.StatusCode)
	}

	var parsed gatewayOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding gateway response: %w", apperrors.ErrGatewayUnavailable)
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("gateway returned empty order id: %w", apperrors.ErrGatewayUnavailable)
	}
	return parsed.ID, nil
}

type gatewayPaymentResponse struct {
	ID       string `json:"id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Method   string `json:"method"`
}

// FetchPayment reads the provider's record of a payment. The same error
// mapping as CreateOrder applies: transport failures and 5xx are retryable,
// an unknown payment id is a plain not-found.
func (g *HTTPGateway) FetchPayment(ctx context.Context, paymentID string) (Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.URL+"/payments/"+paymentID, nil)
	if err != nil {
		return Payment{}, fmt.Errorf("creating payment request: %w", err)
	}
	req.SetBasicAuth(g.KeyID, g.Secret)

	resp, err := g.Client.Do(req)
	if err != nil {
		return Payment{}, fmt.Errorf("gateway payment call failed: %w", apperrors.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return Payment{}, fmt.Errorf("gateway returned %d: %w", resp.StatusCode, apperrors.ErrGatewayUnavailable)
	}
	if resp.StatusCode == http.StatusNotFound {
		return Payment{}, fmt.Errorf("payment %s: %w", paymentID, apperrors.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return Payment{}, apperrors.Validationf("gateway rejected payment lookup with status %d", resp.StatusCode)
	}

	var parsed gatewayPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Payment{}, fmt.Errorf("decoding gateway payment: %w", apperrors.ErrGatewayUnavailable)
	}
	return Payment{
		ID:       parsed.ID,
		Amount:   parsed.Amount,
		Currency: parsed.Currency,
		Status:   parsed.Status,
		Method:   parsed.Method,
	}, nil
}
