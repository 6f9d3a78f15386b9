// Package razorpay is a minimal client for the Razorpay Orders API:
// create a payment order, verify a checkout signature, issue a refund.
// Amounts cross this boundary as integer minor units (paise) only.
package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com"

// Config holds Razorpay API credentials and client settings.
type Config struct {
	KeyID     string
	KeySecret string
	// BaseURL overrides the API endpoint; used by tests.
	BaseURL string
	// Timeout bounds every gateway call. Defaults to 15s.
	Timeout time.Duration
}

// Errors for configuration validation.
var (
	ErrMissingKeyID     = errors.New("razorpay: missing key ID")
	ErrMissingKeySecret = errors.New("razorpay: missing key secret")
)

// ErrSignatureMismatch is returned when a payment signature fails
// verification.
var ErrSignatureMismatch = errors.New("razorpay: signature mismatch")

// Validate checks that the configuration is complete. Called at startup so
// a misconfigured gateway fails fast rather than at first checkout.
func (c *Config) Validate() error {
	if c.KeyID == "" {
		return ErrMissingKeyID
	}
	if c.KeySecret == "" {
		return ErrMissingKeySecret
	}
	return nil
}

// Client talks to the Razorpay REST API over HTTP basic auth.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new Razorpay client from a validated configuration.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// KeyID returns the public API key the frontend checkout needs.
func (c *Client) KeyID() string {
	return c.config.KeyID
}

type createOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"` // 1 = auto-capture
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder creates a remote payment order for the given amount in minor
// currency units and returns its id. The caller must not mark anything
// payable unless this succeeds.
func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	body := createOrderRequest{
		Amount:         amountMinor,
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: 1,
	}
	var resp createOrderResponse
	if err := c.post(ctx, "/v1/orders", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("razorpay: order response missing id")
	}
	return resp.ID, nil
}

// VerifySignature checks the checkout signature Razorpay sends on payment
// completion: HMAC-SHA256 of "<order_id>|<payment_id>" keyed with the API
// secret. It fails closed: any mismatch or malformed input is an error.
func (c *Client) VerifySignature(razorpayOrderID, razorpayPaymentID, signature string) error {
	if razorpayOrderID == "" || razorpayPaymentID == "" || signature == "" {
		return ErrSignatureMismatch
	}
	mac := hmac.New(sha256.New, []byte(c.config.KeySecret))
	mac.Write([]byte(razorpayOrderID + "|" + razorpayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

type refundRequest struct {
	Amount int64 `json:"amount"`
}

type refundResponse struct {
	ID string `json:"id"`
}

// Refund refunds the given amount in minor units against a captured
// payment and returns the refund id.
func (c *Client) Refund(ctx context.Context, razorpayPaymentID string, amountMinor int64) (string, error) {
	path := fmt.Sprintf("/v1/payments/%s/refund", razorpayPaymentID)
	var resp refundResponse
	if err := c.post(ctx, path, refundRequest{Amount: amountMinor}, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("razorpay: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("razorpay: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.config.KeyID, c.config.KeySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("razorpay: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("razorpay: failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("razorpay: %s returned status %d: %s", path, resp.StatusCode, respBody)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("razorpay: failed to parse response: %w", err)
	}
	return nil
}
