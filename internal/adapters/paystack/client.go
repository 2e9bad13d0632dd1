// Package paystack is a minimal client for the Paystack transactions API.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/bundle_wallet_app/internal/utils"
)

const (
	DefaultBaseURL = "https://api.paystack.co"
	// EventChargeSuccess is the only webhook event that credits a wallet.
	EventChargeSuccess = "charge.success"

	referencePrefix = "BW"
)

// Config holds Paystack API configuration
type Config struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

// Client talks to Paystack with the merchant's secret key.
type Client struct {
	httpClient *http.Client
	config     Config
}

var _ portssvc.PaymentGateway = (*Client)(nil)

// NewClient creates new Paystack API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeRequest struct {
	Email     string            `json:"email"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Reference string            `json:"reference"`
	Metadata  map[string]string `json:"metadata"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// transactionData is the transaction object shared by verify responses and webhooks.
type transactionData struct {
	Reference string          `json:"reference"`
	Amount    int64           `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	PaidAt    *time.Time      `json:"paid_at"`
	Metadata  json.RawMessage `json:"metadata"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
}

func (d transactionData) toCharge() *domain.PaymentCharge {
	charge := &domain.PaymentCharge{
		Reference:     d.Reference,
		Amount:        d.Amount,
		Currency:      strings.ToUpper(d.Currency),
		Status:        d.Status,
		CustomerEmail: d.Customer.Email,
		AccountID:     accountIDFromMetadata(d.Metadata),
	}
	if d.PaidAt != nil {
		charge.PaidAt = *d.PaidAt
	}
	return charge
}

// accountIDFromMetadata reads metadata.account_id. Paystack sends metadata as an
// object, a JSON-encoded string, or an empty string.
func accountIDFromMetadata(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var meta map[string]any
	if err := json.Unmarshal(raw, &meta); err != nil {
		var encoded string
		if json.Unmarshal(raw, &encoded) != nil || encoded == "" {
			return ""
		}
		if json.Unmarshal([]byte(encoded), &meta) != nil {
			return ""
		}
	}
	if id, ok := meta["account_id"].(string); ok {
		return id
	}
	return ""
}

// InitializeTransaction opens a GHS payment tagged with accountID.
func (c *Client) InitializeTransaction(ctx context.Context, email string, amount int64, accountID string) (*domain.PaymentInit, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be > 0", apperrors.ErrValidation)
	}
	reference, err := utils.GenerateReference(referencePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to generate payment reference: %w", err)
	}

	var data initializeData
	err = c.do(ctx, http.MethodPost, "/transaction/initialize", initializeRequest{
		Email:     email,
		Amount:    amount,
		Currency:  domain.CurrencyGHS,
		Reference: reference,
		Metadata:  map[string]string{"account_id": accountID},
	}, &data)
	if err != nil {
		return nil, err
	}
	return &domain.PaymentInit{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// VerifyTransaction fetches the current state of a transaction.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*domain.PaymentCharge, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, fmt.Errorf("%w: reference must be non-empty", apperrors.ErrValidation)
	}
	var data transactionData
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &data); err != nil {
		return nil, err
	}
	return data.toCharge(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	if strings.TrimSpace(c.config.SecretKey) == "" {
		return fmt.Errorf("paystack config error: secret key is empty")
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode paystack request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("paystack api call failed: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: paystack api call failed: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: paystack api call failed: %v", apperrors.ErrUpstream, err)
	}

	var env envelope
	_ = json.Unmarshal(respBody, &env)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("paystack: %s: %w", env.Message, apperrors.ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: paystack: %s", apperrors.ErrValidation, env.Message)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: paystack api returned non-2xx status: %d, body: %s", apperrors.ErrUpstream, resp.StatusCode, string(respBody))
	case !env.Status:
		return fmt.Errorf("%w: paystack: %s", apperrors.ErrUpstream, env.Message)
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: failed to parse paystack response: %v", apperrors.ErrUpstream, err)
	}
	return nil
}
