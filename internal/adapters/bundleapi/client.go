// Package bundleapi delivers data bundles through the reseller's external packages API.
package bundleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
)

const (
	DefaultBaseURL = "https://cheap-bundles-ghana.azurewebsites.net"
	buyOtherPath   = "/api/external/packages/buy-other"
)

// Config holds bundle provider configuration
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	httpClient *http.Client
	config     Config
}

var _ portssvc.BundleDeliverer = (*Client)(nil)

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

type buyRequest struct {
	RecipientMsisdn string `json:"recipientMsisdn"`
	NetworkID       int    `json:"networkId"`
	SharedBundle    int    `json:"sharedBundle"`
}

type buyResponse struct {
	TransactionCode string `json:"transactionCode"`
	Message         string `json:"message"`
}

// Deliver asks the provider to send a bundle to req.RecipientMsisdn.
// A non-2xx answer is a rejection, not an error.
func (c *Client) Deliver(ctx context.Context, req domain.DeliveryRequest) (*domain.DeliveryResult, error) {
	if strings.TrimSpace(c.config.APIKey) == "" {
		return nil, fmt.Errorf("bundle api config error: api key is empty")
	}

	jsonData, err := json.Marshal(buyRequest{
		RecipientMsisdn: req.RecipientMsisdn,
		NetworkID:       req.NetworkID,
		SharedBundle:    req.SharedBundle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode bundle request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+buyOtherPath, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("bundle api call failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-KEY", c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: bundle api call failed: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: bundle api response read failed: %v", apperrors.ErrUpstream, err)
	}

	var result buyResponse
	decodeErr := json.Unmarshal(body, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := result.Message
		if decodeErr != nil || msg == "" {
			msg = fmt.Sprintf("bundle api returned non-2xx status: %d", resp.StatusCode)
		}
		return &domain.DeliveryResult{Success: false, Message: msg}, nil
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: failed to parse bundle api response: %v", apperrors.ErrUpstream, decodeErr)
	}

	return &domain.DeliveryResult{
		Success:         true,
		TransactionCode: result.TransactionCode,
		Message:         result.Message,
	}, nil
}
