package services

import (
	"context"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
)

// CheckoutSvcFacade runs a cart through the ledger one item at a time.
type CheckoutSvcFacade interface {
	// Checkout processes items in order and stops at the first failure.
	// Items already purchased are never rolled back.
	Checkout(ctx context.Context, accountID string, idempotencyKey string, items []domain.CheckoutItem) (*domain.CheckoutResult, error)

	// ListOrders returns the account's bundle orders, newest first.
	ListOrders(ctx context.Context, accountID string, limit int, offset int) ([]domain.BundleOrder, error)
}

// BundleDeliverer provisions a bundle on the telecom network.
type BundleDeliverer interface {
	// Deliver returns a result with Success=false when the provider rejected the request.
	// An error means the outcome is unknown or the provider could not be reached.
	Deliver(ctx context.Context, req domain.DeliveryRequest) (*domain.DeliveryResult, error)
}
