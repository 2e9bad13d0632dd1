package repositories

import (
	"context"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
)

// OrderReader defines read operations for bundle orders.
type OrderReader interface {
	// FindOrderByEntryID returns the order created for a purchase entry, or apperrors.ErrNotFound.
	FindOrderByEntryID(ctx context.Context, entryID string) (*domain.BundleOrder, error)

	// ListOrdersByAccount returns an account's orders, newest first.
	ListOrdersByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.BundleOrder, error)
}

// OrderWriter defines write operations for bundle orders.
type OrderWriter interface {
	// SaveOrder inserts a new order. Returns apperrors.ErrDuplicate if the entry already has one,
	// which makes the insert of a pending order the claim on its delivery.
	SaveOrder(ctx context.Context, order domain.BundleOrder) error

	// SettleOrder moves a pending order to its delivery outcome.
	// Returns apperrors.ErrNotFound if the order is missing or no longer pending.
	SettleOrder(ctx context.Context, orderID string, status domain.OrderStatus, externalCode string, message string) error

	// AttachRefund records the compensating refund entry on an order.
	AttachRefund(ctx context.Context, orderID string, refundEntryID string) error
}

// OrderRepositoryFacade combines all order-related repository interfaces
type OrderRepositoryFacade interface {
	OrderReader
	OrderWriter
}
