package repositories

import (
	"context"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
)

// ReportingRepository defines the aggregate queries behind the admin views.
type ReportingRepository interface {
	// ListUserBalances returns users with their wallet balance, newest users first.
	ListUserBalances(ctx context.Context, limit int, offset int) ([]domain.UserBalance, error)

	// GetPlatformStats aggregates balances and successful entry totals.
	GetPlatformStats(ctx context.Context) (*domain.PlatformStats, error)
}
