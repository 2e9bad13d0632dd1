package repositories

import (
	"context"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
)

// AccountReader defines read operations for wallet accounts.
// There is deliberately no writer: balances change only through LedgerWriter.
type AccountReader interface {
	// FindAccountByID retrieves a wallet by its ID.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}
