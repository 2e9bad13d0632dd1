package services

import (
	"context"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
)

// LedgerEventPublisher notifies downstream consumers of committed ledger entries.
// Publishing is best effort and never affects the ledger outcome.
type LedgerEventPublisher interface {
	PublishEntryCommitted(ctx context.Context, entry domain.LedgerEntry) error
	Close() error
}
