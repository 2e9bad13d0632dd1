package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
)

// LedgerUnitOfWork is the set of operations available while an account is locked.
// Every call made through it commits or rolls back together.
type LedgerUnitOfWork interface {
	// LockAccount acquires the account's write lock for the rest of the unit of work
	// and returns its current state. Returns apperrors.ErrNotFound if it does not exist.
	LockAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// FindSuccessfulEntryByReference returns the successful entry carrying referenceCode,
	// or apperrors.ErrNotFound.
	FindSuccessfulEntryByReference(ctx context.Context, referenceCode string) (*domain.LedgerEntry, error)

	// UpdateBalance sets the locked account's balance.
	UpdateBalance(ctx context.Context, accountID string, balance int64, at time.Time) error

	// InsertEntry appends an entry. Returns apperrors.ErrDuplicate when a successful
	// entry with the same reference code already exists.
	InsertEntry(ctx context.Context, entry domain.LedgerEntry) error
}

// EntryQuery selects a page of ledger entries, newest first.
type EntryQuery struct {
	// AccountID restricts the query to one account. Empty means all accounts.
	AccountID string
	Status    domain.EntryStatus
	Limit     int
	// NextToken is the opaque cursor returned by the previous page.
	NextToken *string
}

// LedgerReader defines read operations on the transaction log.
type LedgerReader interface {
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)
	FindSuccessfulEntryByReference(ctx context.Context, referenceCode string) (*domain.LedgerEntry, error)
	// ListEntries returns one page of entries and the token for the next page, if any.
	ListEntries(ctx context.Context, query EntryQuery) ([]domain.LedgerEntry, *string, error)
}

// LedgerWriter runs balance mutations.
type LedgerWriter interface {
	// RunInAccountTx executes fn in a unit of work. If fn returns nil the work is
	// committed, otherwise it is discarded and fn's error is returned.
	RunInAccountTx(ctx context.Context, fn func(uow LedgerUnitOfWork) error) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
