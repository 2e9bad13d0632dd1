package services

import (
	"context"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	"github.com/SscSPs/bundle_wallet_app/internal/dto"
)

// LedgerWriterSvc is the single entry point for changing a wallet balance.
type LedgerWriterSvc interface {
	// Apply runs one signed balance change against an account.
	//
	// A purchase the balance cannot cover is not an error: a failed entry is written
	// and returned with a nil error. Replaying a reference code returns the original
	// entry. Errors are reserved for validation, missing accounts, reference conflicts
	// and infrastructure failures.
	Apply(ctx context.Context, req domain.ApplyRequest) (*domain.LedgerEntry, error)
}

// LedgerReaderSvc exposes the wallet and its transaction log.
type LedgerReaderSvc interface {
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	GetEntry(ctx context.Context, accountID string, entryID string) (*domain.LedgerEntry, error)
	ListEntries(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}
