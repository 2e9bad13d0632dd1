package dto

import (
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	"github.com/SscSPs/bundle_wallet_app/internal/utils"
)

// WalletResponse is the caller's current balance.
type WalletResponse struct {
	AccountID  string    `json:"accountID"`
	Balance    int64     `json:"balance"`    // pesewas
	BalanceGHS string    `json:"balanceGhs"` // display form, e.g. "12.50"
	Currency   string    `json:"currency"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ToWalletResponse converts a domain.Account to WalletResponse DTO
func ToWalletResponse(acc *domain.Account) WalletResponse {
	return WalletResponse{
		AccountID:  acc.AccountID,
		Balance:    acc.Balance,
		BalanceGHS: utils.FormatPesewas(acc.Balance),
		Currency:   domain.CurrencyGHS,
		UpdatedAt:  acc.UpdatedAt,
	}
}

// EntryResponse defines the data returned for a ledger entry.
type EntryResponse struct {
	EntryID         string             `json:"entryID"`
	AccountID       string             `json:"accountID"`
	Amount          int64              `json:"amount"`
	AmountGHS       string             `json:"amountGhs"`
	Kind            domain.EntryKind   `json:"kind"`
	Status          domain.EntryStatus `json:"status"`
	ReferenceCode   string             `json:"referenceCode,omitempty"`
	Description     string             `json:"description"`
	BalanceBefore   int64              `json:"balanceBefore"`
	BalanceAfter    int64              `json:"balanceAfter"`
	BalanceAfterGHS string             `json:"balanceAfterGhs"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// ToEntryResponse converts a domain.LedgerEntry to EntryResponse DTO
func ToEntryResponse(e *domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		EntryID:         e.EntryID,
		AccountID:       e.AccountID,
		Amount:          e.Amount,
		AmountGHS:       utils.FormatPesewas(e.Amount),
		Kind:            e.Kind,
		Status:          e.Status,
		ReferenceCode:   e.ReferenceCode,
		Description:     e.Description,
		BalanceBefore:   e.BalanceBefore,
		BalanceAfter:    e.BalanceAfter,
		BalanceAfterGHS: utils.FormatPesewas(e.BalanceAfter),
		CreatedAt:       e.CreatedAt,
	}
}

// ToEntryResponses converts a slice of domain.LedgerEntry to EntryResponse DTOs
func ToEntryResponses(entries []domain.LedgerEntry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i := range entries {
		res[i] = ToEntryResponse(&entries[i])
	}
	return res
}

// ListEntriesParams defines query parameters for listing ledger entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
	Status    string  `form:"status" binding:"omitempty,oneof=success failed"`
}

// ListEntriesResponse wraps a page of ledger entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// InitializeDepositRequest starts a gateway payment. Amount is in cedis, e.g. "25.00".
type InitializeDepositRequest struct {
	AmountGHS string `json:"amountGhs" binding:"required"`
}

// VerifyDepositRequest asks the server to confirm a completed gateway payment.
type VerifyDepositRequest struct {
	Reference string `json:"reference" binding:"required,max=100"`
}
