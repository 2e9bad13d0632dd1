package domain

import "time"

// EntryKind is the type of balance-affecting event a ledger entry records.
type EntryKind string

const (
	EntryKindDeposit  EntryKind = "deposit"
	EntryKindPurchase EntryKind = "purchase"
	// EntryKindRefund credits back a purchase whose bundle could not be delivered.
	EntryKindRefund EntryKind = "refund"
)

// IsValid reports whether k is a known entry kind.
func (k EntryKind) IsValid() bool {
	switch k {
	case EntryKindDeposit, EntryKindPurchase, EntryKindRefund:
		return true
	}
	return false
}

// IsCredit reports whether entries of this kind add to the balance.
func (k EntryKind) IsCredit() bool {
	return k == EntryKindDeposit || k == EntryKindRefund
}

// EntryStatus is the outcome recorded on a ledger entry.
type EntryStatus string

const (
	EntryStatusSuccess EntryStatus = "success"
	EntryStatusFailed  EntryStatus = "failed"
)

// LedgerEntry is an immutable record of one attempted balance change.
// Amounts are signed pesewas: credits are positive, debits negative.
type LedgerEntry struct {
	EntryID       string      `json:"entryID"`
	AccountID     string      `json:"accountID"`
	Amount        int64       `json:"amount"`
	Kind          EntryKind   `json:"kind"`
	Status        EntryStatus `json:"status"`
	ReferenceCode string      `json:"referenceCode,omitempty"`
	Description   string      `json:"description"`
	BalanceBefore int64       `json:"balanceBefore"`
	BalanceAfter  int64       `json:"balanceAfter"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// IsSuccess reports whether the entry changed the balance.
func (e LedgerEntry) IsSuccess() bool {
	return e.Status == EntryStatusSuccess
}

// ApplyRequest describes one signed balance change to run through the ledger.
type ApplyRequest struct {
	AccountID string
	Amount    int64
	Kind      EntryKind
	// ReferenceCode is the idempotency key. Optional.
	ReferenceCode string
	Description   string
}

// SameOperation reports whether an existing entry was produced by an equivalent request.
func (r ApplyRequest) SameOperation(e LedgerEntry) bool {
	return e.AccountID == r.AccountID && e.Kind == r.Kind && e.Amount == r.Amount
}
