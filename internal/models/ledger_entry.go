package models

import (
	"database/sql"
	"time"
)

// LedgerEntry is the ledger_entries table row.
type LedgerEntry struct {
	EntryID       string         `db:"entry_id"`
	AccountID     string         `db:"account_id"`
	Amount        int64          `db:"amount"`
	Kind          string         `db:"kind"`
	Status        string         `db:"status"`
	ReferenceCode sql.NullString `db:"reference_code"`
	Description   string         `db:"description"`
	BalanceBefore int64          `db:"balance_before"`
	BalanceAfter  int64          `db:"balance_after"`
	CreatedAt     time.Time      `db:"created_at"`
}
