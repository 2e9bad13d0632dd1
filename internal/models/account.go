package models

import "time"

// Account is the accounts table row.
type Account struct {
	AccountID string    `db:"account_id"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
