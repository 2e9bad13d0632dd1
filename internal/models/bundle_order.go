package models

import (
	"database/sql"
	"time"
)

// BundleOrder is the bundle_orders table row.
type BundleOrder struct {
	OrderID         string         `db:"order_id"`
	AccountID       string         `db:"account_id"`
	EntryID         string         `db:"entry_id"`
	PackageID       string         `db:"package_id"`
	RecipientMsisdn string         `db:"recipient_msisdn"`
	NetworkID       int            `db:"network_id"`
	SharedBundle    int            `db:"shared_bundle"`
	Amount          int64          `db:"amount"`
	Status          string         `db:"status"`
	ExternalCode    sql.NullString `db:"external_code"`
	Message         string         `db:"message"`
	RefundEntryID   sql.NullString `db:"refund_entry_id"`
	CreatedAt       time.Time      `db:"created_at"`
}
