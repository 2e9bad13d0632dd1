package domain

// PlatformStats summarises the ledger for the admin dashboard. Amounts are pesewas.
type PlatformStats struct {
	UserCount          int64 `json:"userCount"`
	TotalBalances      int64 `json:"totalBalances"`
	TotalDeposits      int64 `json:"totalDeposits"`
	TotalPurchases     int64 `json:"totalPurchases"`
	TotalRefunds       int64 `json:"totalRefunds"`
	FailedAttemptCount int64 `json:"failedAttemptCount"`
}
