package domain

// Account is a user's wallet. AccountID equals the owning user's ID.
// Balance is in pesewas and is only ever changed by the ledger.
type Account struct {
	AccountID string `json:"accountID"`
	Balance   int64  `json:"balance"`
	Timestamps
}
