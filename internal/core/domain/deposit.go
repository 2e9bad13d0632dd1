package domain

import "time"

// PaymentCharge is a settled charge as reported by the payment gateway.
// Amount is in pesewas.
type PaymentCharge struct {
	Reference     string
	Amount        int64
	Currency      string
	Status        string
	CustomerEmail string
	// AccountID comes from the metadata we attach when initialising the payment. May be empty.
	AccountID string
	PaidAt    time.Time
}

// ChargeStatusSuccess is the gateway's status string for a settled charge.
const ChargeStatusSuccess = "success"

// Deposit limits, in pesewas.
const (
	MinDepositAmount int64 = 100
	MaxDepositAmount int64 = 1_000_000 * 100
)

// PaymentInit is what the client needs to open the gateway's payment widget.
type PaymentInit struct {
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
	Reference        string `json:"reference"`
}
