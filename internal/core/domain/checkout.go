package domain

// CheckoutState is the orchestrator's position in a cart run.
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutProcessing CheckoutState = "processing"
	CheckoutCompleted  CheckoutState = "completed"
	CheckoutFailed     CheckoutState = "failed"
)

// FailureReason classifies why a cart item stopped the checkout.
type FailureReason string

const (
	FailureInsufficientFunds FailureReason = "insufficient_funds"
	FailureInvalidItem       FailureReason = "invalid_item"
	FailureDeliveryFailed    FailureReason = "delivery_failed"
	FailureInternal          FailureReason = "internal_error"
)

// CheckoutItem is one cart line. Prices are never taken from the client.
type CheckoutItem struct {
	ItemID          string
	PackageID       string
	RecipientMsisdn string
}

// ItemOutcome records a successfully purchased and delivered item.
type ItemOutcome struct {
	ItemID string
	Entry  LedgerEntry
	Order  BundleOrder
}

// ItemFailure records the item that stopped the checkout.
type ItemFailure struct {
	ItemID string
	Reason FailureReason
	Error  string
	// Entry is set when the failure wrote a ledger entry (failed purchase or delivery failure).
	Entry *LedgerEntry
	// Refund is set when a delivery failure was compensated.
	Refund *LedgerEntry
	Order  *BundleOrder
}

// CheckoutResult summarises a cart run. Items in Remaining were never attempted.
type CheckoutResult struct {
	State     CheckoutState
	Succeeded []ItemOutcome
	Failure   *ItemFailure
	Remaining []string
}
