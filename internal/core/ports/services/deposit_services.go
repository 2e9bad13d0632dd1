package services

import (
	"context"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
)

// DepositSvcFacade credits wallets from confirmed gateway payments.
type DepositSvcFacade interface {
	// HandleWebhook verifies and processes a raw gateway webhook. It returns a nil
	// entry for events that are valid but not relevant.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*domain.LedgerEntry, error)

	// InitializeDeposit starts a gateway payment for amount pesewas tagged with the caller's account.
	InitializeDeposit(ctx context.Context, accountID string, amount int64) (*domain.PaymentInit, error)

	// VerifyDeposit asks the gateway for the outcome of reference and credits accountID.
	VerifyDeposit(ctx context.Context, accountID string, reference string) (*domain.LedgerEntry, error)
}

// PaymentGateway is the subset of the payment provider's API the wallet needs.
type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, email string, amount int64, accountID string) (*domain.PaymentInit, error)
	VerifyTransaction(ctx context.Context, reference string) (*domain.PaymentCharge, error)
	VerifyWebhookSignature(payload []byte, signature string) bool
	// ParseChargeEvent decodes a webhook body. ok is false for event types other than a successful charge.
	ParseChargeEvent(payload []byte) (charge *domain.PaymentCharge, ok bool, err error)
}
