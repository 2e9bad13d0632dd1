package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bundle_wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/google/uuid"
)

type depositService struct {
	BaseService
	ledger   portssvc.LedgerWriterSvc
	gateway  portssvc.PaymentGateway
	userRepo portsrepo.UserReader
}

// NewDepositService creates the service that turns gateway charges into wallet credits.
func NewDepositService(ledger portssvc.LedgerWriterSvc, gateway portssvc.PaymentGateway, userRepo portsrepo.UserReader) portssvc.DepositSvcFacade {
	return &depositService{ledger: ledger, gateway: gateway, userRepo: userRepo}
}

var _ portssvc.DepositSvcFacade = (*depositService)(nil)

// DepositDescription is the ledger description for a gateway deposit.
func DepositDescription(reference string) string {
	return "Paystack Deposit: " + reference
}

func (s *depositService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*domain.LedgerEntry, error) {
	if !s.gateway.VerifyWebhookSignature(payload, signature) {
		s.LogWarn(ctx, "Rejected webhook with invalid signature")
		return nil, fmt.Errorf("%w: invalid webhook signature", apperrors.ErrUnauthorized)
	}

	charge, ok, err := s.gateway.ParseChargeEvent(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed webhook payload: %v", apperrors.ErrValidation, err)
	}
	if !ok {
		s.LogDebug(ctx, "Ignoring webhook event")
		return nil, nil
	}

	entry, err := s.credit(ctx, charge, "")
	if err != nil {
		s.LogError(ctx, err, "Failed to credit webhook charge", slog.String("reference", charge.Reference))
		return nil, err
	}
	return entry, nil
}

func (s *depositService) InitializeDeposit(ctx context.Context, accountID string, amount int64) (*domain.PaymentInit, error) {
	if amount < domain.MinDepositAmount || amount > domain.MaxDepositAmount {
		return nil, fmt.Errorf("%w: deposit must be between %d and %d pesewas",
			apperrors.ErrInvalidAmount, domain.MinDepositAmount, domain.MaxDepositAmount)
	}
	user, err := s.userRepo.FindUserByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	payment, err := s.gateway.InitializeTransaction(ctx, user.Email, amount, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to initialize deposit", slog.String("account_id", accountID))
		return nil, err
	}
	s.LogInfo(ctx, "Deposit initialized",
		slog.String("account_id", accountID),
		slog.String("reference", payment.Reference),
		slog.Int64("amount", amount))
	return payment, nil
}

func (s *depositService) VerifyDeposit(ctx context.Context, accountID string, reference string) (*domain.LedgerEntry, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("%w: reference is required", apperrors.ErrValidation)
	}
	charge, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		s.LogError(ctx, err, "Failed to verify deposit", slog.String("reference", reference))
		return nil, err
	}
	return s.credit(ctx, charge, accountID)
}

// credit applies a settled charge. A non-empty expectedAccountID must match the charge's owner.
func (s *depositService) credit(ctx context.Context, charge *domain.PaymentCharge, expectedAccountID string) (*domain.LedgerEntry, error) {
	if charge.Status != domain.ChargeStatusSuccess {
		return nil, fmt.Errorf("%w: payment %s is %q", apperrors.ErrValidation, charge.Reference, charge.Status)
	}
	if !strings.EqualFold(charge.Currency, domain.CurrencyGHS) {
		return nil, fmt.Errorf("%w: unsupported currency %q", apperrors.ErrValidation, charge.Currency)
	}
	if charge.Reference == "" {
		return nil, fmt.Errorf("%w: payment reference is missing", apperrors.ErrValidation)
	}

	accountID, err := s.resolveAccount(ctx, charge)
	if err != nil {
		return nil, err
	}
	if expectedAccountID != "" && accountID != expectedAccountID {
		return nil, fmt.Errorf("%w: payment belongs to another account", apperrors.ErrForbidden)
	}

	return s.ledger.Apply(ctx, domain.ApplyRequest{
		AccountID:     accountID,
		Amount:        charge.Amount,
		Kind:          domain.EntryKindDeposit,
		ReferenceCode: charge.Reference,
		Description:   DepositDescription(charge.Reference),
	})
}

func (s *depositService) resolveAccount(ctx context.Context, charge *domain.PaymentCharge) (string, error) {
	if charge.AccountID != "" {
		// Metadata is client-influenced; account ids are UUIDs.
		if _, err := uuid.Parse(charge.AccountID); err != nil {
			return "", fmt.Errorf("%w: payment %s has a malformed account id", apperrors.ErrValidation, charge.Reference)
		}
		return charge.AccountID, nil
	}
	if charge.CustomerEmail == "" {
		return "", fmt.Errorf("%w: payment %s has no account metadata or customer email", apperrors.ErrValidation, charge.Reference)
	}
	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(charge.CustomerEmail)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("no wallet for payment %s: %w", charge.Reference, apperrors.ErrNotFound)
		}
		return "", err
	}
	return user.UserID, nil
}
