package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bundle_wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/bundle_wallet_app/internal/dto"
	"github.com/SscSPs/bundle_wallet_app/internal/utils/pagination"
	"github.com/google/uuid"
)

const (
	defaultEntryPageSize = 20
	maxEntryPageSize     = 100

	insufficientFundsDescription = "insufficient funds"
)

type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	publisher   portssvc.LedgerEventPublisher
	now         func() time.Time
}

// LedgerOption is a functional option for configuring the ledger service
type LedgerOption func(*ledgerService)

// WithEventPublisher publishes every newly committed entry.
func WithEventPublisher(p portssvc.LedgerEventPublisher) LedgerOption {
	return func(s *ledgerService) {
		s.publisher = p
	}
}

// WithClock overrides the time source used for entry timestamps.
func WithClock(now func() time.Time) LedgerOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates the ledger service.
func NewLedgerService(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerRepositoryFacade, options ...LedgerOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func validateApplyRequest(req domain.ApplyRequest) error {
	if req.AccountID == "" {
		return fmt.Errorf("%w: account id is required", apperrors.ErrValidation)
	}
	if !req.Kind.IsValid() {
		return fmt.Errorf("%w: unknown entry kind %q", apperrors.ErrValidation, req.Kind)
	}
	if req.Amount == 0 {
		return fmt.Errorf("%w: amount must be non-zero", apperrors.ErrInvalidAmount)
	}
	if req.Kind.IsCredit() && req.Amount < 0 {
		return fmt.Errorf("%w: %s amount must be positive", apperrors.ErrInvalidAmount, req.Kind)
	}
	if !req.Kind.IsCredit() && req.Amount > 0 {
		return fmt.Errorf("%w: %s amount must be negative", apperrors.ErrInvalidAmount, req.Kind)
	}
	return nil
}

// replayOf returns the stored entry when it was produced by req, or ErrReferenceConflict.
func replayOf(req domain.ApplyRequest, existing *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	if !req.SameOperation(*existing) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrReferenceConflict, req.ReferenceCode)
	}
	return existing, nil
}

func (s *ledgerService) Apply(ctx context.Context, req domain.ApplyRequest) (*domain.LedgerEntry, error) {
	if err := validateApplyRequest(req); err != nil {
		return nil, err
	}

	var result *domain.LedgerEntry
	replayed := false

	err := s.ledgerRepo.RunInAccountTx(ctx, func(uow portsrepo.LedgerUnitOfWork) error {
		account, err := uow.LockAccount(ctx, req.AccountID)
		if err != nil {
			return err
		}

		if req.ReferenceCode != "" {
			existing, err := uow.FindSuccessfulEntryByReference(ctx, req.ReferenceCode)
			if err == nil {
				replayed = true
				result, err = replayOf(req, existing)
				return err
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
		}

		if req.Amount > 0 && account.Balance > math.MaxInt64-req.Amount {
			return fmt.Errorf("%w: balance would overflow", apperrors.ErrInvalidAmount)
		}

		now := s.now()
		entry := domain.LedgerEntry{
			EntryID:       uuid.NewString(),
			AccountID:     account.AccountID,
			Amount:        req.Amount,
			Kind:          req.Kind,
			ReferenceCode: req.ReferenceCode,
			Description:   req.Description,
			BalanceBefore: account.Balance,
			CreatedAt:     now,
		}

		newBalance := account.Balance + req.Amount
		if newBalance < 0 {
			entry.Status = domain.EntryStatusFailed
			entry.BalanceAfter = account.Balance
			entry.Description = insufficientFundsDescription
			if err := uow.InsertEntry(ctx, entry); err != nil {
				return err
			}
			result = &entry
			return nil
		}

		entry.Status = domain.EntryStatusSuccess
		entry.BalanceAfter = newBalance
		if err := uow.UpdateBalance(ctx, account.AccountID, newBalance, now); err != nil {
			return err
		}
		if err := uow.InsertEntry(ctx, entry); err != nil {
			return err
		}
		result = &entry
		return nil
	})

	if errors.Is(err, apperrors.ErrDuplicate) && req.ReferenceCode != "" {
		// Lost the race on the reference index; the winner is committed by now.
		existing, findErr := s.ledgerRepo.FindSuccessfulEntryByReference(ctx, req.ReferenceCode)
		if findErr != nil {
			s.LogError(ctx, findErr, "Failed to re-read entry after duplicate reference",
				slog.String("reference_code", req.ReferenceCode))
			return nil, fmt.Errorf("failed to resolve duplicate reference %q: %w", req.ReferenceCode, findErr)
		}
		return replayOf(req, existing)
	}
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrReferenceConflict) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Ledger apply failed",
				slog.String("account_id", req.AccountID),
				slog.String("kind", string(req.Kind)),
				slog.Int64("amount", req.Amount))
		}
		return nil, err
	}

	if replayed {
		s.LogDebug(ctx, "Ledger apply replayed",
			slog.String("entry_id", result.EntryID),
			slog.String("reference_code", req.ReferenceCode))
		return result, nil
	}

	s.LogInfo(ctx, "Ledger entry committed",
		slog.String("entry_id", result.EntryID),
		slog.String("account_id", result.AccountID),
		slog.String("kind", string(result.Kind)),
		slog.String("status", string(result.Status)),
		slog.Int64("amount", result.Amount),
		slog.Int64("balance_after", result.BalanceAfter))
	s.publish(ctx, *result)
	return result, nil
}

func (s *ledgerService) publish(ctx context.Context, entry domain.LedgerEntry) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEntryCommitted(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to publish ledger entry event", slog.String("entry_id", entry.EntryID))
	}
}

func (s *ledgerService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// GetEntry hides entries belonging to other accounts behind ErrNotFound.
func (s *ledgerService) GetEntry(ctx context.Context, accountID string, entryID string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.AccountID != accountID {
		return nil, apperrors.ErrNotFound
	}
	return entry, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	return listEntries(ctx, s.ledgerRepo, accountID, params)
}

// listEntries is shared with the admin service, which passes an empty accountID.
func listEntries(ctx context.Context, reader portsrepo.LedgerReader, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	entries, nextToken, err := reader.ListEntries(ctx, portsrepo.EntryQuery{
		AccountID: accountID,
		Status:    domain.EntryStatus(params.Status),
		Limit:     pagination.ClampLimit(params.Limit, defaultEntryPageSize, maxEntryPageSize),
		NextToken: params.NextToken,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}
