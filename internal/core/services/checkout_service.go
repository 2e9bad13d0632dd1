package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
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
	defaultOrderPageSize = 20
	maxOrderPageSize     = 100
)

type checkoutService struct {
	BaseService
	ledger    portssvc.LedgerSvcFacade
	catalog   portssvc.CatalogSvcFacade
	orderRepo portsrepo.OrderRepositoryFacade
	deliverer portssvc.BundleDeliverer
	// refundOnFailure credits the purchase back when delivery fails.
	refundOnFailure bool
	now             func() time.Time
}

// NewCheckoutService creates the checkout orchestrator.
func NewCheckoutService(
	ledger portssvc.LedgerSvcFacade,
	catalog portssvc.CatalogSvcFacade,
	orderRepo portsrepo.OrderRepositoryFacade,
	deliverer portssvc.BundleDeliverer,
	refundOnFailure bool,
) portssvc.CheckoutSvcFacade {
	return &checkoutService{
		ledger:          ledger,
		catalog:         catalog,
		orderRepo:       orderRepo,
		deliverer:       deliverer,
		refundOnFailure: refundOnFailure,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.CheckoutSvcFacade = (*checkoutService)(nil)

// PurchaseReference is the ledger reference code for one cart line.
// Idempotency keys are client chosen, so the reference is scoped to the account.
func PurchaseReference(accountID, idempotencyKey, itemID string) string {
	return accountID + ":" + idempotencyKey + ":" + itemID
}

// RefundReference is the ledger reference code for the refund of a purchase entry.
func RefundReference(purchaseEntryID string) string {
	return "refund:" + purchaseEntryID
}

func (s *checkoutService) Checkout(ctx context.Context, accountID string, idempotencyKey string, items []domain.CheckoutItem) (*domain.CheckoutResult, error) {
	if idempotencyKey == "" {
		return nil, fmt.Errorf("%w: idempotency key is required", apperrors.ErrValidation)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", apperrors.ErrValidation)
	}
	if len(items) > dto.MaxCartItems {
		return nil, fmt.Errorf("%w: at most %d items per checkout", apperrors.ErrValidation, dto.MaxCartItems)
	}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ItemID == "" {
			return nil, fmt.Errorf("%w: item id is required", apperrors.ErrValidation)
		}
		if seen[item.ItemID] {
			return nil, fmt.Errorf("%w: duplicate item id %q", apperrors.ErrValidation, item.ItemID)
		}
		seen[item.ItemID] = true
	}
	if _, err := s.ledger.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	result := &domain.CheckoutResult{
		State:     domain.CheckoutProcessing,
		Succeeded: []domain.ItemOutcome{},
		Remaining: []string{},
	}

	for i, item := range items {
		outcome, failure := s.processItem(ctx, accountID, idempotencyKey, item)
		if failure != nil {
			result.State = domain.CheckoutFailed
			result.Failure = failure
			for _, rest := range items[i+1:] {
				result.Remaining = append(result.Remaining, rest.ItemID)
			}
			s.LogInfo(ctx, "Checkout stopped",
				slog.String("account_id", accountID),
				slog.String("idempotency_key", idempotencyKey),
				slog.String("item_id", item.ItemID),
				slog.String("reason", string(failure.Reason)),
				slog.Int("succeeded", len(result.Succeeded)),
				slog.Int("remaining", len(result.Remaining)))
			return result, nil
		}
		result.Succeeded = append(result.Succeeded, *outcome)
	}

	result.State = domain.CheckoutCompleted
	s.LogInfo(ctx, "Checkout completed",
		slog.String("account_id", accountID),
		slog.String("idempotency_key", idempotencyKey),
		slog.Int("items", len(result.Succeeded)))
	return result, nil
}

func itemFailure(item domain.CheckoutItem, reason domain.FailureReason, msg string) *domain.ItemFailure {
	return &domain.ItemFailure{ItemID: item.ItemID, Reason: reason, Error: msg}
}

// processItem charges, delivers and records one cart line. Exactly one of the results is non-nil.
func (s *checkoutService) processItem(ctx context.Context, accountID, idempotencyKey string, item domain.CheckoutItem) (*domain.ItemOutcome, *domain.ItemFailure) {
	msisdn := domain.NormalizePhoneNumber(item.RecipientMsisdn)
	if !domain.IsValidPhoneNumber(msisdn) {
		return nil, itemFailure(item, domain.FailureInvalidItem, "invalid recipient")
	}
	network, ok := domain.DetectNetwork(msisdn)
	if !ok {
		return nil, itemFailure(item, domain.FailureInvalidItem, "unsupported recipient network")
	}
	pkg, err := s.catalog.GetPackage(ctx, item.PackageID)
	if err != nil {
		return nil, itemFailure(item, domain.FailureInvalidItem, "unknown package")
	}
	if pkg.NetworkID != network.ID {
		return nil, itemFailure(item, domain.FailureInvalidItem,
			fmt.Sprintf("package %s is not available on %s", pkg.ID, network.Name))
	}

	entry, err := s.ledger.Apply(ctx, domain.ApplyRequest{
		AccountID:     accountID,
		Amount:        -pkg.Price,
		Kind:          domain.EntryKindPurchase,
		ReferenceCode: PurchaseReference(accountID, idempotencyKey, item.ItemID),
		Description:   fmt.Sprintf("Data bundle %s %s for %s", network.Name, pkg.DataAmount, msisdn),
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrReferenceConflict) {
			return nil, itemFailure(item, domain.FailureInvalidItem, "item was already purchased with different details under this idempotency key")
		}
		s.LogError(ctx, err, "Purchase apply failed", slog.String("item_id", item.ItemID))
		return nil, itemFailure(item, domain.FailureInternal, "could not charge wallet, retry with the same idempotency key")
	}
	if !entry.IsSuccess() {
		f := itemFailure(item, domain.FailureInsufficientFunds, apperrors.ErrInsufficientFunds.Error())
		f.Entry = entry
		return nil, f
	}

	order := domain.BundleOrder{
		OrderID:         uuid.NewString(),
		AccountID:       accountID,
		EntryID:         entry.EntryID,
		PackageID:       pkg.ID,
		RecipientMsisdn: msisdn,
		NetworkID:       pkg.NetworkID,
		SharedBundle:    pkg.SharedBundle,
		Amount:          pkg.Price,
		Status:          domain.OrderStatusPending,
		CreatedAt:       s.now(),
	}

	// Only the caller that inserts the pending order for this entry may call the provider.
	if err := s.orderRepo.SaveOrder(ctx, order); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to claim bundle order", slog.String("entry_id", entry.EntryID))
			f := itemFailure(item, domain.FailureInternal, "could not record order, retry with the same idempotency key")
			f.Entry = entry
			return nil, f
		}
		winner, findErr := s.orderRepo.FindOrderByEntryID(ctx, entry.EntryID)
		if findErr != nil {
			s.LogError(ctx, findErr, "Failed to look up order for entry", slog.String("entry_id", entry.EntryID))
			f := itemFailure(item, domain.FailureInternal, "could not load order state, retry with the same idempotency key")
			f.Entry = entry
			return nil, f
		}
		return s.outcomeFromOrder(ctx, item, entry, winner)
	}

	res, err := s.deliverer.Deliver(ctx, domain.DeliveryRequest{
		RecipientMsisdn: msisdn,
		NetworkID:       pkg.NetworkID,
		SharedBundle:    pkg.SharedBundle,
	})
	switch {
	case err != nil:
		s.LogWarn(ctx, "Bundle delivery call failed",
			slog.String("entry_id", entry.EntryID),
			slog.String("error", err.Error()))
		order.Status = domain.OrderStatusDeliveryFailed
		order.Message = err.Error()
	case !res.Success:
		order.Status = domain.OrderStatusDeliveryFailed
		order.Message = res.Message
		order.ExternalCode = res.TransactionCode
	default:
		order.Status = domain.OrderStatusDelivered
		order.Message = res.Message
		order.ExternalCode = res.TransactionCode
	}

	if err := s.orderRepo.SettleOrder(ctx, order.OrderID, order.Status, order.ExternalCode, order.Message); err != nil {
		// The order stays pending, so a retry will not call the provider again.
		s.LogError(ctx, err, "Failed to settle bundle order",
			slog.String("order_id", order.OrderID),
			slog.String("entry_id", entry.EntryID),
			slog.String("status", string(order.Status)))
		pending := order
		pending.Status = domain.OrderStatusPending
		return nil, pendingFailure(item, entry, &pending)
	}

	return s.outcomeFromOrder(ctx, item, entry, &order)
}

func pendingFailure(item domain.CheckoutItem, entry *domain.LedgerEntry, order *domain.BundleOrder) *domain.ItemFailure {
	f := itemFailure(item, domain.FailureInternal, "bundle delivery is still being settled, check order status before retrying")
	f.Entry = entry
	f.Order = order
	return f
}

// outcomeFromOrder turns a recorded order into the item's result, refunding failed deliveries.
func (s *checkoutService) outcomeFromOrder(ctx context.Context, item domain.CheckoutItem, entry *domain.LedgerEntry, order *domain.BundleOrder) (*domain.ItemOutcome, *domain.ItemFailure) {
	if order.Status == domain.OrderStatusDelivered {
		return &domain.ItemOutcome{ItemID: item.ItemID, Entry: *entry, Order: *order}, nil
	}
	if !order.Status.IsSettled() {
		return nil, pendingFailure(item, entry, order)
	}

	msg := "bundle delivery failed"
	if order.Message != "" {
		msg = msg + ": " + order.Message
	}
	f := itemFailure(item, domain.FailureDeliveryFailed, msg)
	f.Entry = entry
	f.Order = order

	if !s.refundOnFailure {
		return nil, f
	}
	refund, err := s.refund(ctx, order)
	if err != nil {
		s.LogError(ctx, err, "Failed to refund undelivered bundle",
			slog.String("order_id", order.OrderID),
			slog.String("entry_id", order.EntryID))
		f.Error = msg + "; refund pending, retry with the same idempotency key"
		return nil, f
	}
	f.Refund = refund
	return nil, f
}

func (s *checkoutService) refund(ctx context.Context, order *domain.BundleOrder) (*domain.LedgerEntry, error) {
	refund, err := s.ledger.Apply(ctx, domain.ApplyRequest{
		AccountID:     order.AccountID,
		Amount:        order.Amount,
		Kind:          domain.EntryKindRefund,
		ReferenceCode: RefundReference(order.EntryID),
		Description:   fmt.Sprintf("Refund for undelivered bundle to %s", order.RecipientMsisdn),
	})
	if err != nil {
		return nil, err
	}
	if order.RefundEntryID != refund.EntryID {
		if err := s.orderRepo.AttachRefund(ctx, order.OrderID, refund.EntryID); err != nil {
			return nil, err
		}
		order.RefundEntryID = refund.EntryID
	}
	return refund, nil
}

func (s *checkoutService) ListOrders(ctx context.Context, accountID string, limit int, offset int) ([]domain.BundleOrder, error) {
	limit = pagination.ClampLimit(limit, defaultOrderPageSize, maxOrderPageSize)
	if offset < 0 {
		offset = 0
	}
	orders, err := s.orderRepo.ListOrdersByAccount(ctx, accountID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list orders", slog.String("account_id", accountID))
		return nil, err
	}
	return orders, nil
}
