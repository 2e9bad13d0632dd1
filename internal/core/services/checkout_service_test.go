package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/bundle_wallet_app/internal/core/services"
	"github.com/SscSPs/bundle_wallet_app/internal/repositories/database/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const mtnNumber = "0241234567"

// settleFailingStore fails SettleOrder while failSettle is set.
type settleFailingStore struct {
	*memory.Store
	failSettle bool
}

func (s *settleFailingStore) SettleOrder(ctx context.Context, orderID string, status domain.OrderStatus, externalCode string, message string) error {
	if s.failSettle {
		return errors.New("connection reset")
	}
	return s.Store.SettleOrder(ctx, orderID, status, externalCode, message)
}

type CheckoutServiceTestSuite struct {
	suite.Suite
	store     *memory.Store
	ledger    portssvc.LedgerSvcFacade
	catalog   portssvc.CatalogSvcFacade
	deliverer *MockDeliverer
	service   portssvc.CheckoutSvcFacade
}

func (suite *CheckoutServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.ledger = services.NewLedgerService(suite.store, suite.store, services.WithClock(steppingClock()))
	suite.catalog = services.NewCatalogService(nil)
	suite.deliverer = new(MockDeliverer)
	suite.service = suite.newService(true)
}

func (suite *CheckoutServiceTestSuite) newService(refund bool) portssvc.CheckoutSvcFacade {
	return services.NewCheckoutService(suite.ledger, suite.catalog, suite.store, suite.deliverer, refund)
}

func (suite *CheckoutServiceTestSuite) balance(accountID string) int64 {
	account, err := suite.ledger.GetAccount(context.Background(), accountID)
	suite.Require().NoError(err)
	return account.Balance
}

func (suite *CheckoutServiceTestSuite) deliverySucceeds() {
	suite.deliverer.On("Deliver", mock.Anything, mock.AnythingOfType("domain.DeliveryRequest")).
		Return(&domain.DeliveryResult{Success: true, TransactionCode: "TX-1", Message: "ok"}, nil)
}

func (suite *CheckoutServiceTestSuite) TestCheckout_AllItemsDelivered() {
	ctx := context.Background()
	accountID := seedAccount(suite.store, 10000)
	suite.deliverySucceeds()

	result, err := suite.service.Checkout(ctx, accountID, "key-1", []domain.CheckoutItem{
		{ItemID: "a", PackageID: "mtn-2", RecipientMsisdn: mtnNumber},
		{ItemID: "b", PackageID: "telecel-3", RecipientMsisdn: "+233 20 123 4567"},
	})

	suite.Require().NoError(err)
	suite.Equal(domain.CheckoutCompleted, result.State)
	suite.Nil(result.Failure)
	suite.Require().Len(result.Succeeded, 2)
	suite.Empty(result.Remaining)
	suite.Equal(services.PurchaseReference(accountID, "key-1", "a"), result.Succeeded[0].Entry.ReferenceCode)
	suite.Equal("0201234567", result.Succeeded[1].Order.RecipientMsisdn)
	suite.Equal(domain.OrderStatusDelivered, result.Succeeded[1].Order.Status)
	suite.Equal("TX-1", result.Succeeded[1].Order.ExternalCode)
	suite.Equal(int64(7000), suite.balance(accountID))

	suite.deliverer.AssertCalled(suite.T(), "Deliver", mock.Anything, domain.DeliveryRequest{
		RecipientMsisdn: "0201234567", NetworkID: domain.NetworkTelecel, SharedBundle: 203,
	})

	orders, err := suite.service.ListOrders(ctx, accountID, 0, 0)
	suite.Require().NoError(err)
	suite.Len(orders, 2)
}

// A wallet of 15 GHS buys the 10 GHS item and fails the 20 GHS one.
func (suite *CheckoutServiceTestSuite) TestCheckout_StopsAtInsufficientFunds() {
	ctx := context.Background()
	accountID := seedAccount(suite.store, 1500)
	suite.deliverySucceeds()

	result, err := suite.service.Checkout(ctx, accountID, "key-2", []domain.CheckoutItem{
		{ItemID: "a", PackageID: "mtn-2", RecipientMsisdn: mtnNumber},
		{ItemID: "b", PackageID: "mtn-3", RecipientMsisdn: mtnNumber},
		{ItemID: "c", PackageID: "mtn-1", RecipientMsisdn: mtnNumber},
	})

	suite.Require().NoError(err)
	suite.Equal(domain.CheckoutFailed, result.State)
	suite.Require().Len(result.Succeeded, 1)
	suite.Equal("a", result.Succeeded[0].ItemID)
	suite.Require().NotNil(result.Failure)
	suite.Equal("b", result.Failure.ItemID)
	suite.Equal(domain.FailureInsufficientFunds, result.Failure.Reason)
	suite.Require().NotNil(result.Failure.Entry)
	suite.Equal(domain.EntryStatusFailed, result.Failure.Entry.Status)
	suite.Equal([]string{"c"}, result.Remaining)
	suite.Equal(int64(500), suite.balance(accountID))
	suite.deliverer.AssertNumberOfCalls(suite.T(), "Deliver", 1)
}

func (suite *CheckoutServiceTestSuite) TestCheckout_ReplayDoesNotChargeOrDeliverTwice() {
	ctx := context.Background()
	accountID := seedAccount(suite.store, 5000)
	suite.deliverySucceeds()
	items := []domain.CheckoutItem{
		{ItemID: "a", PackageID: "mtn-2", RecipientMsisdn: mtnNumber},
		{ItemID: "b", PackageID: "mtn-3", RecipientMsisdn: mtnNumber},
	}

	first, err := suite.service.Checkout(ctx, accountID, "key-3", items)
	suite.Require().NoError(err)
	second, err := suite.service.Checkout(ctx, accountID, "key-3", items)
	suite.Require().NoError(err)

	suite.Equal(domain.CheckoutCompleted, second.State)
	suite.Equal(first.Succeeded[0].Entry.EntryID, second.Succeeded[0].Entry.EntryID)
	suite.Equal(first.Succeeded[1].Order.OrderID, second.Succeeded[1].Order.OrderID)
	suite.Equal(int64(2000), suite.balance(accountID))
	suite.deliverer.AssertNumberOfCalls(suite.T(), "Deliver", 2)
}

func (suite *CheckoutServiceTestSuite) TestCheckout_DeliveryFailureIsRefunded() {
	ctx := context.Background()
	accountID := seedAccount(suite.store, 3000)
	suite.deliverer.On("Deliver", mock.Anything, mock.Anything).
		Return(&domain.DeliveryResult{Success: false, Message: "network busy"}, nil).Once()

	result, err := suite.service.Checkout(ctx, accountID, "key-4", []domain.CheckoutItem{
		{ItemID: "a", PackageID: "mtn-2", RecipientMsisdn: mtnNumber},
		{ItemID: "b", PackageID: "mtn-1", RecipientMsisdn: mtnNumber},
	})

	suite.Require().NoError(err)
	suite.Equal(domain.CheckoutFailed, result.State)
	suite.Require().NotNil(result.Failure)
	suite.Equal(domain.FailureDeliveryFailed, result.Failure.Reason)
	suite.Contains(result.Failure.Error, "network busy")
	suite.Require().NotNil(result.Failure.Refund)
	suite.Equal(domain.EntryKindRefund, result.Failure.Refund.Kind)
	suite.Equal(int64(1000), result.Failure.Refund.Amount)
	suite.Equal(services.RefundReference(result.Failure.Entry.EntryID), result.Failure.Refund.ReferenceCode)
	suite.Equal([]string{"b"}, result.Remaining)
	suite.Equal(int64(3000), suite.balance(accountID))

	order, err := suite.store.FindOrderByEntryID(ctx, result.Failure.Entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStatusDeliveryFailed, order.Status)
	suite.Equal(result.Failure.Refund.EntryID, order.RefundEntryID)

	// Retrying the same cart does not refund twice or re-deliver the failed item.
	retry, err := suite.service.Checkout(ctx, accountID, "key-4", []domain.CheckoutItem{
		{ItemID: "a", PackageID: "mtn-2", RecipientMsisdn: mtnNumber},
	})
	suite.Require().NoError(err)
	suite.Equal(result.Failure.Refund.EntryID, retry.Failure.Refund.EntryID)
	suite.Equal(int64(3000), suite.balance(accountID))
	suite.deliverer.AssertNumberOfCalls(suite.T(), "Deliver", 1)
}

func (suite *CheckoutServiceTestSuite) TestCheckout_DeliveryErrorIsRefunded() {
	ctx := context.Background()
	accountID := seedAccount(suite.store, 1000)
	suite.deliverer.On("Deliver", mock.Anything, mock.Anything).Return(nil, errors.New("context deadline exceeded")).Once()

	result, err := suite.service.Checkout(ctx, accountID, "key-5", []domain.CheckoutItem{
		{ItemID: "a", PackageID: "mtn-2", RecipientMsisdn: mtnNumber},
	})

	suite.Require().NoError(err)
	suite.Equal(domain.FailureDeliveryFailed, result.Failure.Reason)
	suite.NotNil(result.Failure.Refund)
	suite.Equal(int64(1000), suite.balance(accountID))
}

func (suite *CheckoutServiceTestSuite) TestCheckout_RefundDisabledKeepsCharge() {
	ctx := context.Background()
	accountID := seedAccount(suite.store, 1000)
	suite.deliverer.On("Deliver", mock.Anything, mock.Anything).
		Return(&domain.DeliveryResult{Success: false, Message: "rejected"}, nil).Once()
	items := []domain.CheckoutItem{{ItemID: "a", PackageID: "mtn-2", RecipientMsisdn: mtnNumber}}

	result, err := suite.newService(false).Checkout(ctx, accountID, "key-6", items)
	suite.Require().NoError(err)
	suite.Nil(result.Failure.Refund)
	suite.Equal(int64(0), suite.balance(accountID))

	// Once refunds are enabled, replaying the cart settles the missing refund.
	replay, err := suite.service.Checkout(ctx, accountID, "key-6", items)
	suite.Require().NoError(err)
	suite.NotNil(replay.Failure.Refund)
	suite.Equal(int64(1000), suite.balance(accountID))
	suite.deliverer.AssertNumberOfCalls(suite.T(), "Deliver", 1)
}

func (suite *CheckoutServiceTestSuite) TestCheckout_InvalidItems() {
	ctx := context.Background()
	accountID := seedAccount(suite.store, 5000)

	tests := []struct {
		name string
		item domain.CheckoutItem
	}{
		{"invalid recipient", domain.CheckoutItem{ItemID: "a", PackageID: "mtn-1", RecipientMsisdn: "0301234567"}},
		{"unknown package", domain.CheckoutItem{ItemID: "a", PackageID: "glo-1", RecipientMsisdn: mtnNumber}},
		{"network mismatch", domain.CheckoutItem{ItemID: "a", PackageID: "telecel-1", RecipientMsisdn: mtnNumber}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			result, err := suite.service.Checkout(ctx, accountID, "key-"+tt.name, []domain.CheckoutItem{tt.item})
			suite.Require().NoError(err)
			suite.Equal(domain.CheckoutFailed, result.State)
			suite.Equal(domain.FailureInvalidItem, result.Failure.Reason)
			suite.Nil(result.Failure.Entry)
		})
	}
	suite.Equal(int64(5000), suite.balance(accountID))
	suite.Len(allEntries(suite.store, accountID), 1)
	suite.deliverer.AssertNotCalled(suite.T(), "Deliver", mock.Anything, mock.Anything)
}

func (suite *CheckoutServiceTestSuite) TestCheckout_RejectsMalformedCarts() {
	ctx := context.Background()
	accountID := seedAccount(suite.store, 5000)
	item := domain.CheckoutItem{ItemID: "a", PackageID: "mtn-1", RecipientMsisdn: mtnNumber}

	_, err := suite.service.Checkout(ctx, accountID, "", []domain.CheckoutItem{item})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.Checkout(ctx, accountID, "k", nil)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.Checkout(ctx, accountID, "k", []domain.CheckoutItem{item, item})
	suite.ErrorIs(err, apperrors.ErrValidation)

	tooMany := make([]domain.CheckoutItem, 21)
	for i := range tooMany {
		tooMany[i] = domain.CheckoutItem{ItemID: string(rune('a' + i)), PackageID: "mtn-1", RecipientMsisdn: mtnNumber}
	}
	_, err = suite.service.Checkout(ctx, accountID, "k", tooMany)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.Checkout(ctx, "no-such-account", "k", []domain.CheckoutItem{item})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CheckoutServiceTestSuite) TestCheckout_ChangedItemUnderSameKeyIsInvalid() {
	ctx := context.Background()
	accountID := seedAccount(suite.store, 5000)
	suite.deliverySucceeds()

	_, err := suite.service.Checkout(ctx, accountID, "key-7", []domain.CheckoutItem{
		{ItemID: "a", PackageID: "mtn-1", RecipientMsisdn: mtnNumber},
	})
	suite.Require().NoError(err)

	result, err := suite.service.Checkout(ctx, accountID, "key-7", []domain.CheckoutItem{
		{ItemID: "a", PackageID: "mtn-3", RecipientMsisdn: mtnNumber},
	})
	suite.Require().NoError(err)
	suite.Equal(domain.FailureInvalidItem, result.Failure.Reason)
	suite.Equal(int64(4500), suite.balance(accountID))
}

func (suite *CheckoutServiceTestSuite) TestCheckout_SameKeyOnDifferentAccounts() {
	ctx := context.Background()
	alice := seedAccount(suite.store, 5000)
	bob := seedAccount(suite.store, 5000)
	suite.deliverySucceeds()
	items := []domain.CheckoutItem{{ItemID: "1", PackageID: "mtn-2", RecipientMsisdn: mtnNumber}}

	first, err := suite.service.Checkout(ctx, alice, "cart-1", items)
	suite.Require().NoError(err)
	second, err := suite.service.Checkout(ctx, bob, "cart-1", items)
	suite.Require().NoError(err)

	suite.Equal(domain.CheckoutCompleted, first.State)
	suite.Require().Equal(domain.CheckoutCompleted, second.State)
	suite.NotEqual(first.Succeeded[0].Entry.EntryID, second.Succeeded[0].Entry.EntryID)
	suite.Equal(bob, second.Succeeded[0].Entry.AccountID)
	suite.Equal(int64(4000), suite.balance(alice))
	suite.Equal(int64(4000), suite.balance(bob))
	suite.deliverer.AssertNumberOfCalls(suite.T(), "Deliver", 2)
}

func (suite *CheckoutServiceTestSuite) TestCheckout_ConcurrentSameKeyDeliversOnce() {
	ctx := context.Background()
	accountID := seedAccount(suite.store, 10000)
	suite.deliverer.On("Deliver", mock.Anything, mock.Anything).
		After(50*time.Millisecond).
		Return(&domain.DeliveryResult{Success: true, TransactionCode: "TX-1"}, nil)
	items := []domain.CheckoutItem{{ItemID: "a", PackageID: "mtn-2", RecipientMsisdn: mtnNumber}}

	results := make([]*domain.CheckoutResult, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := suite.service.Checkout(ctx, accountID, "key-race", items)
			suite.NoError(err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	suite.deliverer.AssertNumberOfCalls(suite.T(), "Deliver", 1)
	suite.Equal(int64(9000), suite.balance(accountID))
	for _, res := range results {
		suite.Require().NotNil(res)
		if res.State == domain.CheckoutCompleted {
			continue
		}
		suite.Require().NotNil(res.Failure)
		suite.Equal(domain.FailureInternal, res.Failure.Reason)
		suite.Nil(res.Failure.Refund)
	}
}

func (suite *CheckoutServiceTestSuite) TestCheckout_UnsettledOrderIsNotRedelivered() {
	ctx := context.Background()
	accountID := seedAccount(suite.store, 2000)
	suite.deliverySucceeds()
	orders := &settleFailingStore{Store: suite.store, failSettle: true}
	service := services.NewCheckoutService(suite.ledger, suite.catalog, orders, suite.deliverer, true)
	items := []domain.CheckoutItem{{ItemID: "a", PackageID: "mtn-2", RecipientMsisdn: mtnNumber}}

	first, err := service.Checkout(ctx, accountID, "key-8", items)
	suite.Require().NoError(err)
	suite.Equal(domain.CheckoutFailed, first.State)
	suite.Equal(domain.FailureInternal, first.Failure.Reason)
	suite.Require().NotNil(first.Failure.Order)
	suite.Equal(domain.OrderStatusPending, first.Failure.Order.Status)

	orders.failSettle = false
	retry, err := service.Checkout(ctx, accountID, "key-8", items)
	suite.Require().NoError(err)
	suite.Equal(domain.FailureInternal, retry.Failure.Reason)
	suite.Nil(retry.Failure.Refund)
	suite.Equal(first.Failure.Order.OrderID, retry.Failure.Order.OrderID)

	order, err := suite.store.FindOrderByEntryID(ctx, first.Failure.Entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.OrderStatusPending, order.Status)
	suite.Equal(int64(1000), suite.balance(accountID))
	suite.deliverer.AssertNumberOfCalls(suite.T(), "Deliver", 1)
}

func TestCheckoutServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}
