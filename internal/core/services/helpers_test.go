package services_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bundle_wallet_app/internal/core/ports/repositories"
	"github.com/SscSPs/bundle_wallet_app/internal/repositories/database/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// seedAccount registers a user with a wallet holding balance pesewas.
func seedAccount(store *memory.Store, balance int64) string {
	ctx := context.Background()
	now := time.Now().UTC()
	id := uuid.NewString()
	user := domain.User{
		UserID:       id,
		Email:        id + "@example.com",
		Name:         "Test User",
		AuthProvider: domain.ProviderLocal,
		Timestamps:   domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	if err := store.CreateUserWithAccount(ctx, user, domain.Account{AccountID: id, Timestamps: user.Timestamps}); err != nil {
		panic(err)
	}
	if balance > 0 {
		// Seed through a unit of work so the opening balance has a matching entry.
		err := store.RunInAccountTx(ctx, func(uow portsrepo.LedgerUnitOfWork) error {
			if _, err := uow.LockAccount(ctx, id); err != nil {
				return err
			}
			if err := uow.UpdateBalance(ctx, id, balance, now); err != nil {
				return err
			}
			return uow.InsertEntry(ctx, domain.LedgerEntry{
				EntryID:       uuid.NewString(),
				AccountID:     id,
				Amount:        balance,
				Kind:          domain.EntryKindDeposit,
				Status:        domain.EntryStatusSuccess,
				ReferenceCode: "seed-" + id,
				Description:   "opening balance",
				BalanceBefore: 0,
				BalanceAfter:  balance,
				CreatedAt:     now,
			})
		})
		if err != nil {
			panic(err)
		}
	}
	return id
}

// allEntries reads every entry for an account, oldest first.
func allEntries(store *memory.Store, accountID string) []domain.LedgerEntry {
	entries, _, err := store.ListEntries(context.Background(), portsrepo.EntryQuery{AccountID: accountID, Limit: 100000})
	if err != nil {
		panic(err)
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

// MockEventPublisher records published entries.
type MockEventPublisher struct {
	mu        sync.Mutex
	published []domain.LedgerEntry
	err       error
}

func (m *MockEventPublisher) PublishEntryCommitted(ctx context.Context, entry domain.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, entry)
	return m.err
}

func (m *MockEventPublisher) Close() error { return nil }

func (m *MockEventPublisher) Published() []domain.LedgerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.LedgerEntry, len(m.published))
	copy(out, m.published)
	return out
}

// MockDeliverer is a mock type for the BundleDeliverer interface
type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(ctx context.Context, req domain.DeliveryRequest) (*domain.DeliveryResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryResult), args.Error(1)
}

// MockPaymentGateway is a mock type for the PaymentGateway interface
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) InitializeTransaction(ctx context.Context, email string, amount int64, accountID string) (*domain.PaymentInit, error) {
	args := m.Called(ctx, email, amount, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentInit), args.Error(1)
}

func (m *MockPaymentGateway) VerifyTransaction(ctx context.Context, reference string) (*domain.PaymentCharge, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentCharge), args.Error(1)
}

func (m *MockPaymentGateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	args := m.Called(payload, signature)
	return args.Bool(0)
}

func (m *MockPaymentGateway) ParseChargeEvent(payload []byte) (*domain.PaymentCharge, bool, error) {
	args := m.Called(payload)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.PaymentCharge), args.Bool(1), args.Error(2)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) RunInAccountTx(ctx context.Context, fn func(uow portsrepo.LedgerUnitOfWork) error) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindSuccessfulEntryByReference(ctx context.Context, referenceCode string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, referenceCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntries(ctx context.Context, query portsrepo.EntryQuery) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, query)
	var token *string
	if t := args.Get(1); t != nil {
		token = t.(*string)
	}
	if args.Get(0) == nil {
		return nil, token, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), token, args.Error(2)
}

// steppingClock returns strictly increasing timestamps so entry order is deterministic.
func steppingClock() func() time.Time {
	base := time.Now().UTC().Add(time.Second)
	var n int64
	return func() time.Time {
		return base.Add(time.Duration(atomic.AddInt64(&n, 1)) * time.Millisecond)
	}
}
