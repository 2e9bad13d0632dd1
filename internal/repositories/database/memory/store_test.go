package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bundle_wallet_app/internal/core/ports/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func seededStore(t *testing.T, accountIDs ...string) *Store {
	t.Helper()
	s := NewStore()
	for _, id := range accountIDs {
		err := s.CreateUserWithAccount(context.Background(),
			domain.User{UserID: id, Email: id + "@example.com"},
			domain.Account{AccountID: id})
		require.NoError(t, err)
	}
	return s
}

func credit(s *Store, accountID, entryID, ref string, amount int64, at time.Time) error {
	return s.RunInAccountTx(context.Background(), func(uow portsrepo.LedgerUnitOfWork) error {
		acc, err := uow.LockAccount(context.Background(), accountID)
		if err != nil {
			return err
		}
		entry := domain.LedgerEntry{
			EntryID: entryID, AccountID: accountID, Amount: amount,
			Kind: domain.EntryKindDeposit, Status: domain.EntryStatusSuccess,
			ReferenceCode: ref, BalanceBefore: acc.Balance, BalanceAfter: acc.Balance + amount,
			CreatedAt: at,
		}
		if err := uow.InsertEntry(context.Background(), entry); err != nil {
			return err
		}
		return uow.UpdateBalance(context.Background(), accountID, entry.BalanceAfter, at)
	})
}

func TestCreateUserWithAccount_Duplicates(t *testing.T) {
	s := seededStore(t, "u1")

	err := s.CreateUserWithAccount(context.Background(),
		domain.User{UserID: "u2", Email: "u1@example.com"}, domain.Account{AccountID: "u2"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	_, err = s.FindAccountByID(context.Background(), "u2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "account must not exist without its user")
}

func TestRunInAccountTx_CommitsStagedWrites(t *testing.T) {
	s := seededStore(t, "acc")

	require.NoError(t, credit(s, "acc", "e1", "ref-1", 700, baseTime))

	acc, err := s.FindAccountByID(context.Background(), "acc")
	require.NoError(t, err)
	assert.Equal(t, int64(700), acc.Balance)

	got, err := s.FindSuccessfulEntryByReference(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "e1", got.EntryID)
}

func TestRunInAccountTx_ErrorDiscardsStagedWrites(t *testing.T) {
	s := seededStore(t, "acc")
	boom := errors.New("boom")

	err := s.RunInAccountTx(context.Background(), func(uow portsrepo.LedgerUnitOfWork) error {
		if _, err := uow.LockAccount(context.Background(), "acc"); err != nil {
			return err
		}
		require.NoError(t, uow.InsertEntry(context.Background(), domain.LedgerEntry{
			EntryID: "e1", AccountID: "acc", Amount: 500, Status: domain.EntryStatusSuccess, ReferenceCode: "ref-1",
		}))
		require.NoError(t, uow.UpdateBalance(context.Background(), "acc", 500, baseTime))

		// Staged state is visible inside the unit of work.
		acc, err := uow.LockAccount(context.Background(), "acc")
		require.NoError(t, err)
		assert.Equal(t, int64(500), acc.Balance)
		staged, err := uow.FindSuccessfulEntryByReference(context.Background(), "ref-1")
		require.NoError(t, err)
		assert.Equal(t, "e1", staged.EntryID)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	acc, err := s.FindAccountByID(context.Background(), "acc")
	require.NoError(t, err)
	assert.Equal(t, int64(0), acc.Balance)
	_, err = s.FindEntryByID(context.Background(), "e1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = s.FindSuccessfulEntryByReference(context.Background(), "ref-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUnitOfWork_Guards(t *testing.T) {
	s := seededStore(t, "acc")

	err := s.RunInAccountTx(context.Background(), func(uow portsrepo.LedgerUnitOfWork) error {
		return uow.UpdateBalance(context.Background(), "acc", 100, baseTime)
	})
	assert.Error(t, err, "balance updates require the account lock")

	err = s.RunInAccountTx(context.Background(), func(uow portsrepo.LedgerUnitOfWork) error {
		if _, err := uow.LockAccount(context.Background(), "acc"); err != nil {
			return err
		}
		return uow.UpdateBalance(context.Background(), "acc", -1, baseTime)
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	err = s.RunInAccountTx(context.Background(), func(uow portsrepo.LedgerUnitOfWork) error {
		_, err := uow.LockAccount(context.Background(), "missing")
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.RunInAccountTx(ctx, func(uow portsrepo.LedgerUnitOfWork) error {
		t.Fatal("must not run with a cancelled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInsertEntry_DuplicateSuccessfulReference(t *testing.T) {
	s := seededStore(t, "acc")
	require.NoError(t, credit(s, "acc", "e1", "ref-1", 100, baseTime))

	err := credit(s, "acc", "e2", "ref-1", 100, baseTime.Add(time.Second))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	// Failed entries may share a reference.
	err = s.RunInAccountTx(context.Background(), func(uow portsrepo.LedgerUnitOfWork) error {
		return uow.InsertEntry(context.Background(), domain.LedgerEntry{
			EntryID: "e3", AccountID: "acc", Status: domain.EntryStatusFailed, ReferenceCode: "ref-1",
		})
	})
	assert.NoError(t, err)

	acc, err := s.FindAccountByID(context.Background(), "acc")
	require.NoError(t, err)
	assert.Equal(t, int64(100), acc.Balance)
}

func TestConcurrentCreditsSameReference(t *testing.T) {
	s := seededStore(t, "a", "b")

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Alternate accounts so the reference lock, not the account lock, is what serializes them.
			account := "a"
			if i%2 == 1 {
				account = "b"
			}
			errs[i] = credit(s, account, "e"+string(rune('A'+i)), "shared-ref", 100, baseTime)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	}
	assert.Equal(t, 1, succeeded)

	a, _ := s.FindAccountByID(context.Background(), "a")
	b, _ := s.FindAccountByID(context.Background(), "b")
	assert.Equal(t, int64(100), a.Balance+b.Balance)
}

func TestListEntries_CursorPagination(t *testing.T) {
	s := seededStore(t, "acc", "other")
	for i, id := range []string{"e1", "e2", "e3", "e4", "e5"} {
		require.NoError(t, credit(s, "acc", id, "ref-"+id, 100, baseTime.Add(time.Duration(i)*time.Minute)))
	}
	require.NoError(t, credit(s, "other", "x1", "ref-x1", 100, baseTime))

	var seen []string
	var token *string
	for page := 0; page < 5; page++ {
		entries, next, err := s.ListEntries(context.Background(), portsrepo.EntryQuery{AccountID: "acc", Limit: 2, NextToken: token})
		require.NoError(t, err)
		for _, e := range entries {
			seen = append(seen, e.EntryID)
		}
		if next == nil {
			break
		}
		token = next
	}
	assert.Equal(t, []string{"e5", "e4", "e3", "e2", "e1"}, seen)

	all, next, err := s.ListEntries(context.Background(), portsrepo.EntryQuery{Limit: 10})
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Len(t, all, 6)

	bad := "not-a-cursor"
	_, _, err = s.ListEntries(context.Background(), portsrepo.EntryQuery{NextToken: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestListEntries_StatusFilter(t *testing.T) {
	s := seededStore(t, "acc")
	require.NoError(t, credit(s, "acc", "ok", "ref-ok", 100, baseTime))
	require.NoError(t, s.RunInAccountTx(context.Background(), func(uow portsrepo.LedgerUnitOfWork) error {
		return uow.InsertEntry(context.Background(), domain.LedgerEntry{
			EntryID: "bad", AccountID: "acc", Amount: -500, Status: domain.EntryStatusFailed,
			BalanceBefore: 100, BalanceAfter: 100, CreatedAt: baseTime.Add(time.Minute),
		})
	}))

	failed, _, err := s.ListEntries(context.Background(), portsrepo.EntryQuery{AccountID: "acc", Status: domain.EntryStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "bad", failed[0].EntryID)
}

func TestOrders(t *testing.T) {
	s := seededStore(t, "acc")
	require.NoError(t, credit(s, "acc", "e1", "ref-1", 1000, baseTime))

	order := domain.BundleOrder{OrderID: "o1", AccountID: "acc", EntryID: "e1", Amount: 1000, Status: domain.OrderStatusPending, CreatedAt: baseTime}
	require.NoError(t, s.SaveOrder(context.Background(), order))
	assert.ErrorIs(t, s.SaveOrder(context.Background(), domain.BundleOrder{OrderID: "o2", EntryID: "e1"}), apperrors.ErrDuplicate)
	assert.ErrorIs(t, s.SaveOrder(context.Background(), domain.BundleOrder{OrderID: "o3", EntryID: "nope"}), apperrors.ErrNotFound)

	require.NoError(t, s.SettleOrder(context.Background(), "o1", domain.OrderStatusDeliveryFailed, "", "busy"))
	assert.ErrorIs(t, s.SettleOrder(context.Background(), "o1", domain.OrderStatusDelivered, "TX", ""), apperrors.ErrNotFound, "settled orders are final")
	assert.ErrorIs(t, s.SettleOrder(context.Background(), "missing", domain.OrderStatusDelivered, "TX", ""), apperrors.ErrNotFound)

	require.NoError(t, s.AttachRefund(context.Background(), "o1", "r1"))
	got, err := s.FindOrderByEntryID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDeliveryFailed, got.Status)
	assert.Equal(t, "busy", got.Message)
	assert.Equal(t, "r1", got.RefundEntryID)

	list, err := s.ListOrdersByAccount(context.Background(), "acc", 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
