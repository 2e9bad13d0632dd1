package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bundle_wallet_app/internal/core/ports/repositories"
	"github.com/SscSPs/bundle_wallet_app/internal/utils/pagination"
)

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (s *Store) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.entryIndex[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	e := s.entries[i]
	return &e, nil
}

func (s *Store) FindSuccessfulEntryByReference(ctx context.Context, referenceCode string) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.successByRefLocked(referenceCode)
}

func (s *Store) successByRefLocked(referenceCode string) (*domain.LedgerEntry, error) {
	id, ok := s.successRefs[referenceCode]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	e := s.entries[s.entryIndex[id]]
	return &e, nil
}

// ListEntries returns entries newest first, ordered by (CreatedAt, EntryID).
func (s *Store) ListEntries(ctx context.Context, q portsrepo.EntryQuery) ([]domain.LedgerEntry, *string, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	var hasCursor bool
	var lastCreatedAt time.Time
	var lastID string
	if q.NextToken != nil && *q.NextToken != "" {
		var err error
		lastCreatedAt, lastID, err = pagination.DecodeCursor(*q.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		hasCursor = true
	}

	s.mu.RLock()
	matched := make([]domain.LedgerEntry, 0)
	for _, e := range s.entries {
		if q.AccountID != "" && e.AccountID != q.AccountID {
			continue
		}
		if q.Status != "" && e.Status != q.Status {
			continue
		}
		if hasCursor && !entryBefore(e, lastCreatedAt, lastID) {
			continue
		}
		matched = append(matched, e)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return entryBefore(matched[j], matched[i].CreatedAt, matched[i].EntryID)
	})

	var nextToken *string
	if len(matched) > limit {
		last := matched[limit-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.EntryID)
		nextToken = &token
		matched = matched[:limit]
	}
	return matched, nextToken, nil
}

// entryBefore reports whether e sorts strictly before (createdAt, id) in ascending keyset order.
func entryBefore(e domain.LedgerEntry, createdAt time.Time, id string) bool {
	if !e.CreatedAt.Equal(createdAt) {
		return e.CreatedAt.Before(createdAt)
	}
	return e.EntryID < id
}

// RunInAccountTx stages fn's writes and applies them atomically when fn succeeds.
func (s *Store) RunInAccountTx(ctx context.Context, fn func(uow portsrepo.LedgerUnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	uow := &unitOfWork{
		store:    s,
		balances: make(map[string]stagedBalance),
	}
	defer uow.release()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.commit()
}

type stagedBalance struct {
	balance int64
	at      time.Time
}

type unitOfWork struct {
	store    *Store
	held     []*sync.Mutex
	locked   map[string]bool
	refsHeld map[string]bool
	balances map[string]stagedBalance
	entries  []domain.LedgerEntry
}

var _ portsrepo.LedgerUnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) LockAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	if !u.locked[accountID] {
		l := u.store.accountLocks.get(accountID)
		l.Lock()
		u.held = append(u.held, l)
		if u.locked == nil {
			u.locked = make(map[string]bool)
		}
		u.locked[accountID] = true
	}
	account, err := u.store.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if staged, ok := u.balances[accountID]; ok {
		account.Balance = staged.balance
		account.UpdatedAt = staged.at
	}
	return account, nil
}

func (u *unitOfWork) FindSuccessfulEntryByReference(ctx context.Context, referenceCode string) (*domain.LedgerEntry, error) {
	for i := range u.entries {
		if u.entries[i].ReferenceCode == referenceCode && u.entries[i].IsSuccess() {
			e := u.entries[i]
			return &e, nil
		}
	}
	return u.store.FindSuccessfulEntryByReference(ctx, referenceCode)
}

func (u *unitOfWork) UpdateBalance(ctx context.Context, accountID string, balance int64, at time.Time) error {
	if !u.locked[accountID] {
		return fmt.Errorf("account %s is not locked in this unit of work", accountID)
	}
	if balance < 0 {
		return fmt.Errorf("%w: balance for %s would be negative", apperrors.ErrValidation, accountID)
	}
	u.balances[accountID] = stagedBalance{balance: balance, at: at}
	return nil
}

// InsertEntry holds the reference lock until the unit of work ends, so a
// concurrent insert of the same successful reference waits and then sees ErrDuplicate.
func (u *unitOfWork) InsertEntry(ctx context.Context, entry domain.LedgerEntry) error {
	if entry.IsSuccess() && entry.ReferenceCode != "" {
		if !u.refsHeld[entry.ReferenceCode] {
			l := u.store.refLocks.get(entry.ReferenceCode)
			l.Lock()
			u.held = append(u.held, l)
			if u.refsHeld == nil {
				u.refsHeld = make(map[string]bool)
			}
			u.refsHeld[entry.ReferenceCode] = true
		}
		if existing, _ := u.FindSuccessfulEntryByReference(ctx, entry.ReferenceCode); existing != nil {
			return fmt.Errorf("reference %q: %w", entry.ReferenceCode, apperrors.ErrDuplicate)
		}
	}
	u.entries = append(u.entries, entry)
	return nil
}

func (u *unitOfWork) commit() error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, staged := range u.balances {
		a, ok := s.accounts[id]
		if !ok {
			return fmt.Errorf("account %s: %w", id, apperrors.ErrNotFound)
		}
		a.Balance = staged.balance
		a.UpdatedAt = staged.at
		s.accounts[id] = a
	}
	for _, e := range u.entries {
		s.entryIndex[e.EntryID] = len(s.entries)
		s.entries = append(s.entries, e)
		if e.IsSuccess() && e.ReferenceCode != "" {
			s.successRefs[e.ReferenceCode] = e.EntryID
		}
	}
	return nil
}

func (u *unitOfWork) release() {
	for i := len(u.held) - 1; i >= 0; i-- {
		u.held[i].Unlock()
	}
	u.held = nil
}
