// Package memory is an in-process implementation of the repository ports.
// It backs the service tests and the STORAGE_DRIVER=memory mode.
package memory

import (
	"sync"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bundle_wallet_app/internal/core/ports/repositories"
)

// Store holds all state. mu guards the maps; the keyed locks serialize
// ledger units of work per account and per reference code.
type Store struct {
	mu sync.RWMutex

	users    map[string]domain.User
	accounts map[string]domain.Account
	entries  []domain.LedgerEntry
	// successRefs maps a reference code to its successful entry.
	successRefs map[string]string
	entryIndex  map[string]int

	orders        map[string]domain.BundleOrder
	orderForEntry map[string]string

	accountLocks *keyedMutex
	refLocks     *keyedMutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:         make(map[string]domain.User),
		accounts:      make(map[string]domain.Account),
		entries:       make([]domain.LedgerEntry, 0),
		successRefs:   make(map[string]string),
		entryIndex:    make(map[string]int),
		orders:        make(map[string]domain.BundleOrder),
		orderForEntry: make(map[string]string),
		accountLocks:  newKeyedMutex(),
		refLocks:      newKeyedMutex(),
	}
}

// NewRepositoryProvider exposes a fresh store through the repository ports.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return NewStore().RepositoryProvider()
}

// RepositoryProvider exposes this store through the repository ports.
func (s *Store) RepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   s,
		LedgerRepo:    s,
		UserRepo:      s,
		OrderRepo:     s,
		ReportingRepo: s,
	}
}

var (
	_ portsrepo.AccountReader          = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade = (*Store)(nil)
	_ portsrepo.UserRepositoryFacade   = (*Store)(nil)
	_ portsrepo.OrderRepositoryFacade  = (*Store)(nil)
	_ portsrepo.ReportingRepository    = (*Store)(nil)
)

// keyedMutex hands out one mutex per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}
