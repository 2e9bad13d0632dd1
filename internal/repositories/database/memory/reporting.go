package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
)

func (s *Store) ListUserBalances(ctx context.Context, limit int, offset int) ([]domain.UserBalance, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	results := make([]domain.UserBalance, 0, len(s.users))
	for _, u := range s.users {
		results = append(results, domain.UserBalance{User: u, Balance: s.accounts[u.UserID].Balance})
	}
	s.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return results[i].UserID > results[j].UserID
	})

	if offset >= len(results) {
		return []domain.UserBalance{}, nil
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end], nil
}

func (s *Store) GetPlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.PlatformStats{UserCount: int64(len(s.users))}
	for _, a := range s.accounts {
		stats.TotalBalances += a.Balance
	}
	for _, e := range s.entries {
		if !e.IsSuccess() {
			stats.FailedAttemptCount++
			continue
		}
		switch e.Kind {
		case domain.EntryKindDeposit:
			stats.TotalDeposits += e.Amount
		case domain.EntryKindPurchase:
			stats.TotalPurchases -= e.Amount
		case domain.EntryKindRefund:
			stats.TotalRefunds += e.Amount
		}
	}
	return &stats, nil
}
