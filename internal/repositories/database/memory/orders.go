package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
)

func (s *Store) SaveOrder(ctx context.Context, order domain.BundleOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orderForEntry[order.EntryID]; ok {
		return fmt.Errorf("order for entry %s: %w", order.EntryID, apperrors.ErrDuplicate)
	}
	if _, ok := s.entryIndex[order.EntryID]; !ok {
		return fmt.Errorf("entry %s: %w", order.EntryID, apperrors.ErrNotFound)
	}
	s.orders[order.OrderID] = order
	s.orderForEntry[order.EntryID] = order.OrderID
	return nil
}

func (s *Store) SettleOrder(ctx context.Context, orderID string, status domain.OrderStatus, externalCode string, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.Status != domain.OrderStatusPending {
		return fmt.Errorf("pending order %s: %w", orderID, apperrors.ErrNotFound)
	}
	o.Status = status
	o.ExternalCode = externalCode
	o.Message = message
	s.orders[orderID] = o
	return nil
}

func (s *Store) AttachRefund(ctx context.Context, orderID string, refundEntryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s: %w", orderID, apperrors.ErrNotFound)
	}
	o.RefundEntryID = refundEntryID
	s.orders[orderID] = o
	return nil
}

func (s *Store) FindOrderByEntryID(ctx context.Context, entryID string) (*domain.BundleOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.orderForEntry[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	o := s.orders[id]
	return &o, nil
}

func (s *Store) ListOrdersByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.BundleOrder, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	orders := []domain.BundleOrder{}
	for _, o := range s.orders {
		if o.AccountID == accountID {
			orders = append(orders, o)
		}
	}
	s.mu.RUnlock()

	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].OrderID > orders[j].OrderID
	})

	if offset >= len(orders) {
		return []domain.BundleOrder{}, nil
	}
	end := offset + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[offset:end], nil
}
