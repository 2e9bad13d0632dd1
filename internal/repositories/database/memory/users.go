package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
)

func (s *Store) CreateUserWithAccount(ctx context.Context, user domain.User, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.UserID]; ok {
		return fmt.Errorf("user %s: %w", user.UserID, apperrors.ErrDuplicate)
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return fmt.Errorf("user with email %s: %w", user.Email, apperrors.ErrDuplicate)
		}
		if user.ProviderUserID != "" && u.AuthProvider == user.AuthProvider && u.ProviderUserID == user.ProviderUserID {
			return fmt.Errorf("user for provider %s: %w", user.AuthProvider, apperrors.ErrDuplicate)
		}
	}
	if _, ok := s.accounts[account.AccountID]; ok {
		return fmt.Errorf("account %s: %w", account.AccountID, apperrors.ErrDuplicate)
	}

	s.users[user.UserID] = user
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) FindUserByProvider(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.AuthProvider == provider && u.ProviderUserID == providerUserID {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiry *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	u.RefreshTokenHash = tokenHash
	u.RefreshTokenExpiryTime = nil
	if expiry != nil {
		t := *expiry
		u.RefreshTokenExpiryTime = &t
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[userID] = u
	return nil
}
