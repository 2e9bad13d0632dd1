package services

import (
	"context"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	"github.com/SscSPs/bundle_wallet_app/internal/dto"
)

// AdminSvcFacade backs the operator dashboard.
type AdminSvcFacade interface {
	// IsAdmin reports whether the user's email is on the configured admin list.
	IsAdmin(ctx context.Context, userID string) (bool, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.UserBalance, error)
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
	// ExportEntries returns up to limit entries across all accounts, newest first.
	ExportEntries(ctx context.Context, limit int) ([]domain.LedgerEntry, error)
	GetStats(ctx context.Context) (*domain.PlatformStats, error)
}
