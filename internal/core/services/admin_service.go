package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bundle_wallet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/bundle_wallet_app/internal/dto"
	"github.com/SscSPs/bundle_wallet_app/internal/utils/pagination"
)

// MaxExportEntries bounds a spreadsheet export.
const MaxExportEntries = 5000

type adminService struct {
	BaseService
	userRepo      portsrepo.UserReader
	ledgerRepo    portsrepo.LedgerReader
	reportingRepo portsrepo.ReportingRepository
	isAdminEmail  func(email string) bool
}

// NewAdminService creates the admin service. isAdminEmail decides who may use it.
func NewAdminService(
	userRepo portsrepo.UserReader,
	ledgerRepo portsrepo.LedgerReader,
	reportingRepo portsrepo.ReportingRepository,
	isAdminEmail func(email string) bool,
) portssvc.AdminSvcFacade {
	return &adminService{
		userRepo:      userRepo,
		ledgerRepo:    ledgerRepo,
		reportingRepo: reportingRepo,
		isAdminEmail:  isAdminEmail,
	}
}

var _ portssvc.AdminSvcFacade = (*adminService)(nil)

func (s *adminService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.isAdminEmail(user.Email), nil
}

func (s *adminService) ListUsers(ctx context.Context, limit int, offset int) ([]domain.UserBalance, error) {
	users, err := s.reportingRepo.ListUserBalances(ctx, pagination.ClampLimit(limit, 20, 100), offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users with balances")
		return nil, err
	}
	return users, nil
}

func (s *adminService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	return listEntries(ctx, s.ledgerRepo, "", params)
}

// ExportEntries walks the cursor until limit entries are collected or the log is exhausted.
func (s *adminService) ExportEntries(ctx context.Context, limit int) ([]domain.LedgerEntry, error) {
	limit = pagination.ClampLimit(limit, MaxExportEntries, MaxExportEntries)
	entries := make([]domain.LedgerEntry, 0, maxEntryPageSize)
	var next *string
	for len(entries) < limit {
		pageSize := limit - len(entries)
		if pageSize > maxEntryPageSize {
			pageSize = maxEntryPageSize
		}
		page, token, err := s.ledgerRepo.ListEntries(ctx, portsrepo.EntryQuery{Limit: pageSize, NextToken: next})
		if err != nil {
			s.LogError(ctx, err, "Failed to export ledger entries", slog.Int("collected", len(entries)))
			return nil, err
		}
		entries = append(entries, page...)
		if token == nil {
			break
		}
		next = token
	}
	return entries, nil
}

func (s *adminService) GetStats(ctx context.Context) (*domain.PlatformStats, error) {
	stats, err := s.reportingRepo.GetPlatformStats(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate platform stats")
		return nil, err
	}
	return stats, nil
}
