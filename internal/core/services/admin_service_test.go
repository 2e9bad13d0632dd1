package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portssvc "github.com/SscSPs/bundle_wallet_app/internal/core/ports/services"
	"github.com/SscSPs/bundle_wallet_app/internal/core/services"
	"github.com/SscSPs/bundle_wallet_app/internal/dto"
	"github.com/SscSPs/bundle_wallet_app/internal/repositories/database/memory"
	"github.com/stretchr/testify/suite"
)

type AdminServiceTestSuite struct {
	suite.Suite
	store   *memory.Store
	ledger  portssvc.LedgerSvcFacade
	service portssvc.AdminSvcFacade
	adminID string
}

func (suite *AdminServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.ledger = services.NewLedgerService(suite.store, suite.store, services.WithClock(steppingClock()))
	suite.adminID = seedAccount(suite.store, 0)
	admins := suite.adminID + "@example.com"
	suite.service = services.NewAdminService(suite.store, suite.store, suite.store, func(email string) bool {
		return strings.EqualFold(email, admins)
	})
}

func (suite *AdminServiceTestSuite) TestIsAdmin() {
	ctx := context.Background()
	other := seedAccount(suite.store, 0)

	ok, err := suite.service.IsAdmin(ctx, suite.adminID)
	suite.Require().NoError(err)
	suite.True(ok)

	ok, err = suite.service.IsAdmin(ctx, other)
	suite.Require().NoError(err)
	suite.False(ok)

	ok, err = suite.service.IsAdmin(ctx, "ghost")
	suite.Require().NoError(err)
	suite.False(ok)
}

func (suite *AdminServiceTestSuite) TestStatsAndListings() {
	ctx := context.Background()
	a := seedAccount(suite.store, 0)
	b := seedAccount(suite.store, 0)

	apply := func(req domain.ApplyRequest) {
		_, err := suite.ledger.Apply(ctx, req)
		suite.Require().NoError(err)
	}
	apply(deposit(a, 5000, "d-a"))
	apply(deposit(b, 2000, "d-b"))
	apply(purchase(a, 1000, ""))
	apply(purchase(b, 9000, ""))
	apply(domain.ApplyRequest{AccountID: a, Amount: 1000, Kind: domain.EntryKindRefund, ReferenceCode: "refund:1"})

	stats, err := suite.service.GetStats(ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(3), stats.UserCount)
	suite.Equal(int64(7000), stats.TotalBalances)
	suite.Equal(int64(7000), stats.TotalDeposits)
	suite.Equal(int64(1000), stats.TotalPurchases)
	suite.Equal(int64(1000), stats.TotalRefunds)
	suite.Equal(int64(1), stats.FailedAttemptCount)

	users, err := suite.service.ListUsers(ctx, 10, 0)
	suite.Require().NoError(err)
	suite.Len(users, 3)

	page, err := suite.service.ListEntries(ctx, dto.ListEntriesParams{Limit: 3})
	suite.Require().NoError(err)
	suite.Len(page.Entries, 3)
	suite.NotNil(page.NextToken)
	suite.Equal(domain.EntryKindRefund, page.Entries[0].Kind)

	exported, err := suite.service.ExportEntries(ctx, 0)
	suite.Require().NoError(err)
	suite.Len(exported, 5)

	limited, err := suite.service.ExportEntries(ctx, 2)
	suite.Require().NoError(err)
	suite.Len(limited, 2)
}

func TestAdminServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceTestSuite))
}
