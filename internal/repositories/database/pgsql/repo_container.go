package pgsql

import (
	portsrepo "github.com/SscSPs/bundle_wallet_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool),
		LedgerRepo:    newPgxLedgerRepository(dbPool),
		UserRepo:      newPgxUserRepository(dbPool),
		OrderRepo:     newPgxOrderRepository(dbPool),
		ReportingRepo: newReportingRepository(dbPool),
	}
}
