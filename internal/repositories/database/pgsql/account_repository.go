package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bundle_wallet_app/internal/core/ports/repositories"
	"github.com/SscSPs/bundle_wallet_app/internal/models"
	"github.com/SscSPs/bundle_wallet_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountReader {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountReader = (*PgxAccountRepository)(nil)

const selectAccountSQL = `SELECT account_id, balance, created_at, updated_at FROM accounts WHERE account_id = $1`

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return scanAccount(ctx, r.Pool, selectAccountSQL, accountID)
}

func scanAccount(ctx context.Context, q querier, query string, accountID string) (*domain.Account, error) {
	var m models.Account
	err := q.QueryRow(ctx, query, accountID).Scan(&m.AccountID, &m.Balance, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}
