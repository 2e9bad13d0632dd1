package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bundle_wallet_app/internal/apperrors"
	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bundle_wallet_app/internal/core/ports/repositories"
	"github.com/SscSPs/bundle_wallet_app/internal/models"
	"github.com/SscSPs/bundle_wallet_app/internal/utils/mapping"
	"github.com/SscSPs/bundle_wallet_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, account_id, amount, kind, status, reference_code, description,
	balance_before, balance_after, created_at`

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// RunInAccountTx runs fn inside a single database transaction.
func (r *PgxLedgerRepository) RunInAccountTx(ctx context.Context, fn func(uow portsrepo.LedgerUnitOfWork) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := fn(&pgxLedgerUnitOfWork{tx: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE entry_id = $1`
	return scanEntry(ctx, r.Pool, query, entryID)
}

func (r *PgxLedgerRepository) FindSuccessfulEntryByReference(ctx context.Context, referenceCode string) (*domain.LedgerEntry, error) {
	return findSuccessfulByReference(ctx, r.Pool, referenceCode)
}

// ListEntries pages through entries newest first using (created_at, entry_id) as the keyset.
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, q portsrepo.EntryQuery) ([]domain.LedgerEntry, *string, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	var conds []string
	var args []any
	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.AccountID != "" {
		conds = append(conds, "account_id = "+addArg(q.AccountID))
	}
	if q.Status != "" {
		conds = append(conds, "status = "+addArg(string(q.Status)))
	}
	if q.NextToken != nil && *q.NextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeCursor(*q.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		conds = append(conds, fmt.Sprintf("(created_at, entry_id) < (%s, %s)", addArg(lastCreatedAt), addArg(lastID)))
	}

	query := `SELECT ` + entryColumns + ` FROM ledger_entries`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, entry_id DESC LIMIT " + addArg(fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	modelEntries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		var m models.LedgerEntry
		if err := scanEntryRow(rows, &m); err != nil {
			return nil, nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}

	var nextToken *string
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.EntryID)
		nextToken = &token
		modelEntries = modelEntries[:limit]
	}

	return mapping.ToDomainLedgerEntrySlice(modelEntries), nextToken, nil
}

type pgxLedgerUnitOfWork struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerUnitOfWork = (*pgxLedgerUnitOfWork)(nil)

// LockAccount takes a row lock that is held until the transaction ends.
func (u *pgxLedgerUnitOfWork) LockAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return scanAccount(ctx, u.tx, selectAccountSQL+` FOR UPDATE`, accountID)
}

func (u *pgxLedgerUnitOfWork) FindSuccessfulEntryByReference(ctx context.Context, referenceCode string) (*domain.LedgerEntry, error) {
	return findSuccessfulByReference(ctx, u.tx, referenceCode)
}

func (u *pgxLedgerUnitOfWork) UpdateBalance(ctx context.Context, accountID string, balance int64, at time.Time) error {
	cmdTag, err := u.tx.Exec(ctx,
		`UPDATE accounts SET balance = $1, updated_at = $2 WHERE account_id = $3`,
		balance, at, accountID)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found: %w", accountID, apperrors.ErrNotFound)
	}
	return nil
}

func (u *pgxLedgerUnitOfWork) InsertEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := u.tx.Exec(ctx, query,
		m.EntryID,
		m.AccountID,
		m.Amount,
		m.Kind,
		m.Status,
		m.ReferenceCode,
		m.Description,
		m.BalanceBefore,
		m.BalanceAfter,
		m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("reference %q: %w", entry.ReferenceCode, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

func findSuccessfulByReference(ctx context.Context, q querier, referenceCode string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE reference_code = $1 AND status = 'success'`
	return scanEntry(ctx, q, query, referenceCode)
}

func scanEntry(ctx context.Context, q querier, query string, arg string) (*domain.LedgerEntry, error) {
	var m models.LedgerEntry
	if err := scanEntryRow(q.QueryRow(ctx, query, arg), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger entry: %w", err)
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

func scanEntryRow(row pgx.Row, m *models.LedgerEntry) error {
	return row.Scan(
		&m.EntryID,
		&m.AccountID,
		&m.Amount,
		&m.Kind,
		&m.Status,
		&m.ReferenceCode,
		&m.Description,
		&m.BalanceBefore,
		&m.BalanceAfter,
		&m.CreatedAt,
	)
}
