package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/bundle_wallet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bundle_wallet_app/internal/core/ports/repositories"
	"github.com/SscSPs/bundle_wallet_app/internal/models"
	"github.com/SscSPs/bundle_wallet_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type reportingRepository struct {
	db *pgxpool.Pool
}

func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{db: db}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func (r *reportingRepository) ListUserBalances(ctx context.Context, limit int, offset int) ([]domain.UserBalance, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT u.user_id, u.email, u.name, u.phone, u.auth_provider, u.email_verified,
		       u.created_at, u.updated_at, COALESCE(a.balance, 0)
		FROM users u
		LEFT JOIN accounts a ON a.account_id = u.user_id
		ORDER BY u.created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query user balances: %w", err)
	}
	defer rows.Close()

	results := []domain.UserBalance{}
	for rows.Next() {
		var m models.User
		var balance int64
		if err := rows.Scan(
			&m.UserID,
			&m.Email,
			&m.Name,
			&m.Phone,
			&m.AuthProvider,
			&m.EmailVerified,
			&m.CreatedAt,
			&m.UpdatedAt,
			&balance,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user balance row: %w", err)
		}
		results = append(results, domain.UserBalance{User: mapping.ToDomainUser(m), Balance: balance})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user balance rows: %w", err)
	}
	return results, nil
}

// GetPlatformStats sums successful entries by kind. Purchases are reported as a positive total.
func (r *reportingRepository) GetPlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COALESCE(SUM(balance), 0) FROM accounts),
			COALESCE(SUM(amount) FILTER (WHERE status = 'success' AND kind = 'deposit'), 0),
			COALESCE(-SUM(amount) FILTER (WHERE status = 'success' AND kind = 'purchase'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'success' AND kind = 'refund'), 0),
			COUNT(*) FILTER (WHERE status = 'failed')
		FROM ledger_entries;
	`
	var stats domain.PlatformStats
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.UserCount,
		&stats.TotalBalances,
		&stats.TotalDeposits,
		&stats.TotalPurchases,
		&stats.TotalRefunds,
		&stats.FailedAttemptCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate platform stats: %w", err)
	}
	return &stats, nil
}
