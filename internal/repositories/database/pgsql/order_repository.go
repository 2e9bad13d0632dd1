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

const orderColumns = `order_id, account_id, entry_id, package_id, recipient_msisdn, network_id,
	shared_bundle, amount, status, external_code, message, refund_entry_id, created_at`

type PgxOrderRepository struct {
	BaseRepository
}

func newPgxOrderRepository(pool *pgxpool.Pool) portsrepo.OrderRepositoryFacade {
	return &PgxOrderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OrderRepositoryFacade = (*PgxOrderRepository)(nil)

func (r *PgxOrderRepository) SaveOrder(ctx context.Context, order domain.BundleOrder) error {
	m := mapping.ToModelBundleOrder(order)
	query := `
		INSERT INTO bundle_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.OrderID,
		m.AccountID,
		m.EntryID,
		m.PackageID,
		m.RecipientMsisdn,
		m.NetworkID,
		m.SharedBundle,
		m.Amount,
		m.Status,
		m.ExternalCode,
		m.Message,
		m.RefundEntryID,
		m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order for entry %s: %w", order.EntryID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save bundle order: %w", err)
	}
	return nil
}

func (r *PgxOrderRepository) SettleOrder(ctx context.Context, orderID string, status domain.OrderStatus, externalCode string, message string) error {
	query := `
		UPDATE bundle_orders
		SET status = $1, external_code = $2, message = $3
		WHERE order_id = $4 AND status = 'pending';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, string(status), mapping.NullString(externalCode), message, orderID)
	if err != nil {
		return fmt.Errorf("failed to settle order %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("pending order %s: %w", orderID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxOrderRepository) AttachRefund(ctx context.Context, orderID string, refundEntryID string) error {
	cmdTag, err := r.Pool.Exec(ctx,
		`UPDATE bundle_orders SET refund_entry_id = $1 WHERE order_id = $2`,
		refundEntryID, orderID)
	if err != nil {
		return fmt.Errorf("failed to attach refund to order %s: %w", orderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("order %s: %w", orderID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxOrderRepository) FindOrderByEntryID(ctx context.Context, entryID string) (*domain.BundleOrder, error) {
	var m models.BundleOrder
	err := scanOrderRow(r.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM bundle_orders WHERE entry_id = $1`, entryID), &m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order for entry %s: %w", entryID, err)
	}
	order := mapping.ToDomainBundleOrder(m)
	return &order, nil
}

func (r *PgxOrderRepository) ListOrdersByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.BundleOrder, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + orderColumns + `
		FROM bundle_orders
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query bundle orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.BundleOrder{}
	for rows.Next() {
		var m models.BundleOrder
		if err := scanOrderRow(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan bundle order row: %w", err)
		}
		orders = append(orders, mapping.ToDomainBundleOrder(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bundle order rows: %w", err)
	}
	return orders, nil
}

func scanOrderRow(row pgx.Row, m *models.BundleOrder) error {
	return row.Scan(
		&m.OrderID,
		&m.AccountID,
		&m.EntryID,
		&m.PackageID,
		&m.RecipientMsisdn,
		&m.NetworkID,
		&m.SharedBundle,
		&m.Amount,
		&m.Status,
		&m.ExternalCode,
		&m.Message,
		&m.RefundEntryID,
		&m.CreatedAt,
	)
}
