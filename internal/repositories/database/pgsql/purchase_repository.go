package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plutoken/plubot_backend/internal/apperrors"
	"github.com/plutoken/plubot_backend/internal/core/domain"
	portsrepo "github.com/plutoken/plubot_backend/internal/core/ports/repositories"
	"github.com/plutoken/plubot_backend/internal/models"
	"github.com/shopspring/decimal"
)

type PgxPurchaseRepository struct {
	BaseRepository
}

// newPgxPurchaseRepository creates a new repository for purchase intents.
func newPgxPurchaseRepository(pool *pgxpool.Pool) portsrepo.PurchaseRepository {
	return &PgxPurchaseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPurchaseRepository implements portsrepo.PurchaseRepository
var _ portsrepo.PurchaseRepository = (*PgxPurchaseRepository)(nil)

func toModelPurchase(d domain.PendingPurchase) models.PendingPurchase {
	return models.PendingPurchase{
		PurchaseID:       d.PurchaseID,
		AccountID:        d.AccountID,
		Amount:           d.Amount,
		Asset:            d.Asset,
		QuotedTotal:      d.QuotedTotal,
		Channel:          d.Channel,
		PaymentReference: d.PaymentReference,
		Status:           models.PurchaseStatus(d.Status),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainPurchase(m models.PendingPurchase) domain.PendingPurchase {
	return domain.PendingPurchase{
		PurchaseID:       m.PurchaseID,
		AccountID:        m.AccountID,
		Amount:           m.Amount,
		Asset:            m.Asset,
		QuotedTotal:      m.QuotedTotal,
		Channel:          m.Channel,
		PaymentReference: m.PaymentReference,
		Status:           domain.PurchaseStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

const purchaseColumns = `purchase_id, account_id, amount, asset, quoted_total, channel, payment_reference, status, created_at, last_updated_at`

func scanPurchase(row pgx.Row) (models.PendingPurchase, error) {
	var m models.PendingPurchase
	err := row.Scan(
		&m.PurchaseID,
		&m.AccountID,
		&m.Amount,
		&m.Asset,
		&m.QuotedTotal,
		&m.Channel,
		&m.PaymentReference,
		&m.Status,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SavePurchase persists a new Pending intent. The partial unique index on
// (account_id, channel) WHERE status = 'PENDING' rejects a second open intent
// for the same pair.
func (r *PgxPurchaseRepository) SavePurchase(ctx context.Context, purchase domain.PendingPurchase) error {
	modelPur := toModelPurchase(purchase)

	query := `
		INSERT INTO pending_purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelPur.PurchaseID,
		modelPur.AccountID,
		modelPur.Amount,
		modelPur.Asset,
		modelPur.QuotedTotal,
		modelPur.Channel,
		modelPur.PaymentReference,
		modelPur.Status,
		modelPur.CreatedAt,
		modelPur.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: open purchase intent for account %s via %s", apperrors.ErrDuplicate, modelPur.AccountID, modelPur.Channel)
			}
		}
		return fmt.Errorf("failed to save purchase intent %s: %w", modelPur.PurchaseID, err)
	}
	return nil
}

// classifyMissingPending distinguishes "already confirmed" from "never created"
// for a pair with no Pending row.
func classifyMissingPending(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, accountID, channel string) error {
	var confirmed bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pending_purchases WHERE account_id = $1 AND channel = $2 AND status = $3);`,
		accountID, channel, models.PurchaseStatus(domain.PurchaseConfirmed)).Scan(&confirmed)
	if err != nil {
		return fmt.Errorf("failed to check confirmed intents for account %s: %w", accountID, err)
	}
	if confirmed {
		return fmt.Errorf("%w: purchase for account %s via %s", apperrors.ErrAlreadyConfirmed, accountID, channel)
	}
	return fmt.Errorf("%w: account %s via %s", apperrors.ErrNoPendingIntent, accountID, channel)
}

// FindPendingByChannel retrieves the single Pending intent for the pair.
func (r *PgxPurchaseRepository) FindPendingByChannel(ctx context.Context, accountID, channel string) (*domain.PendingPurchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM pending_purchases WHERE account_id = $1 AND channel = $2 AND status = $3;`

	m, err := scanPurchase(r.Pool.QueryRow(ctx, query, accountID, channel, models.PurchaseStatus(domain.PurchasePending)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, classifyMissingPending(ctx, r.Pool, accountID, channel)
		}
		return nil, fmt.Errorf("failed to find pending intent for account %s via %s: %w", accountID, channel, err)
	}

	pur := toDomainPurchase(m)
	return &pur, nil
}

// ConfirmAndCredit marks the pair's Pending intent Confirmed and credits its
// amount through the ledger, both in one transaction under row locks. A lost
// race or a retry after success lands on the Confirmed row and returns
// ErrAlreadyConfirmed without a second credit.
func (r *PgxPurchaseRepository) ConfirmAndCredit(ctx context.Context, accountID, channel string, reason string) (*domain.PendingPurchase, decimal.Decimal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer r.Rollback(ctx, tx)

	query := `SELECT ` + purchaseColumns + ` FROM pending_purchases WHERE account_id = $1 AND channel = $2 AND status = $3 FOR UPDATE;`
	m, err := scanPurchase(tx.QueryRow(ctx, query, accountID, channel, models.PurchaseStatus(domain.PurchasePending)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, decimal.Zero, classifyMissingPending(ctx, tx, accountID, channel)
		}
		return nil, decimal.Zero, fmt.Errorf("failed to lock pending intent for account %s via %s: %w", accountID, channel, err)
	}

	pur := toDomainPurchase(m)
	if err := pur.Confirm(); err != nil {
		return nil, decimal.Zero, err
	}

	now := time.Now().UTC()
	pur.LastUpdatedAt = now
	_, err = tx.Exec(ctx, `UPDATE pending_purchases SET status = $2, last_updated_at = $3 WHERE purchase_id = $1;`,
		pur.PurchaseID, models.PurchaseStatus(pur.Status), now)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to confirm purchase intent %s: %w", pur.PurchaseID, err)
	}

	newBalance, err := applyDeltaTx(ctx, tx, accountID, pur.Amount, reason, now)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, decimal.Zero, err
	}
	return &pur, newBalance, nil
}

// ListPurchases retrieves an account's intents, newest first.
func (r *PgxPurchaseRepository) ListPurchases(ctx context.Context, accountID string, limit int, offset int) ([]domain.PendingPurchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM pending_purchases WHERE account_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3;`

	rows, err := r.Pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase intents for account %s: %w", accountID, err)
	}
	defer rows.Close()

	purchases := make([]domain.PendingPurchase, 0)
	for rows.Next() {
		m, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase intent row: %w", err)
		}
		purchases = append(purchases, toDomainPurchase(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchase intent rows: %w", err)
	}
	return purchases, nil
}
