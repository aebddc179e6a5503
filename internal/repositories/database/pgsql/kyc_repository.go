package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plutoken/plubot_backend/internal/apperrors"
	"github.com/plutoken/plubot_backend/internal/core/domain"
	portsrepo "github.com/plutoken/plubot_backend/internal/core/ports/repositories"
	"github.com/plutoken/plubot_backend/internal/models"
)

type PgxKycRepository struct {
	BaseRepository
}

// newPgxKycRepository creates a new repository for verification records.
func newPgxKycRepository(pool *pgxpool.Pool) portsrepo.KycRepository {
	return &PgxKycRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxKycRepository implements portsrepo.KycRepository
var _ portsrepo.KycRepository = (*PgxKycRepository)(nil)

func toModelKyc(d domain.KycRecord) models.KycRecord {
	return models.KycRecord{
		AccountID:   d.AccountID,
		FullName:    d.FullName,
		DateOfBirth: d.DateOfBirth,
		IDNumber:    d.IDNumber,
		EvidenceRef: d.EvidenceRef,
		Status:      models.KycStatus(d.Status),
		Attempts:    d.Attempts,
		Edited:      d.Edited,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainKyc(m models.KycRecord) domain.KycRecord {
	return domain.KycRecord{
		AccountID:   m.AccountID,
		FullName:    m.FullName,
		DateOfBirth: m.DateOfBirth,
		IDNumber:    m.IDNumber,
		EvidenceRef: m.EvidenceRef,
		Status:      domain.KycStatus(m.Status),
		Attempts:    m.Attempts,
		Edited:      m.Edited,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

const kycColumns = `account_id, full_name, date_of_birth, id_number, evidence_ref, status, attempts, edited, created_at, last_updated_at`

func scanKyc(row pgx.Row) (models.KycRecord, error) {
	var m models.KycRecord
	err := row.Scan(
		&m.AccountID,
		&m.FullName,
		&m.DateOfBirth,
		&m.IDNumber,
		&m.EvidenceRef,
		&m.Status,
		&m.Attempts,
		&m.Edited,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// FindKycByAccountID retrieves the verification record for an account.
func (r *PgxKycRepository) FindKycByAccountID(ctx context.Context, accountID string) (*domain.KycRecord, error) {
	query := `SELECT ` + kycColumns + ` FROM kyc_records WHERE account_id = $1;`

	m, err := scanKyc(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: kyc record for account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find kyc record for account %s: %w", accountID, err)
	}

	rec := toDomainKyc(m)
	return &rec, nil
}

// MutateKyc runs apply against the account's record inside a transaction.
// The parent account row is locked first, which both verifies registration and
// serializes concurrent submissions, including the very first one when no
// kyc_records row exists yet. An error from apply aborts with no state change.
func (r *PgxKycRepository) MutateKyc(ctx context.Context, accountID string, apply func(*domain.KycRecord) error) (*domain.KycRecord, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT true FROM accounts WHERE account_id = $1 FOR UPDATE;`, accountID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account with ID %s", apperrors.ErrNotRegistered, accountID)
		}
		return nil, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}

	now := time.Now().UTC()
	rec := domain.KycRecord{AccountID: accountID, Status: domain.KycNone}
	inserting := false

	m, err := scanKyc(tx.QueryRow(ctx, `SELECT `+kycColumns+` FROM kyc_records WHERE account_id = $1 FOR UPDATE;`, accountID))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to lock kyc record for account %s: %w", accountID, err)
		}
		inserting = true
		rec.CreatedAt = now
	} else {
		rec = toDomainKyc(m)
	}

	if err := apply(&rec); err != nil {
		return nil, err
	}
	rec.LastUpdatedAt = now

	modelRec := toModelKyc(rec)
	if inserting {
		query := `
			INSERT INTO kyc_records (` + kycColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`
		_, err = tx.Exec(ctx, query,
			modelRec.AccountID,
			modelRec.FullName,
			modelRec.DateOfBirth,
			modelRec.IDNumber,
			modelRec.EvidenceRef,
			modelRec.Status,
			modelRec.Attempts,
			modelRec.Edited,
			modelRec.CreatedAt,
			modelRec.LastUpdatedAt,
		)
	} else {
		query := `
			UPDATE kyc_records
			SET full_name = $2, date_of_birth = $3, id_number = $4, evidence_ref = $5,
			    status = $6, attempts = $7, edited = $8, last_updated_at = $9
			WHERE account_id = $1;
		`
		_, err = tx.Exec(ctx, query,
			modelRec.AccountID,
			modelRec.FullName,
			modelRec.DateOfBirth,
			modelRec.IDNumber,
			modelRec.EvidenceRef,
			modelRec.Status,
			modelRec.Attempts,
			modelRec.Edited,
			modelRec.LastUpdatedAt,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write kyc record for account %s: %w", accountID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteKyc removes the record entirely, returning the account to an
// unverified state with a fresh attempt budget.
func (r *PgxKycRepository) DeleteKyc(ctx context.Context, accountID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM kyc_records WHERE account_id = $1;`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete kyc record for account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: kyc record for account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// ListKycRecords retrieves a paginated list of all records for moderators.
func (r *PgxKycRepository) ListKycRecords(ctx context.Context, limit int, offset int) ([]domain.KycRecord, error) {
	query := `SELECT ` + kycColumns + ` FROM kyc_records ORDER BY last_updated_at DESC LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list kyc records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.KycRecord, 0)
	for rows.Next() {
		m, err := scanKyc(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan kyc row: %w", err)
		}
		records = append(records, toDomainKyc(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kyc rows: %w", err)
	}
	return records, nil
}
