package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/plutoken/plubot_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	kycRepo := newPgxKycRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	purchaseRepo := newPgxPurchaseRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:  accountRepo,
		KycRepo:      kycRepo,
		LedgerRepo:   ledgerRepo,
		PurchaseRepo: purchaseRepo,
	}
}
