package services

import (
	portsrepo "github.com/plutoken/plubot_backend/internal/core/ports/repositories"
	portssvc "github.com/plutoken/plubot_backend/internal/core/ports/services"
	"github.com/plutoken/plubot_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, collab portssvc.Collaborators) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, collab.KeyGen)
	container.Kyc = NewKycService(repos.KycRepo, cfg.MaxKycAttempts, cfg.MaxKycEdits)

	// Ledger comes before Purchase since purchase quoting goes through it.
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.AccountRepo, collab.PriceSource, cfg.Fees, cfg.NativeAsset)
	container.Purchase = NewPurchaseService(repos.PurchaseRepo, repos.AccountRepo, container.Ledger, collab.Linker, collab.Verifier, cfg.PaymentConfirmTimeout)

	return container
}
