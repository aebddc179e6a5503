package repositories

// RepositoryProvider bundles the concrete repositories for wiring in main.
type RepositoryProvider struct {
	AccountRepo  AccountRepositoryFacade
	KycRepo      KycRepository
	LedgerRepo   LedgerRepository
	PurchaseRepo PurchaseRepository
}
