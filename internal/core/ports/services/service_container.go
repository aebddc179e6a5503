package services

// ServiceContainer bundles the service facades for handler wiring.
type ServiceContainer struct {
	Account  AccountSvcFacade
	Kyc      KycSvcFacade
	Ledger   LedgerSvcFacade
	Purchase PurchaseSvcFacade
}

// Collaborators groups the external integrations the services depend on.
type Collaborators struct {
	KeyGen      KeyGenerator
	PriceSource PriceSource
	Linker      PaymentLinker
	Verifier    PaymentVerifier
}
