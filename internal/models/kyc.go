package models

// KycStatus mirrors domain.KycStatus for persistence.
type KycStatus string

// KycRecord represents a verification record row, one per account.
type KycRecord struct {
	AccountID   string    `db:"account_id"`
	FullName    string    `db:"full_name"`
	DateOfBirth string    `db:"date_of_birth"`
	IDNumber    string    `db:"id_number"`
	EvidenceRef string    `db:"evidence_ref"`
	Status      KycStatus `db:"status"`
	Attempts    int       `db:"attempts"`
	Edited      int       `db:"edited"`
	AuditFields
}
