package models

// Account represents a brokerage account whose ledger is tracked.
// Accounts are created by the ingestion pipeline; the engine only reads
// them to scope queries.
type Account struct {
	Base
	Name     string `gorm:"not null" json:"name"`
	Number   string `gorm:"uniqueIndex" json:"number"`
	Broker   string `json:"broker,omitempty"`
	Currency string `gorm:"not null;default:'CAD'" json:"currency"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
