package models

import "github.com/shopspring/decimal"

// ContactKind discriminates the customers and suppliers stored in the shared
// contacts table.
type ContactKind string

const (
	Customer ContactKind = "CUSTOMER"
	Supplier ContactKind = "SUPPLIER"
)

// Contact represents a row of the contacts table.
type Contact struct {
	ContactID int64           `json:"contactID"` // Primary Key (BIGSERIAL)
	Kind      ContactKind     `json:"kind"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Balance   decimal.Decimal `json:"balance"` // Moved only inside invoice/payment transactions
	AuditFields
}
