package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment represents a row of the payments table. Rows are insert-only.
type Payment struct {
	PaymentID   int64           `json:"paymentID"` // Primary Key (BIGSERIAL)
	Kind        ContactKind     `json:"kind"`
	ContactID   int64           `json:"contactID"`
	ContactName string          `json:"contactName"` // Snapshot
	Amount      decimal.Decimal `json:"amount"`
	Note        string          `json:"note"`
	CreatedAt   time.Time       `json:"createdAt"`
}
