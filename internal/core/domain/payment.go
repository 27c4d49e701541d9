package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a cash payment recorded against a customer or supplier balance.
// Immutable once created.
type Payment struct {
	PaymentID   int64           `json:"paymentID"` // Assigned by the store on add
	Kind        ContactKind     `json:"kind"`
	ContactID   int64           `json:"contactID"`
	ContactName string          `json:"contactName"` // Snapshot
	Amount      decimal.Decimal `json:"amount"`      // > 0
	Note        string          `json:"note"`        // Optional free text
	CreatedAt   time.Time       `json:"createdAt"`
}
