package domain

import (
	"github.com/shopspring/decimal"
)

// Product represents a catalog item. The reference price is optional: a
// product created mid-draft starts without one, and the first committed
// invoice line implies it.
type Product struct {
	ProductID int64               `json:"productID"` // Assigned by the store on add
	Name      string              `json:"name"`      // Unique by convention, not enforced
	Price     decimal.NullDecimal `json:"price"`     // Invalid == "no price set"
	AuditFields
}

// HasPrice reports whether a reference price has been set.
func (p Product) HasPrice() bool {
	return p.Price.Valid
}

// PriceOrZero returns the reference price, or zero when none is set.
// New invoice lines are seeded with this value.
func (p Product) PriceOrZero() decimal.Decimal {
	if p.Price.Valid {
		return p.Price.Decimal
	}
	return decimal.Zero
}
