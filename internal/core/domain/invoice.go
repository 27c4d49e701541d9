package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceKind distinguishes the sales and purchase invoice collections.
type InvoiceKind string

const (
	SalesInvoice    InvoiceKind = "SALES"
	PurchaseInvoice InvoiceKind = "PURCHASE"
)

// ContactKindFor returns the counterparty collection for this invoice kind.
func (k InvoiceKind) ContactKindFor() ContactKind {
	if k == PurchaseInvoice {
		return Supplier
	}
	return Customer
}

// InvoiceLine is one priced position on an invoice. ProductName is a snapshot
// taken when the line is created, so a later product rename or delete never
// alters a persisted invoice. Total is derived, never set independently.
type InvoiceLine struct {
	ProductID   int64           `json:"productID"`
	ProductName string          `json:"productName"` // Snapshot
	Quantity    int64           `json:"quantity"`    // >= 1
	Price       decimal.Decimal `json:"price"`       // Unit price, >= 0
	Total       decimal.Decimal `json:"total"`       // Quantity * Price
}

// Recalculate refreshes the derived line total.
func (l *InvoiceLine) Recalculate() {
	l.Total = l.Price.Mul(decimal.NewFromInt(l.Quantity))
}

// Invoice is a committed sales or purchase invoice. Invoices are immutable
// once committed: they are created once and only read thereafter. ContactName
// is a snapshot for the same reason as InvoiceLine.ProductName.
type Invoice struct {
	InvoiceID   int64           `json:"invoiceID"` // Assigned by the store on add
	Kind        InvoiceKind     `json:"kind"`
	ContactID   int64           `json:"contactID"`
	ContactName string          `json:"contactName"` // Snapshot
	Lines       []InvoiceLine   `json:"lines"`       // Ordered
	Total       decimal.Decimal `json:"total"`       // Sum of line totals, stored for fast listing
	CreatedAt   time.Time       `json:"createdAt"`
}
