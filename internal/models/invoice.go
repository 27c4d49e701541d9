package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceKind discriminates sales and purchase invoices in the shared
// invoices table.
type InvoiceKind string

const (
	SalesInvoice    InvoiceKind = "SALES"
	PurchaseInvoice InvoiceKind = "PURCHASE"
)

// Invoice represents a row of the invoices table. Rows are insert-only.
// ContactName is a snapshot; there is deliberately no foreign key to
// contacts, so deleting a contact leaves its invoices intact.
type Invoice struct {
	InvoiceID   int64           `json:"invoiceID"` // Primary Key (BIGSERIAL)
	Kind        InvoiceKind     `json:"kind"`
	ContactID   int64           `json:"contactID"`
	ContactName string          `json:"contactName"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// InvoiceLine represents a row of the invoice_lines table. Position preserves
// the order lines were composed in. ProductName is a snapshot and product_id
// carries no foreign key for the same reason as Invoice.ContactID.
type InvoiceLine struct {
	LineID      int64           `json:"lineID"` // Primary Key (BIGSERIAL)
	InvoiceID   int64           `json:"invoiceID"`
	Position    int             `json:"position"`
	ProductID   int64           `json:"productID"`
	ProductName string          `json:"productName"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}
