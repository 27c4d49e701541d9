package domain

import (
	"github.com/shopspring/decimal"
)

// ContactKind distinguishes the two balance-carrying counterparty collections.
type ContactKind string

const (
	Customer ContactKind = "CUSTOMER"
	Supplier ContactKind = "SUPPLIER"
)

// Contact is a customer or supplier with a running balance.
//
// Sign convention: for a customer, positive balance means the customer owes
// the business; for a supplier, positive balance means the business owes the
// supplier. Both move the same way: invoices add to the balance, payments
// subtract from it. The balance is always adjusted incrementally, never
// recomputed from invoice/payment history.
type Contact struct {
	ContactID int64           `json:"contactID"` // Assigned by the store on add
	Kind      ContactKind     `json:"kind"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"` // Optional
	Balance   decimal.Decimal `json:"balance"`
	AuditFields
}

// InvoiceKindFor returns the invoice collection that invoices for this
// contact kind belong to.
func (k ContactKind) InvoiceKindFor() InvoiceKind {
	if k == Supplier {
		return PurchaseInvoice
	}
	return SalesInvoice
}
