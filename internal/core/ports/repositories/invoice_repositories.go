package repositories

import (
	"context"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceReader defines read operations for committed invoices.
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its lines.
	// Returns apperrors.ErrNotFound when absent.
	FindInvoiceByID(ctx context.Context, kind domain.InvoiceKind, invoiceID int64) (*domain.Invoice, error)

	// ListInvoices returns all invoices of the kind, newest first, with lines.
	ListInvoices(ctx context.Context, kind domain.InvoiceKind) ([]domain.Invoice, error)
}

// InvoiceWriter persists committed invoices. Invoices are immutable, so Save
// is the only write.
type InvoiceWriter interface {
	// SaveInvoice persists the invoice with its lines AND applies balanceDelta
	// to the counterparty's balance in a single transaction, serialized per
	// contact. Returns the assigned invoice identity and the counterparty's
	// balance after the delta, read under the same lock. Fails with
	// apperrors.ErrNotFound (and writes nothing) when the counterparty no
	// longer exists.
	SaveInvoice(ctx context.Context, invoice domain.Invoice, balanceDelta decimal.Decimal) (int64, decimal.Decimal, error)
}

// InvoiceRepositoryFacade combines all invoice repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
