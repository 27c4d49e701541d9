package services

import (
	"context"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/medrar/medrar_books_app/internal/dto"
)

// LedgerSvcFacade is the single owner of contact balance mutations. Invoices
// add their total to the counterparty balance; payments subtract their
// amount. Both writes are atomic with the record that caused them.
type LedgerSvcFacade interface {
	// PostInvoice validates and persists a committed invoice, adjusting the
	// counterparty balance by the invoice total in the same transaction.
	// Returns the invoice with its assigned identity.
	PostInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error)

	// RecordPayment validates and persists a payment, adjusting the contact
	// balance by -amount in the same transaction.
	RecordPayment(ctx context.Context, kind domain.ContactKind, contactID int64, req dto.RecordPaymentRequest) (*domain.Payment, error)

	// ListPayments returns all payments of the kind, newest first.
	ListPayments(ctx context.Context, kind domain.ContactKind) ([]domain.Payment, error)
}
