package repositories

import (
	"context"

	"github.com/medrar/medrar_books_app/internal/core/domain"
)

// ContactReader defines read operations for customer/supplier data.
// Every operation is scoped by kind: customers and suppliers are separate
// collections that happen to share a shape.
type ContactReader interface {
	// FindContactByID retrieves a contact by kind and identity.
	// Returns apperrors.ErrNotFound when absent.
	FindContactByID(ctx context.Context, kind domain.ContactKind, contactID int64) (*domain.Contact, error)

	// ListContacts returns all contacts of the kind ordered by name.
	ListContacts(ctx context.Context, kind domain.ContactKind) ([]domain.Contact, error)
}

// ContactWriter defines write operations for customer/supplier data.
// Balances are NOT written here: every balance mutation goes through
// InvoiceWriter.SaveInvoice or PaymentWriter.SavePayment so that the delta
// and the causing record land in one transaction.
type ContactWriter interface {
	// SaveContact inserts a new contact (balance zero) and returns its identity.
	SaveContact(ctx context.Context, contact domain.Contact) (int64, error)

	// UpdateContact replaces the mutable fields (name, phone) of a contact.
	UpdateContact(ctx context.Context, contact domain.Contact) error

	// DeleteContact removes a contact. Invoices and payments keep their name
	// snapshots; nothing cascades.
	DeleteContact(ctx context.Context, kind domain.ContactKind, contactID int64) error
}

// ContactRepositoryFacade combines all contact repository interfaces.
type ContactRepositoryFacade interface {
	ContactReader
	ContactWriter
}
