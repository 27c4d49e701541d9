package services

import (
	"context"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceSvcFacade is the invoice composer: it manages in-progress drafts and
// turns them into committed invoices. Drafts live in process memory only and
// are addressed by an opaque draft id.
type InvoiceSvcFacade interface {
	// StartDraft opens a new empty draft for the given invoice kind.
	StartDraft(ctx context.Context, kind domain.InvoiceKind) (*domain.InvoiceDraft, error)

	// GetDraft returns the current state of a draft.
	GetDraft(ctx context.Context, draftID string) (*domain.InvoiceDraft, error)

	// SelectCounterparty binds an existing contact to the draft.
	SelectCounterparty(ctx context.Context, draftID string, contactID int64) (*domain.InvoiceDraft, error)

	// SelectNewCounterparty creates a contact (zero balance) and binds it.
	// The contact persists even if the draft is later abandoned.
	SelectNewCounterparty(ctx context.Context, draftID string, name, phone string) (*domain.InvoiceDraft, error)

	// AddLine adds (or merges) a line for an existing product, seeded with
	// the product's current reference price.
	AddLine(ctx context.Context, draftID string, productID int64) (*domain.InvoiceDraft, error)

	// AddLineNewProduct creates a product without a reference price and adds
	// a line for it at price zero.
	AddLineNewProduct(ctx context.Context, draftID string, name string) (*domain.InvoiceDraft, error)

	// SetLineQuantity and SetLinePrice edit one line in place.
	SetLineQuantity(ctx context.Context, draftID string, index int, qty int64) (*domain.InvoiceDraft, error)
	SetLinePrice(ctx context.Context, draftID string, index int, price decimal.Decimal) (*domain.InvoiceDraft, error)

	// UpdateLine edits one line's quantity and/or price as a single guarded
	// mutation; a rejected edit leaves the line unchanged.
	UpdateLine(ctx context.Context, draftID string, index int, qty *int64, price *decimal.Decimal) (*domain.InvoiceDraft, error)

	// RemoveLine drops one line.
	RemoveLine(ctx context.Context, draftID string, index int) (*domain.InvoiceDraft, error)

	// CommitDraft validates the draft, persists the invoice with its balance
	// effect atomically, reconciles catalog prices best-effort, and marks the
	// draft committed.
	CommitDraft(ctx context.Context, draftID string) (*domain.Invoice, error)

	// DiscardDraft removes the draft. Contacts/products it created remain.
	DiscardDraft(ctx context.Context, draftID string) error

	// Committed-invoice reads.
	GetInvoiceByID(ctx context.Context, kind domain.InvoiceKind, invoiceID int64) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, kind domain.InvoiceKind) ([]domain.Invoice, error)
}
