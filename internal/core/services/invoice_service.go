package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/medrar/medrar_books_app/internal/apperrors"
	"github.com/medrar/medrar_books_app/internal/core/domain"
	portsrepo "github.com/medrar/medrar_books_app/internal/core/ports/repositories"
	portssvc "github.com/medrar/medrar_books_app/internal/core/ports/services"
	"github.com/medrar/medrar_books_app/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	// ErrDraftNotFound indicates an unknown or already-discarded draft id.
	ErrDraftNotFound = fmt.Errorf("%w: draft", apperrors.ErrNotFound)
	// ErrStaleReference indicates that a contact or product referenced by the
	// draft was deleted between selection and commit.
	ErrStaleReference = errors.New("a record referenced by the draft no longer exists")
)

// invoiceService composes invoices from in-memory drafts. Drafts are held in
// a process-local registry keyed by an opaque uuid; they do not survive a
// restart, which is acceptable because a draft is cheap to rebuild.
type invoiceService struct {
	mu     sync.Mutex
	drafts map[string]*domain.InvoiceDraft

	contactRepo portsrepo.ContactRepositoryFacade
	productRepo portsrepo.ProductRepositoryFacade
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	ledger      portssvc.LedgerSvcFacade
	reconciler  portssvc.PriceReconcilerSvc
}

// NewInvoiceService creates the invoice composer.
func NewInvoiceService(
	contactRepo portsrepo.ContactRepositoryFacade,
	productRepo portsrepo.ProductRepositoryFacade,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	ledger portssvc.LedgerSvcFacade,
	reconciler portssvc.PriceReconcilerSvc,
) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		drafts:      make(map[string]*domain.InvoiceDraft),
		contactRepo: contactRepo,
		productRepo: productRepo,
		invoiceRepo: invoiceRepo,
		ledger:      ledger,
		reconciler:  reconciler,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// StartDraft opens a new empty draft for the given invoice kind.
func (s *invoiceService) StartDraft(ctx context.Context, kind domain.InvoiceKind) (*domain.InvoiceDraft, error) {
	draft := domain.NewInvoiceDraft(uuid.NewString(), kind, time.Now().UTC())

	s.mu.Lock()
	s.drafts[draft.DraftID] = draft
	s.mu.Unlock()

	middleware.GetLoggerFromCtx(ctx).Info("Draft started",
		slog.String("draftID", draft.DraftID),
		slog.String("kind", string(kind)),
	)
	return snapshot(draft), nil
}

// GetDraft returns the current state of a draft.
func (s *invoiceService) GetDraft(ctx context.Context, draftID string) (*domain.InvoiceDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[draftID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return snapshot(draft), nil
}

// SelectCounterparty binds an existing contact of the matching kind.
func (s *invoiceService) SelectCounterparty(ctx context.Context, draftID string, contactID int64) (*domain.InvoiceDraft, error) {
	kind, err := s.draftKind(draftID)
	if err != nil {
		return nil, err
	}
	contact, err := s.contactRepo.FindContactByID(ctx, kind.ContactKindFor(), contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact %d: %w", contactID, err)
	}
	return s.mutate(draftID, func(d *domain.InvoiceDraft) error {
		return d.SelectCounterparty(*contact)
	})
}

// SelectNewCounterparty creates a contact with a zero balance and binds it.
// The contact is persisted immediately and remains even if the draft is
// abandoned.
func (s *invoiceService) SelectNewCounterparty(ctx context.Context, draftID string, name, phone string) (*domain.InvoiceDraft, error) {
	kind, err := s.draftKind(draftID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: contact name is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	contact := domain.Contact{
		Kind:    kind.ContactKindFor(),
		Name:    name,
		Phone:   phone,
		Balance: decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	contactID, err := s.contactRepo.SaveContact(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	contact.ContactID = contactID

	middleware.GetLoggerFromCtx(ctx).Info("Contact created from draft",
		slog.String("draftID", draftID),
		slog.Int64("contactID", contactID),
	)

	return s.mutate(draftID, func(d *domain.InvoiceDraft) error {
		return d.SelectCounterparty(contact)
	})
}

// AddLine adds (or merges) a line for an existing product.
func (s *invoiceService) AddLine(ctx context.Context, draftID string, productID int64) (*domain.InvoiceDraft, error) {
	if _, err := s.draftKind(draftID); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product %d: %w", productID, err)
	}
	return s.mutate(draftID, func(d *domain.InvoiceDraft) error {
		return d.AddLine(*product)
	})
}

// AddLineNewProduct creates a product without a reference price and adds a
// line for it at price zero. The product is persisted immediately.
func (s *invoiceService) AddLineNewProduct(ctx context.Context, draftID string, name string) (*domain.InvoiceDraft, error) {
	if _, err := s.draftKind(draftID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	product := domain.Product{
		Name: name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	productID, err := s.productRepo.SaveProduct(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	product.ProductID = productID

	middleware.GetLoggerFromCtx(ctx).Info("Product created from draft",
		slog.String("draftID", draftID),
		slog.Int64("productID", productID),
	)

	return s.mutate(draftID, func(d *domain.InvoiceDraft) error {
		return d.AddLine(product)
	})
}

// SetLineQuantity edits one line's quantity in place.
func (s *invoiceService) SetLineQuantity(ctx context.Context, draftID string, index int, qty int64) (*domain.InvoiceDraft, error) {
	return s.mutate(draftID, func(d *domain.InvoiceDraft) error {
		return d.SetLineQuantity(index, qty)
	})
}

// SetLinePrice edits one line's unit price in place.
func (s *invoiceService) SetLinePrice(ctx context.Context, draftID string, index int, price decimal.Decimal) (*domain.InvoiceDraft, error) {
	return s.mutate(draftID, func(d *domain.InvoiceDraft) error {
		return d.SetLinePrice(index, price)
	})
}

// UpdateLine edits one line's quantity and/or price as a single guarded
// mutation: if either value is rejected, neither is applied.
func (s *invoiceService) UpdateLine(ctx context.Context, draftID string, index int, qty *int64, price *decimal.Decimal) (*domain.InvoiceDraft, error) {
	return s.mutate(draftID, func(d *domain.InvoiceDraft) error {
		return d.UpdateLine(index, qty, price)
	})
}

// RemoveLine drops one line.
func (s *invoiceService) RemoveLine(ctx context.Context, draftID string, index int) (*domain.InvoiceDraft, error) {
	return s.mutate(draftID, func(d *domain.InvoiceDraft) error {
		return d.RemoveLine(index)
	})
}

// CommitDraft turns a draft into a committed invoice. The draft is claimed
// under the registry lock before any I/O, so an overlapping commit of the
// same draft fails with ErrDraftCommitted instead of posting twice. It then
// re-reads every referenced record so a deletion that happened mid-draft
// fails the commit cleanly, posts through the ledger (atomic with the balance
// move), runs the price reconciler best-effort, and only then marks the draft
// committed. On any error the claim is released and the draft is left
// editable so the user can fix and retry.
func (s *invoiceService) CommitDraft(ctx context.Context, draftID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	draft, ok := s.drafts[draftID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrDraftNotFound
	}
	if err := draft.BeginCommit(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	// Work on a copy so concurrent reads of the draft stay consistent while
	// the commit is in flight.
	pending := *snapshot(draft)
	s.mu.Unlock()

	committed := false
	defer func() {
		if !committed {
			s.abortCommit(draftID)
		}
	}()

	contact, err := s.contactRepo.FindContactByID(ctx, pending.Kind.ContactKindFor(), pending.ContactID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("contact %d: %w", pending.ContactID, ErrStaleReference)
		}
		return nil, fmt.Errorf("failed to re-read contact: %w", err)
	}

	productIDs := make([]int64, 0, len(pending.Lines))
	for _, line := range pending.Lines {
		productIDs = append(productIDs, line.ProductID)
	}
	found, err := s.productRepo.FindProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read products: %w", err)
	}
	for _, line := range pending.Lines {
		if _, ok := found[line.ProductID]; !ok {
			return nil, fmt.Errorf("product %d: %w", line.ProductID, ErrStaleReference)
		}
	}

	invoice := domain.Invoice{
		Kind:        pending.Kind,
		ContactID:   pending.ContactID,
		ContactName: contact.Name,
		Lines:       pending.Lines,
		Total:       pending.Total(),
		CreatedAt:   time.Now().UTC(),
	}

	posted, err := s.ledger.PostInvoice(ctx, invoice)
	if err != nil {
		return nil, err
	}

	if updated := s.reconciler.ReconcileLines(ctx, posted.Lines); updated > 0 {
		logger.Info("Catalog prices reconciled",
			slog.String("draftID", draftID),
			slog.Int("updated", updated),
		)
	}

	s.mu.Lock()
	if draft, ok := s.drafts[draftID]; ok {
		draft.MarkCommitted()
	}
	s.mu.Unlock()
	committed = true

	logger.Info("Draft committed",
		slog.String("draftID", draftID),
		slog.Int64("invoiceID", posted.InvoiceID),
	)
	return posted, nil
}

// DiscardDraft removes the draft from the registry. Contacts and products
// created while composing it remain in the store.
func (s *invoiceService) DiscardDraft(ctx context.Context, draftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[draftID]; !ok {
		return ErrDraftNotFound
	}
	delete(s.drafts, draftID)
	return nil
}

// GetInvoiceByID retrieves a committed invoice with its lines.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, kind domain.InvoiceKind, invoiceID int64) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, kind, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice %d: %w", invoiceID, err)
	}
	return invoice, nil
}

// ListInvoices returns all committed invoices of the kind, newest first.
func (s *invoiceService) ListInvoices(ctx context.Context, kind domain.InvoiceKind) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListInvoices(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// abortCommit returns a draft claimed by BeginCommit to an editable state.
func (s *invoiceService) abortCommit(draftID string) {
	s.mu.Lock()
	if draft, ok := s.drafts[draftID]; ok {
		draft.AbortCommit()
	}
	s.mu.Unlock()
}

// draftKind reads a draft's kind without holding the lock across store calls.
func (s *invoiceService) draftKind(draftID string) (domain.InvoiceKind, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[draftID]
	if !ok {
		return "", ErrDraftNotFound
	}
	return draft.Kind, nil
}

// mutate applies fn to the draft under the registry lock and returns a copy
// of the updated state.
func (s *invoiceService) mutate(draftID string, fn func(*domain.InvoiceDraft) error) (*domain.InvoiceDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[draftID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if err := fn(draft); err != nil {
		return nil, err
	}
	return snapshot(draft), nil
}

// snapshot deep-copies a draft so callers never share the registry's slice.
func snapshot(d *domain.InvoiceDraft) *domain.InvoiceDraft {
	copied := *d
	copied.Lines = make([]domain.InvoiceLine, len(d.Lines))
	copy(copied.Lines, d.Lines)
	return &copied
}
