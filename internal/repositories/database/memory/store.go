package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/medrar/medrar_books_app/internal/apperrors"
	"github.com/medrar/medrar_books_app/internal/core/domain"
	portsrepo "github.com/medrar/medrar_books_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Store is an in-memory implementation of every repository facade. It backs
// tests and local runs without Postgres. One mutex guards all collections,
// which also gives SaveInvoice/SavePayment the same atomicity and per-contact
// serialization the SQL transactions provide.
type Store struct {
	mu sync.Mutex

	products map[int64]domain.Product
	contacts map[int64]domain.Contact
	invoices map[int64]domain.Invoice
	payments map[int64]domain.Payment

	nextProductID int64
	nextContactID int64
	nextInvoiceID int64
	nextPaymentID int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		products: make(map[int64]domain.Product),
		contacts: make(map[int64]domain.Contact),
		invoices: make(map[int64]domain.Invoice),
		payments: make(map[int64]domain.Payment),
	}
}

// NewRepositoryProvider exposes one store as the full repository set.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ProductRepo: store,
		ContactRepo: store,
		InvoiceRepo: store,
		PaymentRepo: store,
	}
}

var (
	_ portsrepo.ProductRepositoryFacade = (*Store)(nil)
	_ portsrepo.ContactRepositoryFacade = (*Store)(nil)
	_ portsrepo.InvoiceRepositoryFacade = (*Store)(nil)
	_ portsrepo.PaymentRepositoryFacade = (*Store)(nil)
)

// --- Products ---

func (s *Store) SaveProduct(ctx context.Context, product domain.Product) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProductID++
	product.ProductID = s.nextProductID
	s.products[product.ProductID] = product
	return product.ProductID, nil
}

func (s *Store) FindProductByID(ctx context.Context, productID int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &product, nil
}

func (s *Store) FindProductsByIDs(ctx context.Context, productIDs []int64) (map[int64]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := make(map[int64]domain.Product, len(productIDs))
	for _, id := range productIDs {
		if product, ok := s.products[id]; ok {
			found[id] = product
		}
	}
	return found, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, product := range s.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
	return products, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ProductID]; !ok {
		return apperrors.ErrNotFound
	}
	s.products[product.ProductID] = product
	return nil
}

func (s *Store) UpdateProductPrice(ctx context.Context, productID int64, price decimal.Decimal, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[productID]
	if !ok {
		return apperrors.ErrNotFound
	}
	product.Price = decimal.NewNullDecimal(price)
	product.LastUpdatedAt = now
	s.products[productID] = product
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[productID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.products, productID)
	return nil
}

// --- Contacts ---

func (s *Store) SaveContact(ctx context.Context, contact domain.Contact) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextContactID++
	contact.ContactID = s.nextContactID
	contact.Balance = decimal.Zero
	s.contacts[contact.ContactID] = contact
	return contact.ContactID, nil
}

func (s *Store) FindContactByID(ctx context.Context, kind domain.ContactKind, contactID int64) (*domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact, ok := s.contacts[contactID]
	if !ok || contact.Kind != kind {
		return nil, apperrors.ErrNotFound
	}
	return &contact, nil
}

func (s *Store) ListContacts(ctx context.Context, kind domain.ContactKind) ([]domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts := make([]domain.Contact, 0, len(s.contacts))
	for _, contact := range s.contacts {
		if contact.Kind == kind {
			contacts = append(contacts, contact)
		}
	}
	sort.Slice(contacts, func(i, j int) bool {
		return strings.ToLower(contacts[i].Name) < strings.ToLower(contacts[j].Name)
	})
	return contacts, nil
}

func (s *Store) UpdateContact(ctx context.Context, contact domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.contacts[contact.ContactID]
	if !ok || existing.Kind != contact.Kind {
		return apperrors.ErrNotFound
	}
	// Preserve the stored balance; only the ledger writes it.
	contact.Balance = existing.Balance
	s.contacts[contact.ContactID] = contact
	return nil
}

func (s *Store) DeleteContact(ctx context.Context, kind domain.ContactKind, contactID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact, ok := s.contacts[contactID]
	if !ok || contact.Kind != kind {
		return apperrors.ErrNotFound
	}
	delete(s.contacts, contactID)
	return nil
}

// --- Invoices ---

func (s *Store) SaveInvoice(ctx context.Context, invoice domain.Invoice, balanceDelta decimal.Decimal) (int64, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind := invoice.Kind.ContactKindFor()
	contact, ok := s.contacts[invoice.ContactID]
	if !ok || contact.Kind != kind {
		return 0, decimal.Zero, apperrors.ErrNotFound
	}

	s.nextInvoiceID++
	invoice.InvoiceID = s.nextInvoiceID
	lines := make([]domain.InvoiceLine, len(invoice.Lines))
	copy(lines, invoice.Lines)
	invoice.Lines = lines
	s.invoices[invoice.InvoiceID] = invoice

	contact.Balance = contact.Balance.Add(balanceDelta)
	contact.LastUpdatedAt = invoice.CreatedAt
	s.contacts[contact.ContactID] = contact

	return invoice.InvoiceID, contact.Balance, nil
}

func (s *Store) FindInvoiceByID(ctx context.Context, kind domain.InvoiceKind, invoiceID int64) (*domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoice, ok := s.invoices[invoiceID]
	if !ok || invoice.Kind != kind {
		return nil, apperrors.ErrNotFound
	}
	lines := make([]domain.InvoiceLine, len(invoice.Lines))
	copy(lines, invoice.Lines)
	invoice.Lines = lines
	return &invoice, nil
}

func (s *Store) ListInvoices(ctx context.Context, kind domain.InvoiceKind) ([]domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	invoices := make([]domain.Invoice, 0, len(s.invoices))
	for _, invoice := range s.invoices {
		if invoice.Kind == kind {
			lines := make([]domain.InvoiceLine, len(invoice.Lines))
			copy(lines, invoice.Lines)
			invoice.Lines = lines
			invoices = append(invoices, invoice)
		}
	}
	// Newest first; ids break created-at ties deterministically.
	sort.Slice(invoices, func(i, j int) bool {
		if invoices[i].CreatedAt.Equal(invoices[j].CreatedAt) {
			return invoices[i].InvoiceID > invoices[j].InvoiceID
		}
		return invoices[i].CreatedAt.After(invoices[j].CreatedAt)
	})
	return invoices, nil
}

// --- Payments ---

func (s *Store) SavePayment(ctx context.Context, payment domain.Payment, balanceDelta decimal.Decimal) (int64, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contact, ok := s.contacts[payment.ContactID]
	if !ok || contact.Kind != payment.Kind {
		return 0, decimal.Zero, apperrors.ErrNotFound
	}

	s.nextPaymentID++
	payment.PaymentID = s.nextPaymentID
	s.payments[payment.PaymentID] = payment

	contact.Balance = contact.Balance.Add(balanceDelta)
	contact.LastUpdatedAt = payment.CreatedAt
	s.contacts[contact.ContactID] = contact

	return payment.PaymentID, contact.Balance, nil
}

func (s *Store) FindPaymentByID(ctx context.Context, kind domain.ContactKind, paymentID int64) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payment, ok := s.payments[paymentID]
	if !ok || payment.Kind != kind {
		return nil, apperrors.ErrNotFound
	}
	return &payment, nil
}

func (s *Store) ListPayments(ctx context.Context, kind domain.ContactKind) ([]domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payments := make([]domain.Payment, 0, len(s.payments))
	for _, payment := range s.payments {
		if payment.Kind == kind {
			payments = append(payments, payment)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		if payments[i].CreatedAt.Equal(payments[j].CreatedAt) {
			return payments[i].PaymentID > payments[j].PaymentID
		}
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	return payments, nil
}
