package services_test

import (
	"context"
	"testing"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	portsrepo "github.com/medrar/medrar_books_app/internal/core/ports/repositories"
	portssvc "github.com/medrar/medrar_books_app/internal/core/ports/services"
	"github.com/medrar/medrar_books_app/internal/core/services"
	"github.com/medrar/medrar_books_app/internal/dto"
	"github.com/medrar/medrar_books_app/internal/events/noop"
	"github.com/medrar/medrar_books_app/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newComposerFixture(t *testing.T) (portssvc.InvoiceSvcFacade, portsrepo.RepositoryProvider) {
	t.Helper()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	container := services.NewServiceContainer(&repos, noop.NewPublisher())
	return container.Invoice, repos
}

func seedProduct(t *testing.T, repos portsrepo.RepositoryProvider, name, price string) int64 {
	t.Helper()
	product := domain.Product{Name: name}
	if price != "" {
		product.Price = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	id, err := repos.ProductRepo.SaveProduct(context.Background(), product)
	require.NoError(t, err)
	return id
}

func TestStartAndGetDraft(t *testing.T) {
	composer, _ := newComposerFixture(t)
	ctx := context.Background()

	draft, err := composer.StartDraft(ctx, domain.SalesInvoice)
	require.NoError(t, err)
	assert.NotEmpty(t, draft.DraftID)
	assert.Equal(t, domain.DraftEmpty, draft.Status)

	fetched, err := composer.GetDraft(ctx, draft.DraftID)
	require.NoError(t, err)
	assert.Equal(t, draft.DraftID, fetched.DraftID)

	_, err = composer.GetDraft(ctx, "no-such-draft")
	assert.ErrorIs(t, err, services.ErrDraftNotFound)
}

func TestCommitSalesDraftEndToEnd(t *testing.T) {
	composer, repos := newComposerFixture(t)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")
	riceID := seedProduct(t, repos, "Rice 5kg", "10.00")
	sugarID := seedProduct(t, repos, "Sugar 1kg", "5.00")

	draft, err := composer.StartDraft(ctx, domain.SalesInvoice)
	require.NoError(t, err)
	draftID := draft.DraftID

	_, err = composer.SelectCounterparty(ctx, draftID, contactID)
	require.NoError(t, err)
	_, err = composer.AddLine(ctx, draftID, riceID)
	require.NoError(t, err)
	draft, err = composer.AddLine(ctx, draftID, riceID) // Merge: 2 x 10.00
	require.NoError(t, err)
	require.Len(t, draft.Lines, 1)
	draft, err = composer.AddLine(ctx, draftID, sugarID) // 1 x 5.00
	require.NoError(t, err)
	assert.True(t, draft.Total().Equal(decimal.RequireFromString("25.00")))

	invoice, err := composer.CommitDraft(ctx, draftID)
	require.NoError(t, err)
	assert.NotZero(t, invoice.InvoiceID)
	assert.Equal(t, "Ahmed", invoice.ContactName)
	assert.True(t, invoice.Total.Equal(decimal.RequireFromString("25.00")))

	contact, err := repos.ContactRepo.FindContactByID(ctx, domain.Customer, contactID)
	require.NoError(t, err)
	assert.True(t, contact.Balance.Equal(decimal.RequireFromString("25.00")))

	committed, err := composer.GetDraft(ctx, draftID)
	require.NoError(t, err)
	assert.Equal(t, domain.DraftCommitted, committed.Status)

	// Terminal: a second commit is rejected.
	_, err = composer.CommitDraft(ctx, draftID)
	assert.ErrorIs(t, err, domain.ErrDraftCommitted)
}

func TestCommitValidation(t *testing.T) {
	composer, repos := newComposerFixture(t)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")

	draft, err := composer.StartDraft(ctx, domain.SalesInvoice)
	require.NoError(t, err)

	// No counterparty yet.
	_, err = composer.CommitDraft(ctx, draft.DraftID)
	assert.ErrorIs(t, err, domain.ErrCounterpartyRequired)

	// Counterparty but no lines.
	_, err = composer.SelectCounterparty(ctx, draft.DraftID, contactID)
	require.NoError(t, err)
	_, err = composer.CommitDraft(ctx, draft.DraftID)
	assert.ErrorIs(t, err, domain.ErrEmptyInvoice)

	// Nothing was persisted by the failed commits.
	invoices, err := repos.InvoiceRepo.ListInvoices(ctx, domain.SalesInvoice)
	require.NoError(t, err)
	assert.Empty(t, invoices)
	contact, err := repos.ContactRepo.FindContactByID(ctx, domain.Customer, contactID)
	require.NoError(t, err)
	assert.True(t, contact.Balance.IsZero())
}

func TestCommitFailsCleanlyOnDeletedContact(t *testing.T) {
	composer, repos := newComposerFixture(t)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")
	riceID := seedProduct(t, repos, "Rice 5kg", "10.00")

	draft, err := composer.StartDraft(ctx, domain.SalesInvoice)
	require.NoError(t, err)
	_, err = composer.SelectCounterparty(ctx, draft.DraftID, contactID)
	require.NoError(t, err)
	_, err = composer.AddLine(ctx, draft.DraftID, riceID)
	require.NoError(t, err)

	// Contact disappears mid-draft.
	require.NoError(t, repos.ContactRepo.DeleteContact(ctx, domain.Customer, contactID))

	_, err = composer.CommitDraft(ctx, draft.DraftID)
	assert.ErrorIs(t, err, services.ErrStaleReference)

	invoices, err := repos.InvoiceRepo.ListInvoices(ctx, domain.SalesInvoice)
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestCommitFailsCleanlyOnDeletedProduct(t *testing.T) {
	composer, repos := newComposerFixture(t)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")
	riceID := seedProduct(t, repos, "Rice 5kg", "10.00")

	draft, err := composer.StartDraft(ctx, domain.SalesInvoice)
	require.NoError(t, err)
	_, err = composer.SelectCounterparty(ctx, draft.DraftID, contactID)
	require.NoError(t, err)
	_, err = composer.AddLine(ctx, draft.DraftID, riceID)
	require.NoError(t, err)

	require.NoError(t, repos.ProductRepo.DeleteProduct(ctx, riceID))

	_, err = composer.CommitDraft(ctx, draft.DraftID)
	assert.ErrorIs(t, err, services.ErrStaleReference)
}

func TestCommitReconcilesCatalogPrices(t *testing.T) {
	composer, repos := newComposerFixture(t)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")
	riceID := seedProduct(t, repos, "Rice 5kg", "8.00")

	draft, err := composer.StartDraft(ctx, domain.SalesInvoice)
	require.NoError(t, err)
	_, err = composer.SelectCounterparty(ctx, draft.DraftID, contactID)
	require.NoError(t, err)
	_, err = composer.AddLine(ctx, draft.DraftID, riceID)
	require.NoError(t, err)
	// Negotiated price differs from the catalog.
	_, err = composer.SetLinePrice(ctx, draft.DraftID, 0, decimal.RequireFromString("10.00"))
	require.NoError(t, err)

	_, err = composer.CommitDraft(ctx, draft.DraftID)
	require.NoError(t, err)

	product, err := repos.ProductRepo.FindProductByID(ctx, riceID)
	require.NoError(t, err)
	require.True(t, product.HasPrice())
	assert.True(t, product.Price.Decimal.Equal(decimal.RequireFromString("10.00")))
}

func TestNewCounterpartyAndProductPersistImmediately(t *testing.T) {
	composer, repos := newComposerFixture(t)
	ctx := context.Background()

	draft, err := composer.StartDraft(ctx, domain.PurchaseInvoice)
	require.NoError(t, err)

	draft, err = composer.SelectNewCounterparty(ctx, draft.DraftID, "Al-Noor Trading", "0501234567")
	require.NoError(t, err)
	assert.Equal(t, "Al-Noor Trading", draft.ContactName)

	draft, err = composer.AddLineNewProduct(ctx, draft.DraftID, "Flour 10kg")
	require.NoError(t, err)
	require.Len(t, draft.Lines, 1)
	assert.True(t, draft.Lines[0].Price.IsZero())

	// Both records exist in the store even though the draft is discarded.
	require.NoError(t, composer.DiscardDraft(ctx, draft.DraftID))

	suppliers, err := repos.ContactRepo.ListContacts(ctx, domain.Supplier)
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "Al-Noor Trading", suppliers[0].Name)
	assert.True(t, suppliers[0].Balance.IsZero())

	products, err := repos.ProductRepo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Flour 10kg", products[0].Name)
	assert.False(t, products[0].HasPrice())
}

func TestSnapshotsSurviveContactDelete(t *testing.T) {
	composer, repos := newComposerFixture(t)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")
	riceID := seedProduct(t, repos, "Rice 5kg", "10.00")

	draft, err := composer.StartDraft(ctx, domain.SalesInvoice)
	require.NoError(t, err)
	_, err = composer.SelectCounterparty(ctx, draft.DraftID, contactID)
	require.NoError(t, err)
	_, err = composer.AddLine(ctx, draft.DraftID, riceID)
	require.NoError(t, err)
	invoice, err := composer.CommitDraft(ctx, draft.DraftID)
	require.NoError(t, err)

	require.NoError(t, repos.ContactRepo.DeleteContact(ctx, domain.Customer, contactID))
	require.NoError(t, repos.ProductRepo.DeleteProduct(ctx, riceID))

	persisted, err := composer.GetInvoiceByID(ctx, domain.SalesInvoice, invoice.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, "Ahmed", persisted.ContactName)
	require.Len(t, persisted.Lines, 1)
	assert.Equal(t, "Rice 5kg", persisted.Lines[0].ProductName)
}

func TestDraftEditsThroughService(t *testing.T) {
	composer, repos := newComposerFixture(t)
	ctx := context.Background()
	riceID := seedProduct(t, repos, "Rice 5kg", "10.00")

	draft, err := composer.StartDraft(ctx, domain.SalesInvoice)
	require.NoError(t, err)
	draftID := draft.DraftID

	_, err = composer.AddLine(ctx, draftID, riceID)
	require.NoError(t, err)

	draft, err = composer.SetLineQuantity(ctx, draftID, 0, 4)
	require.NoError(t, err)
	assert.True(t, draft.Total().Equal(decimal.RequireFromString("40.00")))

	_, err = composer.SetLineQuantity(ctx, draftID, 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	draft, err = composer.RemoveLine(ctx, draftID, 0)
	require.NoError(t, err)
	assert.Empty(t, draft.Lines)

	_, err = composer.RemoveLine(ctx, draftID, 0)
	assert.ErrorIs(t, err, domain.ErrLineNotFound)
}

func TestDiscardDraft(t *testing.T) {
	composer, _ := newComposerFixture(t)
	ctx := context.Background()

	draft, err := composer.StartDraft(ctx, domain.SalesInvoice)
	require.NoError(t, err)

	require.NoError(t, composer.DiscardDraft(ctx, draft.DraftID))
	assert.ErrorIs(t, composer.DiscardDraft(ctx, draft.DraftID), services.ErrDraftNotFound)
	_, err = composer.GetDraft(ctx, draft.DraftID)
	assert.ErrorIs(t, err, services.ErrDraftNotFound)
}

// gatedLedger holds PostInvoice until released so a test can overlap a second
// commit of the same draft deterministically.
type gatedLedger struct {
	inner   portssvc.LedgerSvcFacade
	entered chan struct{}
	release chan struct{}
}

func (g *gatedLedger) PostInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.inner.PostInvoice(ctx, invoice)
}

func (g *gatedLedger) RecordPayment(ctx context.Context, kind domain.ContactKind, contactID int64, req dto.RecordPaymentRequest) (*domain.Payment, error) {
	return g.inner.RecordPayment(ctx, kind, contactID, req)
}

func (g *gatedLedger) ListPayments(ctx context.Context, kind domain.ContactKind) ([]domain.Payment, error) {
	return g.inner.ListPayments(ctx, kind)
}

func TestCommitDraftRejectsOverlappingCommit(t *testing.T) {
	repos := memory.NewRepositoryProvider(memory.NewStore())
	gate := &gatedLedger{
		inner:   services.NewLedgerService(repos.ContactRepo, repos.InvoiceRepo, repos.PaymentRepo, noop.NewPublisher()),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	composer := services.NewInvoiceService(
		repos.ContactRepo,
		repos.ProductRepo,
		repos.InvoiceRepo,
		gate,
		services.NewPriceReconciler(repos.ProductRepo),
	)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")
	riceID := seedProduct(t, repos, "Rice 5kg", "10.00")

	draft, err := composer.StartDraft(ctx, domain.SalesInvoice)
	require.NoError(t, err)
	_, err = composer.SelectCounterparty(ctx, draft.DraftID, contactID)
	require.NoError(t, err)
	_, err = composer.AddLine(ctx, draft.DraftID, riceID)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := composer.CommitDraft(ctx, draft.DraftID)
		done <- err
	}()
	<-gate.entered // The first commit is posting now.

	// A double-click or retry while the first commit is in flight must not
	// post a second invoice.
	_, err = composer.CommitDraft(ctx, draft.DraftID)
	assert.ErrorIs(t, err, domain.ErrDraftCommitted)

	close(gate.release)
	require.NoError(t, <-done)

	invoices, err := repos.InvoiceRepo.ListInvoices(ctx, domain.SalesInvoice)
	require.NoError(t, err)
	assert.Len(t, invoices, 1)
	contact, err := repos.ContactRepo.FindContactByID(ctx, domain.Customer, contactID)
	require.NoError(t, err)
	assert.True(t, contact.Balance.Equal(decimal.RequireFromString("10.00")))
}

func TestFailedCommitLeavesDraftEditable(t *testing.T) {
	composer, repos := newComposerFixture(t)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")
	riceID := seedProduct(t, repos, "Rice 5kg", "10.00")

	draft, err := composer.StartDraft(ctx, domain.SalesInvoice)
	require.NoError(t, err)
	_, err = composer.SelectCounterparty(ctx, draft.DraftID, contactID)
	require.NoError(t, err)
	_, err = composer.AddLine(ctx, draft.DraftID, riceID)
	require.NoError(t, err)

	require.NoError(t, repos.ContactRepo.DeleteContact(ctx, domain.Customer, contactID))
	_, err = composer.CommitDraft(ctx, draft.DraftID)
	require.ErrorIs(t, err, services.ErrStaleReference)

	// The failed attempt released its claim on the draft.
	fetched, err := composer.GetDraft(ctx, draft.DraftID)
	require.NoError(t, err)
	assert.Equal(t, domain.DraftEditing, fetched.Status)

	// Fixing the draft and retrying succeeds.
	otherID := seedContact(t, repos, domain.Customer, "Sara")
	_, err = composer.SelectCounterparty(ctx, draft.DraftID, otherID)
	require.NoError(t, err)
	invoice, err := composer.CommitDraft(ctx, draft.DraftID)
	require.NoError(t, err)
	assert.Equal(t, "Sara", invoice.ContactName)
}

func TestListInvoicesNewestFirst(t *testing.T) {
	composer, repos := newComposerFixture(t)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")
	riceID := seedProduct(t, repos, "Rice 5kg", "10.00")

	var ids []int64
	for i := 0; i < 3; i++ {
		draft, err := composer.StartDraft(ctx, domain.SalesInvoice)
		require.NoError(t, err)
		_, err = composer.SelectCounterparty(ctx, draft.DraftID, contactID)
		require.NoError(t, err)
		_, err = composer.AddLine(ctx, draft.DraftID, riceID)
		require.NoError(t, err)
		invoice, err := composer.CommitDraft(ctx, draft.DraftID)
		require.NoError(t, err)
		ids = append(ids, invoice.InvoiceID)
	}

	invoices, err := composer.ListInvoices(ctx, domain.SalesInvoice)
	require.NoError(t, err)
	require.Len(t, invoices, 3)
	assert.Equal(t, ids[2], invoices[0].InvoiceID)
	assert.Equal(t, ids[0], invoices[2].InvoiceID)
}
