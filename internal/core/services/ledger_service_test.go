package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medrar/medrar_books_app/internal/apperrors"
	"github.com/medrar/medrar_books_app/internal/core/domain"
	portsevents "github.com/medrar/medrar_books_app/internal/core/ports/events"
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

// capturingPublisher records every event it is given. failWith, when set,
// makes Publish fail so the best-effort contract can be checked.
type capturingPublisher struct {
	events   []portsevents.LedgerEvent
	failWith error
}

func (p *capturingPublisher) Publish(ctx context.Context, event portsevents.LedgerEvent) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func newLedgerFixture(t *testing.T, publisher portsevents.Publisher) (portssvc.LedgerSvcFacade, portsrepo.RepositoryProvider) {
	t.Helper()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	if publisher == nil {
		publisher = noop.NewPublisher()
	}
	ledger := services.NewLedgerService(repos.ContactRepo, repos.InvoiceRepo, repos.PaymentRepo, publisher)
	return ledger, repos
}

func seedContact(t *testing.T, repos portsrepo.RepositoryProvider, kind domain.ContactKind, name string) int64 {
	t.Helper()
	id, err := repos.ContactRepo.SaveContact(context.Background(), domain.Contact{Kind: kind, Name: name})
	require.NoError(t, err)
	return id
}

func salesInvoiceFor(contactID int64) domain.Invoice {
	lines := []domain.InvoiceLine{
		{ProductID: 1, ProductName: "Rice 5kg", Quantity: 2, Price: decimal.RequireFromString("10.00")},
		{ProductID: 2, ProductName: "Sugar 1kg", Quantity: 1, Price: decimal.RequireFromString("5.00")},
	}
	return domain.Invoice{
		Kind:      domain.SalesInvoice,
		ContactID: contactID,
		Lines:     lines,
		CreatedAt: time.Now().UTC(),
	}
}

func TestPostInvoiceMovesBalanceByTotal(t *testing.T) {
	ledger, repos := newLedgerFixture(t, nil)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")

	posted, err := ledger.PostInvoice(ctx, salesInvoiceFor(contactID))
	require.NoError(t, err)

	assert.NotZero(t, posted.InvoiceID)
	assert.True(t, posted.Total.Equal(decimal.RequireFromString("25.00")))

	contact, err := repos.ContactRepo.FindContactByID(ctx, domain.Customer, contactID)
	require.NoError(t, err)
	assert.True(t, contact.Balance.Equal(decimal.RequireFromString("25.00")))
}

func TestPostInvoiceRecomputesTotalFromLines(t *testing.T) {
	ledger, repos := newLedgerFixture(t, nil)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")

	invoice := salesInvoiceFor(contactID)
	invoice.Total = decimal.RequireFromString("999.99") // Caller lies; lines win.

	posted, err := ledger.PostInvoice(ctx, invoice)
	require.NoError(t, err)
	assert.True(t, posted.Total.Equal(decimal.RequireFromString("25.00")))
}

func TestPostInvoiceValidation(t *testing.T) {
	ledger, repos := newLedgerFixture(t, nil)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")

	noLines := domain.Invoice{Kind: domain.SalesInvoice, ContactID: contactID}
	_, err := ledger.PostInvoice(ctx, noLines)
	assert.ErrorIs(t, err, services.ErrInvalidInvoice)

	badQty := salesInvoiceFor(contactID)
	badQty.Lines[0].Quantity = 0
	_, err = ledger.PostInvoice(ctx, badQty)
	assert.ErrorIs(t, err, services.ErrInvalidInvoice)

	badPrice := salesInvoiceFor(contactID)
	badPrice.Lines[0].Price = decimal.RequireFromString("-1")
	_, err = ledger.PostInvoice(ctx, badPrice)
	assert.ErrorIs(t, err, services.ErrInvalidInvoice)

	// Nothing above may have touched the balance.
	contact, err := repos.ContactRepo.FindContactByID(ctx, domain.Customer, contactID)
	require.NoError(t, err)
	assert.True(t, contact.Balance.IsZero())
}

func TestPostInvoiceUnknownContact(t *testing.T) {
	ledger, _ := newLedgerFixture(t, nil)

	_, err := ledger.PostInvoice(context.Background(), salesInvoiceFor(42))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRecordPaymentReturnsBalanceToZero(t *testing.T) {
	ledger, repos := newLedgerFixture(t, nil)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")

	_, err := ledger.PostInvoice(ctx, salesInvoiceFor(contactID))
	require.NoError(t, err)

	payment, err := ledger.RecordPayment(ctx, domain.Customer, contactID, dto.RecordPaymentRequest{
		Amount: decimal.RequireFromString("25.00"),
		Note:   "cash",
	})
	require.NoError(t, err)
	assert.NotZero(t, payment.PaymentID)
	assert.Equal(t, "Ahmed", payment.ContactName)

	contact, err := repos.ContactRepo.FindContactByID(ctx, domain.Customer, contactID)
	require.NoError(t, err)
	assert.True(t, contact.Balance.IsZero())
}

func TestRecordPaymentRejectsNonPositiveAmounts(t *testing.T) {
	ledger, repos := newLedgerFixture(t, nil)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Supplier, "Al-Noor Trading")

	for _, amount := range []string{"0", "-5"} {
		_, err := ledger.RecordPayment(ctx, domain.Supplier, contactID, dto.RecordPaymentRequest{
			Amount: decimal.RequireFromString(amount),
		})
		assert.ErrorIs(t, err, services.ErrInvalidAmount)
	}
}

func TestRecordPaymentUnknownContact(t *testing.T) {
	ledger, _ := newLedgerFixture(t, nil)

	_, err := ledger.RecordPayment(context.Background(), domain.Customer, 99, dto.RecordPaymentRequest{
		Amount: decimal.RequireFromString("10"),
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBalanceInvariantOverMixedSequence(t *testing.T) {
	ledger, repos := newLedgerFixture(t, nil)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")

	// Two invoices and two payments; final balance must equal
	// sum(invoice totals) - sum(payment amounts).
	_, err := ledger.PostInvoice(ctx, salesInvoiceFor(contactID)) // +25.00
	require.NoError(t, err)
	_, err = ledger.PostInvoice(ctx, salesInvoiceFor(contactID)) // +25.00
	require.NoError(t, err)
	_, err = ledger.RecordPayment(ctx, domain.Customer, contactID, dto.RecordPaymentRequest{Amount: decimal.RequireFromString("30.00")})
	require.NoError(t, err)
	_, err = ledger.RecordPayment(ctx, domain.Customer, contactID, dto.RecordPaymentRequest{Amount: decimal.RequireFromString("5.50")})
	require.NoError(t, err)

	contact, err := repos.ContactRepo.FindContactByID(ctx, domain.Customer, contactID)
	require.NoError(t, err)
	assert.True(t, contact.Balance.Equal(decimal.RequireFromString("14.50")))
}

func TestLedgerPublishesEvents(t *testing.T) {
	publisher := &capturingPublisher{}
	ledger, repos := newLedgerFixture(t, publisher)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")

	_, err := ledger.PostInvoice(ctx, salesInvoiceFor(contactID))
	require.NoError(t, err)
	_, err = ledger.PostInvoice(ctx, salesInvoiceFor(contactID))
	require.NoError(t, err)
	_, err = ledger.RecordPayment(ctx, domain.Customer, contactID, dto.RecordPaymentRequest{Amount: decimal.RequireFromString("25.00")})
	require.NoError(t, err)

	// NewBalance comes back from the balance write itself, so consecutive
	// events carry the running balance.
	require.Len(t, publisher.events, 3)
	assert.Equal(t, portsevents.TypeInvoiceCommitted, publisher.events[0].Type)
	assert.True(t, publisher.events[0].NewBalance.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, portsevents.TypeInvoiceCommitted, publisher.events[1].Type)
	assert.True(t, publisher.events[1].NewBalance.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, portsevents.TypePaymentRecorded, publisher.events[2].Type)
	assert.True(t, publisher.events[2].NewBalance.Equal(decimal.RequireFromString("25.00")))
}

func TestPublishFailureNeverFailsTheWrite(t *testing.T) {
	publisher := &capturingPublisher{failWith: errors.New("broker down")}
	ledger, repos := newLedgerFixture(t, publisher)
	ctx := context.Background()
	contactID := seedContact(t, repos, domain.Customer, "Ahmed")

	_, err := ledger.PostInvoice(ctx, salesInvoiceFor(contactID))
	require.NoError(t, err)

	contact, err := repos.ContactRepo.FindContactByID(ctx, domain.Customer, contactID)
	require.NoError(t, err)
	assert.True(t, contact.Balance.Equal(decimal.RequireFromString("25.00")))
}
