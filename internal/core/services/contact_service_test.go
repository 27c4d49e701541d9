package services_test

import (
	"context"
	"testing"

	"github.com/medrar/medrar_books_app/internal/apperrors"
	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/medrar/medrar_books_app/internal/core/services"
	"github.com/medrar/medrar_books_app/internal/dto"
	"github.com/medrar/medrar_books_app/internal/repositories/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactKindsNeverMix(t *testing.T) {
	repos := memory.NewRepositoryProvider(memory.NewStore())
	svc := services.NewContactService(repos.ContactRepo)
	ctx := context.Background()

	customer, err := svc.CreateContact(ctx, domain.Customer, dto.CreateContactRequest{Name: "Ahmed"})
	require.NoError(t, err)

	// The same id does not resolve in the supplier collection.
	_, err = svc.GetContactByID(ctx, domain.Supplier, customer.ContactID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	suppliers, err := svc.ListContacts(ctx, domain.Supplier, "")
	require.NoError(t, err)
	assert.Empty(t, suppliers)
}

func TestListContactsNormalizedSearch(t *testing.T) {
	repos := memory.NewRepositoryProvider(memory.NewStore())
	svc := services.NewContactService(repos.ContactRepo)
	ctx := context.Background()

	for _, name := range []string{"Al-Noor  Trading", "Golden Star", "al noor bakery"} {
		_, err := svc.CreateContact(ctx, domain.Customer, dto.CreateContactRequest{Name: name})
		require.NoError(t, err)
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"GOLDEN", 1},
		{"  noor ", 2}, // Case and surrounding whitespace are ignored
		{"nomatch", 0},
	}
	for _, tc := range tests {
		got, err := svc.ListContacts(ctx, domain.Customer, tc.query)
		require.NoError(t, err)
		assert.Len(t, got, tc.want, "query %q", tc.query)
	}
}

func TestUpdateContactNeverTouchesBalance(t *testing.T) {
	repos := memory.NewRepositoryProvider(memory.NewStore())
	container := services.NewServiceContainer(&repos, nil)
	ctx := context.Background()

	contact, err := container.Contact.CreateContact(ctx, domain.Customer, dto.CreateContactRequest{Name: "Ahmed"})
	require.NoError(t, err)

	// Give the contact a balance through the ledger.
	_, err = container.Ledger.PostInvoice(ctx, salesInvoiceFor(contact.ContactID))
	require.NoError(t, err)

	newName := "Ahmed Saleh"
	newPhone := "0509999999"
	updated, err := container.Contact.UpdateContact(ctx, domain.Customer, contact.ContactID, dto.UpdateContactRequest{
		Name:  &newName,
		Phone: &newPhone,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ahmed Saleh", updated.Name)
	assert.Equal(t, "0509999999", updated.Phone)

	stored, err := container.Contact.GetContactByID(ctx, domain.Customer, contact.ContactID)
	require.NoError(t, err)
	assert.False(t, stored.Balance.IsZero())
}

func TestDeleteContactDoesNotCascade(t *testing.T) {
	repos := memory.NewRepositoryProvider(memory.NewStore())
	container := services.NewServiceContainer(&repos, nil)
	ctx := context.Background()

	contact, err := container.Contact.CreateContact(ctx, domain.Customer, dto.CreateContactRequest{Name: "Ahmed"})
	require.NoError(t, err)
	_, err = container.Ledger.PostInvoice(ctx, salesInvoiceFor(contact.ContactID))
	require.NoError(t, err)

	require.NoError(t, container.Contact.DeleteContact(ctx, domain.Customer, contact.ContactID))

	invoices, err := container.Invoice.ListInvoices(ctx, domain.SalesInvoice)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "Ahmed", invoices[0].ContactName)
}
