package services

import (
	"context"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/medrar/medrar_books_app/internal/dto"
)

// ContactSvcFacade exposes customer/supplier operations. Every call is scoped
// by kind; the two collections never mix.
type ContactSvcFacade interface {
	CreateContact(ctx context.Context, kind domain.ContactKind, req dto.CreateContactRequest) (*domain.Contact, error)
	GetContactByID(ctx context.Context, kind domain.ContactKind, contactID int64) (*domain.Contact, error)
	// ListContacts returns all contacts of the kind, filtered by a normalized
	// substring match when query is non-empty.
	ListContacts(ctx context.Context, kind domain.ContactKind, query string) ([]domain.Contact, error)
	UpdateContact(ctx context.Context, kind domain.ContactKind, contactID int64, req dto.UpdateContactRequest) (*domain.Contact, error)
	// DeleteContact removes the contact record only; invoices and payments
	// referencing it keep their name snapshots.
	DeleteContact(ctx context.Context, kind domain.ContactKind, contactID int64) error
}
