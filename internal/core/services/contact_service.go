package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	portsrepo "github.com/medrar/medrar_books_app/internal/core/ports/repositories"
	portssvc "github.com/medrar/medrar_books_app/internal/core/ports/services"
	"github.com/medrar/medrar_books_app/internal/dto"
	"github.com/medrar/medrar_books_app/internal/middleware"
	"github.com/medrar/medrar_books_app/internal/utils"
	"github.com/shopspring/decimal"
)

type contactService struct {
	contactRepo portsrepo.ContactRepositoryFacade
}

// NewContactService creates the customer/supplier service.
func NewContactService(contactRepo portsrepo.ContactRepositoryFacade) portssvc.ContactSvcFacade {
	return &contactService{contactRepo: contactRepo}
}

var _ portssvc.ContactSvcFacade = (*contactService)(nil)

func (s *contactService) CreateContact(ctx context.Context, kind domain.ContactKind, req dto.CreateContactRequest) (*domain.Contact, error) {
	now := time.Now().UTC()
	contact := domain.Contact{
		Kind:    kind,
		Name:    req.Name,
		Phone:   req.Phone,
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

	middleware.GetLoggerFromCtx(ctx).Info("Contact created",
		slog.String("kind", string(kind)),
		slog.Int64("contactID", contactID),
	)
	return &contact, nil
}

func (s *contactService) GetContactByID(ctx context.Context, kind domain.ContactKind, contactID int64) (*domain.Contact, error) {
	contact, err := s.contactRepo.FindContactByID(ctx, kind, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact %d: %w", contactID, err)
	}
	return contact, nil
}

func (s *contactService) ListContacts(ctx context.Context, kind domain.ContactKind, query string) ([]domain.Contact, error) {
	contacts, err := s.contactRepo.ListContacts(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	if query == "" {
		return contacts, nil
	}
	filtered := make([]domain.Contact, 0, len(contacts))
	for _, c := range contacts {
		if utils.SearchMatch(c.Name, query) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// UpdateContact changes name and phone only. The balance is untouchable here:
// it only ever moves through the ledger.
func (s *contactService) UpdateContact(ctx context.Context, kind domain.ContactKind, contactID int64, req dto.UpdateContactRequest) (*domain.Contact, error) {
	contact, err := s.contactRepo.FindContactByID(ctx, kind, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact %d: %w", contactID, err)
	}

	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	contact.LastUpdatedAt = time.Now().UTC()

	if err := s.contactRepo.UpdateContact(ctx, *contact); err != nil {
		return nil, fmt.Errorf("failed to update contact %d: %w", contactID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Contact updated",
		slog.String("kind", string(kind)),
		slog.Int64("contactID", contactID),
	)
	return contact, nil
}

// DeleteContact removes the contact record only. Invoices and payments keep
// their name snapshots, and the outstanding balance disappears with the
// contact.
func (s *contactService) DeleteContact(ctx context.Context, kind domain.ContactKind, contactID int64) error {
	if err := s.contactRepo.DeleteContact(ctx, kind, contactID); err != nil {
		return fmt.Errorf("failed to delete contact %d: %w", contactID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Contact deleted",
		slog.String("kind", string(kind)),
		slog.Int64("contactID", contactID),
	)
	return nil
}
