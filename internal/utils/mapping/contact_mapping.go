package mapping

import (
	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/medrar/medrar_books_app/internal/models"
)

// ToModelContact converts a domain Contact to a model Contact
func ToModelContact(d domain.Contact) models.Contact {
	return models.Contact{
		ContactID:   d.ContactID,
		Kind:        models.ContactKind(d.Kind),
		Name:        d.Name,
		Phone:       d.Phone,
		Balance:     d.Balance,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainContact converts a model Contact to a domain Contact
func ToDomainContact(m models.Contact) domain.Contact {
	return domain.Contact{
		ContactID:   m.ContactID,
		Kind:        domain.ContactKind(m.Kind),
		Name:        m.Name,
		Phone:       m.Phone,
		Balance:     m.Balance,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainContactSlice converts a slice of model Contacts to domain Contacts
func ToDomainContactSlice(ms []models.Contact) []domain.Contact {
	ds := make([]domain.Contact, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainContact(m)
	}
	return ds
}
