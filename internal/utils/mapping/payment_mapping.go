package mapping

import (
	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/medrar/medrar_books_app/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:   d.PaymentID,
		Kind:        models.ContactKind(d.Kind),
		ContactID:   d.ContactID,
		ContactName: d.ContactName,
		Amount:      d.Amount,
		Note:        d.Note,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:   m.PaymentID,
		Kind:        domain.ContactKind(m.Kind),
		ContactID:   m.ContactID,
		ContactName: m.ContactName,
		Amount:      m.Amount,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
	}
}

// ToDomainPaymentSlice converts a slice of model Payments to domain Payments
func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	ds := make([]domain.Payment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayment(m)
	}
	return ds
}
