package mapping

import (
	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/medrar/medrar_books_app/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice (header only;
// lines are mapped separately because they live in their own table)
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:   d.InvoiceID,
		Kind:        models.InvoiceKind(d.Kind),
		ContactID:   d.ContactID,
		ContactName: d.ContactName,
		Total:       d.Total,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainInvoice converts a model Invoice plus its lines to a domain Invoice
func ToDomainInvoice(m models.Invoice, lines []models.InvoiceLine) domain.Invoice {
	return domain.Invoice{
		InvoiceID:   m.InvoiceID,
		Kind:        domain.InvoiceKind(m.Kind),
		ContactID:   m.ContactID,
		ContactName: m.ContactName,
		Lines:       ToDomainInvoiceLineSlice(lines),
		Total:       m.Total,
		CreatedAt:   m.CreatedAt,
	}
}

// ToModelInvoiceLine converts a domain InvoiceLine to a model InvoiceLine
func ToModelInvoiceLine(d domain.InvoiceLine, invoiceID int64, position int) models.InvoiceLine {
	return models.InvoiceLine{
		InvoiceID:   invoiceID,
		Position:    position,
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		Quantity:    d.Quantity,
		Price:       d.Price,
		Total:       d.Total,
	}
}

// ToDomainInvoiceLine converts a model InvoiceLine to a domain InvoiceLine
func ToDomainInvoiceLine(m models.InvoiceLine) domain.InvoiceLine {
	return domain.InvoiceLine{
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		Price:       m.Price,
		Total:       m.Total,
	}
}

// ToDomainInvoiceLineSlice converts a slice of model lines to domain lines
func ToDomainInvoiceLineSlice(ms []models.InvoiceLine) []domain.InvoiceLine {
	ds := make([]domain.InvoiceLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoiceLine(m)
	}
	return ds
}
