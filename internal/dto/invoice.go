package dto

import (
	"time"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SelectCounterpartyRequest binds a counterparty to a draft. Either an
// existing contact id or a name for a brand-new contact must be given; the
// new-contact path inserts the record immediately, not at commit time.
type SelectCounterpartyRequest struct {
	ContactID *int64  `json:"contactID"`
	Name      *string `json:"name"`
	Phone     string  `json:"phone"`
}

// AddLineRequest adds a product line to a draft. Either an existing product
// id or a name for a brand-new product (created immediately, without a
// reference price) must be given.
type AddLineRequest struct {
	ProductID *int64  `json:"productID"`
	Name      *string `json:"name"`
}

// UpdateLineRequest edits the quantity and/or unit price of one draft line.
type UpdateLineRequest struct {
	Quantity *int64           `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
}

// InvoiceLineResponse defines the data returned for one invoice line.
type InvoiceLineResponse struct {
	ProductID   int64           `json:"productID"`
	ProductName string          `json:"productName"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceResponse defines the data returned for a committed invoice.
type InvoiceResponse struct {
	InvoiceID   int64                 `json:"invoiceID"`
	Kind        domain.InvoiceKind    `json:"kind"`
	ContactID   int64                 `json:"contactID"`
	ContactName string                `json:"contactName"`
	Lines       []InvoiceLineResponse `json:"lines"`
	Total       decimal.Decimal       `json:"total"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// DraftResponse defines the data returned for an in-progress draft. Total is
// recomputed from the lines on every response.
type DraftResponse struct {
	DraftID     string                `json:"draftID"`
	Kind        domain.InvoiceKind    `json:"kind"`
	ContactID   int64                 `json:"contactID,omitempty"`
	ContactName string                `json:"contactName,omitempty"`
	Lines       []InvoiceLineResponse `json:"lines"`
	Total       decimal.Decimal       `json:"total"`
	Status      domain.DraftStatus    `json:"status"`
	CreatedAt   time.Time             `json:"createdAt"`
}

func toLineResponses(lines []domain.InvoiceLine) []InvoiceLineResponse {
	resps := make([]InvoiceLineResponse, len(lines))
	for i, line := range lines {
		resps[i] = InvoiceLineResponse{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Price:       line.Price,
			Total:       line.Total,
		}
	}
	return resps
}

// ToInvoiceResponse converts a domain.Invoice to its response DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:   inv.InvoiceID,
		Kind:        inv.Kind,
		ContactID:   inv.ContactID,
		ContactName: inv.ContactName,
		Lines:       toLineResponses(inv.Lines),
		Total:       inv.Total,
		CreatedAt:   inv.CreatedAt,
	}
}

// ToInvoiceResponses converts a slice of invoices.
func ToInvoiceResponses(invoices []domain.Invoice) []InvoiceResponse {
	resps := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		resps[i] = ToInvoiceResponse(&invoices[i])
	}
	return resps
}

// ToDraftResponse converts a draft to its response DTO.
func ToDraftResponse(d *domain.InvoiceDraft) DraftResponse {
	return DraftResponse{
		DraftID:     d.DraftID,
		Kind:        d.Kind,
		ContactID:   d.ContactID,
		ContactName: d.ContactName,
		Lines:       toLineResponses(d.Lines),
		Total:       d.Total(),
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
	}
}
