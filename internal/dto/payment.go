package dto

import (
	"time"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest defines the data needed to record a cash payment
// against a contact. The gt=0 rule works because main registers a custom
// validator type func that exposes decimals to the binding layer as floats.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Note   string          `json:"note"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID   int64              `json:"paymentID"`
	Kind        domain.ContactKind `json:"kind"`
	ContactID   int64              `json:"contactID"`
	ContactName string             `json:"contactName"`
	Amount      decimal.Decimal    `json:"amount"`
	Note        string             `json:"note"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// ToPaymentResponse converts a domain.Payment to its response DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:   p.PaymentID,
		Kind:        p.Kind,
		ContactID:   p.ContactID,
		ContactName: p.ContactName,
		Amount:      p.Amount,
		Note:        p.Note,
		CreatedAt:   p.CreatedAt,
	}
}

// ToPaymentResponses converts a slice of payments.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	resps := make([]PaymentResponse, len(payments))
	for i := range payments {
		resps[i] = ToPaymentResponse(&payments[i])
	}
	return resps
}
