package repositories

import (
	"context"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentReader defines read operations for recorded payments.
type PaymentReader interface {
	// FindPaymentByID retrieves a payment. Returns apperrors.ErrNotFound when absent.
	FindPaymentByID(ctx context.Context, kind domain.ContactKind, paymentID int64) (*domain.Payment, error)

	// ListPayments returns all payments of the kind, newest first.
	ListPayments(ctx context.Context, kind domain.ContactKind) ([]domain.Payment, error)
}

// PaymentWriter persists payments. Payments are immutable, so Save is the
// only write.
type PaymentWriter interface {
	// SavePayment persists the payment AND applies balanceDelta to the
	// contact's balance in a single transaction, serialized per contact.
	// Returns the assigned payment identity and the contact's balance after
	// the delta, read under the same lock. Fails with apperrors.ErrNotFound
	// (and writes nothing) when the contact no longer exists.
	SavePayment(ctx context.Context, payment domain.Payment, balanceDelta decimal.Decimal) (int64, decimal.Decimal, error)
}

// PaymentRepositoryFacade combines all payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
