package events

import (
	"context"
	"time"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Event types emitted by the ledger.
const (
	TypeInvoiceCommitted = "invoice.committed"
	TypePaymentRecorded  = "payment.recorded"
)

// LedgerEvent describes one balance-affecting write. Consumers (dashboards,
// sync jobs) use it instead of re-querying collections after every mutation.
type LedgerEvent struct {
	Type       string             `json:"type"`
	Kind       domain.ContactKind `json:"kind"`
	ContactID  int64              `json:"contactID"`
	RecordID   int64              `json:"recordID"` // Invoice or payment identity
	Amount     decimal.Decimal    `json:"amount"`   // Invoice total or payment amount
	NewBalance decimal.Decimal    `json:"newBalance"`
	OccurredAt time.Time          `json:"occurredAt"`
}

// Publisher delivers ledger events to whatever transport is configured.
// Publishing is best-effort from the caller's point of view: a failed publish
// must never fail the write that produced the event.
type Publisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
	Close() error
}
