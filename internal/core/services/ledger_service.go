package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/medrar/medrar_books_app/internal/apperrors"
	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/medrar/medrar_books_app/internal/core/ports/events"
	portsrepo "github.com/medrar/medrar_books_app/internal/core/ports/repositories"
	portssvc "github.com/medrar/medrar_books_app/internal/core/ports/services"
	"github.com/medrar/medrar_books_app/internal/dto"
	"github.com/medrar/medrar_books_app/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates a payment amount that is zero or negative.
	ErrInvalidAmount = fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	// ErrInvalidInvoice indicates an invoice that fails the posting checks
	// (no lines, bad quantities, negative prices, mismatched total).
	ErrInvalidInvoice = fmt.Errorf("%w: invoice failed posting checks", apperrors.ErrValidation)
)

type ledgerService struct {
	contactRepo portsrepo.ContactRepositoryFacade
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	paymentRepo portsrepo.PaymentRepositoryFacade
	publisher   events.Publisher
}

// NewLedgerService creates the single owner of balance mutations.
func NewLedgerService(
	contactRepo portsrepo.ContactRepositoryFacade,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	paymentRepo portsrepo.PaymentRepositoryFacade,
	publisher events.Publisher,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		contactRepo: contactRepo,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		publisher:   publisher,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// PostInvoice persists the invoice and moves the counterparty balance by the
// invoice total in one transaction. The total is recomputed from the lines
// here so a caller can never post a total that disagrees with its lines.
func (s *ledgerService) PostInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(invoice.Lines) == 0 {
		return nil, fmt.Errorf("%w: no lines", ErrInvalidInvoice)
	}
	total := decimal.Zero
	for i := range invoice.Lines {
		line := &invoice.Lines[i]
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: line %d has quantity %d", ErrInvalidInvoice, i, line.Quantity)
		}
		if line.Price.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has a negative price", ErrInvalidInvoice, i)
		}
		line.Recalculate()
		total = total.Add(line.Total)
	}
	invoice.Total = total
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now().UTC()
	}

	kind := invoice.Kind.ContactKindFor()
	contact, err := s.contactRepo.FindContactByID(ctx, kind, invoice.ContactID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("counterparty %d: %w", invoice.ContactID, apperrors.ErrNotFound)
		}
		logger.Error("Failed to load counterparty for invoice", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load counterparty: %w", err)
	}
	if invoice.ContactName == "" {
		invoice.ContactName = contact.Name
	}

	invoiceID, newBalance, err := s.invoiceRepo.SaveInvoice(ctx, invoice, invoice.Total)
	if err != nil {
		logger.Error("Failed to save invoice", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	invoice.InvoiceID = invoiceID

	logger.Info("Invoice posted",
		slog.Int64("invoiceID", invoiceID),
		slog.String("kind", string(invoice.Kind)),
		slog.Int64("contactID", invoice.ContactID),
		slog.String("total", invoice.Total.String()),
	)

	s.publish(ctx, events.LedgerEvent{
		Type:       events.TypeInvoiceCommitted,
		Kind:       kind,
		ContactID:  invoice.ContactID,
		RecordID:   invoiceID,
		Amount:     invoice.Total,
		NewBalance: newBalance,
		OccurredAt: invoice.CreatedAt,
	})

	return &invoice, nil
}

// RecordPayment persists the payment and moves the contact balance by
// -amount in one transaction.
func (s *ledgerService) RecordPayment(ctx context.Context, kind domain.ContactKind, contactID int64, req dto.RecordPaymentRequest) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	contact, err := s.contactRepo.FindContactByID(ctx, kind, contactID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("contact %d: %w", contactID, apperrors.ErrNotFound)
		}
		logger.Error("Failed to load contact for payment", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load contact: %w", err)
	}

	payment := domain.Payment{
		Kind:        kind,
		ContactID:   contactID,
		ContactName: contact.Name,
		Amount:      req.Amount,
		Note:        req.Note,
		CreatedAt:   time.Now().UTC(),
	}

	paymentID, newBalance, err := s.paymentRepo.SavePayment(ctx, payment, req.Amount.Neg())
	if err != nil {
		logger.Error("Failed to save payment", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}
	payment.PaymentID = paymentID

	logger.Info("Payment recorded",
		slog.Int64("paymentID", paymentID),
		slog.String("kind", string(kind)),
		slog.Int64("contactID", contactID),
		slog.String("amount", req.Amount.String()),
	)

	s.publish(ctx, events.LedgerEvent{
		Type:       events.TypePaymentRecorded,
		Kind:       kind,
		ContactID:  contactID,
		RecordID:   paymentID,
		Amount:     req.Amount,
		NewBalance: newBalance,
		OccurredAt: payment.CreatedAt,
	})

	return &payment, nil
}

// ListPayments returns all payments of the kind, newest first.
func (s *ledgerService) ListPayments(ctx context.Context, kind domain.ContactKind) ([]domain.Payment, error) {
	payments, err := s.paymentRepo.ListPayments(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// publish delivers a ledger event best-effort. A failed publish is logged and
// never surfaced: the balance write already happened.
func (s *ledgerService) publish(ctx context.Context, event events.LedgerEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to publish ledger event",
			slog.String("type", event.Type),
			slog.Int64("recordID", event.RecordID),
			slog.String("error", err.Error()),
		)
	}
}
