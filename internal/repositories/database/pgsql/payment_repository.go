package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/medrar/medrar_books_app/internal/apperrors"
	"github.com/medrar/medrar_books_app/internal/core/domain"
	portsrepo "github.com/medrar/medrar_books_app/internal/core/ports/repositories"
	"github.com/medrar/medrar_books_app/internal/models"
	"github.com/medrar/medrar_books_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payments.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPaymentRepository implements portsrepo.PaymentRepositoryFacade
var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

// SavePayment inserts the payment and moves the contact balance by
// balanceDelta in one DB transaction, serialized per contact by the row lock.
// The returned balance is the contact's balance after the delta, read while
// the row is still locked.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment, balanceDelta decimal.Decimal) (int64, decimal.Decimal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, decimal.Zero, err
	}
	defer r.Rollback(ctx, tx) // No-op after a successful commit

	modelPayment := mapping.ToModelPayment(payment)

	if _, err := lockContactForUpdate(ctx, tx, modelPayment.Kind, modelPayment.ContactID); err != nil {
		return 0, decimal.Zero, err
	}

	query := `
		INSERT INTO payments (kind, contact_id, contact_name, amount, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING payment_id;
	`
	var paymentID int64
	err = tx.QueryRow(ctx, query,
		modelPayment.Kind,
		modelPayment.ContactID,
		modelPayment.ContactName,
		modelPayment.Amount,
		modelPayment.Note,
		modelPayment.CreatedAt,
	).Scan(&paymentID)
	if err != nil {
		return 0, decimal.Zero, apperrors.NewAppError(500, "failed to insert payment", err)
	}

	newBalance, err := applyBalanceDeltaInTx(ctx, tx, modelPayment.Kind, modelPayment.ContactID, balanceDelta, modelPayment.CreatedAt)
	if err != nil {
		return 0, decimal.Zero, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, decimal.Zero, err
	}
	return paymentID, newBalance, nil
}

// FindPaymentByID retrieves a payment by kind and ID.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, kind domain.ContactKind, paymentID int64) (*domain.Payment, error) {
	query := `
		SELECT payment_id, kind, contact_id, contact_name, amount, note, created_at
		FROM payments
		WHERE payment_id = $1 AND kind = $2;
	`
	var m models.Payment
	err := r.Pool.QueryRow(ctx, query, paymentID, models.ContactKind(kind)).Scan(
		&m.PaymentID,
		&m.Kind,
		&m.ContactID,
		&m.ContactName,
		&m.Amount,
		&m.Note,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find payment %d", paymentID), err)
	}

	domainPayment := mapping.ToDomainPayment(m)
	return &domainPayment, nil
}

// ListPayments returns all payments of the kind, newest first.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, kind domain.ContactKind) ([]domain.Payment, error) {
	query := `
		SELECT payment_id, kind, contact_id, contact_name, amount, note, created_at
		FROM payments
		WHERE kind = $1
		ORDER BY created_at DESC, payment_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, models.ContactKind(kind))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payments", err)
	}
	defer rows.Close()

	modelPayments := []models.Payment{}
	for rows.Next() {
		var m models.Payment
		if err := rows.Scan(&m.PaymentID, &m.Kind, &m.ContactID, &m.ContactName, &m.Amount, &m.Note, &m.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment row", err)
		}
		modelPayments = append(modelPayments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment rows", err)
	}

	return mapping.ToDomainPaymentSlice(modelPayments), nil
}
