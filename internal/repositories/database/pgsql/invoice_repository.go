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

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for committed invoices.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryFacade
var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

// SaveInvoice inserts the invoice header and lines, and moves the
// counterparty balance by balanceDelta, all in one DB transaction. The
// contact row is locked first, which serializes concurrent commits against
// the same contact and makes the whole write atomic: either everything lands
// or nothing does. The returned balance is the counterparty's balance after
// the delta, read while the row is still locked.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, balanceDelta decimal.Decimal) (int64, decimal.Decimal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, decimal.Zero, err
	}
	defer r.Rollback(ctx, tx) // No-op after a successful commit

	modelInvoice := mapping.ToModelInvoice(invoice)
	contactKind := models.ContactKind(invoice.Kind.ContactKindFor())

	// 1. Lock the counterparty row. ErrNotFound here means the contact was
	// deleted; the caller reports it and nothing has been written.
	if _, err := lockContactForUpdate(ctx, tx, contactKind, modelInvoice.ContactID); err != nil {
		return 0, decimal.Zero, err
	}

	// 2. Insert the invoice header.
	headerQuery := `
		INSERT INTO invoices (kind, contact_id, contact_name, total, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING invoice_id;
	`
	var invoiceID int64
	err = tx.QueryRow(ctx, headerQuery,
		modelInvoice.Kind,
		modelInvoice.ContactID,
		modelInvoice.ContactName,
		modelInvoice.Total,
		modelInvoice.CreatedAt,
	).Scan(&invoiceID)
	if err != nil {
		return 0, decimal.Zero, apperrors.NewAppError(500, "failed to insert invoice", err)
	}

	// 3. Insert the lines as a batch, preserving composition order.
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO invoice_lines (invoice_id, position, product_id, product_name, quantity, price, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for i, line := range invoice.Lines {
		modelLine := mapping.ToModelInvoiceLine(line, invoiceID, i)
		batch.Queue(lineQuery,
			modelLine.InvoiceID,
			modelLine.Position,
			modelLine.ProductID,
			modelLine.ProductName,
			modelLine.Quantity,
			modelLine.Price,
			modelLine.Total,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return 0, decimal.Zero, apperrors.NewAppError(500, fmt.Sprintf("failed to insert lines of invoice %d", invoiceID), err)
	}

	// 4. Move the balance.
	newBalance, err := applyBalanceDeltaInTx(ctx, tx, contactKind, modelInvoice.ContactID, balanceDelta, modelInvoice.CreatedAt)
	if err != nil {
		return 0, decimal.Zero, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, decimal.Zero, err
	}
	return invoiceID, newBalance, nil
}

// FindInvoiceByID retrieves an invoice with its lines.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, kind domain.InvoiceKind, invoiceID int64) (*domain.Invoice, error) {
	query := `
		SELECT invoice_id, kind, contact_id, contact_name, total, created_at
		FROM invoices
		WHERE invoice_id = $1 AND kind = $2;
	`
	var m models.Invoice
	err := r.Pool.QueryRow(ctx, query, invoiceID, models.InvoiceKind(kind)).Scan(
		&m.InvoiceID,
		&m.Kind,
		&m.ContactID,
		&m.ContactName,
		&m.Total,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find invoice %d", invoiceID), err)
	}

	linesByInvoice, err := r.findLinesByInvoiceIDs(ctx, []int64{invoiceID})
	if err != nil {
		return nil, err
	}

	domainInvoice := mapping.ToDomainInvoice(m, linesByInvoice[invoiceID])
	return &domainInvoice, nil
}

// ListInvoices returns all invoices of the kind, newest first, with lines.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, kind domain.InvoiceKind) ([]domain.Invoice, error) {
	query := `
		SELECT invoice_id, kind, contact_id, contact_name, total, created_at
		FROM invoices
		WHERE kind = $1
		ORDER BY created_at DESC, invoice_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, models.InvoiceKind(kind))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoices", err)
	}
	defer rows.Close()

	modelInvoices := []models.Invoice{}
	invoiceIDs := []int64{}
	for rows.Next() {
		var m models.Invoice
		if err := rows.Scan(&m.InvoiceID, &m.Kind, &m.ContactID, &m.ContactName, &m.Total, &m.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice row", err)
		}
		modelInvoices = append(modelInvoices, m)
		invoiceIDs = append(invoiceIDs, m.InvoiceID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice rows", err)
	}

	linesByInvoice, err := r.findLinesByInvoiceIDs(ctx, invoiceIDs)
	if err != nil {
		return nil, err
	}

	invoices := make([]domain.Invoice, len(modelInvoices))
	for i, m := range modelInvoices {
		invoices[i] = mapping.ToDomainInvoice(m, linesByInvoice[m.InvoiceID])
	}
	return invoices, nil
}

// findLinesByInvoiceIDs fetches lines for a batch of invoices, grouped by
// invoice and ordered by position.
func (r *PgxInvoiceRepository) findLinesByInvoiceIDs(ctx context.Context, invoiceIDs []int64) (map[int64][]models.InvoiceLine, error) {
	if len(invoiceIDs) == 0 {
		return map[int64][]models.InvoiceLine{}, nil
	}

	query := `
		SELECT line_id, invoice_id, position, product_id, product_name, quantity, price, total
		FROM invoice_lines
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, position;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoice lines", err)
	}
	defer rows.Close()

	linesByInvoice := make(map[int64][]models.InvoiceLine)
	for rows.Next() {
		var l models.InvoiceLine
		if err := rows.Scan(&l.LineID, &l.InvoiceID, &l.Position, &l.ProductID, &l.ProductName, &l.Quantity, &l.Price, &l.Total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice line row", err)
		}
		linesByInvoice[l.InvoiceID] = append(linesByInvoice[l.InvoiceID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice line rows", err)
	}
	return linesByInvoice, nil
}
