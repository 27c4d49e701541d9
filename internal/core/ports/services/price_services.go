package services

import (
	"context"

	"github.com/medrar/medrar_books_app/internal/core/domain"
)

// PriceReconcilerSvc back-propagates negotiated line prices into the product
// catalog after an invoice commits. Reconciliation is best-effort: it reports
// how many products it updated and never returns an error to the committer.
type PriceReconcilerSvc interface {
	ReconcileLines(ctx context.Context, lines []domain.InvoiceLine) int
}
