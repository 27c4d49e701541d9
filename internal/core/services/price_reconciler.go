package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	portsrepo "github.com/medrar/medrar_books_app/internal/core/ports/repositories"
	portssvc "github.com/medrar/medrar_books_app/internal/core/ports/services"
	"github.com/medrar/medrar_books_app/internal/middleware"
)

// priceReconciler back-propagates negotiated line prices into the catalog:
// after a commit, each product's reference price becomes the price it was
// last sold or bought at. Failures are logged and skipped, never surfaced,
// because the invoice itself is already safely committed.
type priceReconciler struct {
	productRepo portsrepo.ProductRepositoryFacade
}

// NewPriceReconciler creates the catalog price reconciler.
func NewPriceReconciler(productRepo portsrepo.ProductRepositoryFacade) portssvc.PriceReconcilerSvc {
	return &priceReconciler{productRepo: productRepo}
}

var _ portssvc.PriceReconcilerSvc = (*priceReconciler)(nil)

// ReconcileLines updates the reference price of every product whose line
// price differs from it, including products that had no price at all.
// Returns the number of products updated.
func (s *priceReconciler) ReconcileLines(ctx context.Context, lines []domain.InvoiceLine) int {
	logger := middleware.GetLoggerFromCtx(ctx)
	updated := 0

	for _, line := range lines {
		product, err := s.productRepo.FindProductByID(ctx, line.ProductID)
		if err != nil {
			// The product may have been deleted since the commit started.
			logger.Warn("Price reconciliation skipped",
				slog.Int64("productID", line.ProductID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if product.HasPrice() && product.Price.Decimal.Equal(line.Price) {
			continue
		}
		if err := s.productRepo.UpdateProductPrice(ctx, line.ProductID, line.Price, time.Now().UTC()); err != nil {
			logger.Warn("Failed to reconcile product price",
				slog.Int64("productID", line.ProductID),
				slog.String("error", err.Error()),
			)
			continue
		}
		updated++
	}
	return updated
}
