package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	portsrepo "github.com/medrar/medrar_books_app/internal/core/ports/repositories"
	portssvc "github.com/medrar/medrar_books_app/internal/core/ports/services"
	"github.com/medrar/medrar_books_app/internal/dto"
	"github.com/medrar/medrar_books_app/internal/middleware"
	"github.com/medrar/medrar_books_app/internal/utils"
	"github.com/shopspring/decimal"
)

type productService struct {
	productRepo portsrepo.ProductRepositoryFacade
}

// NewProductService creates the catalog service.
func NewProductService(productRepo portsrepo.ProductRepositoryFacade) portssvc.ProductSvcFacade {
	return &productService{productRepo: productRepo}
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*domain.Product, error) {
	now := time.Now().UTC()
	product := domain.Product{
		Name: req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if req.Price != nil {
		product.Price = decimal.NewNullDecimal(*req.Price)
	}

	productID, err := s.productRepo.SaveProduct(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	product.ProductID = productID

	middleware.GetLoggerFromCtx(ctx).Info("Product created", slog.Int64("productID", productID))
	return &product, nil
}

func (s *productService) GetProductByID(ctx context.Context, productID int64) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if query == "" {
		return products, nil
	}
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if utils.SearchMatch(p.Name, query) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *productService) UpdateProduct(ctx context.Context, productID int64, req dto.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	switch {
	case req.ClearPrice:
		product.Price = decimal.NullDecimal{}
	case req.Price != nil:
		product.Price = decimal.NewNullDecimal(*req.Price)
	}
	product.LastUpdatedAt = time.Now().UTC()

	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", productID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Product updated", slog.Int64("productID", productID))
	return product, nil
}

// DeleteProduct removes a product from the catalog. Committed invoice lines
// keep their name snapshots, so history is unaffected.
func (s *productService) DeleteProduct(ctx context.Context, productID int64) error {
	if err := s.productRepo.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", productID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Product deleted", slog.Int64("productID", productID))
	return nil
}
