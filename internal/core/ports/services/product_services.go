package services

import (
	"context"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/medrar/medrar_books_app/internal/dto"
)

// ProductSvcFacade exposes catalog operations to handlers and other services.
type ProductSvcFacade interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*domain.Product, error)
	GetProductByID(ctx context.Context, productID int64) (*domain.Product, error)
	// ListProducts returns the catalog, filtered by a normalized
	// case/whitespace-insensitive substring match when query is non-empty.
	ListProducts(ctx context.Context, query string) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, productID int64, req dto.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error
}
