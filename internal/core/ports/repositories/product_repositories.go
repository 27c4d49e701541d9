package repositories

import (
	"context"
	"time"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProductReader defines read operations for catalog data.
type ProductReader interface {
	// FindProductByID retrieves a product by its identity.
	// Returns apperrors.ErrNotFound when absent.
	FindProductByID(ctx context.Context, productID int64) (*domain.Product, error)

	// FindProductsByIDs retrieves multiple products, keyed by identity.
	// Missing ids are simply absent from the map; the caller decides whether
	// that is an error.
	FindProductsByIDs(ctx context.Context, productIDs []int64) (map[int64]domain.Product, error)

	// ListProducts returns the whole catalog ordered by name.
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// ProductWriter defines write operations for catalog data.
type ProductWriter interface {
	// SaveProduct inserts a new product and returns its assigned identity.
	SaveProduct(ctx context.Context, product domain.Product) (int64, error)

	// UpdateProduct replaces the mutable fields (name, price) of a product.
	UpdateProduct(ctx context.Context, product domain.Product) error

	// UpdateProductPrice sets only the reference price and the update stamp.
	// Used by the price reconciler after an invoice commit.
	UpdateProductPrice(ctx context.Context, productID int64, price decimal.Decimal, now time.Time) error

	// DeleteProduct removes a product. Historical invoice lines keep their
	// name snapshots, so nothing cascades.
	DeleteProduct(ctx context.Context, productID int64) error
}

// ProductRepositoryFacade combines all product repository interfaces.
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}
