package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medrar/medrar_books_app/internal/apperrors"
	"github.com/medrar/medrar_books_app/internal/core/domain"
	portsrepo "github.com/medrar/medrar_books_app/internal/core/ports/repositories"
	"github.com/medrar/medrar_books_app/internal/models"
	"github.com/medrar/medrar_books_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxProductRepository struct {
	BaseRepository
}

// newPgxProductRepository creates a new repository for catalog data.
func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxProductRepository implements portsrepo.ProductRepositoryFacade
var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

// SaveProduct inserts a new product and returns the identity the database
// assigned to it.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) (int64, error) {
	modelProduct := mapping.ToModelProduct(product)

	query := `
		INSERT INTO products (name, price, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING product_id;
	`
	var productID int64
	err := r.Pool.QueryRow(ctx, query,
		modelProduct.Name,
		modelProduct.Price,
		modelProduct.CreatedAt,
		modelProduct.LastUpdatedAt,
	).Scan(&productID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return 0, fmt.Errorf("%w: product %q already exists", apperrors.ErrDuplicate, modelProduct.Name)
		}
		return 0, apperrors.NewAppError(500, "failed to save product", err)
	}
	return productID, nil
}

// FindProductByID retrieves a product by its ID.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID int64) (*domain.Product, error) {
	query := `
		SELECT product_id, name, price, created_at, last_updated_at
		FROM products
		WHERE product_id = $1;
	`
	var m models.Product
	err := r.Pool.QueryRow(ctx, query, productID).Scan(
		&m.ProductID,
		&m.Name,
		&m.Price,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find product %d", productID), err)
	}

	domainProduct := mapping.ToDomainProduct(m)
	return &domainProduct, nil
}

// FindProductsByIDs retrieves multiple products keyed by identity. IDs that
// match no row are simply absent from the result.
func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, productIDs []int64) (map[int64]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[int64]domain.Product{}, nil
	}

	query := `
		SELECT product_id, name, price, created_at, last_updated_at
		FROM products
		WHERE product_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query products by IDs", err)
	}
	defer rows.Close()

	found := make(map[int64]domain.Product, len(productIDs))
	for rows.Next() {
		var m models.Product
		if err := rows.Scan(&m.ProductID, &m.Name, &m.Price, &m.CreatedAt, &m.LastUpdatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product row", err)
		}
		found[m.ProductID] = mapping.ToDomainProduct(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating product rows", err)
	}
	return found, nil
}

// ListProducts returns the whole catalog ordered by name.
func (r *PgxProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT product_id, name, price, created_at, last_updated_at
		FROM products
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query products", err)
	}
	defer rows.Close()

	modelProducts := []models.Product{}
	for rows.Next() {
		var m models.Product
		if err := rows.Scan(&m.ProductID, &m.Name, &m.Price, &m.CreatedAt, &m.LastUpdatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product row", err)
		}
		modelProducts = append(modelProducts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating product rows", err)
	}

	return mapping.ToDomainProductSlice(modelProducts), nil
}

// UpdateProduct replaces the mutable fields of a product.
func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	modelProduct := mapping.ToModelProduct(product)

	query := `
		UPDATE products
		SET name = $2,
		    price = $3,
		    last_updated_at = $4
		WHERE product_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelProduct.ProductID,
		modelProduct.Name,
		modelProduct.Price,
		modelProduct.LastUpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to update product %d", modelProduct.ProductID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateProductPrice sets only the reference price. Used by the price
// reconciler after a commit.
func (r *PgxProductRepository) UpdateProductPrice(ctx context.Context, productID int64, price decimal.Decimal, now time.Time) error {
	query := `
		UPDATE products
		SET price = $2,
		    last_updated_at = $3
		WHERE product_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, productID, price, now)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to update price of product %d", productID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteProduct removes a product. Invoice lines carry name snapshots and no
// foreign key, so nothing cascades.
func (r *PgxProductRepository) DeleteProduct(ctx context.Context, productID int64) error {
	query := `DELETE FROM products WHERE product_id = $1;`

	cmdTag, err := r.Pool.Exec(ctx, query, productID)
	if err != nil {
		return apperrors.NewAppError(500, fmt.Sprintf("failed to delete product %d", productID), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
