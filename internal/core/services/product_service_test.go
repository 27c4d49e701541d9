package services_test

import (
	"context"
	"testing"

	"github.com/medrar/medrar_books_app/internal/apperrors"
	"github.com/medrar/medrar_books_app/internal/core/services"
	"github.com/medrar/medrar_books_app/internal/dto"
	"github.com/medrar/medrar_books_app/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductWithAndWithoutPrice(t *testing.T) {
	repos := memory.NewRepositoryProvider(memory.NewStore())
	svc := services.NewProductService(repos.ProductRepo)
	ctx := context.Background()

	price := decimal.RequireFromString("10.00")
	priced, err := svc.CreateProduct(ctx, dto.CreateProductRequest{Name: "Rice 5kg", Price: &price})
	require.NoError(t, err)
	assert.True(t, priced.HasPrice())
	assert.True(t, priced.PriceOrZero().Equal(price))

	unpriced, err := svc.CreateProduct(ctx, dto.CreateProductRequest{Name: "Flour 10kg"})
	require.NoError(t, err)
	assert.False(t, unpriced.HasPrice())
	assert.True(t, unpriced.PriceOrZero().IsZero())
}

func TestUpdateProductClearPrice(t *testing.T) {
	repos := memory.NewRepositoryProvider(memory.NewStore())
	svc := services.NewProductService(repos.ProductRepo)
	ctx := context.Background()

	price := decimal.RequireFromString("10.00")
	product, err := svc.CreateProduct(ctx, dto.CreateProductRequest{Name: "Rice 5kg", Price: &price})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, product.ProductID, dto.UpdateProductRequest{ClearPrice: true})
	require.NoError(t, err)
	assert.False(t, updated.HasPrice())

	newPrice := decimal.RequireFromString("11.50")
	newName := "Rice 5kg premium"
	updated, err = svc.UpdateProduct(ctx, product.ProductID, dto.UpdateProductRequest{Name: &newName, Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, "Rice 5kg premium", updated.Name)
	assert.True(t, updated.PriceOrZero().Equal(newPrice))
}

func TestListProductsSearch(t *testing.T) {
	repos := memory.NewRepositoryProvider(memory.NewStore())
	svc := services.NewProductService(repos.ProductRepo)
	ctx := context.Background()

	for _, name := range []string{"Rice 5kg", "Basmati  RICE 1kg", "Sugar 1kg"} {
		_, err := svc.CreateProduct(ctx, dto.CreateProductRequest{Name: name})
		require.NoError(t, err)
	}

	all, err := svc.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	rice, err := svc.ListProducts(ctx, "rice")
	require.NoError(t, err)
	assert.Len(t, rice, 2)
}

func TestDeleteProduct(t *testing.T) {
	repos := memory.NewRepositoryProvider(memory.NewStore())
	svc := services.NewProductService(repos.ProductRepo)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, dto.CreateProductRequest{Name: "Rice 5kg"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, product.ProductID))
	_, err = svc.GetProductByID(ctx, product.ProductID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, product.ProductID), apperrors.ErrNotFound)
}
