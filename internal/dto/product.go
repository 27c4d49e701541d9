package dto

import (
	"time"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the data needed to create a catalog product.
// Price is optional: omitting it creates a product with no reference price.
type CreateProductRequest struct {
	Name  string           `json:"name" binding:"required"`
	Price *decimal.Decimal `json:"price" binding:"omitempty,gte=0"`
}

// UpdateProductRequest defines the data allowed for updating a product.
// Pointers distinguish "not provided" from zero values. ClearPrice removes
// the reference price entirely.
type UpdateProductRequest struct {
	Name       *string          `json:"name"`
	Price      *decimal.Decimal `json:"price" binding:"omitempty,gte=0"`
	ClearPrice bool             `json:"clearPrice"`
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ProductID     int64            `json:"productID"`
	Name          string           `json:"name"`
	Price         *decimal.Decimal `json:"price"` // null when no price is set
	CreatedAt     time.Time        `json:"createdAt"`
	LastUpdatedAt time.Time        `json:"lastUpdatedAt"`
}

// ToProductResponse converts a domain.Product to its response DTO.
func ToProductResponse(p *domain.Product) ProductResponse {
	resp := ProductResponse{
		ProductID:     p.ProductID,
		Name:          p.Name,
		CreatedAt:     p.CreatedAt,
		LastUpdatedAt: p.LastUpdatedAt,
	}
	if p.Price.Valid {
		price := p.Price.Decimal
		resp.Price = &price
	}
	return resp
}

// ToProductResponses converts a slice of products.
func ToProductResponses(products []domain.Product) []ProductResponse {
	resps := make([]ProductResponse, len(products))
	for i := range products {
		resps[i] = ToProductResponse(&products[i])
	}
	return resps
}
