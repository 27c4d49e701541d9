package models

import "github.com/shopspring/decimal"

// Product represents a row of the products table. The reference price column
// is nullable: NULL means no price has been set yet.
type Product struct {
	ProductID int64               `json:"productID"` // Primary Key (BIGSERIAL)
	Name      string              `json:"name"`
	Price     decimal.NullDecimal `json:"price"`
	AuditFields
}
