package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=100"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	SKU         string           `json:"sku" validate:"required,min=1,max=50"`
}

// UpdateProductRequest entrada para actualizar un producto (campos nil no se modifican).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ClearPrice  bool             `json:"clear_price"`
	SKU         *string          `json:"sku" validate:"omitempty,min=1,max=50"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	SKU         string           `json:"sku"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
