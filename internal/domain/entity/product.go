package entity

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (dato maestro).
// SKU es único en todo el sistema; Price es opcional.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       *decimal.Decimal
	SKU         string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct construye un producto validado y normalizado (sin ID: lo asigna el almacén).
func NewProduct(name, description string, price *decimal.Decimal, sku string, now time.Time) (*Product, error) {
	p := &Product{
		Name:        name,
		Description: description,
		Price:       price,
		SKU:         sku,
		CreatedAt:   now.UTC().Truncate(time.Microsecond),
	}
	p.UpdatedAt = p.CreatedAt
	if err := p.Normalize(); err != nil {
		return nil, err
	}
	return p, nil
}

// Normalize normaliza nombre y SKU y verifica los invariantes del producto.
// Se invoca en creación y tras cada edición.
func (p *Product) Normalize() error {
	p.Name = NormalizeText(p.Name)
	p.SKU = NormalizeText(p.SKU)
	p.Description = NormalizeText(p.Description)
	if p.Name == "" {
		return domain.ErrInvalidName
	}
	if p.SKU == "" {
		return domain.ErrInvalidSKU
	}
	if p.Price != nil && p.Price.IsNegative() {
		return domain.ErrInvalidPrice
	}
	return nil
}
