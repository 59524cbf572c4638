package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func TestNewProduct_Normaliza(t *testing.T) {
	price := decimal.RequireFromString("999.99")
	p, err := entity.NewProduct("  Laptop ", "Equipo", &price, " LAP-001 ", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Laptop", p.Name)
	assert.Equal(t, "LAP-001", p.SKU)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestNewProduct_Invariantes(t *testing.T) {
	neg := decimal.NewFromInt(-1)

	_, err := entity.NewProduct("   ", "", nil, "SKU", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = entity.NewProduct("Laptop", "", nil, "", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidSKU)

	_, err = entity.NewProduct("Laptop", "", &neg, "SKU", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = entity.NewProduct("Laptop", "", nil, "SKU", time.Now())
	assert.NoError(t, err, "el precio es opcional")
}

// Nombres visualmente idénticos (NFC vs NFD) deben normalizarse igual.
func TestNewLocation_NormalizaUnicode(t *testing.T) {
	composed, err := entity.NewLocation("Bodega Caf\u00e9", "", time.Now())
	require.NoError(t, err)
	decomposed, err := entity.NewLocation("Bodega Cafe\u0301", "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, composed.Name, decomposed.Name)

	_, err = entity.NewLocation(" ", "Calle 1", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}
