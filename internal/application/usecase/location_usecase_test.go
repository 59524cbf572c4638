package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func TestLocation_NombreUnicoTrasNormalizar(t *testing.T) {
	uc := usecase.NewLocationUseCase(memory.NewStore())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateLocationRequest{Name: "Bodega Café"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateLocationRequest{Name: " Bodega Café "})
	assert.ErrorIs(t, err, domain.ErrDuplicateLocationName)
}

func TestLocation_Update(t *testing.T) {
	uc := usecase.NewLocationUseCase(memory.NewStore())
	ctx := context.Background()

	a, err := uc.Create(ctx, dto.CreateLocationRequest{Name: "A", Address: "Calle 1"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateLocationRequest{Name: "B"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, a.ID, dto.UpdateLocationRequest{Name: strPtr("B")})
	assert.ErrorIs(t, err, domain.ErrDuplicateLocationName)

	_, err = uc.Update(ctx, a.ID, dto.UpdateLocationRequest{Name: strPtr("  ")})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	out, err := uc.Update(ctx, a.ID, dto.UpdateLocationRequest{Address: strPtr("Calle 2")})
	require.NoError(t, err)
	assert.Equal(t, "A", out.Name)
	assert.Equal(t, "Calle 2", out.Address)
}

func TestLocation_DeleteBloqueadoComoOrigenODestino(t *testing.T) {
	store := memory.NewStore()
	products := usecase.NewProductUseCase(store)
	locations := usecase.NewLocationUseCase(store)
	ledger := inventory.NewLedgerUseCase(store, logger.Nop())
	ctx := context.Background()

	p, err := products.Create(ctx, dto.CreateProductRequest{Name: "W", SKU: "W"})
	require.NoError(t, err)
	from, err := locations.Create(ctx, dto.CreateLocationRequest{Name: "From"})
	require.NoError(t, err)
	to, err := locations.Create(ctx, dto.CreateLocationRequest{Name: "To"})
	require.NoError(t, err)
	_, err = ledger.Record(ctx, dto.RecordMovementRequest{ProductID: p.ID, FromLocationID: from.ID, ToLocationID: to.ID, Quantity: 2})
	require.NoError(t, err)

	assert.ErrorIs(t, locations.Delete(ctx, from.ID), domain.ErrReferencedByMovements)
	assert.ErrorIs(t, locations.Delete(ctx, to.ID), domain.ErrReferencedByMovements)

	list, err := locations.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
