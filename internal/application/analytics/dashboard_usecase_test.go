package analytics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func TestGetSummary(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	uc := analytics.NewDashboardUseCase(store)

	empty, err := uc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.DashboardSummaryDTO{}, *empty)

	p, err := usecase.NewProductUseCase(store).Create(ctx, dto.CreateProductRequest{Name: "W", SKU: "W"})
	require.NoError(t, err)
	l, err := usecase.NewLocationUseCase(store).Create(ctx, dto.CreateLocationRequest{Name: "L"})
	require.NoError(t, err)
	ledger := inventory.NewLedgerUseCase(store, logger.Nop())
	for i := 0; i < 3; i++ {
		_, err := ledger.Record(ctx, dto.RecordMovementRequest{ProductID: p.ID, ToLocationID: l.ID, Quantity: 1})
		require.NoError(t, err)
	}

	out, err := uc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.DashboardSummaryDTO{ProductsCount: 1, LocationsCount: 1, MovementsCount: 3}, *out)
}
