// Package analytics contiene los casos de uso de lectura para el tablero principal.
package analytics

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// DashboardUseCase genera los contadores del tablero (productos, ubicaciones, movimientos).
// Las tres cuentas se leen en la misma instantánea.
type DashboardUseCase struct {
	txRunner inventory.TxRunner
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(txRunner inventory.TxRunner) *DashboardUseCase {
	return &DashboardUseCase{txRunner: txRunner}
}

// GetSummary devuelve los contadores actuales.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var out dto.DashboardSummaryDTO
	err := uc.txRunner.RunReadOnly(ctx, func(repos inventory.TxRepos) error {
		var err error
		if out.ProductsCount, err = repos.Products.Count(ctx); err != nil {
			return err
		}
		if out.LocationsCount, err = repos.Locations.Count(ctx); err != nil {
			return err
		}
		out.MovementsCount, err = repos.Movements.Count(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
