package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

var _ StockReporter = (*ReportUseCase)(nil)

// ReportUseCase recalcula los saldos desde el libro en cada llamada (sin saldo materializado).
// Productos, ubicaciones y movimientos se leen en una única transacción de solo lectura, así
// el reporte refleja un estado que existió durante la llamada.
type ReportUseCase struct {
	txRunner  TxRunner
	generator ReportPDFGenerator
}

// NewReportUseCase construye el caso de uso. generator puede ser nil si no se exporta PDF.
func NewReportUseCase(txRunner TxRunner, generator ReportPDFGenerator) *ReportUseCase {
	return &ReportUseCase{txRunner: txRunner, generator: generator}
}

// GenerateReport devuelve producto -> ubicación -> saldo para todo el producto cartesiano.
func (uc *ReportUseCase) GenerateReport(ctx context.Context) (entity.StockReport, error) {
	report, _, _, err := uc.snapshotReport(ctx)
	return report, err
}

// GetBalance devuelve el saldo de un par. domain.ErrNotFound si el producto o la ubicación no existen.
func (uc *ReportUseCase) GetBalance(ctx context.Context, productID, locationID int64) (int64, error) {
	var balance int64
	err := uc.txRunner.RunReadOnly(ctx, func(repos TxRepos) error {
		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		location, err := repos.Locations.GetByID(ctx, locationID)
		if err != nil {
			return err
		}
		if product == nil || location == nil {
			return domain.ErrNotFound
		}
		movements, err := repos.Movements.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		balance = inventory.BalanceOf(movements, productID, locationID)
		return nil
	})
	return balance, err
}

// GenerateReportPDF renderiza el reporte actual como PDF.
func (uc *ReportUseCase) GenerateReportPDF(ctx context.Context) ([]byte, error) {
	if uc.generator == nil {
		return nil, domain.ErrNotFound
	}
	report, products, locations, err := uc.snapshotReport(ctx)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateStockReportPDF(ctx, report, products, locations)
}

func (uc *ReportUseCase) snapshotReport(ctx context.Context) (entity.StockReport, []*entity.Product, []*entity.Location, error) {
	var (
		products  []*entity.Product
		locations []*entity.Location
		movements []*entity.ProductMovement
	)
	err := uc.txRunner.RunReadOnly(ctx, func(repos TxRepos) error {
		var err error
		if products, err = repos.Products.List(ctx); err != nil {
			return err
		}
		if locations, err = repos.Locations.List(ctx); err != nil {
			return err
		}
		movements, err = repos.Movements.ListByTimestampDesc(ctx)
		return err
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return inventory.ComputeStockReport(products, locations, movements), products, locations, nil
}

// ToStockReportResponse adapta el reporte de dominio a su forma JSON.
func ToStockReportResponse(report entity.StockReport) dto.StockReportResponse {
	out := make(dto.StockReportResponse, len(report))
	for productID, ps := range report {
		locs := make(map[int64]dto.LocationBalanceDTO, len(ps.Locations))
		for locationID, lb := range ps.Locations {
			locs[locationID] = dto.LocationBalanceDTO{Name: lb.Name, Balance: lb.Balance}
		}
		out[productID] = dto.ProductStockDTO{Name: ps.Name, SKU: ps.SKU, Locations: locs}
	}
	return out
}
