package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products  repository.ProductRepository
	Locations repository.LocationRepository
	Movements repository.ProductMovementRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso. Las implementaciones aplican un
// timeout acotado y lo reportan como domain.ErrTimeout.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
	// RunReadOnly ejecuta fn sobre una instantánea consistente de solo lectura.
	RunReadOnly(ctx context.Context, fn func(repos TxRepos) error) error
}

// StockReporter deriva saldos a partir del libro. La implementación por defecto recalcula
// en cada llamada; un caché mantenido podría reemplazarla sin tocar a los llamadores.
type StockReporter interface {
	GenerateReport(ctx context.Context) (entity.StockReport, error)
	GetBalance(ctx context.Context, productID, locationID int64) (int64, error)
}

// ReportPDFGenerator renderiza el reporte de saldos como documento PDF.
type ReportPDFGenerator interface {
	GenerateStockReportPDF(
		ctx context.Context,
		report entity.StockReport,
		products []*entity.Product,
		locations []*entity.Location,
	) ([]byte, error)
}
