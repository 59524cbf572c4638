package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductMovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es mutable (edición y borrado directos); no guarda historial de cambios.
type ProductMovementRepository interface {
	// Create asigna ID al movimiento.
	Create(ctx context.Context, movement *entity.ProductMovement) error
	GetByID(ctx context.Context, id int64) (*entity.ProductMovement, error)
	Update(ctx context.Context, movement *entity.ProductMovement) error
	Delete(ctx context.Context, id int64) error
	// ListByTimestampDesc devuelve el libro completo, más reciente primero (empate: ID descendente).
	ListByTimestampDesc(ctx context.Context) ([]*entity.ProductMovement, error)
	ListByProduct(ctx context.Context, productID int64) ([]*entity.ProductMovement, error)
	// CountByProduct y CountByLocation sostienen la política de borrado bloqueado de datos maestros.
	CountByProduct(ctx context.Context, productID int64) (int64, error)
	CountByLocation(ctx context.Context, locationID int64) (int64, error)
	Count(ctx context.Context) (int64, error)
}
