package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// MovementDraft estado propuesto de un movimiento (alta o resultado de una edición).
type MovementDraft struct {
	ProductID      int64
	FromLocationID *int64
	ToLocationID   *int64
	Quantity       int64
}

// ValidateMovement aplica las reglas del libro en orden y se detiene en la primera falla:
//  1. cantidad positiva
//  2. al menos una ubicación
//  3. origen distinto de destino
//  4. el producto existe
//  5. cada ubicación informada existe
//
// No modifica nada. Los repositorios deben ser los de la transacción en curso para que
// la verificación de existencia no compita con un borrado concurrente.
func ValidateMovement(
	ctx context.Context,
	products repository.ProductRepository,
	locations repository.LocationRepository,
	draft MovementDraft,
) error {
	if err := entity.ValidateMovementShape(draft.FromLocationID, draft.ToLocationID, draft.Quantity); err != nil {
		return err
	}

	product, err := products.GetByID(ctx, draft.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrUnknownProduct
	}

	for _, locID := range []*int64{draft.FromLocationID, draft.ToLocationID} {
		if locID == nil {
			continue
		}
		loc, err := locations.GetByID(ctx, *locID)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.ErrUnknownLocation
		}
	}
	return nil
}
