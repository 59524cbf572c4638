package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Las categorías se comparan con errors.Is; los errores específicos envuelven su categoría.
var (
	ErrValidation       = errors.New("entrada inválida")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrUnknownReference = errors.New("referencia inexistente")
	ErrTimeout          = errors.New("tiempo de espera agotado")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
)

// Validación estructural de movimientos y datos maestros.
var (
	ErrInvalidQuantity = fmt.Errorf("%w: la cantidad debe ser un entero positivo", ErrValidation)
	ErrMissingEndpoint = fmt.Errorf("%w: se requiere ubicación origen o destino", ErrValidation)
	ErrSameEndpoint    = fmt.Errorf("%w: origen y destino no pueden ser la misma ubicación", ErrValidation)
	ErrInvalidName     = fmt.Errorf("%w: el nombre es obligatorio", ErrValidation)
	ErrInvalidSKU      = fmt.Errorf("%w: el SKU es obligatorio", ErrValidation)
	ErrInvalidPrice    = fmt.Errorf("%w: el precio no puede ser negativo", ErrValidation)
)

// Conflictos de unicidad, integridad referencial o escritura concurrente.
var (
	ErrDuplicateSKU          = fmt.Errorf("%w: el SKU ya existe", ErrConflict)
	ErrDuplicateLocationName = fmt.Errorf("%w: ya existe una ubicación con ese nombre", ErrConflict)
	ErrReferencedByMovements = fmt.Errorf("%w: el registro tiene movimientos asociados", ErrConflict)
	ErrConcurrentWrite       = fmt.Errorf("%w: escritura concurrente, reintente", ErrConflict)
)

// Referencias colgantes desde un movimiento.
var (
	ErrUnknownProduct  = fmt.Errorf("%w: producto inexistente", ErrUnknownReference)
	ErrUnknownLocation = fmt.Errorf("%w: ubicación inexistente", ErrUnknownReference)
)

// IsRetryable indica si la operación puede reintentarse sin cambios.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrConcurrentWrite)
}
