package entity

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Tipos de movimiento derivados de las ubicaciones informadas.
const (
	MovementTypeIN       = "IN"       // entrada: solo destino
	MovementTypeOUT      = "OUT"      // salida: solo origen
	MovementTypeTRANSFER = "TRANSFER" // traslado entre ubicaciones
)

// ProductMovement es un evento del libro de movimientos: Quantity unidades de un
// producto que entran a ToLocationID, salen de FromLocationID, o ambas (traslado).
// Quantity es siempre la magnitud; la dirección la dan las ubicaciones.
type ProductMovement struct {
	ID             int64
	Timestamp      time.Time
	ProductID      int64
	FromLocationID *int64
	ToLocationID   *int64
	Quantity       int64
	CreatedAt      time.Time
}

// NewProductMovement construye un movimiento que cumple las reglas estructurales.
// Un timestamp cero toma el instante now; uno explícito permite cargar históricos.
func NewProductMovement(productID int64, from, to *int64, qty int64, timestamp, now time.Time) (*ProductMovement, error) {
	if err := ValidateMovementShape(from, to, qty); err != nil {
		return nil, err
	}
	if timestamp.IsZero() {
		timestamp = now
	}
	return &ProductMovement{
		Timestamp:      timestamp.UTC().Truncate(time.Microsecond),
		ProductID:      productID,
		FromLocationID: copyID(from),
		ToLocationID:   copyID(to),
		Quantity:       qty,
		CreatedAt:      now.UTC().Truncate(time.Microsecond),
	}, nil
}

// ValidateMovementShape aplica, en orden, las reglas que no requieren consultar datos maestros:
// cantidad positiva, al menos una ubicación, origen distinto de destino.
func ValidateMovementShape(from, to *int64, qty int64) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	if from == nil && to == nil {
		return domain.ErrMissingEndpoint
	}
	if from != nil && to != nil && *from == *to {
		return domain.ErrSameEndpoint
	}
	return nil
}

// Validate revalida un movimiento ya construido (p. ej. tras una edición).
func (m *ProductMovement) Validate() error {
	return ValidateMovementShape(m.FromLocationID, m.ToLocationID, m.Quantity)
}

// Kind devuelve IN, OUT o TRANSFER según las ubicaciones informadas.
func (m *ProductMovement) Kind() string {
	switch {
	case m.FromLocationID != nil && m.ToLocationID != nil:
		return MovementTypeTRANSFER
	case m.ToLocationID != nil:
		return MovementTypeIN
	default:
		return MovementTypeOUT
	}
}

// Touches indica si el movimiento referencia la ubicación como origen o destino.
func (m *ProductMovement) Touches(locationID int64) bool {
	return (m.FromLocationID != nil && *m.FromLocationID == locationID) ||
		(m.ToLocationID != nil && *m.ToLocationID == locationID)
}

// LocationID convierte el centinela de la frontera (0 = sin ubicación) en puntero.
func LocationID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
