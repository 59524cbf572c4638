package dto

import "time"

// RecordMovementRequest body para POST /api/movements.
// from_location_id / to_location_id en 0 o ausentes significan "sin ubicación".
// timestamp es opcional (carga de históricos); por defecto el instante del registro.
type RecordMovementRequest struct {
	ProductID      int64      `json:"product_id"`
	FromLocationID int64      `json:"from_location_id,omitempty"`
	ToLocationID   int64      `json:"to_location_id,omitempty"`
	Quantity       int64      `json:"qty"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
}

// AmendMovementRequest body para PUT /api/movements/:id.
// Campo ausente = se conserva; ubicación en 0 = se quita; > 0 = se reemplaza.
type AmendMovementRequest struct {
	ProductID      *int64     `json:"product_id,omitempty"`
	FromLocationID *int64     `json:"from_location_id,omitempty"`
	ToLocationID   *int64     `json:"to_location_id,omitempty"`
	Quantity       *int64     `json:"qty,omitempty"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID             int64     `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	ProductID      int64     `json:"product_id"`
	FromLocationID *int64    `json:"from_location_id"`
	ToLocationID   *int64    `json:"to_location_id"`
	Quantity       int64     `json:"qty"`
	Type           string    `json:"type"` // IN | OUT | TRANSFER
	CreatedAt      time.Time `json:"created_at"`
}
