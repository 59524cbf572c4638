package entity

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Location representa una ubicación física (bodega, tienda, centro de distribución).
// Name es único entre todas las ubicaciones.
type Location struct {
	ID        int64
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLocation construye una ubicación validada y normalizada.
func NewLocation(name, address string, now time.Time) (*Location, error) {
	l := &Location{
		Name:      name,
		Address:   address,
		CreatedAt: now.UTC().Truncate(time.Microsecond),
	}
	l.UpdatedAt = l.CreatedAt
	if err := l.Normalize(); err != nil {
		return nil, err
	}
	return l, nil
}

// Normalize normaliza el nombre y verifica que no quede vacío.
func (l *Location) Normalize() error {
	l.Name = NormalizeText(l.Name)
	l.Address = NormalizeText(l.Address)
	if l.Name == "" {
		return domain.ErrInvalidName
	}
	return nil
}
