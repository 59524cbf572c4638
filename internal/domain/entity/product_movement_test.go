package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func ptr(v int64) *int64 { return &v }

func TestValidateMovementShape(t *testing.T) {
	tests := []struct {
		name    string
		from    *int64
		to      *int64
		qty     int64
		wantErr error
	}{
		{"entrada valida", nil, ptr(1), 10, nil},
		{"salida valida", ptr(1), nil, 10, nil},
		{"traslado valido", ptr(1), ptr(2), 10, nil},
		{"cantidad cero", nil, ptr(1), 0, domain.ErrInvalidQuantity},
		{"cantidad negativa", ptr(1), ptr(2), -3, domain.ErrInvalidQuantity},
		{"sin ubicaciones", nil, nil, 5, domain.ErrMissingEndpoint},
		{"misma ubicacion", ptr(3), ptr(3), 5, domain.ErrSameEndpoint},
		// La cantidad se evalúa antes que las ubicaciones.
		{"cantidad y ubicaciones invalidas", nil, nil, 0, domain.ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := entity.ValidateMovementShape(tt.from, tt.to, tt.qty)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation, "toda falla estructural es de validación")
		})
	}
}

func TestNewProductMovement_TimestampPorDefectoYRetroactivo(t *testing.T) {
	now := time.Date(2024, 5, 10, 8, 30, 0, 123456789, time.UTC)

	m, err := entity.NewProductMovement(1, nil, ptr(2), 5, time.Time{}, now)
	require.NoError(t, err)
	assert.Equal(t, now.Truncate(time.Microsecond), m.Timestamp)

	past := now.AddDate(0, 0, -30)
	m, err = entity.NewProductMovement(1, nil, ptr(2), 5, past, now)
	require.NoError(t, err)
	assert.Equal(t, past.Truncate(time.Microsecond), m.Timestamp)
	assert.Equal(t, now.Truncate(time.Microsecond), m.CreatedAt)
}

func TestNewProductMovement_CopiaUbicaciones(t *testing.T) {
	from := ptr(4)
	m, err := entity.NewProductMovement(1, from, nil, 5, time.Time{}, time.Now())
	require.NoError(t, err)
	*from = 9
	assert.Equal(t, int64(4), *m.FromLocationID, "el movimiento no debe compartir punteros con el llamador")
}

func TestProductMovement_Kind(t *testing.T) {
	assert.Equal(t, entity.MovementTypeIN, (&entity.ProductMovement{ToLocationID: ptr(1)}).Kind())
	assert.Equal(t, entity.MovementTypeOUT, (&entity.ProductMovement{FromLocationID: ptr(1)}).Kind())
	assert.Equal(t, entity.MovementTypeTRANSFER, (&entity.ProductMovement{FromLocationID: ptr(1), ToLocationID: ptr(2)}).Kind())
}

func TestLocationID_CentinelaCero(t *testing.T) {
	assert.Nil(t, entity.LocationID(0))
	require.NotNil(t, entity.LocationID(7))
	assert.Equal(t, int64(7), *entity.LocationID(7))
}
