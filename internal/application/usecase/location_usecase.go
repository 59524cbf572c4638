package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LocationUseCase casos de uso CRUD para ubicaciones.
type LocationUseCase struct {
	txRunner inventory.TxRunner
	now      func() time.Time
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(txRunner inventory.TxRunner) *LocationUseCase {
	return &LocationUseCase{txRunner: txRunner, now: time.Now}
}

// Create crea una ubicación. El nombre debe ser único.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	location, err := entity.NewLocation(in.Name, in.Address, uc.now())
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		existing, err := repos.Locations.GetByName(ctx, location.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateLocationName
		}
		return repos.Locations.Create(ctx, location)
	})
	if err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID obtiene una ubicación por ID.
func (uc *LocationUseCase) GetByID(ctx context.Context, id int64) (*dto.LocationResponse, error) {
	var location *entity.Location
	err := uc.txRunner.RunReadOnly(ctx, func(repos inventory.TxRepos) error {
		l, err := repos.Locations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.ErrNotFound
		}
		location = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// Update actualiza una ubicación. Renombrarla con el nombre de otra falla con conflicto;
// conservar su propio nombre es válido.
func (uc *LocationUseCase) Update(ctx context.Context, id int64, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	var location *entity.Location
	err := uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		l, err := repos.Locations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			l.Name = *in.Name
		}
		if in.Address != nil {
			l.Address = *in.Address
		}
		if err := l.Normalize(); err != nil {
			return err
		}
		other, err := repos.Locations.GetByName(ctx, l.Name)
		if err != nil {
			return err
		}
		if other != nil && other.ID != l.ID {
			return domain.ErrDuplicateLocationName
		}
		l.UpdatedAt = uc.now().UTC().Truncate(time.Microsecond)
		if err := repos.Locations.Update(ctx, l); err != nil {
			return err
		}
		location = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// List lista todas las ubicaciones en orden de alta.
func (uc *LocationUseCase) List(ctx context.Context) ([]dto.LocationResponse, error) {
	var list []*entity.Location
	err := uc.txRunner.RunReadOnly(ctx, func(repos inventory.TxRepos) error {
		var err error
		list, err = repos.Locations.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return items, nil
}

// Delete elimina una ubicación; se bloquea si es origen o destino de algún movimiento.
func (uc *LocationUseCase) Delete(ctx context.Context, id int64) error {
	return uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		l, err := repos.Locations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.ErrNotFound
		}
		refs, err := repos.Movements.CountByLocation(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return domain.ErrReferencedByMovements
		}
		return repos.Locations.Delete(ctx, id)
	})
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Address:   l.Address,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
