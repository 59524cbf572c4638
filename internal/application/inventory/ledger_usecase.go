package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// LedgerUseCase registra, corrige y elimina movimientos del libro. Cada operación corre en
// una sola transacción que revalida el movimiento completo antes del Commit.
//
// El libro es un almacén mutable: editar o borrar un movimiento cambia la historia y los
// saldos se recalculan en la siguiente consulta. No se conserva auditoría de cambios.
type LedgerUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, log *logger.Logger) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, log: log, now: time.Now}
}

// Record valida y persiste un movimiento nuevo. ID y timestamp los asigna el servidor,
// salvo que in.Timestamp venga informado (carga de históricos).
func (uc *LedgerUseCase) Record(ctx context.Context, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	draft := MovementDraft{
		ProductID:      in.ProductID,
		FromLocationID: entity.LocationID(in.FromLocationID),
		ToLocationID:   entity.LocationID(in.ToLocationID),
		Quantity:       in.Quantity,
	}
	var ts time.Time
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}

	var movement *entity.ProductMovement
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		if err := ValidateMovement(ctx, repos.Products, repos.Locations, draft); err != nil {
			return err
		}
		m, err := entity.NewProductMovement(draft.ProductID, draft.FromLocationID, draft.ToLocationID, draft.Quantity, ts, uc.now())
		if err != nil {
			return err
		}
		if err := repos.Movements.Create(ctx, m); err != nil {
			return err
		}
		movement = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("movement_id", movement.ID).
		Int64("product_id", movement.ProductID).
		Str("type", movement.Kind()).
		Int64("qty", movement.Quantity).
		Msg("movimiento registrado")
	return toMovementResponse(movement), nil
}

// Amend aplica una edición parcial sobre el movimiento almacenado y revalida el resultado
// exactamente como Record. Devuelve domain.ErrNotFound si el ID no existe.
func (uc *LedgerUseCase) Amend(ctx context.Context, id int64, in dto.AmendMovementRequest) (*dto.MovementResponse, error) {
	var movement *entity.ProductMovement
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		m, err := repos.Movements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}

		if in.ProductID != nil {
			m.ProductID = *in.ProductID
		}
		if in.FromLocationID != nil {
			m.FromLocationID = entity.LocationID(*in.FromLocationID)
		}
		if in.ToLocationID != nil {
			m.ToLocationID = entity.LocationID(*in.ToLocationID)
		}
		if in.Quantity != nil {
			m.Quantity = *in.Quantity
		}
		if in.Timestamp != nil {
			m.Timestamp = in.Timestamp.UTC().Truncate(time.Microsecond)
		}

		draft := MovementDraft{
			ProductID:      m.ProductID,
			FromLocationID: m.FromLocationID,
			ToLocationID:   m.ToLocationID,
			Quantity:       m.Quantity,
		}
		if err := ValidateMovement(ctx, repos.Products, repos.Locations, draft); err != nil {
			return err
		}
		if err := repos.Movements.Update(ctx, m); err != nil {
			return err
		}
		movement = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("movement_id", movement.ID).
		Str("type", movement.Kind()).
		Int64("qty", movement.Quantity).
		Msg("movimiento corregido")
	return toMovementResponse(movement), nil
}

// Remove elimina físicamente un movimiento. Devuelve domain.ErrNotFound si no existe.
func (uc *LedgerUseCase) Remove(ctx context.Context, id int64) error {
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		return repos.Movements.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("movement_id", id).Msg("movimiento eliminado")
	return nil
}

// Get obtiene un movimiento por ID.
func (uc *LedgerUseCase) Get(ctx context.Context, id int64) (*dto.MovementResponse, error) {
	var movement *entity.ProductMovement
	err := uc.txRunner.RunReadOnly(ctx, func(repos TxRepos) error {
		m, err := repos.Movements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		movement = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(movement), nil
}

// List devuelve el libro completo ordenado por timestamp descendente.
func (uc *LedgerUseCase) List(ctx context.Context) ([]dto.MovementResponse, error) {
	var list []*entity.ProductMovement
	err := uc.txRunner.RunReadOnly(ctx, func(repos TxRepos) error {
		var err error
		list, err = repos.Movements.ListByTimestampDesc(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return items, nil
}

func toMovementResponse(m *entity.ProductMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:             m.ID,
		Timestamp:      m.Timestamp,
		ProductID:      m.ProductID,
		FromLocationID: m.FromLocationID,
		ToLocationID:   m.ToLocationID,
		Quantity:       m.Quantity,
		Type:           m.Kind(),
		CreatedAt:      m.CreatedAt,
	}
}
