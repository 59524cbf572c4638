package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/sqlite"
)

var t0 = time.Date(2024, 3, 10, 8, 30, 0, 123456000, time.UTC)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_EsquemaIdempotente(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := sqlite.Open(context.Background(), path, 0)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = sqlite.Open(context.Background(), path, 0)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestProductRepo_RoundTripYUnicidad(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	price := decimal.RequireFromString("12.50")

	var id int64
	require.NoError(t, s.Run(ctx, func(r inventory.TxRepos) error {
		p, err := entity.NewProduct("Widget", "azul", &price, "W-1", t0)
		require.NoError(t, err)
		require.NoError(t, r.Products.Create(ctx, p))
		id = p.ID

		sinPrecio, _ := entity.NewProduct("Gadget", "", nil, "G-1", t0)
		require.NoError(t, r.Products.Create(ctx, sinPrecio))

		dup, _ := entity.NewProduct("Otro", "", nil, "W-1", t0)
		assert.ErrorIs(t, r.Products.Create(ctx, dup), domain.ErrDuplicateSKU)
		return nil
	}))

	require.NoError(t, s.RunReadOnly(ctx, func(r inventory.TxRepos) error {
		p, err := r.Products.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, p)
		require.NotNil(t, p.Price)
		assert.True(t, price.Equal(*p.Price))
		assert.Equal(t, t0, p.CreatedAt)

		g, err := r.Products.GetBySKU(ctx, "G-1")
		require.NoError(t, err)
		require.NotNil(t, g)
		assert.Nil(t, g.Price)

		missing, err := r.Products.GetByID(ctx, 999)
		assert.NoError(t, err)
		assert.Nil(t, missing)
		return nil
	}))
}

func TestMovementRepo_ReferenciasYOrden(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, func(r inventory.TxRepos) error {
		p, _ := entity.NewProduct("Widget", "", nil, "W-1", t0)
		require.NoError(t, r.Products.Create(ctx, p))
		a, _ := entity.NewLocation("A", "", t0)
		require.NoError(t, r.Locations.Create(ctx, a))
		b, _ := entity.NewLocation("B", "", t0)
		require.NoError(t, r.Locations.Create(ctx, b))

		in, _ := entity.NewProductMovement(p.ID, nil, &a.ID, 100, t0, t0)
		require.NoError(t, r.Movements.Create(ctx, in))
		tr, _ := entity.NewProductMovement(p.ID, &a.ID, &b.ID, 30, t0.Add(time.Hour), t0)
		require.NoError(t, r.Movements.Create(ctx, tr))

		ghost := int64(404)
		bad, _ := entity.NewProductMovement(p.ID, nil, &ghost, 1, t0, t0)
		assert.ErrorIs(t, r.Movements.Create(ctx, bad), domain.ErrUnknownLocation)
		bad, _ = entity.NewProductMovement(ghost, nil, &a.ID, 1, t0, t0)
		assert.ErrorIs(t, r.Movements.Create(ctx, bad), domain.ErrUnknownProduct)

		assert.ErrorIs(t, r.Products.Delete(ctx, p.ID), domain.ErrReferencedByMovements)
		assert.ErrorIs(t, r.Locations.Delete(ctx, b.ID), domain.ErrReferencedByMovements)

		n, err := r.Movements.CountByLocation(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		return nil
	}))

	require.NoError(t, s.RunReadOnly(ctx, func(r inventory.TxRepos) error {
		list, err := r.Movements.ListByTimestampDesc(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, entity.MovementTypeTRANSFER, list[0].Kind())
		assert.Equal(t, entity.MovementTypeIN, list[1].Kind())
		assert.Nil(t, list[1].FromLocationID)
		assert.Equal(t, t0, list[1].Timestamp)
		return nil
	}))
}

func TestDelete_ReferenciadoPorMovimientos(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	var productID, fromID, toID, freeID int64
	require.NoError(t, s.Run(ctx, func(r inventory.TxRepos) error {
		p, _ := entity.NewProduct("Widget", "", nil, "W-1", t0)
		require.NoError(t, r.Products.Create(ctx, p))
		from, _ := entity.NewLocation("Origen", "", t0)
		require.NoError(t, r.Locations.Create(ctx, from))
		to, _ := entity.NewLocation("Destino", "", t0)
		require.NoError(t, r.Locations.Create(ctx, to))
		free, _ := entity.NewLocation("Libre", "", t0)
		require.NoError(t, r.Locations.Create(ctx, free))
		m, _ := entity.NewProductMovement(p.ID, &from.ID, &to.ID, 5, t0, t0)
		require.NoError(t, r.Movements.Create(ctx, m))
		productID, fromID, toID, freeID = p.ID, from.ID, to.ID, free.ID
		return nil
	}))

	// Borrado directo en el repositorio, sin el conteo previo del caso de uso.
	err := s.Run(ctx, func(r inventory.TxRepos) error {
		return r.Products.Delete(ctx, productID)
	})
	assert.ErrorIs(t, err, domain.ErrReferencedByMovements)
	assert.ErrorIs(t, err, domain.ErrConflict)

	for _, id := range []int64{fromID, toID} {
		err = s.Run(ctx, func(r inventory.TxRepos) error {
			return r.Locations.Delete(ctx, id)
		})
		assert.ErrorIs(t, err, domain.ErrReferencedByMovements)
	}

	require.NoError(t, s.Run(ctx, func(r inventory.TxRepos) error {
		return r.Locations.Delete(ctx, freeID)
	}))

	require.NoError(t, s.RunReadOnly(ctx, func(r inventory.TxRepos) error {
		p, err := r.Products.GetByID(ctx, productID)
		require.NoError(t, err)
		assert.NotNil(t, p)
		n, err := r.Locations.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		return nil
	}))
}

func TestRun_ErrorHaceRollback(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	err := s.Run(ctx, func(r inventory.TxRepos) error {
		l, _ := entity.NewLocation("A", "", t0)
		require.NoError(t, r.Locations.Create(ctx, l))
		return domain.ErrConflict
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, s.RunReadOnly(ctx, func(r inventory.TxRepos) error {
		n, err := r.Locations.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		return nil
	}))
}

func TestRun_Timeout(t *testing.T) {
	s, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"), 20*time.Millisecond)
	require.NoError(t, err)
	defer s.Close()

	err = s.Run(context.Background(), func(inventory.TxRepos) error {
		time.Sleep(60 * time.Millisecond)
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.True(t, domain.IsRetryable(err))
}
