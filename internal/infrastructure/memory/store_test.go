package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

var t0 = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func seed(t *testing.T, s *memory.Store) (productID, locA, locB int64) {
	t.Helper()
	err := s.Run(context.Background(), func(r inventory.TxRepos) error {
		p, _ := entity.NewProduct("Widget", "", nil, "W-1", t0)
		if err := r.Products.Create(context.Background(), p); err != nil {
			return err
		}
		a, _ := entity.NewLocation("A", "", t0)
		if err := r.Locations.Create(context.Background(), a); err != nil {
			return err
		}
		b, _ := entity.NewLocation("B", "", t0)
		if err := r.Locations.Create(context.Background(), b); err != nil {
			return err
		}
		productID, locA, locB = p.ID, a.ID, b.ID
		return nil
	})
	require.NoError(t, err)
	return productID, locA, locB
}

func countMovements(t *testing.T, s *memory.Store) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.RunReadOnly(context.Background(), func(r inventory.TxRepos) error {
		var err error
		n, err = r.Movements.Count(context.Background())
		return err
	}))
	return n
}

// ─────────────────────────────────────────────────────────────────────────────
// Atomicidad
// ─────────────────────────────────────────────────────────────────────────────

func TestRun_ErrorDescartaEscrituras(t *testing.T) {
	s := memory.NewStore()
	p, a, _ := seed(t, s)
	boom := errors.New("boom")

	err := s.Run(context.Background(), func(r inventory.TxRepos) error {
		m, _ := entity.NewProductMovement(p, nil, &a, 10, time.Time{}, t0)
		if err := r.Movements.Create(context.Background(), m); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), countMovements(t, s))
}

func TestRun_TimeoutDescartaEscriturasYEsReintentable(t *testing.T) {
	s := memory.NewStore(memory.WithTxTimeout(10 * time.Millisecond))
	p, a, _ := seed(t, s)

	err := s.Run(context.Background(), func(r inventory.TxRepos) error {
		m, _ := entity.NewProductMovement(p, nil, &a, 10, time.Time{}, t0)
		if err := r.Movements.Create(context.Background(), m); err != nil {
			return err
		}
		time.Sleep(40 * time.Millisecond)
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.True(t, domain.IsRetryable(err))
	assert.Equal(t, int64(0), countMovements(t, s))
}

func TestRun_ContextoVencido(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	called := false
	err := s.Run(ctx, func(inventory.TxRepos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.False(t, called)
}

func TestRunReadOnly_NoPublicaCambios(t *testing.T) {
	s := memory.NewStore()
	p, a, _ := seed(t, s)

	require.NoError(t, s.RunReadOnly(context.Background(), func(r inventory.TxRepos) error {
		m, _ := entity.NewProductMovement(p, nil, &a, 1, time.Time{}, t0)
		return r.Movements.Create(context.Background(), m)
	}))
	assert.Equal(t, int64(0), countMovements(t, s))
}

// ─────────────────────────────────────────────────────────────────────────────
// Restricciones emuladas
// ─────────────────────────────────────────────────────────────────────────────

func TestRepos_Restricciones(t *testing.T) {
	s := memory.NewStore()
	p, a, b := seed(t, s)
	ctx := context.Background()

	err := s.Run(ctx, func(r inventory.TxRepos) error {
		dup, _ := entity.NewProduct("Otro", "", nil, "W-1", t0)
		assert.ErrorIs(t, r.Products.Create(ctx, dup), domain.ErrDuplicateSKU)

		loc, _ := entity.NewLocation("A", "", t0)
		assert.ErrorIs(t, r.Locations.Create(ctx, loc), domain.ErrDuplicateLocationName)

		ghost := int64(999)
		m, _ := entity.NewProductMovement(p, nil, &ghost, 1, time.Time{}, t0)
		assert.ErrorIs(t, r.Movements.Create(ctx, m), domain.ErrUnknownLocation)

		m, _ = entity.NewProductMovement(999, nil, &a, 1, time.Time{}, t0)
		assert.ErrorIs(t, r.Movements.Create(ctx, m), domain.ErrUnknownProduct)

		m, _ = entity.NewProductMovement(p, &a, &b, 1, time.Time{}, t0)
		require.NoError(t, r.Movements.Create(ctx, m))
		assert.ErrorIs(t, r.Products.Delete(ctx, p), domain.ErrReferencedByMovements)
		assert.ErrorIs(t, r.Locations.Delete(ctx, b), domain.ErrReferencedByMovements)
		assert.ErrorIs(t, r.Movements.Delete(ctx, 12345), domain.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestRepos_CopiasAisladas(t *testing.T) {
	s := memory.NewStore()
	p, a, _ := seed(t, s)
	ctx := context.Background()

	var id int64
	require.NoError(t, s.Run(ctx, func(r inventory.TxRepos) error {
		m, _ := entity.NewProductMovement(p, nil, &a, 5, time.Time{}, t0)
		if err := r.Movements.Create(ctx, m); err != nil {
			return err
		}
		id = m.ID
		*m.ToLocationID = 777
		return nil
	}))

	require.NoError(t, s.RunReadOnly(ctx, func(r inventory.TxRepos) error {
		m, err := r.Movements.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, a, *m.ToLocationID)
		return nil
	}))
}

func TestListByTimestampDesc_EmpateDesempatePorID(t *testing.T) {
	s := memory.NewStore()
	p, a, _ := seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, func(r inventory.TxRepos) error {
		for _, ts := range []time.Time{t0, t0.Add(time.Hour), t0} {
			m, _ := entity.NewProductMovement(p, nil, &a, 1, ts, t0)
			if err := r.Movements.Create(ctx, m); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, s.RunReadOnly(ctx, func(r inventory.TxRepos) error {
		list, err := r.Movements.ListByTimestampDesc(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []int64{2, 3, 1}, []int64{list[0].ID, list[1].ID, list[2].ID})
		return nil
	}))
}
