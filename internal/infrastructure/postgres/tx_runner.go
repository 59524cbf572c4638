package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// DefaultTxTimeout límite de cada transacción cuando no se configura otro.
const DefaultTxTimeout = 5 * time.Second

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewTxRunner construye el runner con el pool. timeout <= 0 usa DefaultTxTimeout.
func NewTxRunner(pool *pgxpool.Pool, timeout time.Duration) *TxRunner {
	if timeout <= 0 {
		timeout = DefaultTxTimeout
	}
	return &TxRunner{pool: pool, timeout: timeout}
}

// Run inicia una transacción de escritura, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// RunReadOnly ejecuta fn sobre una instantánea REPEATABLE READ: todas las lecturas ven el mismo estado.
func (r *TxRunner) RunReadOnly(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(repos inventory.TxRepos) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return classify("begin transaction", err)
	}
	// Rollback tras Commit es no-op; usa un contexto propio por si ctx ya expiró.
	defer func() { _ = tx.Rollback(context.Background()) }()

	repos := inventory.TxRepos{
		Products:  NewProductRepository(tx),
		Locations: NewLocationRepository(tx),
		Movements: NewProductMovementRepository(tx),
	}
	if err := fn(repos); err != nil {
		if ctx.Err() != nil {
			return classify("transaction", ctx.Err())
		}
		return classify("transaction", err)
	}
	if err := ctx.Err(); err != nil {
		return classify("transaction", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}
