// Package backend selecciona la implementación de persistencia según DB_DRIVER.
package backend

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/sqlite"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Open abre el almacén configurado y devuelve su TxRunner junto con la función de cierre.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (inventory.TxRunner, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
			log.Info().Msg("esquema PostgreSQL verificado")
		}
		return postgres.NewTxRunner(pool, cfg.TxTimeout), pool.Close, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.TxTimeout)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("base SQLite abierta")
		return store, func() { _ = store.Close() }, nil

	case config.DriverMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return memory.NewStore(memory.WithTxTimeout(cfg.TxTimeout)), func() {}, nil
	}
	return nil, nil, fmt.Errorf("DB_DRIVER desconocido: %q", cfg.Driver)
}
