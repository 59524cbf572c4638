package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema es idempotente: se puede aplicar en cada arranque (DB_AUTO_MIGRATE).
// Las FK usan ON DELETE RESTRICT para que el libro nunca apunte a datos maestros borrados.
const schema = `
CREATE TABLE IF NOT EXISTS products (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL CHECK (name <> ''),
	description TEXT NOT NULL DEFAULT '',
	price       NUMERIC(18, 4) CHECK (price IS NULL OR price >= 0),
	sku         TEXT NOT NULL CHECK (sku <> ''),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT products_sku_key UNIQUE (sku)
);

CREATE TABLE IF NOT EXISTS locations (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL CHECK (name <> ''),
	address    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT locations_name_key UNIQUE (name)
);

CREATE TABLE IF NOT EXISTS product_movements (
	id               BIGSERIAL PRIMARY KEY,
	moved_at         TIMESTAMPTZ NOT NULL,
	product_id       BIGINT NOT NULL,
	from_location_id BIGINT,
	to_location_id   BIGINT,
	qty              BIGINT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT fk_movement_product FOREIGN KEY (product_id)
		REFERENCES products (id) ON DELETE RESTRICT,
	CONSTRAINT fk_movement_from_location FOREIGN KEY (from_location_id)
		REFERENCES locations (id) ON DELETE RESTRICT,
	CONSTRAINT fk_movement_to_location FOREIGN KEY (to_location_id)
		REFERENCES locations (id) ON DELETE RESTRICT,
	CONSTRAINT product_movements_qty_positive CHECK (qty > 0),
	CONSTRAINT product_movements_has_endpoint
		CHECK (from_location_id IS NOT NULL OR to_location_id IS NOT NULL),
	CONSTRAINT product_movements_distinct_endpoints
		CHECK (from_location_id IS NULL OR to_location_id IS NULL OR from_location_id <> to_location_id)
);

CREATE INDEX IF NOT EXISTS idx_product_movements_moved_at ON product_movements (moved_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_product_movements_product ON product_movements (product_id);
CREATE INDEX IF NOT EXISTS idx_product_movements_from ON product_movements (from_location_id);
CREATE INDEX IF NOT EXISTS idx_product_movements_to ON product_movements (to_location_id);
`

// Migrate crea el esquema si no existe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
