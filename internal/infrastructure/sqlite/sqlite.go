/*
Package sqlite implementa los puertos de persistencia sobre SQLite (database/sql + go-sqlite3).

Pensado para despliegues de un solo nodo y para pruebas de paridad con PostgreSQL:

  - Claves foráneas activas (_foreign_keys=on) con ON DELETE RESTRICT.
  - WAL para que las lecturas no bloqueen a la escritura.
  - Una sola conexión abierta: las transacciones quedan serializadas.
  - Marcas de tiempo como INTEGER (nanosegundos Unix, UTC) para ordenar sin ambigüedad.
  - Precio como TEXT decimal, NULL si no se informa.

El esquema se crea en Open si no existe.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

var _ inventory.TxRunner = (*Store)(nil)

// DefaultTxTimeout límite de cada transacción cuando no se configura otro.
const DefaultTxTimeout = 5 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL CHECK (name <> ''),
	description TEXT NOT NULL DEFAULT '',
	price       TEXT,
	sku         TEXT NOT NULL UNIQUE CHECK (sku <> ''),
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS locations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE CHECK (name <> ''),
	address    TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS product_movements (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	moved_at         INTEGER NOT NULL,
	product_id       INTEGER NOT NULL REFERENCES products (id) ON DELETE RESTRICT,
	from_location_id INTEGER REFERENCES locations (id) ON DELETE RESTRICT,
	to_location_id   INTEGER REFERENCES locations (id) ON DELETE RESTRICT,
	qty              INTEGER NOT NULL CHECK (qty > 0),
	created_at       INTEGER NOT NULL,
	CHECK (from_location_id IS NOT NULL OR to_location_id IS NOT NULL),
	CHECK (from_location_id IS NULL OR to_location_id IS NULL OR from_location_id <> to_location_id)
);

CREATE INDEX IF NOT EXISTS idx_product_movements_moved_at ON product_movements (moved_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_product_movements_product ON product_movements (product_id);
CREATE INDEX IF NOT EXISTS idx_product_movements_from ON product_movements (from_location_id);
CREATE INDEX IF NOT EXISTS idx_product_movements_to ON product_movements (to_location_id);
`

// Store base SQLite que actúa también como TxRunner.
type Store struct {
	db      *sql.DB
	timeout time.Duration
}

// Open abre (o crea) la base en path y aplica el esquema. Usar ":memory:" para una base efímera.
func Open(ctx context.Context, path string, timeout time.Duration) (*Store, error) {
	if !strings.HasPrefix(path, ":memory:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio sqlite: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTxTimeout
	}
	return &Store{db: db, timeout: timeout}, nil
}

// Close cierra la base.
func (s *Store) Close() error {
	return s.db.Close()
}

// Run ejecuta fn en una transacción de escritura.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return s.run(ctx, false, fn)
}

// RunReadOnly ejecuta fn en una transacción de solo lectura. Con una única conexión
// ninguna escritura se intercala, así que todas las lecturas ven el mismo estado.
func (s *Store) RunReadOnly(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return s.run(ctx, true, fn)
}

func (s *Store) run(ctx context.Context, readOnly bool, fn func(repos inventory.TxRepos) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	repos := inventory.TxRepos{
		Products:  &ProductRepo{q: tx},
		Locations: &LocationRepo{q: tx},
		Movements: &ProductMovementRepo{q: tx},
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
	if readOnly {
		return nil
	}
	if err := tx.Commit(); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

// querier abstrae *sql.DB y *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func sqliteError(err error) (sqlite3.Error, bool) {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se, true
	}
	return se, false
}

func isUniqueViolation(err error) bool {
	se, ok := sqliteError(err)
	return ok && (se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}

// isForeignKeyViolation cubre el alta con FK colgante (SQLITE_CONSTRAINT_FOREIGNKEY) y el
// borrado bloqueado por ON DELETE RESTRICT, que SQLite informa como SQLITE_CONSTRAINT_TRIGGER.
func isForeignKeyViolation(err error) bool {
	se, ok := sqliteError(err)
	if !ok {
		return false
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintForeignKey:
		return true
	case sqlite3.ErrConstraintTrigger:
		return strings.Contains(se.Error(), "FOREIGN KEY")
	}
	return false
}

func isCheckViolation(err error) bool {
	se, ok := sqliteError(err)
	return ok && se.ExtendedCode == sqlite3.ErrConstraintCheck
}

// classify traduce errores de infraestructura a categorías de dominio.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUnknownReference),
		errors.Is(err, domain.ErrTimeout):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %s: %v", domain.ErrTimeout, op, err)
	}
	if se, ok := sqliteError(err); ok && (se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked) {
		return fmt.Errorf("%w: %s: %v", domain.ErrConcurrentWrite, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func toUnix(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
