package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ProductMovementRepository = (*ProductMovementRepo)(nil)

const movementColumns = `id, moved_at, product_id, from_location_id, to_location_id, qty, created_at`

// ProductMovementRepo implementación del libro de movimientos sobre PostgreSQL (usable con pool o tx).
type ProductMovementRepo struct {
	q Querier
}

// NewProductMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductMovementRepository(q Querier) *ProductMovementRepo {
	return &ProductMovementRepo{q: q}
}

// Create persiste un movimiento y asigna su ID.
func (r *ProductMovementRepo) Create(ctx context.Context, m *entity.ProductMovement) error {
	query := `
		INSERT INTO product_movements (moved_at, product_id, from_location_id, to_location_id, qty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.Timestamp, m.ProductID, m.FromLocationID, m.ToLocationID, m.Quantity, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return movementWriteError("insert movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *ProductMovementRepo) GetByID(ctx context.Context, id int64) (*entity.ProductMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM product_movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// Update reescribe todos los campos editables del movimiento.
func (r *ProductMovementRepo) Update(ctx context.Context, m *entity.ProductMovement) error {
	query := `
		UPDATE product_movements
		SET moved_at = $2, product_id = $3, from_location_id = $4, to_location_id = $5, qty = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		m.ID, m.Timestamp, m.ProductID, m.FromLocationID, m.ToLocationID, m.Quantity,
	)
	if err != nil {
		return movementWriteError("update movement", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un movimiento del libro.
func (r *ProductMovementRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM product_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByTimestampDesc devuelve el libro completo, más reciente primero.
func (r *ProductMovementRepo) ListByTimestampDesc(ctx context.Context) ([]*entity.ProductMovement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM product_movements ORDER BY moved_at DESC, id DESC`)
}

// ListByProduct devuelve los movimientos de un producto en orden cronológico.
func (r *ProductMovementRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.ProductMovement, error) {
	return r.list(ctx,
		`SELECT `+movementColumns+` FROM product_movements WHERE product_id = $1 ORDER BY moved_at, id`,
		productID,
	)
}

// CountByProduct cuenta los movimientos que referencian el producto.
func (r *ProductMovementRepo) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM product_movements WHERE product_id = $1`, productID)
}

// CountByLocation cuenta los movimientos con la ubicación como origen o destino.
func (r *ProductMovementRepo) CountByLocation(ctx context.Context, locationID int64) (int64, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM product_movements WHERE from_location_id = $1 OR to_location_id = $1`,
		locationID,
	)
}

// Count devuelve el tamaño del libro.
func (r *ProductMovementRepo) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM product_movements`)
}

func (r *ProductMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ProductMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *ProductMovementRepo) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

func scanMovement(row pgx.Row) (*entity.ProductMovement, error) {
	var m entity.ProductMovement
	if err := row.Scan(&m.ID, &m.Timestamp, &m.ProductID, &m.FromLocationID, &m.ToLocationID, &m.Quantity, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Timestamp = m.Timestamp.UTC()
	m.CreatedAt = m.CreatedAt.UTC()
	return &m, nil
}

// movementWriteError traduce violaciones de FK y CHECK a errores de dominio.
func movementWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case codeForeignKeyViolation:
		if pgErr.ConstraintName == "fk_movement_product" {
			return domain.ErrUnknownProduct
		}
		return domain.ErrUnknownLocation
	case codeCheckViolation:
		switch pgErr.ConstraintName {
		case "product_movements_qty_positive":
			return domain.ErrInvalidQuantity
		case "product_movements_distinct_endpoints":
			return domain.ErrSameEndpoint
		default:
			return domain.ErrMissingEndpoint
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
