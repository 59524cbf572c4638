package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository         = (*ProductRepo)(nil)
	_ repository.LocationRepository        = (*LocationRepo)(nil)
	_ repository.ProductMovementRepository = (*ProductMovementRepo)(nil)
)

type scanner interface {
	Scan(dest ...any) error
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func count(ctx context.Context, q querier, query string, args ...any) (int64, error) {
	var n int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Productos
// ─────────────────────────────────────────────────────────────────────────────

const productColumns = `id, name, description, price, sku, created_at, updated_at`

// ProductRepo productos sobre SQLite.
type ProductRepo struct {
	q querier
}

func nullPrice(p *decimal.Decimal) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *p, Valid: true}
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO products (name, description, price, sku, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, nullPrice(p.Price), p.SKU, toUnix(p.CreatedAt), toUnix(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSKU
		}
		return fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert product id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku = ?`, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE products SET name = ?, description = ?, price = ?, sku = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Description, nullPrice(p.Price), p.SKU, toUnix(p.UpdatedAt), p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateSKU
		}
		return fmt.Errorf("update product: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.q, `DELETE FROM products WHERE id = ?`, id)
}

func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM products`)
}

func scanProduct(row scanner) (*entity.Product, error) {
	var p entity.Product
	var price decimal.NullDecimal
	var created, updated int64
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.SKU, &created, &updated); err != nil {
		return nil, err
	}
	if price.Valid {
		v := price.Decimal
		p.Price = &v
	}
	p.CreatedAt = fromUnix(created)
	p.UpdatedAt = fromUnix(updated)
	return &p, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Ubicaciones
// ─────────────────────────────────────────────────────────────────────────────

const locationColumns = `id, name, address, created_at, updated_at`

// LocationRepo ubicaciones sobre SQLite.
type LocationRepo struct {
	q querier
}

func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO locations (name, address, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		l.Name, l.Address, toUnix(l.CreatedAt), toUnix(l.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateLocationName
		}
		return fmt.Errorf("insert location: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert location id: %w", err)
	}
	l.ID = id
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id int64) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = ?`, id)
}

func (r *LocationRepo) GetByName(ctx context.Context, name string) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM locations WHERE name = ?`, name)
}

func (r *LocationRepo) getOne(ctx context.Context, query string, arg any) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE locations SET name = ?, address = ?, updated_at = ? WHERE id = ?`,
		l.Name, l.Address, toUnix(l.UpdatedAt), l.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateLocationName
		}
		return fmt.Errorf("update location: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+locationColumns+` FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var list []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *LocationRepo) Delete(ctx context.Context, id int64) error {
	return deleteRow(ctx, r.q, `DELETE FROM locations WHERE id = ?`, id)
}

func (r *LocationRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM locations`)
}

func scanLocation(row scanner) (*entity.Location, error) {
	var l entity.Location
	var created, updated int64
	if err := row.Scan(&l.ID, &l.Name, &l.Address, &created, &updated); err != nil {
		return nil, err
	}
	l.CreatedAt = fromUnix(created)
	l.UpdatedAt = fromUnix(updated)
	return &l, nil
}

// deleteRow borra datos maestros; la FK RESTRICT bloquea los referenciados por el libro.
func deleteRow(ctx context.Context, q querier, query string, id int64) error {
	res, err := q.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrReferencedByMovements
		}
		return fmt.Errorf("delete: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Libro de movimientos
// ─────────────────────────────────────────────────────────────────────────────

const movementColumns = `id, moved_at, product_id, from_location_id, to_location_id, qty, created_at`

// ProductMovementRepo libro de movimientos sobre SQLite.
type ProductMovementRepo struct {
	q querier
}

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func (r *ProductMovementRepo) Create(ctx context.Context, m *entity.ProductMovement) error {
	if err := r.checkRefs(ctx, m); err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO product_movements (moved_at, product_id, from_location_id, to_location_id, qty, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		toUnix(m.Timestamp), m.ProductID, nullID(m.FromLocationID), nullID(m.ToLocationID), m.Quantity, toUnix(m.CreatedAt),
	)
	if err != nil {
		return movementWriteError("insert movement", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert movement id: %w", err)
	}
	m.ID = id
	return nil
}

func (r *ProductMovementRepo) GetByID(ctx context.Context, id int64) (*entity.ProductMovement, error) {
	m, err := scanMovement(r.q.QueryRowContext(ctx, `SELECT `+movementColumns+` FROM product_movements WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

func (r *ProductMovementRepo) Update(ctx context.Context, m *entity.ProductMovement) error {
	if err := r.checkRefs(ctx, m); err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx,
		`UPDATE product_movements SET moved_at = ?, product_id = ?, from_location_id = ?, to_location_id = ?, qty = ?
		 WHERE id = ?`,
		toUnix(m.Timestamp), m.ProductID, nullID(m.FromLocationID), nullID(m.ToLocationID), m.Quantity, m.ID,
	)
	if err != nil {
		return movementWriteError("update movement", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductMovementRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM product_movements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductMovementRepo) ListByTimestampDesc(ctx context.Context) ([]*entity.ProductMovement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM product_movements ORDER BY moved_at DESC, id DESC`)
}

func (r *ProductMovementRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.ProductMovement, error) {
	return r.list(ctx,
		`SELECT `+movementColumns+` FROM product_movements WHERE product_id = ? ORDER BY moved_at, id`,
		productID,
	)
}

func (r *ProductMovementRepo) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM product_movements WHERE product_id = ?`, productID)
}

func (r *ProductMovementRepo) CountByLocation(ctx context.Context, locationID int64) (int64, error) {
	return count(ctx, r.q,
		`SELECT COUNT(*) FROM product_movements WHERE from_location_id = ? OR to_location_id = ?`,
		locationID, locationID,
	)
}

func (r *ProductMovementRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.q, `SELECT COUNT(*) FROM product_movements`)
}

func (r *ProductMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ProductMovement, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
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

// checkRefs distingue producto y ubicación inexistentes; SQLite no informa qué FK falló.
func (r *ProductMovementRepo) checkRefs(ctx context.Context, m *entity.ProductMovement) error {
	n, err := count(ctx, r.q, `SELECT COUNT(*) FROM products WHERE id = ?`, m.ProductID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUnknownProduct
	}
	for _, id := range []*int64{m.FromLocationID, m.ToLocationID} {
		if id == nil {
			continue
		}
		n, err := count(ctx, r.q, `SELECT COUNT(*) FROM locations WHERE id = ?`, *id)
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrUnknownLocation
		}
	}
	return nil
}

func scanMovement(row scanner) (*entity.ProductMovement, error) {
	var m entity.ProductMovement
	var movedAt, created int64
	var from, to sql.NullInt64
	if err := row.Scan(&m.ID, &movedAt, &m.ProductID, &from, &to, &m.Quantity, &created); err != nil {
		return nil, err
	}
	m.Timestamp = fromUnix(movedAt)
	m.CreatedAt = fromUnix(created)
	if from.Valid {
		v := from.Int64
		m.FromLocationID = &v
	}
	if to.Valid {
		v := to.Int64
		m.ToLocationID = &v
	}
	return &m, nil
}

func movementWriteError(op string, err error) error {
	switch {
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", domain.ErrUnknownReference, err)
	case isCheckViolation(err):
		if strings.Contains(err.Error(), "qty") {
			return domain.ErrInvalidQuantity
		}
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
