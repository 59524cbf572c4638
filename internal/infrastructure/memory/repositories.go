package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository         = (*ProductRepo)(nil)
	_ repository.LocationRepository        = (*LocationRepo)(nil)
	_ repository.ProductMovementRepository = (*ProductMovementRepo)(nil)
)

// ProductRepo productos sobre el estado de una transacción en memoria.
type ProductRepo struct {
	st *state
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	if r.skuTaken(p.SKU, 0) {
		return domain.ErrDuplicateSKU
	}
	r.st.nextProductID++
	p.ID = r.st.nextProductID
	r.st.products[p.ID] = copyProduct(*p)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	out := copyProduct(p)
	return &out, nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.st.products {
		if p.SKU == sku {
			out := copyProduct(p)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	if _, ok := r.st.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.skuTaken(p.SKU, p.ID) {
		return domain.ErrDuplicateSKU
	}
	r.st.products[p.ID] = copyProduct(*p)
	return nil
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	ids := sortedKeys(r.st.products)
	list := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		p := copyProduct(r.st.products[id])
		list = append(list, &p)
	}
	return list, nil
}

// Delete emula ON DELETE RESTRICT sobre el libro.
func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.st.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, m := range r.st.movements {
		if m.ProductID == id {
			return domain.ErrReferencedByMovements
		}
	}
	delete(r.st.products, id)
	return nil
}

func (r *ProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.st.products)), nil
}

func (r *ProductRepo) skuTaken(sku string, exceptID int64) bool {
	for id, p := range r.st.products {
		if id != exceptID && p.SKU == sku {
			return true
		}
	}
	return false
}

// LocationRepo ubicaciones sobre el estado de una transacción en memoria.
type LocationRepo struct {
	st *state
}

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	if r.nameTaken(l.Name, 0) {
		return domain.ErrDuplicateLocationName
	}
	r.st.nextLocationID++
	l.ID = r.st.nextLocationID
	r.st.locations[l.ID] = *l
	return nil
}

func (r *LocationRepo) GetByID(_ context.Context, id int64) (*entity.Location, error) {
	l, ok := r.st.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *LocationRepo) GetByName(_ context.Context, name string) (*entity.Location, error) {
	for _, l := range r.st.locations {
		if l.Name == name {
			out := l
			return &out, nil
		}
	}
	return nil, nil
}

func (r *LocationRepo) Update(_ context.Context, l *entity.Location) error {
	if _, ok := r.st.locations[l.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.nameTaken(l.Name, l.ID) {
		return domain.ErrDuplicateLocationName
	}
	r.st.locations[l.ID] = *l
	return nil
}

func (r *LocationRepo) List(_ context.Context) ([]*entity.Location, error) {
	ids := sortedKeys(r.st.locations)
	list := make([]*entity.Location, 0, len(ids))
	for _, id := range ids {
		l := r.st.locations[id]
		list = append(list, &l)
	}
	return list, nil
}

func (r *LocationRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.st.locations[id]; !ok {
		return domain.ErrNotFound
	}
	for _, m := range r.st.movements {
		if m.Touches(id) {
			return domain.ErrReferencedByMovements
		}
	}
	delete(r.st.locations, id)
	return nil
}

func (r *LocationRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.st.locations)), nil
}

func (r *LocationRepo) nameTaken(name string, exceptID int64) bool {
	for id, l := range r.st.locations {
		if id != exceptID && l.Name == name {
			return true
		}
	}
	return false
}

// ProductMovementRepo libro de movimientos sobre el estado de una transacción en memoria.
type ProductMovementRepo struct {
	st *state
}

func (r *ProductMovementRepo) Create(_ context.Context, m *entity.ProductMovement) error {
	if err := r.checkRow(m); err != nil {
		return err
	}
	r.st.nextMovementID++
	m.ID = r.st.nextMovementID
	r.st.movements[m.ID] = copyMovement(*m)
	return nil
}

func (r *ProductMovementRepo) GetByID(_ context.Context, id int64) (*entity.ProductMovement, error) {
	m, ok := r.st.movements[id]
	if !ok {
		return nil, nil
	}
	out := copyMovement(m)
	return &out, nil
}

func (r *ProductMovementRepo) Update(_ context.Context, m *entity.ProductMovement) error {
	if _, ok := r.st.movements[m.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.checkRow(m); err != nil {
		return err
	}
	r.st.movements[m.ID] = copyMovement(*m)
	return nil
}

func (r *ProductMovementRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.st.movements[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.movements, id)
	return nil
}

func (r *ProductMovementRepo) ListByTimestampDesc(_ context.Context) ([]*entity.ProductMovement, error) {
	list := r.collect(func(entity.ProductMovement) bool { return true })
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Timestamp.Equal(list[j].Timestamp) {
			return list[i].Timestamp.After(list[j].Timestamp)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

func (r *ProductMovementRepo) ListByProduct(_ context.Context, productID int64) ([]*entity.ProductMovement, error) {
	list := r.collect(func(m entity.ProductMovement) bool { return m.ProductID == productID })
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Timestamp.Equal(list[j].Timestamp) {
			return list[i].Timestamp.Before(list[j].Timestamp)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *ProductMovementRepo) CountByProduct(_ context.Context, productID int64) (int64, error) {
	return int64(len(r.collect(func(m entity.ProductMovement) bool { return m.ProductID == productID }))), nil
}

func (r *ProductMovementRepo) CountByLocation(_ context.Context, locationID int64) (int64, error) {
	return int64(len(r.collect(func(m entity.ProductMovement) bool { return m.Touches(locationID) }))), nil
}

func (r *ProductMovementRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.st.movements)), nil
}

func (r *ProductMovementRepo) collect(keep func(entity.ProductMovement) bool) []*entity.ProductMovement {
	var list []*entity.ProductMovement
	for _, m := range r.st.movements {
		if keep(m) {
			out := copyMovement(m)
			list = append(list, &out)
		}
	}
	return list
}

// checkRow emula las restricciones CHECK y FK del esquema relacional.
func (r *ProductMovementRepo) checkRow(m *entity.ProductMovement) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, ok := r.st.products[m.ProductID]; !ok {
		return domain.ErrUnknownProduct
	}
	for _, id := range []*int64{m.FromLocationID, m.ToLocationID} {
		if id == nil {
			continue
		}
		if _, ok := r.st.locations[*id]; !ok {
			return domain.ErrUnknownLocation
		}
	}
	return nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
