// Package memory implementa los puertos de persistencia en memoria (desarrollo y pruebas).
//
// Todas las transacciones se serializan con un semáforo. Cada una trabaja sobre una copia
// del estado que solo se publica al confirmar, de modo que un error o un timeout no deja
// escrituras parciales.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// DefaultTxTimeout límite de cada transacción cuando no se configura otro.
const DefaultTxTimeout = 5 * time.Second

type state struct {
	products       map[int64]entity.Product
	locations      map[int64]entity.Location
	movements      map[int64]entity.ProductMovement
	nextProductID  int64
	nextLocationID int64
	nextMovementID int64
}

func newState() *state {
	return &state{
		products:  make(map[int64]entity.Product),
		locations: make(map[int64]entity.Location),
		movements: make(map[int64]entity.ProductMovement),
	}
}

func (s *state) clone() *state {
	c := &state{
		products:       make(map[int64]entity.Product, len(s.products)),
		locations:      make(map[int64]entity.Location, len(s.locations)),
		movements:      make(map[int64]entity.ProductMovement, len(s.movements)),
		nextProductID:  s.nextProductID,
		nextLocationID: s.nextLocationID,
		nextMovementID: s.nextMovementID,
	}
	for id, p := range s.products {
		c.products[id] = copyProduct(p)
	}
	for id, l := range s.locations {
		c.locations[id] = l
	}
	for id, m := range s.movements {
		c.movements[id] = copyMovement(m)
	}
	return c
}

// Store almacén en memoria que actúa también como TxRunner.
type Store struct {
	sem     chan struct{}
	current *state
	timeout time.Duration
}

// Option configura el Store.
type Option func(*Store)

// WithTxTimeout fija el límite de cada transacción.
func WithTxTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewStore crea un almacén vacío.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sem:     make(chan struct{}, 1),
		current: newState(),
		timeout: DefaultTxTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn no falla dentro del plazo.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return s.run(ctx, true, fn)
}

// RunReadOnly ejecuta fn sobre una instantánea; cualquier escritura se descarta.
func (s *Store) RunReadOnly(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return s.run(ctx, false, fn)
}

func (s *Store) run(ctx context.Context, commit bool, fn func(repos inventory.TxRepos) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return timeoutError(err)
	}
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return timeoutError(ctx.Err())
	}
	defer func() { <-s.sem }()

	work := s.current.clone()
	if err := fn(newRepos(work)); err != nil {
		if ctx.Err() != nil {
			return timeoutError(ctx.Err())
		}
		return err
	}
	if err := ctx.Err(); err != nil {
		return timeoutError(err)
	}
	if commit {
		s.current = work
	}
	return nil
}

func timeoutError(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
}

func newRepos(st *state) inventory.TxRepos {
	return inventory.TxRepos{
		Products:  &ProductRepo{st: st},
		Locations: &LocationRepo{st: st},
		Movements: &ProductMovementRepo{st: st},
	}
}

func copyProduct(p entity.Product) entity.Product {
	if p.Price != nil {
		v := *p.Price
		p.Price = &v
	}
	return p
}

func copyMovement(m entity.ProductMovement) entity.ProductMovement {
	if m.FromLocationID != nil {
		v := *m.FromLocationID
		m.FromLocationID = &v
	}
	if m.ToLocationID != nil {
		v := *m.ToLocationID
		m.ToLocationID = &v
	}
	return m
}
