// Package memory implementa los puertos del ledger en memoria, con transacciones
// de copia e intercambio. Se usa en tests y en demos sin PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/transfer"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)
var _ transfer.TxRunner = (*Store)(nil)

type state struct {
	nextItemID int64
	nextMoveID int64
	items      map[string]entity.Item // por SKU
	moves      []entity.StockMovement // orden de inserción
}

func (s *state) clone() *state {
	c := &state{
		nextItemID: s.nextItemID,
		nextMoveID: s.nextMoveID,
		items:      make(map[string]entity.Item, len(s.items)),
		moves:      make([]entity.StockMovement, len(s.moves)),
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	copy(c.moves, s.moves)
	return c
}

// Store almacén en memoria. Las transacciones se serializan: un solo escritor a la vez.
type Store struct {
	writeMu sync.Mutex   // serializa transacciones y escrituras sueltas
	mu      sync.RWMutex // protege el puntero a state confirmado
	state   *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: &state{items: map[string]entity.Item{}}}
}

// Items repositorio de artículos fuera de transacción.
func (s *Store) Items() *ItemRepo { return &ItemRepo{store: s} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{store: s} }

// Run ejecuta fn sobre una copia del estado y la confirma solo si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	tx := s.state.clone()
	s.mu.RUnlock()

	if err := fn(&ItemRepo{store: s, tx: tx}, &StockMovementRepo{store: s, tx: tx}); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = tx
	s.mu.Unlock()
	return nil
}

// read ejecuta fn sobre el estado de la tx o, fuera de ella, sobre el confirmado.
func (s *Store) read(tx *state, fn func(st *state)) {
	if tx != nil {
		fn(tx)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// write fuera de transacción equivale a una transacción de una sola sentencia.
func (s *Store) write(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	next := s.state.clone()
	s.mu.RUnlock()
	if err := fn(next); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	return nil
}
