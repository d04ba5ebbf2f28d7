package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger de movimientos en memoria.
type StockMovementRepo struct {
	store *Store
	tx    *state
}

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.store.write(r.tx, func(st *state) error {
		if !st.hasItem(m.ItemID) {
			return domain.ErrUnknownItem
		}
		st.nextMoveID++
		m.ID = st.nextMoveID
		st.moves = append(st.moves, *m)
		return nil
	})
}

func (r *StockMovementRepo) SumByItem(_ context.Context, itemID int64) (int64, error) {
	var total int64
	r.store.read(r.tx, func(st *state) {
		for _, m := range st.moves {
			if m.ItemID == itemID {
				total += m.ChangeQty
			}
		}
	})
	return total, nil
}

func (r *StockMovementRepo) ListByItem(_ context.Context, itemID int64, limit, offset int) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	r.store.read(r.tx, func(st *state) {
		for _, m := range st.moves {
			if m.ItemID == itemID {
				m := m
				list = append(list, &m)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].At.Equal(list[j].At) {
			return list[i].At.After(list[j].At)
		}
		return list[i].ID > list[j].ID
	})
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit >= 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *StockMovementRepo) CountByItem(_ context.Context, itemID int64) (int, error) {
	var n int
	r.store.read(r.tx, func(st *state) {
		for _, m := range st.moves {
			if m.ItemID == itemID {
				n++
			}
		}
	})
	return n, nil
}

func (st *state) hasItem(id int64) bool {
	for _, it := range st.items {
		if it.ID == id {
			return true
		}
	}
	return false
}
