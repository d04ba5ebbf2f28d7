package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo artículos en memoria.
type ItemRepo struct {
	store *Store
	tx    *state
}

func (r *ItemRepo) Upsert(_ context.Context, item *entity.Item) (bool, error) {
	var created bool
	err := r.store.write(r.tx, func(st *state) error {
		cur, exists := st.items[item.SKU]
		if exists {
			cur.Name, cur.Unit, cur.MinQty, cur.UpdatedAt = item.Name, item.Unit, item.MinQty, item.UpdatedAt
		} else {
			st.nextItemID++
			cur = *item
			cur.ID = st.nextItemID
			cur.CreatedAt = item.UpdatedAt
			created = true
		}
		st.items[item.SKU] = cur
		*item = cur
		return nil
	})
	return created, err
}

func (r *ItemRepo) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	var out *entity.Item
	r.store.read(r.tx, func(st *state) {
		if it, ok := st.items[sku]; ok {
			out = &it
		}
	})
	return out, nil
}

// GetBySKUForUpdate no necesita bloqueo propio: Run ya serializa a los escritores.
func (r *ItemRepo) GetBySKUForUpdate(ctx context.Context, sku string) (*entity.Item, error) {
	return r.GetBySKU(ctx, sku)
}

func (r *ItemRepo) DeleteBySKU(_ context.Context, sku string) (bool, error) {
	var deleted bool
	err := r.store.write(r.tx, func(st *state) error {
		it, ok := st.items[sku]
		if !ok {
			return nil
		}
		delete(st.items, sku)
		kept := st.moves[:0]
		for _, m := range st.moves {
			if m.ItemID != it.ID {
				kept = append(kept, m)
			}
		}
		st.moves = kept
		deleted = true
		return nil
	})
	return deleted, err
}

func (r *ItemRepo) ListWithStock(_ context.Context) ([]entity.ItemStock, error) {
	var list []entity.ItemStock
	r.store.read(r.tx, func(st *state) {
		sums := make(map[int64]int64, len(st.items))
		for _, m := range st.moves {
			sums[m.ItemID] += m.ChangeQty
		}
		for _, it := range st.items {
			list = append(list, entity.ItemStock{Item: it, Quantity: sums[it.ID]})
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return list, nil
}
