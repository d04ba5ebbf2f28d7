package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const (
	upsertItemSQL = `
		INSERT INTO items (sku, name, unit, min_qty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (sku) DO UPDATE
		SET name = EXCLUDED.name, unit = EXCLUDED.unit, min_qty = EXCLUDED.min_qty, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`

	selectItemBySKUSQL = `
		SELECT id, sku, name, unit, min_qty, created_at, updated_at
		FROM items WHERE sku = $1`

	selectItemBySKUForUpdateSQL = selectItemBySKUSQL + `
		FOR UPDATE`

	deleteItemBySKUSQL = `DELETE FROM items WHERE sku = $1`

	listItemsWithStockSQL = `
		SELECT i.id, i.sku, i.name, i.unit, i.min_qty, i.created_at, i.updated_at,
		       COALESCE(SUM(m.change_qty), 0) AS qty
		FROM items i
		LEFT JOIN stock_moves m ON m.item_id = i.id
		GROUP BY i.id
		ORDER BY i.sku COLLATE "C"`
)

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Upsert inserta el artículo o actualiza nombre, unidad y mínimo si el SKU ya existe. El ID se conserva.
func (r *ItemRepo) Upsert(ctx context.Context, item *entity.Item) (bool, error) {
	var inserted bool
	err := r.q.QueryRow(ctx, upsertItemSQL,
		item.SKU, item.Name, item.Unit, item.MinQty, item.UpdatedAt,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert item: %w", mapPgError(err))
	}
	return inserted, nil
}

// GetBySKU obtiene un artículo por SKU exacto.
func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	return r.getOne(ctx, selectItemBySKUSQL, sku, "get item")
}

// GetBySKUForUpdate obtiene el artículo y bloquea su fila (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *ItemRepo) GetBySKUForUpdate(ctx context.Context, sku string) (*entity.Item, error) {
	return r.getOne(ctx, selectItemBySKUForUpdateSQL, sku, "get item for update")
}

func (r *ItemRepo) getOne(ctx context.Context, query, sku, op string) (*entity.Item, error) {
	var it entity.Item
	err := r.q.QueryRow(ctx, query, sku).Scan(
		&it.ID, &it.SKU, &it.Name, &it.Unit, &it.MinQty, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}
	return &it, nil
}

// DeleteBySKU borra el artículo; ON DELETE CASCADE elimina sus movimientos.
func (r *ItemRepo) DeleteBySKU(ctx context.Context, sku string) (bool, error) {
	cmd, err := r.q.Exec(ctx, deleteItemBySKUSQL, sku)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", mapPgError(err))
	}
	return cmd.RowsAffected() > 0, nil
}

// ListWithStock devuelve todos los artículos con la suma de sus movimientos, ordenados por SKU (orden de bytes).
func (r *ItemRepo) ListWithStock(ctx context.Context) ([]entity.ItemStock, error) {
	rows, err := r.q.Query(ctx, listItemsWithStockSQL)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []entity.ItemStock
	for rows.Next() {
		var s entity.ItemStock
		if err := rows.Scan(
			&s.ID, &s.SKU, &s.Name, &s.Unit, &s.MinQty, &s.CreatedAt, &s.UpdatedAt, &s.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return list, nil
}
