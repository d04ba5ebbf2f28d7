package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para artículos (DIP).
type ItemRepository interface {
	// Upsert inserta o actualiza por SKU. Rellena ID y marcas de tiempo; created indica alta nueva.
	Upsert(ctx context.Context, item *entity.Item) (created bool, err error)
	// GetBySKU devuelve nil, nil si el SKU no existe.
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	// GetBySKUForUpdate igual que GetBySKU pero bloquea la fila hasta el fin de la transacción.
	GetBySKUForUpdate(ctx context.Context, sku string) (*entity.Item, error)
	// DeleteBySKU borra el artículo y sus movimientos; false si no existía.
	DeleteBySKU(ctx context.Context, sku string) (bool, error)
	// ListWithStock devuelve todos los artículos con su stock derivado, ordenados por SKU.
	ListWithStock(ctx context.Context) ([]entity.ItemStock, error)
}
