package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el ledger de movimientos (DIP).
type StockMovementRepository interface {
	// Create añade el movimiento y rellena ID y At.
	Create(ctx context.Context, movement *entity.StockMovement) error
	// SumByItem devuelve la suma de change_qty del artículo (0 sin movimientos).
	SumByItem(ctx context.Context, itemID int64) (int64, error)
	// ListByItem devuelve los movimientos del más reciente al más antiguo.
	ListByItem(ctx context.Context, itemID int64, limit, offset int) ([]*entity.StockMovement, error)
	CountByItem(ctx context.Context, itemID int64) (int, error)
}
