package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const (
	insertMovementSQL = `
		INSERT INTO stock_moves (item_id, change_qty, reason, ref, at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, at`

	sumMovementsSQL = `SELECT COALESCE(SUM(change_qty), 0) FROM stock_moves WHERE item_id = $1`

	listMovementsSQL = `
		SELECT id, item_id, change_qty, reason, ref, at
		FROM stock_moves WHERE item_id = $1
		ORDER BY at DESC, id DESC
		LIMIT $2 OFFSET $3`

	countMovementsSQL = `SELECT COUNT(*) FROM stock_moves WHERE item_id = $1`
)

// StockMovementRepo implementación del ledger de movimientos sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento y devuelve en él el ID y la marca de tiempo asignados.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	err := r.q.QueryRow(ctx, insertMovementSQL, m.ItemID, m.ChangeQty, m.Reason, m.Ref, m.At).Scan(&m.ID, &m.At)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUnknownItem
		}
		return fmt.Errorf("insert stock movement: %w", mapPgError(err))
	}
	return nil
}

// SumByItem calcula el stock actual: suma de change_qty, 0 sin movimientos.
func (r *StockMovementRepo) SumByItem(ctx context.Context, itemID int64) (int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx, sumMovementsSQL, itemID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum stock movements: %w", mapPgError(err))
	}
	return total, nil
}

// ListByItem devuelve el historial del más reciente al más antiguo (desempate por ID).
func (r *StockMovementRepo) ListByItem(ctx context.Context, itemID int64, limit, offset int) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, listMovementsSQL, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.ChangeQty, &m.Reason, &m.Ref, &m.At); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	return list, nil
}

// CountByItem cuenta los movimientos del artículo (total para paginar el historial).
func (r *StockMovementRepo) CountByItem(ctx context.Context, itemID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, countMovementsSQL, itemID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock movements: %w", err)
	}
	return n, nil
}
