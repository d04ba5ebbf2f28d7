package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// DefaultHistoryLimit movimientos devueltos por History cuando no se indica límite.
const DefaultHistoryLimit = 50

// StockQueryUseCase consultas de solo lectura sobre el stock derivado.
type StockQueryUseCase struct {
	itemRepo     repository.ItemRepository
	movRepo      repository.StockMovementRepository
	historyLimit int
}

// NewStockQueryUseCase construye el caso de uso. historyLimit <= 0 usa DefaultHistoryLimit.
func NewStockQueryUseCase(itemRepo repository.ItemRepository, movRepo repository.StockMovementRepository, historyLimit int) *StockQueryUseCase {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &StockQueryUseCase{itemRepo: itemRepo, movRepo: movRepo, historyLimit: historyLimit}
}

// CurrentStock suma de los movimientos del SKU; 0 si no tiene ninguno.
func (uc *StockQueryUseCase) CurrentStock(ctx context.Context, sku string) (int64, error) {
	item, err := uc.mustItem(ctx, sku, domain.ErrUnknownItem)
	if err != nil {
		return 0, err
	}
	return uc.movRepo.SumByItem(ctx, item.ID)
}

// StockOf artículo con su stock y bandera de mínimo. ErrNotFound si el SKU no existe.
func (uc *StockQueryUseCase) StockOf(ctx context.Context, sku string) (*dto.StockResponse, error) {
	item, err := uc.mustItem(ctx, sku, domain.ErrNotFound)
	if err != nil {
		return nil, err
	}
	qty, err := uc.movRepo.SumByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	res := toStockResponse(entity.ItemStock{Item: *item, Quantity: qty})
	return &res, nil
}

// ListWithStock todos los artículos ordenados por SKU con su stock y bandera de mínimo.
func (uc *StockQueryUseCase) ListWithStock(ctx context.Context) ([]dto.StockResponse, error) {
	list, err := uc.itemRepo.ListWithStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toStockResponse(s))
	}
	return out, nil
}

// History movimientos del SKU del más reciente al más antiguo, paginados.
func (uc *StockQueryUseCase) History(ctx context.Context, sku string, page dto.PageRequest) (*dto.HistoryResponse, error) {
	item, err := uc.mustItem(ctx, sku, domain.ErrUnknownItem)
	if err != nil {
		return nil, err
	}
	limit, offset := page.Normalize(uc.historyLimit)
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit=%d", domain.ErrInvalidInput, limit)
	}

	moves, err := uc.movRepo.ListByItem(ctx, item.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.movRepo.CountByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	res := &dto.HistoryResponse{
		SKU:       item.SKU,
		Movements: make([]dto.MovementDTO, 0, len(moves)),
		Page:      dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, m := range moves {
		res.Movements = append(res.Movements, dto.MovementDTO{
			ID:        m.ID,
			ChangeQty: m.ChangeQty,
			Reason:    m.Reason,
			Ref:       m.Ref,
			At:        m.At,
		})
	}
	return res, nil
}

func (uc *StockQueryUseCase) mustItem(ctx context.Context, sku string, missing error) (*entity.Item, error) {
	item, err := uc.itemRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, missing
	}
	return item, nil
}

func toStockResponse(s entity.ItemStock) dto.StockResponse {
	return dto.StockResponse{
		SKU:      s.SKU,
		Name:     s.Name,
		Unit:     s.Unit,
		Qty:      s.Quantity,
		MinQty:   s.MinQty,
		BelowMin: s.BelowMin(),
	}
}
