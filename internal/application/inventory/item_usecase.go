package inventory

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ItemUseCase registro de artículos: alta/actualización por SKU, consulta y borrado.
type ItemUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	log      zerolog.Logger
	now      Clock
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, log zerolog.Logger) *ItemUseCase {
	return &ItemUseCase{txRunner: txRunner, itemRepo: itemRepo, log: log, now: SystemClock}
}

// WithClock sustituye el reloj (tests).
func (uc *ItemUseCase) WithClock(now Clock) *ItemUseCase {
	uc.now = now
	return uc
}

// Upsert da de alta el SKU o actualiza nombre, unidad y mínimo conservando su ID.
func (uc *ItemUseCase) Upsert(ctx context.Context, in dto.UpsertItemRequest) (*dto.ItemResponse, error) {
	item, err := NewItemFromRequest(in)
	if err != nil {
		return nil, err
	}
	item.UpdatedAt = uc.now()

	created, err := uc.itemRepo.Upsert(ctx, item)
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("sku", item.SKU).
		Int64("item_id", item.ID).
		Bool("created", created).
		Msg("artículo guardado")
	return toItemResponse(item, created), nil
}

// Lookup busca por SKU exacto. Devuelve nil, nil si no existe.
func (uc *ItemUseCase) Lookup(ctx context.Context, sku string) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetBySKU(ctx, sku)
	if err != nil || item == nil {
		return nil, err
	}
	return toItemResponse(item, false), nil
}

// Delete borra el artículo y, en cascada, todo su historial. Devuelve false si el SKU no existía.
func (uc *ItemUseCase) Delete(ctx context.Context, sku string) (bool, error) {
	var deleted bool
	err := uc.txRunner.Run(ctx, func(items repository.ItemRepository, _ repository.StockMovementRepository) error {
		var err error
		deleted, err = items.DeleteBySKU(ctx, sku)
		return err
	})
	if err != nil {
		return false, err
	}
	if deleted {
		uc.log.Info().Str("sku", sku).Msg("artículo borrado con su historial")
	}
	return deleted, nil
}

// NewItemFromRequest valida la entrada y aplica los valores por defecto (unidad "pcs").
func NewItemFromRequest(in dto.UpsertItemRequest) (*entity.Item, error) {
	if strings.TrimSpace(in.SKU) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	unit := in.Unit
	if strings.TrimSpace(unit) == "" {
		unit = entity.DefaultUnit
	}
	return &entity.Item{SKU: in.SKU, Name: in.Name, Unit: unit, MinQty: in.MinQty}, nil
}

func toItemResponse(it *entity.Item, created bool) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:        it.ID,
		SKU:       it.SKU,
		Name:      it.Name,
		Unit:      it.Unit,
		MinQty:    it.MinQty,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
		Created:   created,
	}
}
