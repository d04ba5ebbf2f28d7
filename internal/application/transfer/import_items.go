package transfer

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ImportItemsUseCase importa definiciones de artículos (sku,name,unit,min_qty) desde filas CSV.
// Todas las filas se validan antes de escribir y se aplican en una única transacción.
type ImportItemsUseCase struct {
	txRunner TxRunner
	log      zerolog.Logger
	now      inventory.Clock
}

// NewImportItemsUseCase construye el caso de uso.
func NewImportItemsUseCase(txRunner TxRunner, log zerolog.Logger) *ImportItemsUseCase {
	return &ImportItemsUseCase{txRunner: txRunner, log: log, now: inventory.SystemClock}
}

// WithClock sustituye el reloj (tests).
func (uc *ImportItemsUseCase) WithClock(now inventory.Clock) *ImportItemsUseCase {
	uc.now = now
	return uc
}

// Import aplica header + rows. Ante cualquier fila inválida no se escribe nada.
func (uc *ImportItemsUseCase) Import(ctx context.Context, header []string, rows [][]string) (*dto.ImportResult, error) {
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	items := make([]*entity.Item, 0, len(rows))
	for i, rec := range rows {
		item, err := decodeItemRow(row{idx: idx, record: rec}, i+2)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	res := &dto.ImportResult{ImportID: uuid.NewString(), Rows: len(items)}
	now := uc.now()
	err = uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, _ repository.StockMovementRepository) error {
		res.Created, res.Updated = 0, 0
		for _, it := range items {
			it.UpdatedAt = now
			created, err := itemRepo.Upsert(ctx, it)
			if err != nil {
				return err
			}
			if created {
				res.Created++
			} else {
				res.Updated++
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Str("import_id", res.ImportID).Msg("importación revertida")
		return nil, err
	}

	uc.log.Info().
		Str("import_id", res.ImportID).
		Int("rows", res.Rows).
		Int("created", res.Created).
		Int("updated", res.Updated).
		Msg("importación aplicada")
	return res, nil
}

// decodeItemRow valida una fila; line es el número de línea en el archivo (cabecera = 1).
func decodeItemRow(r row, line int) (*entity.Item, error) {
	sku := r.get("sku")
	name := r.get("name")
	if sku == "" {
		return nil, &domain.InvalidImportRowError{Line: line, Column: "sku", Reason: "sku vacío"}
	}
	if name == "" {
		return nil, &domain.InvalidImportRowError{Line: line, SKU: sku, Column: "name", Reason: "nombre vacío"}
	}

	unit := r.get("unit")
	if unit == "" {
		unit = entity.DefaultUnit
	}

	var minQty int64
	if raw := r.get("min_qty"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &domain.InvalidImportRowError{
				Line: line, SKU: sku, Column: "min_qty", Value: raw, Reason: "no es un entero",
			}
		}
		minQty = n
	}

	return &entity.Item{SKU: sku, Name: name, Unit: unit, MinQty: minQty}, nil
}
