package transfer

import (
	"context"
	"errors"
	"strconv"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ExportSnapshotUseCase instantánea del stock de todos los artículos (CSV o informe PDF).
type ExportSnapshotUseCase struct {
	itemRepo repository.ItemRepository
	report   StockReportGenerator
	now      inventory.Clock
}

// NewExportSnapshotUseCase construye el caso de uso. report puede ser nil si no se exporta PDF.
func NewExportSnapshotUseCase(itemRepo repository.ItemRepository, report StockReportGenerator) *ExportSnapshotUseCase {
	return &ExportSnapshotUseCase{itemRepo: itemRepo, report: report, now: inventory.SystemClock}
}

// WithClock sustituye el reloj (tests).
func (uc *ExportSnapshotUseCase) WithClock(now inventory.Clock) *ExportSnapshotUseCase {
	uc.now = now
	return uc
}

// Snapshot una fila por artículo, ordenada por SKU.
func (uc *ExportSnapshotUseCase) Snapshot(ctx context.Context) ([]dto.SnapshotRecord, error) {
	list, err := uc.itemRepo.ListWithStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SnapshotRecord, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SnapshotRecord{
			SKU:      s.SKU,
			Name:     s.Name,
			Unit:     s.Unit,
			Qty:      s.Quantity,
			MinQty:   s.MinQty,
			BelowMin: s.BelowMin(),
		})
	}
	return out, nil
}

// ReportPDF la misma instantánea como informe PDF.
func (uc *ExportSnapshotUseCase) ReportPDF(ctx context.Context) ([]byte, error) {
	if uc.report == nil {
		return nil, errors.New("generador de informes no configurado")
	}
	records, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return uc.report.StockReport(ctx, uc.now(), records)
}

// SnapshotRow convierte un registro al orden de SnapshotHeader.
func SnapshotRow(r dto.SnapshotRecord) []string {
	return []string{
		r.SKU,
		r.Name,
		r.Unit,
		strconv.FormatInt(r.Qty, 10),
		strconv.FormatInt(r.MinQty, 10),
		strconv.FormatBool(r.BelowMin),
	}
}
