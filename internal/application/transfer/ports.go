package transfer

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta la importación completa en una sola transacción (todo o nada).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// StockReportGenerator puerto de salida para el informe de stock en PDF.
type StockReportGenerator interface {
	StockReport(ctx context.Context, generatedAt time.Time, records []dto.SnapshotRecord) ([]byte, error)
}
