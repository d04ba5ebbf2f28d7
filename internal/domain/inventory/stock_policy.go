package inventory

import (
	"math"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// MaxMovementQty límite de una sola cantidad; change_qty es INTEGER en el almacén.
const MaxMovementQty = math.MaxInt32

// ValidateQuantity exige una cantidad estrictamente positiva y representable.
func ValidateQuantity(qty int64) error {
	if qty <= 0 || qty > MaxMovementQty {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// CheckOutbound aplica la política de stock no negativo (servicio de dominio).
// Con allowNegative la salida siempre procede.
func CheckOutbound(sku string, current, requested int64, allowNegative bool) error {
	if allowNegative {
		return nil
	}
	if current-requested < 0 {
		return &domain.InsufficientStockError{SKU: sku, Current: current, Requested: requested}
	}
	return nil
}

// BelowMin indica si una cantidad queda por debajo del mínimo.
func BelowMin(qty, minQty int64) bool {
	return qty < minQty
}
