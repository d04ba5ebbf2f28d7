package entity

import "time"

// Motivos por defecto cuando el operador no indica uno.
const (
	ReasonInbound  = "inbound"
	ReasonOutbound = "outbound"
)

// StockMovement representa un apunte del ledger: positivo para entradas, negativo para salidas.
// Es solo de inserción; únicamente desaparece por el borrado en cascada de su artículo.
type StockMovement struct {
	ID        int64
	ItemID    int64
	ChangeQty int64 // nunca cero
	Reason    string
	Ref       string // documento externo: albarán, pedido, factura...
	At        time.Time
}

// IsInbound indica si el movimiento suma stock.
func (m StockMovement) IsInbound() bool {
	return m.ChangeQty > 0
}
