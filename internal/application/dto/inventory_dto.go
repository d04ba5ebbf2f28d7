package dto

import "time"

// RegisterMovementRequest entrada para registrar una entrada o salida de stock.
type RegisterMovementRequest struct {
	SKU           string `json:"sku"`
	Qty           int64  `json:"qty"` // siempre positiva; el signo lo da el tipo de operación
	Reason        string `json:"reason,omitempty"`
	Ref           string `json:"ref,omitempty"`
	AllowNegative bool   `json:"allow_negative,omitempty"` // solo salidas
	Operator      string `json:"-"`                        // operador autenticado, solo para el log
}

// MovementResponse resultado de registrar un movimiento.
type MovementResponse struct {
	MovementID   int64  `json:"movement_id"`
	SKU          string `json:"sku"`
	ChangeQty    int64  `json:"change_qty"`
	CurrentStock int64  `json:"current_stock"`
	MinQty       int64  `json:"min_qty"`
	BelowMin     bool   `json:"below_min"`
}

// StockResponse artículo con su stock derivado.
type StockResponse struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Qty      int64  `json:"qty"`
	MinQty   int64  `json:"min_qty"`
	BelowMin bool   `json:"below_min"`
}

// MovementDTO un apunte del historial.
type MovementDTO struct {
	ID        int64     `json:"id"`
	ChangeQty int64     `json:"change_qty"`
	Reason    string    `json:"reason"`
	Ref       string    `json:"ref"`
	At        time.Time `json:"at"`
}

// HistoryResponse historial paginado de un artículo, del más reciente al más antiguo.
type HistoryResponse struct {
	SKU       string        `json:"sku"`
	Movements []MovementDTO `json:"movements"`
	Page      PageResponse  `json:"page"`
}

// ReplenishmentSuggestion artículo bajo mínimo con la cantidad sugerida de pedido.
type ReplenishmentSuggestion struct {
	Priority          int    `json:"priority"`
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	Unit              string `json:"unit"`
	CurrentStock      int64  `json:"current_stock"`
	MinQty            int64  `json:"min_qty"`
	IdealStock        int64  `json:"ideal_stock"`
	SuggestedOrderQty int64  `json:"suggested_order_qty"`
}
