package entity

import "time"

// DefaultUnit unidad asignada cuando el alta o la importación no la indica.
const DefaultUnit = "pcs"

// Item representa un artículo del inventario identificado por su SKU.
// El stock no se guarda aquí: se deriva sumando sus movimientos.
type Item struct {
	ID        int64
	SKU       string // único, no vacío
	Name      string
	Unit      string
	MinQty    int64 // umbral de alerta de stock bajo
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemStock es un artículo junto con su stock derivado en el momento de la consulta.
type ItemStock struct {
	Item
	Quantity int64
}

// BelowMin indica si el stock está por debajo del mínimo configurado.
func (s ItemStock) BelowMin() bool {
	return s.Quantity < s.MinQty
}
