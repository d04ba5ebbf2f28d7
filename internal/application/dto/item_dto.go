package dto

import "time"

// UpsertItemRequest alta o actualización de un artículo por SKU.
type UpsertItemRequest struct {
	SKU    string `json:"sku"`
	Name   string `json:"name"`
	Unit   string `json:"unit"`    // vacío = "pcs"
	MinQty int64  `json:"min_qty"` // umbral de alerta
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID        int64     `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	MinQty    int64     `json:"min_qty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Created   bool      `json:"created"` // true si el upsert dio de alta el SKU
}
