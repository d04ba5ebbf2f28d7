package dto

// ImportResult resumen de una importación masiva aplicada.
type ImportResult struct {
	ImportID string `json:"import_id"`
	Rows     int    `json:"rows"`
	Created  int    `json:"created"`
	Updated  int    `json:"updated"`
}

// SnapshotRecord una fila de la exportación de stock.
type SnapshotRecord struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Qty      int64  `json:"qty"`
	MinQty   int64  `json:"min_qty"`
	BelowMin bool   `json:"below_min"`
}
