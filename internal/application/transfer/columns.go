package transfer

import (
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// ImportColumns columnas obligatorias de la importación; el resto se ignora.
var ImportColumns = []string{"sku", "name", "unit", "min_qty"}

// SnapshotHeader cabecera de la exportación de stock.
var SnapshotHeader = []string{"sku", "name", "unit", "qty", "min_qty", "below_min"}

const utf8BOM = "\ufeff"

// columnIndex mapea nombre de columna a posición. Las celdas se recortan y se ignora el BOM inicial.
func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		name := strings.TrimSpace(h)
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	var missing []string
	for _, c := range ImportColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.MissingColumnsError{Missing: missing}
	}
	return idx, nil
}

// row acceso por nombre a un registro CSV; campos ausentes valen "".
type row struct {
	idx    map[string]int
	record []string
}

func (r row) get(col string) string {
	i, ok := r.idx[col]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}
