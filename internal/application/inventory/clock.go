package inventory

import "time"

// Clock devuelve la hora usada para sellar altas y movimientos.
type Clock func() time.Time

// SystemClock hora actual en UTC con precisión de segundos, igual que las columnas del esquema.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
