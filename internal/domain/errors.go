package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnknownItem       = errors.New("artículo desconocido")
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor que cero")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrMissingColumns    = errors.New("faltan columnas obligatorias en el CSV")
	ErrInvalidImportRow  = errors.New("fila de importación inválida")
	ErrStoreBusy         = errors.New("almacén ocupado, reintente")
)

// InsufficientStockError detalla una salida rechazada por dejar el stock en negativo.
type InsufficientStockError struct {
	SKU       string
	Current   int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: actual=%d, solicitado=%d", e.SKU, e.Current, e.Requested)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// MissingColumnsError lista las columnas obligatorias ausentes en la cabecera.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("faltan columnas obligatorias en el CSV: %s", strings.Join(e.Missing, ", "))
}

func (e *MissingColumnsError) Unwrap() error { return ErrMissingColumns }

// InvalidImportRowError describe la primera fila que impidió la importación.
// Line es 1-based contando la cabecera, como la ve quien abre el archivo.
type InvalidImportRowError struct {
	Line   int
	SKU    string
	Column string
	Value  string
	Reason string
}

func (e *InvalidImportRowError) Error() string {
	msg := fmt.Sprintf("línea %d", e.Line)
	if e.SKU != "" {
		msg += fmt.Sprintf(" (sku=%s)", e.SKU)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(": %s=%q", e.Column, e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return "fila de importación inválida, " + msg
}

func (e *InvalidImportRowError) Unwrap() error { return ErrInvalidImportRow }
