package http

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// writeError traduce errores de dominio a status HTTP y dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrInvalidQuantity):
		status, code = fiber.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, domain.ErrMissingColumns):
		status, code = fiber.StatusBadRequest, "MISSING_COLUMNS"
	case errors.Is(err, domain.ErrInvalidImportRow):
		status, code = fiber.StatusBadRequest, "INVALID_IMPORT_ROW"
	case errors.Is(err, domain.ErrUnknownItem):
		status, code = fiber.StatusNotFound, "UNKNOWN_ITEM"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrStoreBusy):
		status, code = fiber.StatusServiceUnavailable, "STORE_BUSY"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// skuParam devuelve :sku decodificado (los SKU pueden llevar caracteres no ASCII).
func skuParam(c *fiber.Ctx) string {
	raw := c.Params("sku")
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}
