package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// ItemHandler maneja el registro de artículos y las consultas de stock.
type ItemHandler struct {
	items *inventory.ItemUseCase
	query *inventory.StockQueryUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(items *inventory.ItemUseCase, query *inventory.StockQueryUseCase) *ItemHandler {
	return &ItemHandler{items: items, query: query}
}

// Upsert godoc
// @Summary      Alta o actualización de artículo por SKU
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertItemRequest  true  "sku, name, unit (pcs por defecto), min_qty"
// @Success      200   {object}  dto.ItemResponse
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.items.Upsert(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusOK
	if res.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(res)
}

// List godoc
// @Summary      Artículos con stock, ordenados por SKU
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.StockResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	list, err := h.query.ListWithStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "items": list})
}

// Get godoc
// @Summary      Stock de un artículo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{sku} [get]
func (h *ItemHandler) Get(c *fiber.Ctx) error {
	res, err := h.query.StockOf(c.UserContext(), skuParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Delete godoc
// @Summary      Borrar artículo y su historial
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/items/{sku} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	sku := skuParam(c)
	deleted, err := h.items.Delete(c.UserContext(), sku)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"sku": sku, "deleted": deleted})
}
