package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP de movimientos e historial.
type InventoryHandler struct {
	uc     *inventory.RegisterMovementUseCase
	query  *inventory.StockQueryUseCase
	replen *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, query *inventory.StockQueryUseCase, replen *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, query: query, replen: replen}
}

// parse lee el cuerpo; el SKU de la ruta manda sobre el del cuerpo.
func (h *InventoryHandler) parse(c *fiber.Ctx) (dto.RegisterMovementRequest, error) {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return in, err
	}
	in.SKU = skuParam(c)
	in.Operator = GetOperator(c)
	return in, nil
}

// Inbound godoc
// @Summary      Registrar entrada de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sku   path  string  true  "SKU"
// @Param        body  body  dto.RegisterMovementRequest  true  "qty > 0, reason y ref opcionales"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{sku}/inbound [post]
func (h *InventoryHandler) Inbound(c *fiber.Ctx) error {
	in, err := h.parse(c)
	if err != nil {
		return badBody(c)
	}
	res, err := h.uc.RegisterInbound(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Outbound godoc
// @Summary      Registrar salida de stock
// @Description  Rechaza con 409 si el stock quedaría negativo, salvo allow_negative.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sku   path  string  true  "SKU"
// @Param        body  body  dto.RegisterMovementRequest  true  "qty > 0, reason, ref, allow_negative"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{sku}/outbound [post]
func (h *InventoryHandler) Outbound(c *fiber.Ctx) error {
	in, err := h.parse(c)
	if err != nil {
		return badBody(c)
	}
	res, err := h.uc.RegisterOutbound(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// History godoc
// @Summary      Historial de movimientos (más reciente primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        sku     path   string  true   "SKU"
// @Param        limit   query  int     false  "máximo de movimientos (50 si se omite, 0 no devuelve filas)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.HistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{sku}/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	page := dto.PageRequest{Offset: c.QueryInt("offset", 0)}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return writeError(c, fmt.Errorf("%w: limit=%q", domain.ErrInvalidInput, raw))
		}
		page.Limit = &limit
	}
	res, err := h.query.History(c.UserContext(), skuParam(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Replenishment godoc
// @Summary      Lista de reposición (artículos bajo mínimo por urgencia)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestion
// @Router       /api/reports/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.replen.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
