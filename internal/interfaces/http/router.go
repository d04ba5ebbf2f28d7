package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/transfer"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC           *inventory.ItemUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	StockQuery       *inventory.StockQueryUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	ImportItems      *transfer.ImportItemsUseCase
	ExportSnapshot   *transfer.ExportSnapshotUseCase
	CSVEncoding      string
	JWTSecret        string // vacío = API sin autenticación
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Con secreto, todas las rutas requieren Bearer Token y el rol adecuado.
	allow := func(roles ...string) fiber.Handler {
		if deps.JWTSecret == "" {
			return func(c *fiber.Ctx) error { return c.Next() }
		}
		return RequireRole(roles...)
	}
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
	}
	readers := allow(jwt.RoleAdmin, jwt.RoleOperator, jwt.RoleReader)
	writers := allow(jwt.RoleAdmin, jwt.RoleOperator)
	admins := allow(jwt.RoleAdmin)

	itemHandler := NewItemHandler(deps.ItemUC, deps.StockQuery)
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.StockQuery, deps.Replenishment)
	transferHandler := NewTransferHandler(deps.ImportItems, deps.ExportSnapshot, deps.CSVEncoding)

	items := api.Group("/items")
	items.Get("/", readers, itemHandler.List)
	items.Post("/", writers, itemHandler.Upsert)
	items.Get("/:sku", readers, itemHandler.Get)
	items.Delete("/:sku", admins, itemHandler.Delete)
	items.Post("/:sku/inbound", writers, inventoryHandler.Inbound)
	items.Post("/:sku/outbound", writers, inventoryHandler.Outbound)
	items.Get("/:sku/history", readers, inventoryHandler.History)

	api.Post("/import/items", admins, transferHandler.ImportItems)
	api.Get("/export/stock.csv", readers, transferHandler.ExportCSV)
	api.Get("/reports/stock.pdf", readers, transferHandler.ReportPDF)
	api.Get("/reports/replenishment", readers, inventoryHandler.Replenishment)
}
