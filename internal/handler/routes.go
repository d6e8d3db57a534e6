package handler

import (
	"erp-pdv-api/internal/middleware"
	"erp-pdv-api/internal/model"
	"erp-pdv-api/internal/repository"
	"erp-pdv-api/internal/ws"
	"erp-pdv-api/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Router holds everything RegisterRoutes mounts. Hub may be nil, in which
// case no websocket endpoint is served.
type Router struct {
	Tokens   *jwt.Manager
	UserRepo repository.UserRepository
	Hub      *ws.Hub

	Health    *HealthHandler
	Auth      *AuthHandler
	Inventory *InventoryHandler
	Sales     *SaleHandler
	Suppliers *SupplierHandler
	Reports   *ReportHandler
	Users     *UserHandler
	Roles     *RoleHandler
}

func RegisterRoutes(app *fiber.App, r Router) {
	// Live stock feed, outside the authenticated group
	if r.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(r.Hub.Serve))
	}

	api := app.Group("/api/v1")
	api.Get("/health", r.Health.Health)

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", r.Auth.Login)
	auth.Post("/reset-password", r.Auth.ResetPassword)
	auth.Post("/validate-token", r.Auth.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(r.Tokens, r.UserRepo))
	protected.Get("/auth/me", r.Auth.Me)

	// Products and stock ledger
	protected.Get("/products", r.Inventory.GetProducts)
	protected.Get("/products/:id", r.Inventory.GetProduct)
	protected.Get("/products/:id/moves", r.Inventory.GetStockMoves)
	protected.Post("/products", middleware.RequirePrivilege(model.PrivProductCreate), r.Inventory.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege(model.PrivProductUpdate), r.Inventory.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege(model.PrivProductDelete), r.Inventory.DeleteProduct)
	protected.Post("/products/:id/stock", middleware.RequirePrivilege(model.PrivStockAdjust), r.Inventory.AdjustStock)

	// Sales
	protected.Get("/sales", middleware.RequirePrivilege(model.PrivSaleView), r.Sales.GetSales)
	protected.Get("/sales/:id", middleware.RequirePrivilege(model.PrivSaleView), r.Sales.GetSale)
	protected.Post("/sales", middleware.RequirePrivilege(model.PrivSaleCreate), r.Sales.CreateSale)
	protected.Post("/sales/:id/cancel", middleware.RequirePrivilege(model.PrivSaleCancel), r.Sales.CancelSale)

	// Suppliers
	protected.Get("/suppliers", r.Suppliers.GetSuppliers)
	protected.Get("/suppliers/:id", r.Suppliers.GetSupplier)
	protected.Post("/suppliers", middleware.RequirePrivilege(model.PrivSupplierCreate), r.Suppliers.CreateSupplier)
	protected.Put("/suppliers/:id", middleware.RequirePrivilege(model.PrivSupplierUpdate), r.Suppliers.UpdateSupplier)
	protected.Delete("/suppliers/:id", middleware.RequirePrivilege(model.PrivSupplierDelete), r.Suppliers.DeleteSupplier)

	// Reports
	reports := protected.Group("/reports", middleware.RequirePrivilege(model.PrivReportView))
	reports.Get("/summary", r.Reports.Summary)
	reports.Get("/stock_moves_7d", r.Reports.StockMovesWindow)
	reports.Get("/stock_moves_range", r.Reports.StockMovesRange)
	reports.Get("/stock_moves_range/export", r.Reports.ExportStockMoves)
	reports.Get("/inventory/export", r.Reports.ExportInventory)
	reports.Get("/ledger_check", r.Reports.LedgerCheck)

	// User management
	protected.Get("/users", middleware.RequirePrivilege(model.PrivUserView), r.Users.GetUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege(model.PrivUserView), r.Users.GetUser)
	protected.Post("/users", middleware.RequirePrivilege(model.PrivUserCreate), r.Users.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege(model.PrivUserUpdate), r.Users.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege(model.PrivUserDelete), r.Users.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege(model.PrivUserUpdatePrivilege), r.Users.UpdateUserPrivileges)

	protected.Get("/roles", middleware.RequirePrivilege(model.PrivUserView), r.Roles.GetRoles)
	protected.Get("/privileges", middleware.RequirePrivilege(model.PrivUserView), r.Roles.GetPrivileges)
	protected.Get("/audit-logs", middleware.RequirePrivilege(model.PrivAuditView), r.Roles.GetAuditLogs)
}
