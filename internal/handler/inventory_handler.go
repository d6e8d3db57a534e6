package handler

import (
	"erp-pdv-api/internal/middleware"
	"erp-pdv-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// CreateProduct
// POST /api/v1/products
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.CreateProduct(c.UserContext(), middleware.Actor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// GET /api/v1/products
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GET /api/v1/products/:id
func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// UpdateProduct replaces the editable fields of a product. Stock is not
// touched; use AdjustStock.
// PUT /api/v1/products/:id
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}

	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), middleware.Actor(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// DELETE /api/v1/products/:id
func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}

	if err := h.service.DeleteProduct(c.UserContext(), middleware.Actor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// AdjustStock applies a signed delta through the stock ledger.
// POST /api/v1/products/:id/stock
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}

	var req service.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	qty, err := h.service.AdjustStock(c.UserContext(), middleware.Actor(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "stock_qty": qty})
}

// GET /api/v1/products/:id/moves?limit=
func (h *InventoryHandler) GetStockMoves(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}

	moves, err := h.service.GetStockMoves(c.UserContext(), id, c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(moves)
}
