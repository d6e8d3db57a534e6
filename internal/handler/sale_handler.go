package handler

import (
	"erp-pdv-api/internal/middleware"
	"erp-pdv-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// CreateSale runs the whole sale as one transaction and returns its id.
// POST /api/v1/sales
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var req service.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	sale, err := h.service.CreateSale(c.UserContext(), middleware.Actor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": sale.ID, "total": sale.Total})
}

// GET /api/v1/sales
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.GetAllSales(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sales)
}

// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid sale ID")
	}

	sale, err := h.service.GetSaleByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

// POST /api/v1/sales/:id/cancel
func (h *SaleHandler) CancelSale(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid sale ID")
	}

	sale, err := h.service.CancelSale(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}
