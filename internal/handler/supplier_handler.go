package handler

import (
	"erp-pdv-api/internal/middleware"
	"erp-pdv-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SupplierHandler struct {
	service service.SupplierService
}

func NewSupplierHandler(s service.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: s}
}

// GET /api/v1/suppliers
func (h *SupplierHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.GetAllSuppliers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(suppliers)
}

// GET /api/v1/suppliers/:id
func (h *SupplierHandler) GetSupplier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid supplier ID")
	}

	supplier, err := h.service.GetSupplierByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(supplier)
}

// POST /api/v1/suppliers
func (h *SupplierHandler) CreateSupplier(c *fiber.Ctx) error {
	var req service.CreateSupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	supplier, err := h.service.CreateSupplier(c.UserContext(), middleware.Actor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(supplier)
}

// PUT /api/v1/suppliers/:id
func (h *SupplierHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid supplier ID")
	}

	var req service.UpdateSupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	supplier, err := h.service.UpdateSupplier(c.UserContext(), middleware.Actor(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(supplier)
}

// DELETE /api/v1/suppliers/:id
func (h *SupplierHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid supplier ID")
	}

	if err := h.service.DeleteSupplier(c.UserContext(), middleware.Actor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
