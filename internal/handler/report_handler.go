package handler

import (
	"bytes"
	"fmt"

	"erp-pdv-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GET /api/v1/reports/summary
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// StockMovesWindow returns one net delta per day, oldest first.
// GET /api/v1/reports/stock_moves_7d?days=
func (h *ReportHandler) StockMovesWindow(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	window, err := h.service.StockMovesWindow(c.UserContext(), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(window)
}

// GET /api/v1/reports/stock_moves_range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ReportHandler) StockMovesRange(c *fiber.Ctx) error {
	start, end, err := h.service.DayRange(c.Query("start"), c.Query("end"))
	if err != nil {
		return respondError(c, err)
	}

	rows, err := h.service.StockMovesRange(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

// GET /api/v1/reports/stock_moves_range/export?start=&end=
func (h *ReportHandler) ExportStockMoves(c *fiber.Ctx) error {
	start, end, err := h.service.DayRange(c.Query("start"), c.Query("end"))
	if err != nil {
		return respondError(c, err)
	}

	buf, err := h.service.StockMovesWorkbook(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}
	name := fmt.Sprintf("stock_moves_%s_%s.xlsx", c.Query("start"), c.Query("end"))
	return sendWorkbook(c, name, buf)
}

// GET /api/v1/reports/inventory/export
func (h *ReportHandler) ExportInventory(c *fiber.Ctx) error {
	buf, err := h.service.InventoryWorkbook(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return sendWorkbook(c, "inventory.xlsx", buf)
}

// LedgerCheck lists products whose stock_qty disagrees with their ledger.
// GET /api/v1/reports/ledger_check
func (h *ReportHandler) LedgerCheck(c *fiber.Ctx) error {
	mismatches, err := h.service.LedgerCheck(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": len(mismatches) == 0, "mismatches": mismatches})
}

func sendWorkbook(c *fiber.Ctx, name string, buf *bytes.Buffer) error {
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(buf.Bytes())
}
