package service

import (
	"bytes"
	"context"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	inventorySheet = "Inventory"
	movesSheet     = "Stock Moves"
)

// InventoryWorkbook exports the current catalog with stock levels. Money
// columns are written in currency units, not cents.
func (s *reportService) InventoryWorkbook(ctx context.Context) (*bytes.Buffer, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(products))
	for _, p := range products {
		sku := ""
		if p.SKU != nil {
			sku = *p.SKU
		}
		low := ""
		if p.LowStock(s.opts.LowStockThreshold) {
			low = "yes"
		}
		rows = append(rows, []interface{}{
			p.ID, p.Name, sku, p.Unit, p.NCM, p.StockQty,
			toUnits(p.Price), toUnits(p.Cost), low,
		})
	}

	header := []interface{}{"ID", "Name", "SKU", "Unit", "NCM", "Stock", "Price", "Cost", "Low stock"}
	return writeSheet(inventorySheet, header, rows, []float64{8, 40, 18, 8, 12, 10, 12, 12, 10})
}

// StockMovesWorkbook exports the ledger entries of [start, end).
func (s *reportService) StockMovesWorkbook(ctx context.Context, start, end time.Time) (*bytes.Buffer, error) {
	moves, err := s.StockMovesRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(moves))
	for _, m := range moves {
		sale := ""
		if m.SaleID != nil {
			sale = saleReason(*m.SaleID)
		}
		rows = append(rows, []interface{}{
			m.ID, m.CreatedAt.In(s.opts.Location).Format("2006-01-02 15:04:05"),
			m.ProductID, m.ProductName, m.Delta, m.Reason, sale, m.CreatedBy,
		})
	}

	header := []interface{}{"ID", "Date", "Product ID", "Product", "Delta", "Reason", "Sale", "User"}
	return writeSheet(movesSheet, header, rows, []float64{8, 20, 10, 40, 8, 30, 14, 20})
}

func writeSheet(sheet string, header []interface{}, rows [][]interface{}, widths []float64) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}

func toUnits(cents int64) float64 {
	return float64(cents) / 100
}
