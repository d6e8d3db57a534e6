package repository

import (
	"context"
	"time"

	"erp-pdv-api/internal/model"

	"gorm.io/gorm"
)

type StockMoveRepository interface {
	Create(tx *gorm.DB, move *model.StockMove) error
	FindByProduct(ctx context.Context, productID uint, limit int) ([]model.StockMove, error)
	FindDeltasBetween(ctx context.Context, start, end time.Time) ([]DeltaPoint, error)
	FindBetween(ctx context.Context, start, end time.Time, limit int) ([]StockMoveRow, error)
	FindLedgerMismatches(ctx context.Context) ([]LedgerMismatch, error)
}

// DeltaPoint is the minimal projection used for day bucketing.
type DeltaPoint struct {
	CreatedAt time.Time
	Delta     int
}

// StockMoveRow is a ledger entry joined with its product name.
type StockMoveRow struct {
	ID          uint      `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	ProductID   uint      `json:"product_id"`
	ProductName string    `json:"product_name"`
	Delta       int       `json:"delta"`
	Reason      string    `json:"reason"`
	SaleID      *uint     `json:"sale_id,omitempty"`
	CreatedBy   string    `json:"created_by"`
}

// LedgerMismatch is a product whose stock_qty disagrees with its ledger.
type LedgerMismatch struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	StockQty  int    `json:"stock_qty"`
	LedgerSum int    `json:"ledger_sum"`
}

type stockMoveRepo struct {
	db *gorm.DB
}

func NewStockMoveRepo(db *gorm.DB) StockMoveRepository {
	return &stockMoveRepo{db}
}

func (r *stockMoveRepo) Create(tx *gorm.DB, move *model.StockMove) error {
	return tx.Create(move).Error
}

func (r *stockMoveRepo) FindByProduct(ctx context.Context, productID uint, limit int) ([]model.StockMove, error) {
	var moves []model.StockMove
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&moves).Error
	return moves, err
}

// FindDeltasBetween returns every move in [start, end).
func (r *stockMoveRepo) FindDeltasBetween(ctx context.Context, start, end time.Time) ([]DeltaPoint, error) {
	var points []DeltaPoint
	err := r.db.WithContext(ctx).Model(&model.StockMove{}).
		Select("created_at, delta").
		Where("created_at >= ? AND created_at < ?", start.UTC(), end.UTC()).
		Order("created_at ASC").
		Scan(&points).Error
	return points, err
}

// FindBetween returns moves in [start, end), newest first, at most limit rows.
// Moves of soft-deleted products are included.
func (r *stockMoveRepo) FindBetween(ctx context.Context, start, end time.Time, limit int) ([]StockMoveRow, error) {
	var rows []StockMoveRow
	err := r.db.WithContext(ctx).
		Table("stock_moves AS m").
		Select("m.id, m.created_at, m.product_id, p.name AS product_name, m.delta, m.reason, m.sale_id, m.created_by").
		Joins("JOIN products p ON p.id = m.product_id").
		Where("m.created_at >= ? AND m.created_at < ?", start.UTC(), end.UTC()).
		Order("m.created_at DESC, m.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *stockMoveRepo) FindLedgerMismatches(ctx context.Context) ([]LedgerMismatch, error) {
	var mismatches []LedgerMismatch
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id AS product_id, p.name AS name, p.stock_qty AS stock_qty,
		       COALESCE(SUM(m.delta), 0) AS ledger_sum
		FROM products p
		LEFT JOIN stock_moves m ON m.product_id = p.id
		GROUP BY p.id, p.name, p.stock_qty
		HAVING p.stock_qty <> COALESCE(SUM(m.delta), 0)
		ORDER BY p.id ASC
	`).Scan(&mismatches).Error
	return mismatches, err
}
