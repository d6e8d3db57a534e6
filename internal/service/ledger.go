package service

import (
	"time"

	"erp-pdv-api/internal/model"
	"erp-pdv-api/internal/repository"

	"gorm.io/gorm"
)

// ledger is the only writer of Product.StockQty. Each change is a
// compare-and-swap on the locked row plus one StockMove in the same tx.
type ledger struct {
	productRepo repository.ProductRepository
	moveRepo    repository.StockMoveRepository
	now         func() time.Time
}

func newLedger(productRepo repository.ProductRepository, moveRepo repository.StockMoveRepository) *ledger {
	return &ledger{productRepo: productRepo, moveRepo: moveRepo, now: time.Now}
}

// apply moves product.StockQty by delta. product must have been loaded with a
// row lock inside tx; its StockQty is updated in place on success.
func (l *ledger) apply(tx *gorm.DB, product *model.Product, delta int, reason string, saleID *uint, actor model.Actor) (*model.StockMove, error) {
	before := product.StockQty
	after := before + delta
	if after < 0 {
		return nil, newError(ErrInsufficientStock, "insufficient stock for '%s': %d available", product.Name, before)
	}

	swapped, err := l.productRepo.SetStock(tx, product.ID, before, after, actor.Name)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, newError(ErrConflict, "stock of product %d changed concurrently, retry", product.ID)
	}

	move := &model.StockMove{
		ProductID:   product.ID,
		Delta:       delta,
		Reason:      reason,
		StockBefore: before,
		StockAfter:  after,
		SaleID:      saleID,
		CreatedBy:   actor.Name,
		CreatedAt:   l.now().UTC(),
	}
	if err := l.moveRepo.Create(tx, move); err != nil {
		return nil, err
	}

	product.StockQty = after
	return move, nil
}
