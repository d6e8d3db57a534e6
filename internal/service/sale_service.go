package service

import (
	"context"
	"fmt"
	"strings"

	"erp-pdv-api/internal/model"
	"erp-pdv-api/internal/repository"

	"gorm.io/gorm"
)

type SaleService interface {
	CreateSale(ctx context.Context, actor model.Actor, req *CreateSaleRequest) (*model.Sale, error)
	CancelSale(ctx context.Context, actor model.Actor, id uint) (*model.Sale, error)
	GetAllSales(ctx context.Context) ([]model.Sale, error)
	GetSaleByID(ctx context.Context, id uint) (*model.Sale, error)
}

type SaleItemRequest struct {
	ProductID uint `json:"product_id"`
	Qty       int  `json:"qty"`
}

type CreateSaleRequest struct {
	Items         []SaleItemRequest `json:"items"`
	PaymentMethod string            `json:"payment_method"`
}

type saleService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	auditRepo   repository.AuditRepository
	ledger      *ledger
	publisher   EventPublisher
	cache       Cache
}

func NewSaleService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	moveRepo repository.StockMoveRepository,
	saleRepo repository.SaleRepository,
	auditRepo repository.AuditRepository,
	publisher EventPublisher,
	cache Cache,
) SaleService {
	return &saleService{
		db:          db,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		auditRepo:   auditRepo,
		ledger:      newLedger(productRepo, moveRepo),
		publisher:   publisher,
		cache:       cache,
	}
}

func saleReason(id uint) string       { return fmt.Sprintf("SALE #%d", id) }
func saleCancelReason(id uint) string { return fmt.Sprintf("SALE CANCEL #%d", id) }

// CreateSale records the sale, its items, the stock decrements and one ledger
// entry per line in a single transaction. Every check runs before the first
// write, so a rejected sale leaves no trace.
func (s *saleService) CreateSale(ctx context.Context, actor model.Actor, req *CreateSaleRequest) (*model.Sale, error) {
	if len(req.Items) == 0 {
		return nil, newError(ErrInvalidRequest, "sale must have at least one item")
	}

	method := model.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod)))
	if method == "" {
		method = model.PaymentCash
	}
	if !method.Valid() {
		return nil, newError(ErrInvalidRequest, "payment_method must be one of cash, pix, card")
	}

	// distinct product ids in submission order
	ids := make([]uint, 0, len(req.Items))
	seen := make(map[uint]bool, len(req.Items))
	for _, item := range req.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	var sale *model.Sale
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := s.productRepo.LockByIDs(tx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uint]*model.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				return newError(ErrNotFound, "product %d does not exist", id)
			}
		}

		requested := make(map[uint]int, len(ids))
		for i, item := range req.Items {
			if item.Qty <= 0 {
				return newError(ErrInvalidRequest, "item %d: qty must be positive", i+1)
			}
			product := byID[item.ProductID]
			requested[item.ProductID] += item.Qty
			if requested[item.ProductID] > product.StockQty {
				return newError(ErrInsufficientStock, "insufficient stock for '%s': %d available, %d requested",
					product.Name, product.StockQty, requested[item.ProductID])
			}
		}

		sale = &model.Sale{
			CreatedAt:     s.ledger.now().UTC(),
			PaymentMethod: method,
			Status:        model.SaleCompleted,
			CreatedBy:     actor.Name,
			Items:         make([]model.SaleItem, 0, len(req.Items)),
		}
		for _, item := range req.Items {
			price := byID[item.ProductID].Price
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: item.ProductID,
				Qty:       item.Qty,
				UnitPrice: price,
			})
			sale.Total += price * int64(item.Qty)
		}
		if err := s.saleRepo.Create(tx, sale); err != nil {
			return err
		}

		reason := saleReason(sale.ID)
		for _, item := range sale.Items {
			if _, err := s.ledger.apply(tx, byID[item.ProductID], -item.Qty, reason, &sale.ID, actor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateSummary(ctx, s.cache)
	publish(s.publisher, ActionSaleCreated, actor,
		map[string]interface{}{"sale_id": sale.ID, "total": sale.Total, "units": sale.Quantity()},
		"%s registered sale #%d", actor.Name, sale.ID)
	return sale, nil
}

// CancelSale reverses a completed sale: every line's quantity goes back to
// stock through a compensating ledger entry, and the sale is marked canceled.
func (s *saleService) CancelSale(ctx context.Context, actor model.Actor, id uint) (*model.Sale, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sale, err := s.saleRepo.LockByID(tx, id)
		if err != nil {
			return notFoundOr(err, "sale %d not found", id)
		}
		if sale.Status == model.SaleCanceled {
			return newError(ErrConflict, "sale %d is already canceled", id)
		}

		ids := make([]uint, 0, len(sale.Items))
		for _, item := range sale.Items {
			ids = append(ids, item.ProductID)
		}
		// deleted products still get their units back
		products, err := s.productRepo.LockByIDs(tx.Unscoped(), ids)
		if err != nil {
			return err
		}
		byID := make(map[uint]*model.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		reason := saleCancelReason(sale.ID)
		for _, item := range sale.Items {
			product, ok := byID[item.ProductID]
			if !ok {
				return fmt.Errorf("sale %d references missing product %d", sale.ID, item.ProductID)
			}
			if _, err := s.ledger.apply(tx, product, item.Qty, reason, &sale.ID, actor); err != nil {
				return err
			}
		}

		now := s.ledger.now().UTC()
		if err := s.saleRepo.MarkCanceled(tx, sale.ID, actor.Name, now); err != nil {
			return err
		}
		entry := model.NewAuditLog(actor, model.AuditSaleCancel, model.AuditCritical,
			fmt.Sprintf("sale #%d canceled, total %d, %d units restored", sale.ID, sale.Total, sale.Quantity()))
		return s.auditRepo.Create(tx, entry)
	})
	if err != nil {
		return nil, err
	}

	canceled, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	invalidateSummary(ctx, s.cache)
	publish(s.publisher, ActionSaleCanceled, actor,
		map[string]interface{}{"sale_id": canceled.ID, "units": canceled.Quantity()},
		"%s canceled sale #%d", actor.Name, canceled.ID)
	return canceled, nil
}

func (s *saleService) GetAllSales(ctx context.Context) ([]model.Sale, error) {
	return s.saleRepo.FindAll(ctx)
}

func (s *saleService) GetSaleByID(ctx context.Context, id uint) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "sale %d not found", id)
	}
	return sale, nil
}
