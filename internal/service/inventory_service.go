package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"erp-pdv-api/internal/model"
	"erp-pdv-api/internal/repository"
	"erp-pdv-api/pkg/validator"

	"gorm.io/gorm"
)

const defaultMovesLimit = 100

type InventoryService interface {
	CreateProduct(ctx context.Context, actor model.Actor, req *ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, actor model.Actor, id uint, req *ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, actor model.Actor, id uint) error
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id uint) (*model.Product, error)
	AdjustStock(ctx context.Context, actor model.Actor, id uint, req *AdjustStockRequest) (int, error)
	GetStockMoves(ctx context.Context, id uint, limit int) ([]model.StockMove, error)
}

// ProductRequest is the body of product create and update. InitialStock is
// only honored on create.
type ProductRequest struct {
	Name         string  `json:"name" validate:"notblank,max=120"`
	SKU          *string `json:"sku" validate:"omitempty,max=60"`
	Unit         string  `json:"unit" validate:"omitempty,max=10"`
	Price        int64   `json:"price" validate:"gte=0"`
	Cost         int64   `json:"cost" validate:"gte=0"`
	NCM          string  `json:"ncm" validate:"omitempty,max=8"`
	SupplierID   *uint   `json:"supplier_id"`
	InitialStock int     `json:"initial_stock" validate:"gte=0"`
}

func (r *ProductRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.NCM = strings.TrimSpace(r.NCM)
	r.Unit = strings.ToUpper(strings.TrimSpace(r.Unit))
	if r.Unit == "" {
		r.Unit = model.DefaultUnit
	}
	if r.SKU != nil {
		sku := strings.TrimSpace(*r.SKU)
		if sku == "" {
			r.SKU = nil
		} else {
			r.SKU = &sku
		}
	}
	if r.SupplierID != nil && *r.SupplierID == 0 {
		r.SupplierID = nil
	}
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason" validate:"max=200"`
}

type inventoryService struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	moveRepo     repository.StockMoveRepository
	supplierRepo repository.SupplierRepository
	auditRepo    repository.AuditRepository
	ledger       *ledger
	publisher    EventPublisher
	cache        Cache
}

func NewInventoryService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	moveRepo repository.StockMoveRepository,
	supplierRepo repository.SupplierRepository,
	auditRepo repository.AuditRepository,
	publisher EventPublisher,
	cache Cache,
) InventoryService {
	return &inventoryService{
		db:           db,
		productRepo:  productRepo,
		moveRepo:     moveRepo,
		supplierRepo: supplierRepo,
		auditRepo:    auditRepo,
		ledger:       newLedger(productRepo, moveRepo),
		publisher:    publisher,
		cache:        cache,
	}
}

func (s *inventoryService) CreateProduct(ctx context.Context, actor model.Actor, req *ProductRequest) (*model.Product, error) {
	req.normalize()
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if err := s.checkSKU(ctx, req.SKU, 0); err != nil {
		return nil, err
	}
	if err := s.checkSupplier(ctx, req.SupplierID); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:       req.Name,
		SKU:        req.SKU,
		Unit:       req.Unit,
		Price:      req.Price,
		Cost:       req.Cost,
		NCM:        req.NCM,
		SupplierID: req.SupplierID,
	}
	product.CreatedBy = actor.Name
	product.UpdatedBy = actor.Name

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, product); err != nil {
			return duplicateOr(err, "SKU '%s' already exists", derefSKU(req.SKU))
		}
		if req.InitialStock > 0 {
			if _, err := s.ledger.apply(tx, product, req.InitialStock, model.ReasonInitialStock, nil, actor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateSummary(ctx, s.cache)
	publish(s.publisher, ActionProductCreated, actor, product, "%s created product '%s'", actor.Name, product.Name)
	return product, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, actor model.Actor, id uint, req *ProductRequest) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product %d not found", id)
	}

	req.normalize()
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if err := s.checkSKU(ctx, req.SKU, id); err != nil {
		return nil, err
	}
	if err := s.checkSupplier(ctx, req.SupplierID); err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.SKU = req.SKU
	product.Unit = req.Unit
	product.Price = req.Price
	product.Cost = req.Cost
	product.NCM = req.NCM
	product.SupplierID = req.SupplierID
	product.Supplier = nil
	product.UpdatedBy = actor.Name

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, duplicateOr(err, "SKU '%s' already exists", derefSKU(req.SKU))
	}

	updated, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	invalidateSummary(ctx, s.cache)
	publish(s.publisher, ActionProductUpdated, actor, updated, "%s updated product '%s'", actor.Name, updated.Name)
	return updated, nil
}

// DeleteProduct soft-deletes the product. Its ledger and sale history stay
// intact and its SKU remains reserved.
func (s *inventoryService) DeleteProduct(ctx context.Context, actor model.Actor, id uint) error {
	var deleted *model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.LockByID(tx, id)
		if err != nil {
			return notFoundOr(err, "product %d not found", id)
		}
		if err := s.productRepo.Delete(tx, product, actor.Name); err != nil {
			return err
		}
		entry := model.NewAuditLog(actor, model.AuditProductDelete, model.AuditInfo,
			fmt.Sprintf("product #%d '%s' deleted with stock %d", product.ID, product.Name, product.StockQty))
		if err := s.auditRepo.Create(tx, entry); err != nil {
			return err
		}
		deleted = product
		return nil
	})
	if err != nil {
		return err
	}

	invalidateSummary(ctx, s.cache)
	publish(s.publisher, ActionProductDeleted, actor, deleted, "%s deleted product '%s'", actor.Name, deleted.Name)
	return nil
}

func (s *inventoryService) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx)
}

func (s *inventoryService) GetProductByID(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "product %d not found", id)
	}
	return product, nil
}

// AdjustStock applies a manual stock correction and returns the new quantity.
func (s *inventoryService) AdjustStock(ctx context.Context, actor model.Actor, id uint, req *AdjustStockRequest) (int, error) {
	if req.Delta == 0 {
		return 0, newError(ErrInvalidRequest, "delta must be a non-zero integer")
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		req.Reason = model.ReasonAdjust
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return 0, validationError(errs)
	}

	var product *model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = s.productRepo.LockByID(tx, id)
		if err != nil {
			return notFoundOr(err, "product %d not found", id)
		}
		_, err = s.ledger.apply(tx, product, req.Delta, req.Reason, nil, actor)
		return err
	})
	if err != nil {
		return 0, err
	}

	invalidateSummary(ctx, s.cache)
	publish(s.publisher, ActionStockAdjusted, actor,
		map[string]interface{}{"product_id": product.ID, "name": product.Name, "delta": req.Delta, "stock_qty": product.StockQty},
		"%s adjusted '%s' by %+d (%s)", actor.Name, product.Name, req.Delta, req.Reason)
	return product.StockQty, nil
}

func (s *inventoryService) GetStockMoves(ctx context.Context, id uint, limit int) ([]model.StockMove, error) {
	if _, err := s.GetProductByID(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > defaultMovesLimit*5 {
		limit = defaultMovesLimit
	}
	return s.moveRepo.FindByProduct(ctx, id, limit)
}

// checkSKU rejects a SKU already used by a product other than selfID.
func (s *inventoryService) checkSKU(ctx context.Context, sku *string, selfID uint) error {
	if sku == nil {
		return nil
	}
	existing, err := s.productRepo.FindBySKU(ctx, *sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return newError(ErrInvalidRequest, "SKU '%s' already exists", *sku)
	}
	return nil
}

func (s *inventoryService) checkSupplier(ctx context.Context, supplierID *uint) error {
	if supplierID == nil {
		return nil
	}
	if _, err := s.supplierRepo.FindByID(ctx, *supplierID); err != nil {
		return notFoundOr(err, "supplier %d not found", *supplierID)
	}
	return nil
}

func derefSKU(sku *string) string {
	if sku == nil {
		return ""
	}
	return *sku
}
