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

type SupplierService interface {
	CreateSupplier(ctx context.Context, actor model.Actor, req *CreateSupplierRequest) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, actor model.Actor, id uint, req *UpdateSupplierRequest) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, actor model.Actor, id uint) error
	GetAllSuppliers(ctx context.Context) ([]model.Supplier, error)
	GetSupplierByID(ctx context.Context, id uint) (*model.Supplier, error)
}

type CreateSupplierRequest struct {
	Name     string `json:"name" validate:"notblank,max=120"`
	Document string `json:"document" validate:"max=30"`
	Phone    string `json:"phone" validate:"max=30"`
	Email    string `json:"email" validate:"omitempty,email,max=120"`
}

// UpdateSupplierRequest is a partial update; nil fields are left untouched.
type UpdateSupplierRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=120"`
	Document *string `json:"document" validate:"omitempty,max=30"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Email    *string `json:"email" validate:"omitempty,max=120"`
}

type supplierService struct {
	db           *gorm.DB
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	auditRepo    repository.AuditRepository
}

func NewSupplierService(
	db *gorm.DB,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditRepository,
) SupplierService {
	return &supplierService{
		db:           db,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		auditRepo:    auditRepo,
	}
}

func (s *supplierService) CreateSupplier(ctx context.Context, actor model.Actor, req *CreateSupplierRequest) (*model.Supplier, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if err := s.checkName(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	supplier := &model.Supplier{
		Name:     req.Name,
		Document: strings.TrimSpace(req.Document),
		Phone:    strings.TrimSpace(req.Phone),
		Email:    req.Email,
	}
	supplier.CreatedBy = actor.Name
	supplier.UpdatedBy = actor.Name

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, duplicateOr(err, "supplier '%s' already exists", req.Name)
	}
	return supplier, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, actor model.Actor, id uint, req *UpdateSupplierRequest) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "supplier %d not found", id)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, newError(ErrInvalidRequest, "name must not be blank")
		}
		req.Name = &name
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	if req.Name != nil {
		if err := s.checkName(ctx, *req.Name, id); err != nil {
			return nil, err
		}
		supplier.Name = *req.Name
	}
	if req.Document != nil {
		supplier.Document = strings.TrimSpace(*req.Document)
	}
	if req.Phone != nil {
		supplier.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" {
			if errs := validator.ValidateStruct(&struct {
				Email string `validate:"email"`
			}{email}); len(errs) > 0 {
				return nil, validationError(errs)
			}
		}
		supplier.Email = email
	}
	supplier.UpdatedBy = actor.Name

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, duplicateOr(err, "supplier '%s' already exists", supplier.Name)
	}
	return supplier, nil
}

// DeleteSupplier removes a supplier no product refers to, including
// soft-deleted products.
func (s *supplierService) DeleteSupplier(ctx context.Context, actor model.Actor, id uint) error {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "supplier %d not found", id)
	}

	linked, err := s.productRepo.CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if linked > 0 {
		return newError(ErrConflict, "supplier '%s' is referenced by %d product(s)", supplier.Name, linked)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.supplierRepo.Delete(tx, supplier); err != nil {
			return err
		}
		entry := model.NewAuditLog(actor, model.AuditSupplierDelete, model.AuditInfo,
			fmt.Sprintf("supplier #%d '%s' deleted", supplier.ID, supplier.Name))
		return s.auditRepo.Create(tx, entry)
	})
}

func (s *supplierService) GetAllSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.supplierRepo.FindAll(ctx)
}

func (s *supplierService) GetSupplierByID(ctx context.Context, id uint) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "supplier %d not found", id)
	}
	return supplier, nil
}

func (s *supplierService) checkName(ctx context.Context, name string, selfID uint) error {
	existing, err := s.supplierRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return newError(ErrInvalidRequest, "supplier '%s' already exists", name)
	}
	return nil
}
