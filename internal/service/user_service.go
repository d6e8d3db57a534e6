package service

import (
	"errors"
	"strings"

	"erp-pdv-api/internal/model"
	"erp-pdv-api/internal/repository"
	"erp-pdv-api/pkg/validator"

	"gorm.io/gorm"
)

var ErrEmailExists error = &DomainError{Kind: ErrInvalidRequest, Msg: "email already exists"}

type UserService interface {
	CreateUser(req *CreateUserRequest, actor model.Actor) (*model.User, error)
	UpdateUser(userID uint, req *UpdateUserRequest, actor model.Actor) (*model.User, error)
	DeleteUser(userID uint, actor model.Actor) error
	UpdateUserPrivileges(userID uint, privilegeCodes []string, actor model.Actor) (*model.User, error)
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uint) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"notblank"`
	PhoneNumber string `json:"phone_number" validate:"max=20"`
	RoleID      uint   `json:"role_id" validate:"required"`
}

type UpdateUserRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=6"`
	FullName    string  `json:"full_name" validate:"notblank"`
	PhoneNumber string  `json:"phone_number" validate:"max=20"`
	RoleID      uint    `json:"role_id" validate:"required"`
	IsActive    *bool   `json:"is_active"`
}

type userService struct {
	db            *gorm.DB
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
	auditRepo     repository.AuditRepository
}

func NewUserService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	privilegeRepo repository.PrivilegeRepository,
	roleRepo repository.RoleRepository,
	auditRepo repository.AuditRepository,
) UserService {
	return &userService{
		db:            db,
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
		auditRepo:     auditRepo,
	}
}

func (s *userService) CreateUser(req *CreateUserRequest, actor model.Actor) (*model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, ErrEmailExists
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, notFoundOr(err, "role %d not found", req.RoleID)
	}

	user := &model.User{
		Email:       req.Email,
		FullName:    strings.TrimSpace(req.FullName),
		PhoneNumber: req.PhoneNumber,
		RoleID:      &role.ID,
		IsActive:    true,
	}
	user.CreatedBy = actor.Name
	user.UpdatedBy = actor.Name

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	// privileges start as the role defaults
	user.Privileges = role.Privileges

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(userID uint, req *UpdateUserRequest, actor model.Actor) (*model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if req.Email != user.Email {
		if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
			return nil, ErrEmailExists
		}
	}

	role, err := s.roleRepo.FindByID(req.RoleID)
	if err != nil {
		return nil, notFoundOr(err, "role %d not found", req.RoleID)
	}

	roleChanged := user.RoleID == nil || *user.RoleID != role.ID

	user.Email = req.Email
	user.FullName = strings.TrimSpace(req.FullName)
	user.PhoneNumber = req.PhoneNumber
	user.RoleID = &role.ID
	user.Role = nil
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = actor.Name

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	privileges := user.Privileges
	user.Privileges = nil
	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	// a role change resets per-user overrides to the new role defaults
	if roleChanged {
		privileges = role.Privileges
	}
	if err := s.userRepo.UpdatePrivileges(userID, privileges); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(userID)
}

func (s *userService) DeleteUser(userID uint, actor model.Actor) error {
	if userID == actor.UserID {
		return newError(ErrInvalidRequest, "you cannot delete your own account")
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return ErrUserNotFound
	}
	if err := s.userRepo.Delete(userID, actor.Name); err != nil {
		return err
	}
	entry := model.NewAuditLog(actor, model.AuditUserDelete, model.AuditCritical, "user '"+user.Email+"' deleted")
	return s.auditRepo.Create(s.db, entry)
}

func (s *userService) UpdateUserPrivileges(userID uint, privilegeCodes []string, actor model.Actor) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	privileges := []model.Privilege{}
	if len(privilegeCodes) > 0 {
		privileges, err = s.privilegeRepo.FindByCodes(privilegeCodes)
		if err != nil {
			return nil, err
		}
		if len(privileges) != len(uniqueCodes(privilegeCodes)) {
			return nil, newError(ErrInvalidRequest, "unknown privilege code in %v", privilegeCodes)
		}
	}

	if err := s.userRepo.UpdatePrivileges(userID, privileges); err != nil {
		return nil, err
	}

	user.UpdatedBy = actor.Name
	user.Role = nil
	user.Privileges = nil
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(userID)
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uint) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	response := user.ToResponse()
	return &response, nil
}

func uniqueCodes(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}
