package service

import (
	"errors"
	"fmt"

	"erp-pdv-api/internal/model"
	"erp-pdv-api/internal/repository"
	"erp-pdv-api/pkg/logger"

	"gorm.io/gorm"
)

// SeedAccessControl creates the default privileges and roles, grants each
// role its defaults the first time, and creates the admin user if missing.
// It is safe to run on every start.
func SeedAccessControl(
	privilegeRepo repository.PrivilegeRepository,
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	adminEmail, adminPassword string,
) error {
	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	// 3. Grant defaults to roles that have none yet
	all, err := privilegeRepo.FindAll()
	if err != nil {
		return err
	}
	for _, def := range model.DefaultRoles {
		role, err := roleRepo.FindByCode(def.Code)
		if err != nil {
			return err
		}
		if len(role.Privileges) > 0 {
			continue
		}
		if err := roleRepo.AssignPrivileges(role, model.RoleGrants(role.Code, all)); err != nil {
			return fmt.Errorf("grant %s: %w", role.Code, err)
		}
		logger.Info("%s role assigned default privileges", role.Code)
	}

	// 4. Admin user
	if _, err := userRepo.FindByEmail(adminEmail); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err != nil {
		return err
	}
	admin := &model.User{
		Email:      adminEmail,
		FullName:   "Administrator",
		RoleID:     &adminRole.ID,
		IsActive:   true,
		Privileges: adminRole.Privileges,
	}
	admin.CreatedBy = model.SystemActor.Name
	admin.UpdatedBy = model.SystemActor.Name
	if err := admin.SetPassword(adminPassword); err != nil {
		return err
	}
	if err := userRepo.Create(admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logger.Info("Admin user created: %s (ADMIN)", adminEmail)
	return nil
}
