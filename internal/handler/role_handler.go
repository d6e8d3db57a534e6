package handler

import (
	"erp-pdv-api/internal/repository"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// RoleHandler serves the read-only access control catalog and the audit log.
type RoleHandler struct {
	roleRepo      repository.RoleRepository
	privilegeRepo repository.PrivilegeRepository
	auditRepo     repository.AuditRepository
}

func NewRoleHandler(
	roleRepo repository.RoleRepository,
	privilegeRepo repository.PrivilegeRepository,
	auditRepo repository.AuditRepository,
) *RoleHandler {
	return &RoleHandler{roleRepo: roleRepo, privilegeRepo: privilegeRepo, auditRepo: auditRepo}
}

// GetRoles returns all available roles
// GET /api/v1/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.roleRepo.FindAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(roles)
}

// GET /api/v1/privileges
func (h *RoleHandler) GetPrivileges(c *fiber.Ctx) error {
	privileges, err := h.privilegeRepo.FindAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(privileges)
}

// GetAuditLogs returns the newest audit entries first.
// GET /api/v1/audit-logs?limit=
func (h *RoleHandler) GetAuditLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultAuditLimit)
	if limit <= 0 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}

	entries, err := h.auditRepo.FindRecent(c.UserContext(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}
