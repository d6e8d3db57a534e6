package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // ADMIN, MANAGER, SELLER
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleSeller  = "SELLER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleManager,
		Name:        "Manager",
		Description: "Store management without user administration",
	},
	{
		Code:        RoleSeller,
		Name:        "Seller",
		Description: "Point of sale operation",
	},
}

var sellerPrivileges = map[string]bool{
	PrivSaleCreate: true,
	PrivSaleView:   true,
	PrivReportView: true,
}

var userAdminPrivileges = map[string]bool{
	PrivUserCreate:          true,
	PrivUserUpdate:          true,
	PrivUserDelete:          true,
	PrivUserUpdatePrivilege: true,
}

// RoleGrants picks the default privileges of roleCode out of all.
func RoleGrants(roleCode string, all []Privilege) []Privilege {
	grants := []Privilege{}
	for _, p := range all {
		switch roleCode {
		case RoleAdmin:
			grants = append(grants, p)
		case RoleManager:
			if !userAdminPrivileges[p.Code] {
				grants = append(grants, p)
			}
		case RoleSeller:
			if sellerPrivileges[p.Code] {
				grants = append(grants, p)
			}
		}
	}
	return grants
}
