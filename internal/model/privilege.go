package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

const (
	PrivUserView            = "user:view"
	PrivUserCreate          = "user:create"
	PrivUserUpdate          = "user:update"
	PrivUserDelete          = "user:delete"
	PrivUserUpdatePrivilege = "user:update_privilege"

	PrivProductCreate = "product:create"
	PrivProductUpdate = "product:update"
	PrivProductDelete = "product:delete"
	PrivStockAdjust   = "stock:adjust"

	PrivSaleCreate = "sale:create"
	PrivSaleView   = "sale:view"
	PrivSaleCancel = "sale:cancel"

	PrivSupplierCreate = "supplier:create"
	PrivSupplierUpdate = "supplier:update"
	PrivSupplierDelete = "supplier:delete"

	PrivReportView = "report:view"
	PrivAuditView  = "audit:view"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserCreate, Name: "Create User"},
	{Code: PrivUserUpdate, Name: "Update User"},
	{Code: PrivUserDelete, Name: "Delete User"},
	{Code: PrivUserUpdatePrivilege, Name: "Update User Privileges"},
	// Catalog and stock
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivProductDelete, Name: "Delete Product"},
	{Code: PrivStockAdjust, Name: "Adjust Stock"},
	// Sales
	{Code: PrivSaleCreate, Name: "Create Sale"},
	{Code: PrivSaleView, Name: "View Sale"},
	{Code: PrivSaleCancel, Name: "Cancel Sale"},
	// Suppliers
	{Code: PrivSupplierCreate, Name: "Create Supplier"},
	{Code: PrivSupplierUpdate, Name: "Update Supplier"},
	{Code: PrivSupplierDelete, Name: "Delete Supplier"},
	// Reports
	{Code: PrivReportView, Name: "View Reports"},
	{Code: PrivAuditView, Name: "View Audit Log"},
}
