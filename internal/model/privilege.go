package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "item:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Item"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// Item master
	{Code: "item:view", Name: "View Item"},
	{Code: "item:create", Name: "Create Item"},
	{Code: "item:update", Name: "Update Item"},
	{Code: "item:delete", Name: "Delete Item"},
	// Stock transactions
	{Code: "transaction:view", Name: "View Transactions"},
	{Code: "transaction:create", Name: "Create Transaction"},
	{Code: "transaction:cancel", Name: "Cancel Transaction"},
	// Adjustments
	{Code: "adjustment:create", Name: "Create Adjustment"},
	// Reports & exports
	{Code: "report:view", Name: "View Reports"},
	{Code: "export:run", Name: "Run Exports"},
	// Bulk import
	{Code: "import:run", Name: "Run Bulk Import"},
	// Locations
	{Code: "location:manage", Name: "Manage Locations"},
	// User management (ADMIN only)
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
}

// userManagementCodes are excluded from the STAFF role.
var userManagementCodes = map[string]bool{
	"user:create":           true,
	"user:update":           true,
	"user:delete":           true,
	"user:update_privilege": true,
	"location:manage":       true,
}

// viewerCodes are the read-only subset granted to VIEWER.
var viewerCodes = map[string]bool{
	"item:view":        true,
	"transaction:view": true,
	"report:view":      true,
	"user:view":        true,
}

// PrivilegesForRole maps a role code onto its default privilege subset.
func PrivilegesForRole(roleCode string, all []Privilege) []Privilege {
	switch roleCode {
	case RoleAdmin:
		return all
	case RoleStaff:
		out := []Privilege{}
		for _, p := range all {
			if !userManagementCodes[p.Code] {
				out = append(out, p)
			}
		}
		return out
	case RoleViewer:
		out := []Privilege{}
		for _, p := range all {
			if viewerCodes[p.Code] {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}
