package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // ADMIN, STAFF, VIEWER
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleAdmin  = "ADMIN"
	RoleStaff  = "STAFF"
	RoleViewer = "VIEWER"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleStaff,
		Name:        "Staff",
		Description: "Stock operations without user management",
	},
	{
		Code:        RoleViewer,
		Name:        "Viewer",
		Description: "Read-only access to stock and reports",
	},
}
