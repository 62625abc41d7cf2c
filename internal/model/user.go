package model

import (
	"time"

	"github.com/google/uuid"

	"go-stonestock-ws/pkg/password"
)

// User represents an authenticated user in the system
type User struct {
	BaseModel
	Username     string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"username" validate:"required"`
	PasswordHash string      `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	RoleID       *uint       `gorm:"index" json:"role_id"`
	Role         *Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsActive     bool        `gorm:"default:true" json:"is_active"`
	Privileges   []Privilege `gorm:"many2many:user_privileges;" json:"privileges,omitempty"`
	TokenVersion string      `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
	LastSeenAt   *time.Time  `json:"last_seen_at,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(plain string) error {
	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}
	u.PasswordHash = hashed
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(plain string) bool {
	return password.Verify(plain, u.PasswordHash)
}

// RoleCode returns the user's role code, or "" without a role.
func (u *User) RoleCode() string {
	if u.Role != nil {
		return u.Role.Code
	}
	return ""
}

// HasPrivilege checks if the user has a specific privilege
func (u *User) HasPrivilege(code string) bool {
	for _, p := range u.Privileges {
		if p.Code == code {
			return true
		}
	}
	return false
}

// GetPrivilegeCodes returns a slice of all privilege codes for this user
func (u *User) GetPrivilegeCodes() []string {
	codes := make([]string, len(u.Privileges))
	for i, p := range u.Privileges {
		codes[i] = p.Code
	}
	return codes
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID         uuid.UUID   `json:"id"`
	Username   string      `json:"username"`
	RoleID     *uint       `json:"role_id,omitempty"`
	Role       *Role       `json:"role,omitempty"`
	IsActive   bool        `json:"is_active"`
	LastSeenAt *time.Time  `json:"last_seen_at,omitempty"`
	Privileges []Privilege `json:"privileges"`
	CreatedAt  time.Time   `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		RoleID:     u.RoleID,
		Role:       u.Role,
		IsActive:   u.IsActive,
		LastSeenAt: u.LastSeenAt,
		Privileges: u.Privileges,
		CreatedAt:  u.CreatedAt,
	}
}

// Actor is the authenticated caller handed from the auth middleware down to the
// orchestrators, so authorization is enforced at the core boundary instead of
// only at route level.
type Actor struct {
	UserID     uuid.UUID
	Username   string
	RoleCode   string
	Privileges []string
}

// Can reports whether the actor holds the given privilege code.
func (a Actor) Can(code string) bool {
	for _, p := range a.Privileges {
		if p == code {
			return true
		}
	}
	return false
}
