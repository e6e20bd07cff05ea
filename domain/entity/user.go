package entity

import (
	"time"
)

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
	RoleAnalyst    = "analyst"
	RoleEmployee   = "employee"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func NewUser(id, name, email, password, role string) *User {
	now := time.Now()
	return &User{
		ID:        id,
		Name:      name,
		Email:     email,
		Password:  password,
		Role:      role,
		Status:    UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ValidRole reports whether role is one of the RBAC roles the admin
// screens can assign.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSuperAdmin, RoleAnalyst, RoleEmployee:
		return true
	}
	return false
}

// ValidStatus reports whether status is an accepted account status.
func ValidStatus(status string) bool {
	return status == UserStatusActive || status == UserStatusInactive
}
