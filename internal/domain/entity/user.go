package entity

import "time"

// Role is the authorization role attached to a user account.
type Role string

const (
	RoleUser       Role = "user"
	RoleEditor     Role = "editor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// ValidRole reports whether r is a role a registration may request.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleEditor, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// CanReview reports whether the role may approve or reject registrations.
func (r Role) CanReview() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// CanEditContent reports whether the role may create or update blog content.
func (r Role) CanEditContent() bool {
	return r == RoleEditor || r == RoleAdmin || r == RoleSuperAdmin
}

// Status is the account lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusRejected  Status = "rejected"
	StatusSuspended Status = "suspended"
)

// User is the aggregate root for accounts.
// Passwords are stored as bcrypt hashes in Password.
type User struct {
	ID              string
	Email           string
	Password        string
	Name            string
	Role            Role
	Status          Status
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
