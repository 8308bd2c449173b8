package model

import "github.com/google/uuid"

// User role constants
const (
	RoleOwner   = "OWNER"
	RoleManager = "MANAGER"
	RoleStaff   = "STAFF"
	RoleDoctor  = "DOCTOR"
)

// ValidRole reports whether role is one of the known role constants.
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleManager, RoleStaff, RoleDoctor:
		return true
	}
	return false
}

// User is a staff account. Every user belongs to exactly one branch.
type User struct {
	Base
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	BranchID     uuid.UUID `db:"branch_id" json:"branchId"`
	Role         string    `db:"role" json:"role"`
}

// UserProfile is the sanitized read model returned by login and listing:
// no password hash, branch populated.
type UserProfile struct {
	Base
	Username string  `db:"username" json:"username"`
	Role     string  `db:"role" json:"role"`
	Branch   *Branch `json:"branch"`
}

// RoleCounts is a convenience projection returned alongside user listings.
type RoleCounts struct {
	Owner   int `json:"OWNER"`
	Manager int `json:"MANAGER"`
	Doctor  int `json:"DOCTOR"`
	Staff   int `json:"STAFF"`
}

// UserList bundles the sanitized users with per-role aggregates.
type UserList struct {
	Users  []*UserProfile `json:"users"`
	Counts RoleCounts     `json:"counts"`
}

// UpdateUserRequest carries a partial user update. A non-nil Password is
// re-hashed before storing.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	BranchID *string `json:"branchId"`
	Role     *string `json:"role" binding:"omitempty,oneof=OWNER MANAGER STAFF DOCTOR"`
}
