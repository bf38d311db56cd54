package domain

import "strings"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User is the identity returned by the storefront's /auth/me endpoint.
type User struct {
	ID       ID     `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Role     Role   `json:"role,omitempty"`
	Admin    bool   `json:"is_admin,omitempty"`
	IsActive bool   `json:"is_active,omitempty"`
}

// IsAdmin reports whether the user should be treated as an administrator.
func (u *User) IsAdmin() bool {
	if u == nil {
		return false
	}
	return u.Admin || Role(strings.ToLower(string(u.Role))) == RoleAdmin
}
