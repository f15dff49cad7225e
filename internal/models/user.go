package models

import "strings"

// UserRole represents the role of a user in the system
type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleAdmin    UserRole = "ADMIN"
)

// User is the account returned by /auth/me
type User struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	PhoneNumber string   `json:"phoneNumber"`
	Role        UserRole `json:"role"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin is a display hint; the backend decides what an admin may do.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
