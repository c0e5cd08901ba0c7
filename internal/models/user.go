package models

// SuperAdminID is the distinguished first account whose admin flag is
// read-only in client tooling.
const SuperAdminID int64 = 1

// Role values the backend knows about.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account as managed from the admin view.
type User struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Role     string     `json:"role"`
	IsAdmin  StrictBool `json:"isAdmin"`
	IsActive bool       `json:"isActive"`
}
