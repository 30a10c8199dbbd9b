package model

// RoleName is one of a closed set of authorization labels. A user holds
// exactly one role at a time.
type RoleName string

const (
	RoleAdmin      RoleName = "Admin"
	RoleSales      RoleName = "Sales"
	RoleAccountant RoleName = "Accountant"
)

// Role is an authorization label attached to users.
type Role struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
