// file: model/request.go

package model

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateUserRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Address     string `json:"address" validate:"required"`
	RoleID      int    `json:"role_id" validate:"required"`
}

// UpdateUserRequest defines the payload for updating an existing user.
// Email and password are not updatable through this endpoint.
type UpdateUserRequest struct {
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Address     string `json:"address" validate:"required"`
	RoleID      int    `json:"role_id" validate:"required"`
}

// CreateRoleRequest defines the payload for creating a new role.
type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,oneof=Admin Sales Accountant"`
	Description string `json:"description" validate:"required"`
}

// UserList is the paginated response of the user listing endpoint.
type UserList struct {
	Users      []*User `json:"users"`
	TotalPages int     `json:"total_pages"`
}
