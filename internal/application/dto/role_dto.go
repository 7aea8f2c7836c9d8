package dto

import "time"

// CreateRoleRequest alta de rol.
type CreateRoleRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

// UpdateRoleRequest cambio de nombre.
type UpdateRoleRequest struct {
	Name *string `json:"name" validate:"omitempty,min=2,max=50"`
}

// RoleResponse salida de un rol. UserCount solo viene en el listado.
type RoleResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserCount *int      `json:"userCount,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
