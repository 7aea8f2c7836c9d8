package dto

import "time"

// CreateShopRequest alta de tienda; userIds opcional se asigna en la misma transacción.
type CreateShopRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Address     string  `json:"address" validate:"required,min=5"`
	PhoneNumber string  `json:"phoneNumber" validate:"required,phone"`
	Country     string  `json:"country" validate:"required"`
	City        string  `json:"city" validate:"required"`
	RUC         string  `json:"ruc" validate:"required,ruc"`
	Email       string  `json:"email" validate:"required,email"`
	UserIDs     []int64 `json:"userIds" validate:"omitempty,dive,gt=0"`
}

// UpdateShopRequest actualización parcial de tienda.
type UpdateShopRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=100"`
	Address     *string `json:"address" validate:"omitempty,min=5"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,phone"`
	Country     *string `json:"country" validate:"omitempty,min=1"`
	City        *string `json:"city" validate:"omitempty,min=1"`
	RUC         *string `json:"ruc" validate:"omitempty,ruc"`
	Email       *string `json:"email" validate:"omitempty,email"`
}

// AssignUsersRequest reemplaza el conjunto de usuarios asignados.
type AssignUsersRequest struct {
	UserIDs []int64 `json:"userIds" validate:"required,min=1,dive,gt=0"`
}

// ShopMemberResponse usuario asignado a una tienda.
type ShopMemberResponse struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Role      *RoleRef `json:"role,omitempty"`
}

// ShopResponse salida de una tienda.
type ShopResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Address     string               `json:"address"`
	PhoneNumber string               `json:"phoneNumber"`
	Country     string               `json:"country"`
	City        string               `json:"city"`
	RUC         string               `json:"ruc"`
	Email       string               `json:"email"`
	IsActive    bool                 `json:"isActive"`
	UserCount   int                  `json:"userCount"`
	Users       []ShopMemberResponse `json:"users,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}
