package dto

import "time"

// RegisterRequest auto-registro público; el rol lo asigna el servidor.
type RegisterRequest struct {
	FirstName      string `json:"firstName" validate:"required,max=100"`
	LastName       string `json:"lastName" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,password"`
	DocumentType   string `json:"documentType" validate:"required"`
	DocumentNumber string `json:"documentNumber" validate:"required,digits"`
	PhoneNumber    string `json:"phoneNumber" validate:"required"`
	Address        string `json:"address" validate:"required"`
}

// CreateUserRequest alta de usuario por un administrador (rol explícito).
type CreateUserRequest struct {
	FirstName      string `json:"firstName" validate:"required,max=100"`
	LastName       string `json:"lastName" validate:"required,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,password"`
	DocumentType   string `json:"documentType" validate:"required"`
	DocumentNumber string `json:"documentNumber" validate:"required,digits"`
	PhoneNumber    string `json:"phoneNumber" validate:"required"`
	Address        string `json:"address" validate:"required"`
	RoleID         int64  `json:"roleId" validate:"required,gt=0"`
}

// UpdateUserRequest actualización parcial; nil = no cambia.
type UpdateUserRequest struct {
	FirstName      *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Password       *string `json:"password" validate:"omitempty,password"`
	DocumentType   *string `json:"documentType" validate:"omitempty,min=1"`
	DocumentNumber *string `json:"documentNumber" validate:"omitempty,digits"`
	PhoneNumber    *string `json:"phoneNumber" validate:"omitempty,min=1"`
	Address        *string `json:"address" validate:"omitempty,min=1"`
	RoleID         *int64  `json:"roleId" validate:"omitempty,gt=0"`
}

// RoleRef referencia corta a un rol dentro de otras respuestas.
type RoleRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	DocumentType   string    `json:"documentType"`
	DocumentNumber string    `json:"documentNumber"`
	PhoneNumber    string    `json:"phoneNumber"`
	Address        string    `json:"address"`
	RoleID         int64     `json:"roleId"`
	Role           *RoleRef  `json:"role,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthUser datos del usuario que acompañan al token.
type AuthUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	RoleID    int64  `json:"roleId"`
}

// LoginResponse salida de login y registro.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	User        AuthUser `json:"user"`
}

// ProfileResponse claims del principal autenticado.
type ProfileResponse struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	RoleID int64  `json:"roleId"`
}
