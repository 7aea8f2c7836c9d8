package entity

import "time"

// Nombres de rol que la aplicación conoce por defecto (sembrados por cmd/seed).
const (
	RoleAdmin   = "Administrador"
	RoleManager = "Gerente"
	RoleUser    = "Usuario"
	RoleSeller  = "Vendedor"
)

// User representa un usuario del sistema. PasswordHash nunca sale de la capa de aplicación.
type User struct {
	ID             int64
	Email          string
	PasswordHash   string // bcrypt
	FirstName      string
	LastName       string
	DocumentType   string
	DocumentNumber string
	PhoneNumber    string
	Address        string
	RoleID         int64
	Role           *Role // cargado por join en lecturas; nil en escrituras
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName nombre y apellido separados por espacio.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
