package entity

import "time"

// Shop tienda. IsActive=false equivale a eliminada lógicamente.
type Shop struct {
	ID          int64
	Name        string
	Address     string
	PhoneNumber string
	Country     string
	City        string
	RUC         string
	Email       string
	IsActive    bool
	UserCount   int
	Members     []*User // solo en GET /shops/:id
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserShop asignación de un usuario a una tienda (único por par).
type UserShop struct {
	ID        int64
	UserID    int64
	ShopID    int64
	CreatedAt time.Time
}
