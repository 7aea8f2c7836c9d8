package entity

import "time"

// Role rol de usuario. Name es único.
type Role struct {
	ID        int64
	Name      string
	UserCount int // solo en listados
	CreatedAt time.Time
	UpdatedAt time.Time
}
