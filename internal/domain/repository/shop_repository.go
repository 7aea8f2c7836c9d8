package repository

import (
	"context"

	"github.com/codecai/factu-core/internal/domain/entity"
)

// ShopRepository persistencia de tiendas y de la relación usuario-tienda.
type ShopRepository interface {
	Create(ctx context.Context, shop *entity.Shop) error
	// GetByID devuelve la tienda aunque esté inactiva.
	GetByID(ctx context.Context, id int64) (*entity.Shop, error)
	// FindConflicting busca otra tienda (id != excludeID) con el mismo RUC o email.
	FindConflicting(ctx context.Context, ruc, email string, excludeID int64) (*entity.Shop, error)
	// ListActive tiendas activas, más recientes primero, con UserCount.
	ListActive(ctx context.Context) ([]*entity.Shop, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]*entity.Shop, error)
	Update(ctx context.Context, shop *entity.Shop) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error

	// ReplaceAssignments borra todas las asignaciones de la tienda e inserta las nuevas
	// (pares repetidos se ignoran).
	ReplaceAssignments(ctx context.Context, shopID int64, userIDs []int64) error
	HasAssignment(ctx context.Context, shopID, userID int64) (bool, error)
	DeleteAssignment(ctx context.Context, shopID, userID int64) error
	// ListMembers usuarios asignados con su rol cargado.
	ListMembers(ctx context.Context, shopID int64) ([]*entity.User, error)
}
