package repository

import (
	"context"

	"github.com/codecai/factu-core/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get* devuelven (nil, nil) cuando la fila no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByDocumentNumber(ctx context.Context, documentNumber string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id int64) error
	// CountExisting cuántos de los ids recibidos existen (ids sin duplicados).
	CountExisting(ctx context.Context, ids []int64) (int, error)
}
