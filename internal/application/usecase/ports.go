package usecase

import (
	"context"

	"github.com/codecai/factu-core/internal/domain/repository"
)

// ShopTxRunner ejecuta fn en una transacción con el repo de tiendas atado a ella.
type ShopTxRunner interface {
	RunShops(ctx context.Context, fn func(shops repository.ShopRepository) error) error
}
