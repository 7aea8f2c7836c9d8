package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/domain/repository"
)

var _ repository.ShopRepository = (*ShopRepo)(nil)

// ShopRepo tiendas y asignaciones en memoria.
type ShopRepo struct{ s *Store }

func (r *ShopRepo) Create(_ context.Context, shop *entity.Shop) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shopConflict(shop.RUC, shop.Email, 0) != nil {
		return fmt.Errorf("%w: ruc o email de tienda duplicado", domain.ErrConflict)
	}
	shop.ID = s.nextID()
	row := *shop
	row.Members, row.UserCount = nil, 0
	s.shops[shop.ID] = row
	return nil
}

func (r *ShopRepo) GetByID(_ context.Context, id int64) (*entity.Shop, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.shops[id]
	if !ok {
		return nil, nil
	}
	return s.withCount(row), nil
}

func (r *ShopRepo) FindConflicting(_ context.Context, ruc, email string, excludeID int64) (*entity.Shop, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if row := s.shopConflict(ruc, email, excludeID); row != nil {
		return s.withCount(*row), nil
	}
	return nil, nil
}

func (r *ShopRepo) ListActive(_ context.Context) ([]*entity.Shop, error) {
	return r.list(func(shopRow) bool { return true }), nil
}

func (r *ShopRepo) ListActiveByUser(_ context.Context, userID int64) ([]*entity.Shop, error) {
	s := r.s
	return r.list(func(row shopRow) bool {
		_, ok := s.assignments[pair{shopID: row.ID, userID: userID}]
		return ok
	}), nil
}

func (r *ShopRepo) Update(_ context.Context, shop *entity.Shop) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shops[shop.ID]; !ok {
		return fmt.Errorf("%w: tienda %d", domain.ErrNotFound, shop.ID)
	}
	if s.shopConflict(shop.RUC, shop.Email, shop.ID) != nil {
		return fmt.Errorf("%w: ruc o email de tienda duplicado", domain.ErrConflict)
	}
	row := *shop
	row.Members, row.UserCount = nil, 0
	s.shops[shop.ID] = row
	return nil
}

func (r *ShopRepo) SetActive(_ context.Context, id int64, active bool) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.shops[id]
	if !ok {
		return fmt.Errorf("%w: tienda %d", domain.ErrNotFound, id)
	}
	row.IsActive = active
	row.UpdatedAt = time.Now()
	s.shops[id] = row
	return nil
}

func (r *ShopRepo) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.assignments {
		if k.shopID == id {
			return fmt.Errorf("%w: no se puede eliminar la tienda porque tiene registros asociados", domain.ErrInvalidInput)
		}
	}
	delete(s.shops, id)
	return nil
}

func (r *ShopRepo) ReplaceAssignments(_ context.Context, shopID int64, userIDs []int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shops[shopID]; !ok {
		return fmt.Errorf("%w: la tienda %d no existe", domain.ErrConflict, shopID)
	}
	for _, uid := range userIDs {
		if _, ok := s.users[uid]; !ok {
			return fmt.Errorf("%w: el usuario %d no existe", domain.ErrConflict, uid)
		}
	}
	for k := range s.assignments {
		if k.shopID == shopID {
			delete(s.assignments, k)
		}
	}
	now := time.Now()
	for _, uid := range userIDs {
		k := pair{shopID: shopID, userID: uid}
		if _, dup := s.assignments[k]; dup {
			continue
		}
		s.assignments[k] = assignmentRow{ID: s.nextID(), ShopID: shopID, UserID: uid, CreatedAt: now}
	}
	return nil
}

func (r *ShopRepo) HasAssignment(_ context.Context, shopID, userID int64) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.assignments[pair{shopID: shopID, userID: userID}]
	return ok, nil
}

func (r *ShopRepo) DeleteAssignment(_ context.Context, shopID, userID int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assignments, pair{shopID: shopID, userID: userID})
	return nil
}

func (r *ShopRepo) ListMembers(_ context.Context, shopID int64) ([]*entity.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.User
	for k := range s.assignments {
		if k.shopID != shopID {
			continue
		}
		if row, ok := s.users[k.userID]; ok {
			out = append(out, s.withRole(row))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Assignments cantidad total de filas en user_shops (para aserciones).
func (s *Store) Assignments() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assignments)
}

func (r *ShopRepo) list(match func(shopRow) bool) []*entity.Shop {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Shop
	for _, row := range s.shops {
		if row.IsActive && match(row) {
			out = append(out, s.withCount(row))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Store) withCount(row shopRow) *entity.Shop {
	shop := row
	for k := range s.assignments {
		if k.shopID == shop.ID {
			shop.UserCount++
		}
	}
	return &shop
}

func (s *Store) shopConflict(ruc, email string, excludeID int64) *shopRow {
	for id, other := range s.shops {
		if id == excludeID {
			continue
		}
		if other.RUC == ruc || other.Email == email {
			row := other
			return &row
		}
	}
	return nil
}
