package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/domain/repository"
)

type (
	userRow       = entity.User
	roleRow       = entity.Role
	shopRow       = entity.Shop
	assignmentRow = entity.UserShop
	billRow       = entity.Bill
	detailRow     = entity.BillDetail
)

// pair clave de user_shops: (shopID, userID).
type pair struct{ shopID, userID int64 }

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUserUnique(u, 0); err != nil {
		return err
	}
	if _, ok := s.roles[u.RoleID]; !ok {
		return fmt.Errorf("%w: el rol %d no existe", domain.ErrConflict, u.RoleID)
	}
	u.ID = s.nextID()
	row := *u
	row.Role = nil
	s.users[u.ID] = row
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return s.withRole(row), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u userRow) bool { return u.Email == email })
}

func (r *UserRepo) GetByDocumentNumber(_ context.Context, documentNumber string) (*entity.User, error) {
	return r.find(func(u userRow) bool { return u.DocumentNumber == documentNumber })
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.User, 0, len(s.users))
	for _, row := range s.users {
		out = append(out, s.withRole(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return fmt.Errorf("%w: usuario %d", domain.ErrNotFound, u.ID)
	}
	if err := s.checkUserUnique(u, u.ID); err != nil {
		return err
	}
	if _, ok := s.roles[u.RoleID]; !ok {
		return fmt.Errorf("%w: el rol %d no existe", domain.ErrConflict, u.RoleID)
	}
	row := *u
	row.Role = nil
	s.users[u.ID] = row
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bills {
		if b.UserID == id {
			return fmt.Errorf("%w: el usuario tiene facturas asociadas", domain.ErrConflict)
		}
	}
	delete(s.users, id)
	for k := range s.assignments {
		if k.userID == id {
			delete(s.assignments, k)
		}
	}
	return nil
}

func (r *UserRepo) CountExisting(_ context.Context, ids []int64) (int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, id := range ids {
		if _, ok := s.users[id]; ok {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) find(match func(userRow) bool) (*entity.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.users {
		if match(row) {
			return s.withRole(row), nil
		}
	}
	return nil, nil
}

// requiere s.mu tomado.
func (s *Store) withRole(row userRow) *entity.User {
	u := row
	if role, ok := s.roles[u.RoleID]; ok {
		rc := role
		u.Role = &rc
	}
	return &u
}

// requiere s.mu tomado.
func (s *Store) checkUserUnique(u *entity.User, excludeID int64) error {
	for id, other := range s.users {
		if id == excludeID {
			continue
		}
		if other.Email == u.Email {
			return fmt.Errorf("%w: email duplicado", domain.ErrConflict)
		}
		if u.DocumentNumber != "" && other.DocumentNumber == u.DocumentNumber {
			return fmt.Errorf("%w: documento duplicado", domain.ErrConflict)
		}
	}
	return nil
}
