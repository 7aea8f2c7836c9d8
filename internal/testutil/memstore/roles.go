package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo roles en memoria.
type RoleRepo struct{ s *Store }

func (r *RoleRepo) Create(_ context.Context, role *entity.Role) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRoleUnique(role.Name, 0); err != nil {
		return err
	}
	role.ID = s.nextID()
	s.roles[role.ID] = *role
	return nil
}

func (r *RoleRepo) GetByID(_ context.Context, id int64) (*entity.Role, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.roles[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *RoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.roles {
		if row.Name == name {
			out := row
			return &out, nil
		}
	}
	return nil, nil
}

func (r *RoleRepo) List(_ context.Context) ([]*entity.Role, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Role, 0, len(s.roles))
	for _, row := range s.roles {
		role := row
		role.UserCount = s.countUsers(role.ID)
		out = append(out, &role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RoleRepo) Update(_ context.Context, role *entity.Role) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[role.ID]; !ok {
		return fmt.Errorf("%w: rol %d", domain.ErrNotFound, role.ID)
	}
	if err := s.checkRoleUnique(role.Name, role.ID); err != nil {
		return err
	}
	s.roles[role.ID] = *role
	return nil
}

func (r *RoleRepo) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countUsers(id) > 0 {
		return fmt.Errorf("%w: el rol tiene usuarios asociados", domain.ErrConflict)
	}
	delete(s.roles, id)
	return nil
}

func (r *RoleRepo) CountUsers(_ context.Context, roleID int64) (int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countUsers(roleID), nil
}

func (s *Store) countUsers(roleID int64) int {
	n := 0
	for _, u := range s.users {
		if u.RoleID == roleID {
			n++
		}
	}
	return n
}

func (s *Store) checkRoleUnique(name string, excludeID int64) error {
	for id, other := range s.roles {
		if id != excludeID && other.Name == name {
			return fmt.Errorf("%w: nombre de rol duplicado", domain.ErrConflict)
		}
	}
	return nil
}
