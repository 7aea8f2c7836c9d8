package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/codecai/factu-core/internal/application/dto"
	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/domain/repository"
)

// RoleUseCase CRUD de roles.
type RoleUseCase struct {
	repo repository.RoleRepository
}

// NewRoleUseCase construye el caso de uso.
func NewRoleUseCase(repo repository.RoleRepository) *RoleUseCase {
	return &RoleUseCase{repo: repo}
}

// Create crea un rol. Conflict si el nombre ya existe.
func (uc *RoleUseCase) Create(ctx context.Context, in dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	name := strings.TrimSpace(in.Name)
	if err := uc.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}
	now := time.Now()
	role := &entity.Role{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := uc.repo.Create(ctx, role); err != nil {
		return nil, err
	}
	return entityToRoleResponse(role, false), nil
}

// List roles con la cantidad de usuarios de cada uno.
func (uc *RoleUseCase) List(ctx context.Context) ([]*dto.RoleResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RoleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, entityToRoleResponse(r, true))
	}
	return out, nil
}

// GetByID NotFound si no existe.
func (uc *RoleUseCase) GetByID(ctx context.Context, id int64) (*dto.RoleResponse, error) {
	role, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return entityToRoleResponse(role, false), nil
}

// Update renombra el rol.
func (uc *RoleUseCase) Update(ctx context.Context, id int64, in dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	role, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name != role.Name {
			if err := uc.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
		}
		role.Name = name
	}
	role.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, role); err != nil {
		return nil, err
	}
	return entityToRoleResponse(role, false), nil
}

// Delete Conflict mientras algún usuario tenga el rol.
func (uc *RoleUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	n, err := uc.repo.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el rol está asignado a %d usuario(s)", domain.ErrConflict, n)
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *RoleUseCase) get(ctx context.Context, id int64) (*entity.Role, error) {
	role, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("%w: rol %d", domain.ErrNotFound, id)
	}
	return role, nil
}

func (uc *RoleUseCase) ensureNameFree(ctx context.Context, name string, excludeID int64) error {
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return fmt.Errorf("%w: el rol %s ya existe", domain.ErrConflict, name)
	}
	return nil
}
