package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/codecai/factu-core/internal/application/auth"
	"github.com/codecai/factu-core/internal/application/dto"
	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo  repository.UserRepository
	roles repository.RoleRepository
	bills repository.BillRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, roles repository.RoleRepository, bills repository.BillRepository) *UserUseCase {
	return &UserUseCase{repo: repo, roles: roles, bills: bills}
}

// Create alta de usuario por un administrador. Email y documento son únicos.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	if err := uc.ensureRole(ctx, in.RoleID); err != nil {
		return nil, err
	}
	if err := uc.ensureUnique(ctx, email, in.DocumentNumber, 0); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		Email:          email,
		PasswordHash:   hash,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		DocumentType:   in.DocumentType,
		DocumentNumber: in.DocumentNumber,
		PhoneNumber:    in.PhoneNumber,
		Address:        in.Address,
		RoleID:         in.RoleID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, user.ID)
}

// List todos los usuarios con su rol.
func (uc *UserUseCase) List(ctx context.Context) ([]*dto.UserResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, entityToUserResponse(u))
	}
	return out, nil
}

// GetByID obtiene un usuario por ID. NotFound si no existe.
func (uc *UserUseCase) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %d", domain.ErrNotFound, id)
	}
	return entityToUserResponse(user), nil
}

// Update actualización parcial; si viene password se vuelve a hashear.
func (uc *UserUseCase) Update(ctx context.Context, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %d", domain.ErrNotFound, id)
	}

	email, document := user.Email, user.DocumentNumber
	if in.Email != nil {
		email = normalizeEmail(*in.Email)
	}
	if in.DocumentNumber != nil {
		document = *in.DocumentNumber
	}
	if email != user.Email || document != user.DocumentNumber {
		if err := uc.ensureUnique(ctx, email, document, id); err != nil {
			return nil, err
		}
	}
	if in.RoleID != nil && *in.RoleID != user.RoleID {
		if err := uc.ensureRole(ctx, *in.RoleID); err != nil {
			return nil, err
		}
		user.RoleID = *in.RoleID
	}
	if in.Password != nil {
		if user.PasswordHash, err = auth.HashPassword(*in.Password); err != nil {
			return nil, err
		}
	}
	user.Email, user.DocumentNumber = email, document
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.DocumentType != nil {
		user.DocumentType = *in.DocumentType
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = *in.PhoneNumber
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	user.Role = nil
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina el usuario. Conflict si tiene facturas a su nombre.
func (uc *UserUseCase) Delete(ctx context.Context, id int64) error {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: usuario %d", domain.ErrNotFound, id)
	}
	n, err := uc.bills.CountByUser(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el usuario tiene %d factura(s) asociada(s)", domain.ErrConflict, n)
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *UserUseCase) ensureRole(ctx context.Context, roleID int64) error {
	role, err := uc.roles.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("%w: rol %d", domain.ErrNotFound, roleID)
	}
	return nil
}

// ensureUnique email y documento no pueden pertenecer a otro usuario (excludeID).
func (uc *UserUseCase) ensureUnique(ctx context.Context, email, document string, excludeID int64) error {
	byEmail, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if byEmail != nil && byEmail.ID != excludeID {
		return fmt.Errorf("%w: el email ya está registrado", domain.ErrConflict)
	}
	byDoc, err := uc.repo.GetByDocumentNumber(ctx, document)
	if err != nil {
		return err
	}
	if byDoc != nil && byDoc.ID != excludeID {
		return fmt.Errorf("%w: el número de documento ya está registrado", domain.ErrConflict)
	}
	return nil
}
