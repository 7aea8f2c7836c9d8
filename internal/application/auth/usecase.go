package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/codecai/factu-core/internal/application/dto"
	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/domain/repository"
	"github.com/codecai/factu-core/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// errBadCredentials mismo error para email inexistente y password incorrecto.
var errBadCredentials = fmt.Errorf("%w: credenciales incorrectas", domain.ErrUnauthorized)

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	users       repository.UserRepository
	roles       repository.RoleRepository
	jwtCfg      JWTConfig
	defaultRole string
}

// NewAuthUseCase construye el caso de uso de auth. defaultRole es el nombre del rol
// asignado en el auto-registro.
func NewAuthUseCase(users repository.UserRepository, roles repository.RoleRepository, jwtCfg JWTConfig, defaultRole string) *AuthUseCase {
	return &AuthUseCase{users: users, roles: roles, jwtCfg: jwtCfg, defaultRole: defaultRole}
}

// Register crea un usuario con el rol por defecto y devuelve un token listo para usar.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el email ya está registrado", domain.ErrConflict)
	}
	byDoc, err := uc.users.GetByDocumentNumber(ctx, in.DocumentNumber)
	if err != nil {
		return nil, err
	}
	if byDoc != nil {
		return nil, fmt.Errorf("%w: el número de documento ya está registrado", domain.ErrConflict)
	}

	role, err := uc.roles.GetByName(ctx, uc.defaultRole)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("%w: rol por defecto %q no configurado", domain.ErrNotFound, uc.defaultRole)
	}

	hash, err := HashPassword(in.Password)
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
		RoleID:         role.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.issue(user)
}

// Login verifica email/password y genera el JWT. No revela si el email existe.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPassword(user.PasswordHash, in.Password) {
		return nil, errBadCredentials
	}
	return uc.issue(user)
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes, jwt.Subject{
		UserID: user.ID,
		Email:  user.Email,
		RoleID: user.RoleID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		User: dto.AuthUser{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			RoleID:    user.RoleID,
		},
	}, nil
}
