package auth

import (
	"context"
	"errors"
	"time"

	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/repository"
	"github.com/codecai/factu-core/pkg/jwt"
	"github.com/codecai/factu-core/pkg/logger"
)

// Principal identidad del llamador extraída del token.
type Principal struct {
	UserID    int64
	Email     string
	RoleID    int64
	ExpiresAt time.Time
}

// Gate autentica tokens y autoriza por nombre de rol.
// El usuario y su rol se consultan en el store en cada autorización: el rol puede
// cambiar (o el usuario desaparecer) después de emitido el token.
type Gate struct {
	secret     string
	users      repository.UserRepository
	roles      repository.RoleRepository
	warnBefore time.Duration
	log        *logger.Logger
	now        func() time.Time
}

// NewGate construye el gate. warnBefore es el umbral para advertir tokens por expirar.
func NewGate(secret string, users repository.UserRepository, roles repository.RoleRepository, warnBefore time.Duration, log *logger.Logger) *Gate {
	if log == nil {
		log = logger.Nop()
	}
	return &Gate{secret: secret, users: users, roles: roles, warnBefore: warnBefore, log: log.Named("auth"), now: time.Now}
}

// Authenticate valida el token. Errores: ErrTokenMissing, ErrTokenInvalid, ErrTokenExpired.
func (g *Gate) Authenticate(token string) (*Principal, error) {
	if token == "" {
		return nil, domain.ErrTokenMissing
	}
	claims, err := jwt.Parse(g.secret, token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	userID, _ := claims.UserID()
	p := &Principal{UserID: userID, Email: claims.Email, RoleID: claims.RoleID}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
		if left := p.ExpiresAt.Sub(g.now()); left <= g.warnBefore {
			g.log.Warn().
				Int64("user_id", p.UserID).
				Str("email", p.Email).
				Dur("expires_in", left).
				Msg("token próximo a expirar")
		}
	}
	return p, nil
}

// Authorize sin restricciones (allowed vacío) siempre permite. Si no, el rol ACTUAL
// del usuario en el store debe estar en allowed; el roleId del token no se usa.
// Usuario o rol inexistente (o ilegible) es Forbidden.
func (g *Gate) Authorize(ctx context.Context, p *Principal, allowed []string) error {
	if len(allowed) == 0 {
		return nil
	}
	if p == nil {
		return domain.ErrTokenMissing
	}
	user, err := g.users.GetByID(ctx, p.UserID)
	if err != nil {
		g.log.Error().Err(err).Int64("user_id", p.UserID).Msg("no se pudo consultar el usuario")
		return domain.ErrForbidden
	}
	if user == nil {
		g.log.Warn().Int64("user_id", p.UserID).Msg("usuario del token no existe")
		return domain.ErrForbidden
	}
	role, err := g.roles.GetByID(ctx, user.RoleID)
	if err != nil {
		g.log.Error().Err(err).Int64("role_id", user.RoleID).Msg("no se pudo consultar el rol")
		return domain.ErrForbidden
	}
	if role == nil {
		g.log.Warn().Int64("user_id", p.UserID).Int64("role_id", user.RoleID).Msg("rol del usuario no existe")
		return domain.ErrForbidden
	}
	for _, name := range allowed {
		if role.Name == name {
			return nil
		}
	}
	g.log.Warn().Int64("user_id", p.UserID).Str("role", role.Name).Strs("allowed", allowed).Msg("acceso denegado por rol")
	return domain.ErrForbidden
}
