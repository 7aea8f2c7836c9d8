package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/codecai/factu-core/internal/application/auth"
	"github.com/codecai/factu-core/internal/domain"
)

// LocalPrincipal key de c.Locals con el *auth.Principal autenticado.
const LocalPrincipal = "principal"

// AuthMiddleware valida el Bearer Token y guarda el principal en c.Locals.
func AuthMiddleware(gate *auth.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		p, err := gate.Authenticate(token)
		if err != nil {
			return err
		}
		c.Locals(LocalPrincipal, p)
		return c.Next()
	}
}

// Require autoriza la operación según Policy. Debe ir DESPUÉS de AuthMiddleware.
// Una operación que no figura en Policy se niega.
func Require(gate *auth.Gate, op Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return domain.ErrTokenMissing
		}
		allowed, ok := AllowedRoles(op)
		if !ok {
			return domain.ErrForbidden
		}
		if err := gate.Authorize(c.UserContext(), p, allowed); err != nil {
			return err
		}
		return c.Next()
	}
}

// GetPrincipal devuelve el principal del contexto (nil si no pasó por AuthMiddleware).
func GetPrincipal(c *fiber.Ctx) *auth.Principal {
	p, _ := c.Locals(LocalPrincipal).(*auth.Principal)
	return p
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", domain.ErrTokenMissing
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", domain.ErrTokenInvalid
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", domain.ErrTokenMissing
	}
	return token, nil
}
