package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Variantes de ErrUnauthorized; errors.Is(err, ErrUnauthorized) es true para las tres.
var (
	ErrTokenMissing = fmt.Errorf("%w: token no proporcionado", ErrUnauthorized)
	ErrTokenInvalid = fmt.Errorf("%w: token inválido", ErrUnauthorized)
	ErrTokenExpired = fmt.Errorf("%w: token expirado", ErrUnauthorized)
)
