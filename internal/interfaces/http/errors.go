package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/codecai/factu-core/internal/application/dto"
	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/pkg/logger"
)

// errRateLimited demasiados intentos en la ventana actual.
var errRateLimited = errors.New("demasiados intentos, intente más tarde")

const internalMessage = "error interno del servidor"

// mapError traduce cualquier error a status + cuerpo. Los errores que no son de dominio
// se devuelven como INTERNAL sin exponer la causa.
func mapError(err error) (int, dto.ErrorResponse) {
	var verr *ValidationError
	var ferr *fiber.Error
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error(), Details: verr.Fields}
	case errors.Is(err, errInvalidBody):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()}
	case errors.Is(err, errRateLimited):
		return fiber.StatusTooManyRequests, dto.ErrorResponse{Code: "RATE_LIMITED", Message: err.Error()}
	case errors.Is(err, domain.ErrTokenMissing):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"}
	case errors.Is(err, domain.ErrTokenExpired):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "TOKEN_EXPIRED", Message: "el token ha expirado"}
	case errors.Is(err, domain.ErrTokenInvalid):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene permisos para esta operación"}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.As(err, &ferr):
		return ferr.Code, dto.ErrorResponse{Code: codeForStatus(ferr.Code), Message: ferr.Message}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: internalMessage}
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL"
	}
	return "ERROR"
}

// ErrorHandler único punto de salida de errores (fiber.Config.ErrorHandler).
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("http")
	return func(c *fiber.Ctx, err error) error {
		status, body := mapError(err)
		if status >= fiber.StatusInternalServerError {
			log.WithRequestID(RequestID(c)).Error().
				Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error interno")
		}
		return c.Status(status).JSON(body)
	}
}
