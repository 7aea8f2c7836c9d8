package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/codecai/factu-core/pkg/logger"
)

const (
	// HeaderRequestID header de correlación; se respeta si el cliente lo envía.
	HeaderRequestID = "X-Request-ID"
	localRequestID  = "request_id"
)

// HTTPObserver recibe una observación por request (métricas).
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// RequestIDMiddleware asigna un id a cada request y lo devuelve en la respuesta.
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Locals(localRequestID, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

// RequestID id del request actual, vacío fuera del middleware.
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(localRequestID).(string)
	return id
}

// RequestLogger registra cada request y alimenta las métricas HTTP.
// El error del handler se resuelve aquí para conocer el status final.
func RequestLogger(log *logger.Logger, obs HTTPObserver) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		reqLog := log.WithRequestID(RequestID(c))
		ev := reqLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = reqLog.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = reqLog.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Msg("request")

		if obs != nil {
			obs.ObserveHTTP(c.Method(), route, status, elapsed)
		}
		return nil
	}
}
