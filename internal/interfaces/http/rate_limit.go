package http

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/codecai/factu-core/pkg/logger"
)

// rateLimiterStore contador con TTL; lo implementa *redis.Client.
type rateLimiterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(parts ...string) string
}

// rateLimitRecorder cuenta rechazos (métricas).
type rateLimitRecorder interface {
	RecordRateLimited(policy string)
}

// RateLimitPolicy ventana fija por IP para un endpoint público.
type RateLimitPolicy struct {
	Name   string
	Limit  int
	Window time.Duration
}

func (p RateLimitPolicy) enabled() bool {
	return p.Limit > 0 && p.Window > 0
}

// RateLimit limita intentos por IP. Sin store o con la política desactivada no hace nada.
// Si Redis falla se deja pasar el request: el rate limit no debe tumbar el login.
func RateLimit(policy RateLimitPolicy, store rateLimiterStore, rec rateLimitRecorder, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("ratelimit")
	return func(c *fiber.Ctx) error {
		if !policy.enabled() || store == nil {
			return c.Next()
		}
		key := store.RateLimitKey(policy.Name, c.IP())
		count, err := store.IncrWithTTL(c.UserContext(), key, policy.Window)
		if err != nil {
			log.Warn().Err(err).Str("policy", policy.Name).Msg("rate limit no disponible")
			return c.Next()
		}
		if count > int64(policy.Limit) {
			log.Warn().
				Str("policy", policy.Name).
				Str("ip", c.IP()).
				Int64("attempts", count).
				Int("limit", policy.Limit).
				Msg("rate limit excedido")
			if rec != nil {
				rec.RecordRateLimited(policy.Name)
			}
			c.Set(fiber.HeaderRetryAfter, retryAfter(policy.Window))
			return errRateLimited
		}
		return c.Next()
	}
}

func retryAfter(window time.Duration) string {
	secs := int(window.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
