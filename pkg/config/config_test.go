package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecai/factu-core/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 24*60, cfg.JWT.Expiration, "el token debe durar 1 día por defecto")
	assert.Equal(t, "Usuario", cfg.Auth.DefaultRole)
	assert.Equal(t, 5*time.Minute, cfg.Auth.ExpiryWarning)
	assert.Equal(t, 20, cfg.RateLimit.LoginPerMinute)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("JWT_SECRET", "super-secreto")
	t.Setenv("JWT_EXPIRATION_MINUTES", "30")
	t.Setenv("AUTH_DEFAULT_ROLE", "Vendedor")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "super-secreto", cfg.JWT.Secret)
	assert.Equal(t, 30, cfg.JWT.Expiration)
	assert.Equal(t, "Vendedor", cfg.Auth.DefaultRole)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.True(t, cfg.DB.AutoMigrate)
	assert.True(t, cfg.Redis.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestValidate_SinSecretoFalla(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Expiration: 60}}
	assert.Error(t, cfg.Validate())
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "factu", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/factu?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
