// seed crea los roles base y el usuario administrador. Idempotente.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"os"

	"github.com/codecai/factu-core/internal/application/auth"
	"github.com/codecai/factu-core/internal/infrastructure/postgres"
	"github.com/codecai/factu-core/internal/infrastructure/seed"
	"github.com/codecai/factu-core/pkg/config"
	"github.com/codecai/factu-core/pkg/logger"
	"github.com/codecai/factu-core/pkg/migrate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	db := postgres.OpenDB(pool)
	defer db.Close()

	if err := migrate.Up(ctx, db); err != nil {
		log.Error().Err(err).Msg("migraciones")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		log.Error().Err(err).Msg("hash de la contraseña del administrador")
		os.Exit(1)
	}

	res, err := seed.NewSeeder(db, log).Run(ctx, seed.Admin{Email: cfg.Seed.AdminEmail, PasswordHash: hash})
	if err != nil {
		log.Error().Err(err).Msg("seed fallido")
		os.Exit(1)
	}
	if !res.AdminCreated {
		log.Warn().Str("email", cfg.Seed.AdminEmail).Msg("el usuario administrador ya existe")
	}
}
