// migrate aplica las migraciones embebidas en pkg/migrate.
//
// Uso: go run ./cmd/migrate -cmd=up|down|status|version|redo|reset
package main

import (
	"context"
	"flag"
	"os"

	"github.com/codecai/factu-core/internal/infrastructure/postgres"
	"github.com/codecai/factu-core/pkg/config"
	"github.com/codecai/factu-core/pkg/logger"
	"github.com/codecai/factu-core/pkg/migrate"
)

func main() {
	command := flag.String("cmd", "up", "comando goose: up|down|status|version|redo|reset")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("migrate")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	db := postgres.OpenDB(pool)
	defer db.Close()

	if err := migrate.Run(ctx, db, *command, flag.Args()...); err != nil {
		log.Error().Err(err).Str("cmd", *command).Msg("migración fallida")
		os.Exit(1)
	}
	log.Info().Str("cmd", *command).Msg("migración completada")
}
