package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Dir directorio de migraciones dentro del FS embebido.
const Dir = "migrations"

// Run ejecuta un comando goose (up, down, status, version, reset, redo) con las migraciones embebidas.
func Run(ctx context.Context, db *sql.DB, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	goose.SetBaseFS(embedded)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, Dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Up aplica todas las migraciones pendientes.
func Up(ctx context.Context, db *sql.DB) error {
	return Run(ctx, db, "up")
}

// Files nombres de las migraciones embebidas, en orden.
func Files() ([]string, error) {
	entries, err := embedded.ReadDir(Dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// Read contenido de una migración embebida.
func Read(name string) (string, error) {
	b, err := embedded.ReadFile(Dir + "/" + name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
