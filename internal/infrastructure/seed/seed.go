package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/pkg/logger"
)

// DefaultRoles roles base del sistema, en el orden en que se insertan.
var DefaultRoles = []string{entity.RoleAdmin, entity.RoleUser, entity.RoleSeller, entity.RoleManager}

// Admin datos del usuario administrador inicial. PasswordHash ya viene con bcrypt.
type Admin struct {
	Email        string
	PasswordHash string
}

// Result resumen de lo que insertó el seed.
type Result struct {
	RolesCreated int
	AdminCreated bool
}

// Seeder carga datos iniciales. Es idempotente: puede correrse en cada despliegue.
type Seeder struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSeeder construye el seeder sobre un *sql.DB (pgx stdlib).
func NewSeeder(db *sql.DB, log *logger.Logger) *Seeder {
	if log == nil {
		log = logger.Nop()
	}
	return &Seeder{db: db, log: log.Named("seed")}
}

// Run inserta roles y administrador en una sola transacción.
func (s *Seeder) Run(ctx context.Context, admin Admin) (*Result, error) {
	if admin.Email == "" || admin.PasswordHash == "" {
		return nil, errors.New("seed: email y password del administrador son requeridos")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("seed: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res := &Result{}
	now := time.Now()
	for _, name := range DefaultRoles {
		r, err := tx.ExecContext(ctx,
			`INSERT INTO roles (name, created_at, updated_at) VALUES ($1, $2, $2) ON CONFLICT (name) DO NOTHING`,
			name, now,
		)
		if err != nil {
			return nil, fmt.Errorf("seed: rol %s: %w", name, err)
		}
		if n, _ := r.RowsAffected(); n > 0 {
			res.RolesCreated++
		}
	}

	var adminRoleID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM roles WHERE name = $1`, entity.RoleAdmin).Scan(&adminRoleID); err != nil {
		return nil, fmt.Errorf("seed: rol administrador: %w", err)
	}

	r, err := tx.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, document_type, document_number,
		                   phone_number, address, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (email) DO NOTHING`,
		admin.Email, admin.PasswordHash, "Administrador", "Sistema", "DNI", "00000000",
		"999999999", "Dirección del sistema", adminRoleID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("seed: administrador: %w", err)
	}
	if n, _ := r.RowsAffected(); n > 0 {
		res.AdminCreated = true
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("seed: commit: %w", err)
	}

	s.log.Info().
		Int("roles_created", res.RolesCreated).
		Bool("admin_created", res.AdminCreated).
		Str("admin_email", admin.Email).
		Msg("seed completado")
	return res, nil
}
