package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo implementación de RoleRepository.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

// Create persiste el rol.
func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO roles (name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`,
		role.Name, role.CreatedAt, role.UpdatedAt,
	).Scan(&role.ID)
	return translate("insert role", err)
}

// GetByID obtiene un rol por ID.
func (r *RoleRepo) GetByID(ctx context.Context, id int64) (*entity.Role, error) {
	return r.getOne(ctx, `SELECT id, name, created_at, updated_at FROM roles WHERE id = $1`, id)
}

// GetByName obtiene un rol por nombre exacto.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	return r.getOne(ctx, `SELECT id, name, created_at, updated_at FROM roles WHERE name = $1`, name)
}

// List roles con la cantidad de usuarios de cada uno.
func (r *RoleRepo) List(ctx context.Context) ([]*entity.Role, error) {
	query := `
		SELECT r.id, r.name, r.created_at, r.updated_at, COUNT(u.id)
		FROM roles r
		LEFT JOIN users u ON u.role_id = r.id
		GROUP BY r.id
		ORDER BY r.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Role
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt, &role.UserCount); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, &role)
	}
	return list, rows.Err()
}

// Update cambia el nombre.
func (r *RoleRepo) Update(ctx context.Context, role *entity.Role) error {
	tag, err := r.q.Exec(ctx, `UPDATE roles SET name = $2, updated_at = $3 WHERE id = $1`, role.ID, role.Name, role.UpdatedAt)
	if err != nil {
		return translate("update role", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: rol %d", domain.ErrNotFound, role.ID)
	}
	return nil
}

// Delete elimina el rol; la FK desde users lo impide si está en uso.
func (r *RoleRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	return translate("delete role", err)
}

// CountUsers usuarios con el rol.
func (r *RoleRepo) CountUsers(ctx context.Context, roleID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role_id = $1`, roleID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count role users: %w", err)
	}
	return n, nil
}

func (r *RoleRepo) getOne(ctx context.Context, query string, arg any) (*entity.Role, error) {
	var role entity.Role
	err := r.q.QueryRow(ctx, query, arg).Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &role, nil
}
