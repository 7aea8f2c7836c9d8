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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userSelect = `
	SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.document_type,
	       u.document_number, u.phone_number, u.address, u.role_id, u.created_at, u.updated_at,
	       r.id, r.name
	FROM users u
	LEFT JOIN roles r ON r.id = u.role_id`

// Create persiste un nuevo usuario y completa su ID.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, document_type, document_number,
		                   phone_number, address, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.DocumentType, user.DocumentNumber,
		user.PhoneNumber, user.Address, user.RoleID, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	return translate("insert user", err)
}

// GetByID obtiene un usuario por ID con su rol.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.id = $1`, id)
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.email = $1`, email)
}

// GetByDocumentNumber obtiene un usuario por número de documento.
func (r *UserRepo) GetByDocumentNumber(ctx context.Context, documentNumber string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.document_number = $1`, documentNumber)
}

// List todos los usuarios ordenados por ID.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, userSelect+` ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Update actualiza todos los campos editables.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET email = $2, password_hash = $3, first_name = $4, last_name = $5, document_type = $6,
		    document_number = $7, phone_number = $8, address = $9, role_id = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.DocumentType,
		user.DocumentNumber, user.PhoneNumber, user.Address, user.RoleID, user.UpdatedAt,
	)
	if err != nil {
		return translate("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: usuario %d", domain.ErrNotFound, user.ID)
	}
	return nil
}

// Delete elimina un usuario por ID. Sus asignaciones a tiendas se borran en cascada.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return translate("delete user", err)
}

// CountExisting cuántos de los ids existen.
func (r *UserRepo) CountExisting(ctx context.Context, ids []int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE id = ANY($1)`, ids).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var roleID *int64
	var roleName *string
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.DocumentType,
		&u.DocumentNumber, &u.PhoneNumber, &u.Address, &u.RoleID, &u.CreatedAt, &u.UpdatedAt,
		&roleID, &roleName,
	)
	if err != nil {
		return nil, err
	}
	if roleID != nil && roleName != nil {
		u.Role = &entity.Role{ID: *roleID, Name: *roleName}
	}
	return &u, nil
}
