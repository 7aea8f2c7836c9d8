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

var _ repository.ShopRepository = (*ShopRepo)(nil)

// ShopRepo implementación de ShopRepository (tiendas + user_shops).
type ShopRepo struct {
	q Querier
}

// NewShopRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShopRepository(q Querier) *ShopRepo {
	return &ShopRepo{q: q}
}

const shopSelect = `
	SELECT s.id, s.name, s.address, s.phone_number, s.country, s.city, s.ruc, s.email, s.is_active,
	       s.created_at, s.updated_at,
	       (SELECT COUNT(*) FROM user_shops us WHERE us.shop_id = s.id)
	FROM shops s`

// Create persiste la tienda y completa su ID.
func (r *ShopRepo) Create(ctx context.Context, shop *entity.Shop) error {
	query := `
		INSERT INTO shops (name, address, phone_number, country, city, ruc, email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		shop.Name, shop.Address, shop.PhoneNumber, shop.Country, shop.City, shop.RUC, shop.Email,
		shop.IsActive, shop.CreatedAt, shop.UpdatedAt,
	).Scan(&shop.ID)
	return translate("insert shop", err)
}

// GetByID obtiene la tienda, activa o no.
func (r *ShopRepo) GetByID(ctx context.Context, id int64) (*entity.Shop, error) {
	s, err := scanShop(r.q.QueryRow(ctx, shopSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return s, nil
}

// FindConflicting otra tienda con el mismo RUC o email.
func (r *ShopRepo) FindConflicting(ctx context.Context, ruc, email string, excludeID int64) (*entity.Shop, error) {
	s, err := scanShop(r.q.QueryRow(ctx,
		shopSelect+` WHERE (s.ruc = $1 OR s.email = $2) AND s.id <> $3 ORDER BY (s.ruc = $1) DESC LIMIT 1`,
		ruc, email, excludeID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find conflicting shop: %w", err)
	}
	return s, nil
}

// ListActive tiendas activas, más recientes primero.
func (r *ShopRepo) ListActive(ctx context.Context) ([]*entity.Shop, error) {
	return r.list(ctx, shopSelect+` WHERE s.is_active ORDER BY s.created_at DESC, s.id DESC`)
}

// ListActiveByUser tiendas activas asignadas al usuario.
func (r *ShopRepo) ListActiveByUser(ctx context.Context, userID int64) ([]*entity.Shop, error) {
	return r.list(ctx, shopSelect+`
		WHERE s.is_active AND EXISTS (SELECT 1 FROM user_shops us WHERE us.shop_id = s.id AND us.user_id = $1)
		ORDER BY s.created_at DESC, s.id DESC`, userID)
}

// Update actualiza todos los campos editables.
func (r *ShopRepo) Update(ctx context.Context, shop *entity.Shop) error {
	query := `
		UPDATE shops
		SET name = $2, address = $3, phone_number = $4, country = $5, city = $6, ruc = $7, email = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		shop.ID, shop.Name, shop.Address, shop.PhoneNumber, shop.Country, shop.City, shop.RUC, shop.Email, shop.UpdatedAt,
	)
	if err != nil {
		return translate("update shop", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: tienda %d", domain.ErrNotFound, shop.ID)
	}
	return nil
}

// SetActive activa o desactiva (soft delete).
func (r *ShopRepo) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE shops SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set shop active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: tienda %d", domain.ErrNotFound, id)
	}
	return nil
}

// Delete borra la fila. Si user_shops la referencia, la FK lo impide.
func (r *ShopRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: no se puede eliminar la tienda porque tiene registros asociados", domain.ErrInvalidInput)
		}
		return fmt.Errorf("delete shop: %w", err)
	}
	return nil
}

// ReplaceAssignments borra e inserta; los pares repetidos se ignoran.
func (r *ShopRepo) ReplaceAssignments(ctx context.Context, shopID int64, userIDs []int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM user_shops WHERE shop_id = $1`, shopID); err != nil {
		return fmt.Errorf("clear user_shops: %w", err)
	}
	if len(userIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO user_shops (user_id, shop_id, created_at)
		SELECT uid, $1, NOW() FROM UNNEST($2::bigint[]) AS uid
		ON CONFLICT (user_id, shop_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, shopID, userIDs); err != nil {
		return translate("insert user_shops", err)
	}
	return nil
}

// HasAssignment true si el par existe.
func (r *ShopRepo) HasAssignment(ctx context.Context, shopID, userID int64) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_shops WHERE shop_id = $1 AND user_id = $2)`, shopID, userID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("has assignment: %w", err)
	}
	return ok, nil
}

// DeleteAssignment quita un par.
func (r *ShopRepo) DeleteAssignment(ctx context.Context, shopID, userID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM user_shops WHERE shop_id = $1 AND user_id = $2`, shopID, userID); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

// ListMembers usuarios asignados con su rol.
func (r *ShopRepo) ListMembers(ctx context.Context, shopID int64) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, userSelect+`
		JOIN user_shops us ON us.user_id = u.id
		WHERE us.shop_id = $1
		ORDER BY u.id`, shopID)
	if err != nil {
		return nil, fmt.Errorf("list shop members: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *ShopRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Shop, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()
	var list []*entity.Shop
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanShop(row pgx.Row) (*entity.Shop, error) {
	var s entity.Shop
	err := row.Scan(
		&s.ID, &s.Name, &s.Address, &s.PhoneNumber, &s.Country, &s.City, &s.RUC, &s.Email, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt, &s.UserCount,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
