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

var _ repository.BillDetailRepository = (*BillDetailRepo)(nil)

// BillDetailRepo implementación de BillDetailRepository (usable con pool o tx).
type BillDetailRepo struct {
	q Querier
}

// NewBillDetailRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillDetailRepository(q Querier) *BillDetailRepo {
	return &BillDetailRepo{q: q}
}

const detailSelect = `
	SELECT id, bill_id, name, description, amount, item_price, total_item, created_at, updated_at
	FROM bill_details`

// Create persiste una línea de detalle.
func (r *BillDetailRepo) Create(ctx context.Context, d *entity.BillDetail) error {
	query := `
		INSERT INTO bill_details (bill_id, name, description, amount, item_price, total_item, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		d.BillID, d.Name, d.Description, d.Amount, d.ItemPrice, d.TotalItem, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
	return translate("insert bill detail", err)
}

// GetByID una línea.
func (r *BillDetailRepo) GetByID(ctx context.Context, id int64) (*entity.BillDetail, error) {
	d, err := scanDetail(r.q.QueryRow(ctx, detailSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bill detail: %w", err)
	}
	return d, nil
}

// List todas las líneas.
func (r *BillDetailRepo) List(ctx context.Context) ([]*entity.BillDetail, error) {
	return r.list(ctx, detailSelect+` ORDER BY id`)
}

// ListByBill líneas de una factura.
func (r *BillDetailRepo) ListByBill(ctx context.Context, billID int64) ([]*entity.BillDetail, error) {
	return r.list(ctx, detailSelect+` WHERE bill_id = $1 ORDER BY id`, billID)
}

// ListByBills líneas de varias facturas en una sola consulta.
func (r *BillDetailRepo) ListByBills(ctx context.Context, billIDs []int64) ([]*entity.BillDetail, error) {
	return r.list(ctx, detailSelect+` WHERE bill_id = ANY($1) ORDER BY bill_id, id`, billIDs)
}

// Update todos los campos, incluido bill_id.
func (r *BillDetailRepo) Update(ctx context.Context, d *entity.BillDetail) error {
	query := `
		UPDATE bill_details
		SET bill_id = $2, name = $3, description = $4, amount = $5, item_price = $6, total_item = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		d.ID, d.BillID, d.Name, d.Description, d.Amount, d.ItemPrice, d.TotalItem, d.UpdatedAt,
	)
	if err != nil {
		return translate("update bill detail", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: detalle %d", domain.ErrNotFound, d.ID)
	}
	return nil
}

// Delete borra una línea.
func (r *BillDetailRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM bill_details WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete bill detail: %w", err)
	}
	return nil
}

// DeleteByBill borra todas las líneas de la factura.
func (r *BillDetailRepo) DeleteByBill(ctx context.Context, billID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM bill_details WHERE bill_id = $1`, billID); err != nil {
		return fmt.Errorf("delete bill details: %w", err)
	}
	return nil
}

func (r *BillDetailRepo) list(ctx context.Context, query string, args ...any) ([]*entity.BillDetail, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bill details: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill detail: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanDetail(row pgx.Row) (*entity.BillDetail, error) {
	var d entity.BillDetail
	err := row.Scan(&d.ID, &d.BillID, &d.Name, &d.Description, &d.Amount, &d.ItemPrice, &d.TotalItem, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
