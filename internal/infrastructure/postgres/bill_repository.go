package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/domain/repository"
)

var _ repository.BillRepository = (*BillRepo)(nil)

// BillRepo implementación de BillRepository (usable con pool o tx).
type BillRepo struct {
	q Querier
}

// NewBillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillRepository(q Querier) *BillRepo {
	return &BillRepo{q: q}
}

// Solo proyecta id, nombre, apellido y email del dueño; nunca el hash.
const billSelect = `
	SELECT b.id, b.bill_number, b.date, b.grand_total, b.user_id, b.created_at, b.updated_at,
	       u.id, u.first_name, u.last_name, u.email
	FROM bills b
	LEFT JOIN users u ON u.id = b.user_id`

// Create persiste la cabecera de la factura.
func (r *BillRepo) Create(ctx context.Context, bill *entity.Bill) error {
	query := `
		INSERT INTO bills (bill_number, date, grand_total, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		bill.BillNumber, bill.Date, bill.GrandTotal, bill.UserID, bill.CreatedAt, bill.UpdatedAt,
	).Scan(&bill.ID)
	return translateBillOwner("insert bill", bill.UserID, err)
}

// GetByID factura con su dueño.
func (r *BillRepo) GetByID(ctx context.Context, id int64) (*entity.Bill, error) {
	return r.getOne(ctx, billSelect+` WHERE b.id = $1`, id)
}

// GetByNumber factura por número.
func (r *BillRepo) GetByNumber(ctx context.Context, billNumber string) (*entity.Bill, error) {
	return r.getOne(ctx, billSelect+` WHERE b.bill_number = $1`, billNumber)
}

// List todas, más recientes primero.
func (r *BillRepo) List(ctx context.Context) ([]*entity.Bill, error) {
	return r.list(ctx, billSelect+` ORDER BY b.date DESC, b.id DESC`)
}

// ListByUser facturas de un usuario, más recientes primero.
func (r *BillRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.Bill, error) {
	return r.list(ctx, billSelect+` WHERE b.user_id = $1 ORDER BY b.date DESC, b.id DESC`, userID)
}

// Update cabecera (número, fecha, dueño). grand_total solo cambia vía SetGrandTotal.
func (r *BillRepo) Update(ctx context.Context, bill *entity.Bill) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE bills SET bill_number = $2, date = $3, user_id = $4, updated_at = $5 WHERE id = $1`,
		bill.ID, bill.BillNumber, bill.Date, bill.UserID, bill.UpdatedAt,
	)
	if err != nil {
		return translateBillOwner("update bill", bill.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: factura %d", domain.ErrNotFound, bill.ID)
	}
	return nil
}

// translateBillOwner el dueño pudo borrarse entre la validación y la escritura:
// la FK de bills.user_id en un insert/update significa usuario inexistente.
func translateBillOwner(op string, userID int64, err error) error {
	if isForeignKeyViolation(err) && constraintName(err) == "bills_user_id_fkey" {
		return fmt.Errorf("%w: usuario %d", domain.ErrNotFound, userID)
	}
	return translate(op, err)
}

// Delete borra la cabecera. Las líneas deben borrarse antes (FK RESTRICT).
func (r *BillRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	return translate("delete bill", err)
}

// CountByUser facturas a nombre del usuario.
func (r *BillRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM bills WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bills: %w", err)
	}
	return n, nil
}

// LockByID SELECT ... FOR UPDATE. Solo tiene efecto dentro de una transacción.
func (r *BillRepo) LockByID(ctx context.Context, id int64) (bool, error) {
	var got int64
	err := r.q.QueryRow(ctx, `SELECT id FROM bills WHERE id = $1 FOR UPDATE`, id).Scan(&got)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lock bill: %w", err)
	}
	return true, nil
}

// SetGrandTotal persiste el total recalculado.
func (r *BillRepo) SetGrandTotal(ctx context.Context, id int64, total decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE bills SET grand_total = $2, updated_at = NOW() WHERE id = $1`, id, total)
	if err != nil {
		return fmt.Errorf("set grand total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: factura %d", domain.ErrNotFound, id)
	}
	return nil
}

func (r *BillRepo) getOne(ctx context.Context, query string, arg any) (*entity.Bill, error) {
	b, err := scanBill(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return b, nil
}

func (r *BillRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Bill, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()
	var list []*entity.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBill(row pgx.Row) (*entity.Bill, error) {
	var b entity.Bill
	var ownerID *int64
	var first, last, email *string
	err := row.Scan(
		&b.ID, &b.BillNumber, &b.Date, &b.GrandTotal, &b.UserID, &b.CreatedAt, &b.UpdatedAt,
		&ownerID, &first, &last, &email,
	)
	if err != nil {
		return nil, err
	}
	if ownerID != nil {
		b.Owner = &entity.BillOwner{ID: *ownerID, FirstName: deref(first), LastName: deref(last), Email: deref(email)}
	}
	return &b, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
