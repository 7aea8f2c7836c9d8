package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codecai/factu-core/internal/application/billing"
	"github.com/codecai/factu-core/internal/application/usecase"
	"github.com/codecai/factu-core/internal/domain/repository"
)

// Ensure TxRunner implements billing.TxRunner and usecase.ShopTxRunner.
var _ billing.TxRunner = (*TxRunner)(nil)
var _ usecase.ShopTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunBilling inicia una transacción con repos de facturas y detalles atados a ella.
// Los locks tomados con LockByID se liberan en Commit o Rollback.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	bills repository.BillRepository,
	details repository.BillDetailRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewBillRepository(tx), NewBillDetailRepository(tx))
	})
}

// RunShops inicia una transacción con el repo de tiendas (alta + asignaciones).
func (r *TxRunner) RunShops(ctx context.Context, fn func(shops repository.ShopRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewShopRepository(tx))
	})
}

// run Begin, fn, Commit; cualquier error deja la transacción en Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
