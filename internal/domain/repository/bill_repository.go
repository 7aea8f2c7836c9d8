package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/codecai/factu-core/internal/domain/entity"
)

// BillRepository persistencia de cabeceras de factura.
// Las lecturas cargan Owner (proyección restringida) pero no Details.
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, id int64) (*entity.Bill, error)
	GetByNumber(ctx context.Context, billNumber string) (*entity.Bill, error)
	// List ordena por fecha descendente.
	List(ctx context.Context) ([]*entity.Bill, error)
	ListByUser(ctx context.Context, userID int64) ([]*entity.Bill, error)
	Update(ctx context.Context, bill *entity.Bill) error
	Delete(ctx context.Context, id int64) error
	CountByUser(ctx context.Context, userID int64) (int, error)

	// LockByID bloquea la fila hasta el fin de la transacción. false si no existe.
	LockByID(ctx context.Context, id int64) (bool, error)
	SetGrandTotal(ctx context.Context, id int64, total decimal.Decimal) error
}

// BillDetailRepository persistencia de líneas de factura.
type BillDetailRepository interface {
	Create(ctx context.Context, detail *entity.BillDetail) error
	GetByID(ctx context.Context, id int64) (*entity.BillDetail, error)
	List(ctx context.Context) ([]*entity.BillDetail, error)
	ListByBill(ctx context.Context, billID int64) ([]*entity.BillDetail, error)
	ListByBills(ctx context.Context, billIDs []int64) ([]*entity.BillDetail, error)
	Update(ctx context.Context, detail *entity.BillDetail) error
	Delete(ctx context.Context, id int64) error
	DeleteByBill(ctx context.Context, billID int64) error
}
