package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codecai/factu-core/internal/application/dto"
	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/domain/ledger"
	"github.com/codecai/factu-core/internal/domain/repository"
)

// BillUseCase casos de uso sobre cabeceras de factura.
type BillUseCase struct {
	bills    repository.BillRepository
	details  repository.BillDetailRepository
	users    repository.UserRepository
	txRunner TxRunner
}

// NewBillUseCase construye el caso de uso.
func NewBillUseCase(
	bills repository.BillRepository,
	details repository.BillDetailRepository,
	users repository.UserRepository,
	txRunner TxRunner,
) *BillUseCase {
	return &BillUseCase{bills: bills, details: details, users: users, txRunner: txRunner}
}

// Create crea una factura vacía. grandTotal por defecto 0; no se exige que cuadre con detalles.
func (uc *BillUseCase) Create(ctx context.Context, in dto.CreateBillRequest) (*dto.BillResponse, error) {
	date, err := parseBillDate(in.Date)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	if in.GrandTotal != nil {
		total = *in.GrandTotal
	}
	if err := ledger.ValidateGrandTotal(total); err != nil {
		return nil, err
	}
	if err := uc.ensureUser(ctx, in.UserID); err != nil {
		return nil, err
	}
	number := strings.TrimSpace(in.BillNumber)
	if err := uc.ensureNumberFree(ctx, number); err != nil {
		return nil, err
	}

	now := time.Now()
	bill := &entity.Bill{
		BillNumber: number,
		Date:       date,
		GrandTotal: total,
		UserID:     in.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.bills.Create(ctx, bill); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, bill.ID)
}

// List todas las facturas, más recientes primero, con sus líneas.
func (uc *BillUseCase) List(ctx context.Context) ([]*dto.BillResponse, error) {
	bills, err := uc.bills.List(ctx)
	if err != nil {
		return nil, err
	}
	return uc.withDetails(ctx, bills)
}

// ListByUser facturas de un usuario. NotFound si el usuario no existe.
func (uc *BillUseCase) ListByUser(ctx context.Context, userID int64) ([]*dto.BillResponse, error) {
	if err := uc.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	bills, err := uc.bills.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.withDetails(ctx, bills)
}

// GetByID factura con dueño y líneas.
func (uc *BillUseCase) GetByID(ctx context.Context, id int64) (*dto.BillResponse, error) {
	bill, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBillResponse(bill), nil
}

// GetByNumber busca por número de factura.
func (uc *BillUseCase) GetByNumber(ctx context.Context, billNumber string) (*dto.BillResponse, error) {
	bill, err := uc.bills.GetByNumber(ctx, strings.TrimSpace(billNumber))
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, billNumber)
	}
	if bill.Details, err = uc.details.ListByBill(ctx, bill.ID); err != nil {
		return nil, err
	}
	return toBillResponse(bill), nil
}

// Update cambia número, fecha o dueño. grandTotal no se puede fijar a mano.
func (uc *BillUseCase) Update(ctx context.Context, id int64, in dto.UpdateBillRequest) (*dto.BillResponse, error) {
	if in.GrandTotal != nil {
		return nil, fmt.Errorf("%w: grandTotal se calcula a partir de los detalles", domain.ErrInvalidInput)
	}
	var date *time.Time
	if in.Date != nil {
		d, err := parseBillDate(*in.Date)
		if err != nil {
			return nil, err
		}
		date = &d
	}
	err := uc.txRunner.RunBilling(ctx, func(bills repository.BillRepository, _ repository.BillDetailRepository) error {
		// si el usuario desaparece después de este chequeo, bills.Update también responde NotFound
		if in.UserID != nil {
			if err := uc.ensureUser(ctx, *in.UserID); err != nil {
				return err
			}
		}
		ok, err := bills.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: factura %d", domain.ErrNotFound, id)
		}
		bill, err := bills.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if bill == nil {
			return fmt.Errorf("%w: factura %d", domain.ErrNotFound, id)
		}
		if in.BillNumber != nil {
			number := strings.TrimSpace(*in.BillNumber)
			if number != bill.BillNumber {
				other, err := bills.GetByNumber(ctx, number)
				if err != nil {
					return err
				}
				if other != nil && other.ID != id {
					return fmt.Errorf("%w: el número de factura %s ya existe", domain.ErrConflict, number)
				}
			}
			bill.BillNumber = number
		}
		if date != nil {
			bill.Date = *date
		}
		if in.UserID != nil {
			bill.UserID = *in.UserID
		}
		bill.UpdatedAt = time.Now()
		return bills.Update(ctx, bill)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Delete borra primero todas las líneas y luego la factura, en una sola transacción.
func (uc *BillUseCase) Delete(ctx context.Context, id int64) error {
	return uc.txRunner.RunBilling(ctx, func(bills repository.BillRepository, details repository.BillDetailRepository) error {
		ok, err := bills.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: factura %d", domain.ErrNotFound, id)
		}
		if err := details.DeleteByBill(ctx, id); err != nil {
			return err
		}
		return bills.Delete(ctx, id)
	})
}

func (uc *BillUseCase) load(ctx context.Context, id int64) (*entity.Bill, error) {
	bill, err := uc.bills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, fmt.Errorf("%w: factura %d", domain.ErrNotFound, id)
	}
	if bill.Details, err = uc.details.ListByBill(ctx, id); err != nil {
		return nil, err
	}
	return bill, nil
}

func (uc *BillUseCase) withDetails(ctx context.Context, bills []*entity.Bill) ([]*dto.BillResponse, error) {
	out := make([]*dto.BillResponse, 0, len(bills))
	if len(bills) == 0 {
		return out, nil
	}
	ids := make([]int64, 0, len(bills))
	for _, b := range bills {
		ids = append(ids, b.ID)
	}
	all, err := uc.details.ListByBills(ctx, ids)
	if err != nil {
		return nil, err
	}
	byBill := make(map[int64][]*entity.BillDetail, len(bills))
	for _, d := range all {
		byBill[d.BillID] = append(byBill[d.BillID], d)
	}
	for _, b := range bills {
		b.Details = byBill[b.ID]
		out = append(out, toBillResponse(b))
	}
	return out, nil
}

func (uc *BillUseCase) ensureUser(ctx context.Context, userID int64) error {
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("%w: usuario %d", domain.ErrNotFound, userID)
	}
	return nil
}

func (uc *BillUseCase) ensureNumberFree(ctx context.Context, number string) error {
	existing, err := uc.bills.GetByNumber(ctx, number)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: el número de factura %s ya existe", domain.ErrConflict, number)
	}
	return nil
}
