package billing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/codecai/factu-core/internal/application/dto"
	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/domain/ledger"
	"github.com/codecai/factu-core/internal/domain/repository"
)

// BillDetailUseCase CRUD de líneas de factura. Toda mutación recalcula el grandTotal
// de la(s) factura(s) afectada(s) dentro de la misma transacción, releyendo todas sus líneas.
type BillDetailUseCase struct {
	bills    repository.BillRepository
	details  repository.BillDetailRepository
	txRunner TxRunner
	recorder RecomputeRecorder
}

// NewBillDetailUseCase construye el caso de uso. recorder puede ser nil.
func NewBillDetailUseCase(
	bills repository.BillRepository,
	details repository.BillDetailRepository,
	txRunner TxRunner,
	recorder RecomputeRecorder,
) *BillDetailUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &BillDetailUseCase{bills: bills, details: details, txRunner: txRunner, recorder: recorder}
}

// Create valida la línea, la persiste y recalcula el total de su factura.
func (uc *BillDetailUseCase) Create(ctx context.Context, in dto.CreateBillDetailRequest) (*dto.BillDetailResponse, error) {
	detail, err := ledger.NewDetail(ledger.DetailInput{
		BillID:      in.BillID,
		Name:        in.Name,
		Description: in.Description,
		Amount:      in.Amount,
		ItemPrice:   in.ItemPrice,
		TotalItem:   in.TotalItem,
	})
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.RunBilling(ctx, func(bills repository.BillRepository, details repository.BillDetailRepository) error {
		if err := lockBills(ctx, bills, detail.BillID); err != nil {
			return err
		}
		now := time.Now()
		detail.CreatedAt, detail.UpdatedAt = now, now
		if err := details.Create(ctx, detail); err != nil {
			return err
		}
		return uc.recompute(ctx, bills, details, detail.BillID)
	})
	if err != nil {
		return nil, err
	}
	return toDetailResponse(detail), nil
}

// Update aplica el patch. Si la línea cambia de factura se recalculan ambas.
func (uc *BillDetailUseCase) Update(ctx context.Context, id int64, in dto.UpdateBillDetailRequest) (*dto.BillDetailResponse, error) {
	patch := ledger.DetailPatch{
		BillID:      in.BillID,
		Name:        in.Name,
		Description: in.Description,
		Amount:      in.Amount,
		ItemPrice:   in.ItemPrice,
		TotalItem:   in.TotalItem,
	}

	var updated *entity.BillDetail
	err := uc.txRunner.RunBilling(ctx, func(bills repository.BillRepository, details repository.BillDetailRepository) error {
		current, err := getDetail(ctx, details, id)
		if err != nil {
			return err
		}
		oldBill := current.BillID
		affected := []int64{oldBill}
		if patch.MovesBill(current) {
			affected = append(affected, *patch.BillID)
		}
		if err := lockBills(ctx, bills, affected...); err != nil {
			return err
		}
		// releer con las facturas bloqueadas: otra transacción pudo mover la línea
		if current, err = getDetail(ctx, details, id); err != nil {
			return err
		}
		if current.BillID != oldBill {
			return fmt.Errorf("%w: la línea %d cambió de factura durante la operación", domain.ErrConflict, id)
		}

		if err := ledger.ApplyPatch(current, patch); err != nil {
			return err
		}
		current.UpdatedAt = time.Now()
		if err := details.Update(ctx, current); err != nil {
			return err
		}
		for _, billID := range affected {
			if err := uc.recompute(ctx, bills, details, billID); err != nil {
				return err
			}
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDetailResponse(updated), nil
}

// Delete borra la línea y recalcula el total de la factura que la contenía.
func (uc *BillDetailUseCase) Delete(ctx context.Context, id int64) error {
	return uc.txRunner.RunBilling(ctx, func(bills repository.BillRepository, details repository.BillDetailRepository) error {
		current, err := getDetail(ctx, details, id)
		if err != nil {
			return err
		}
		billID := current.BillID
		if err := lockBills(ctx, bills, billID); err != nil {
			return err
		}
		if current, err = getDetail(ctx, details, id); err != nil {
			return err
		}
		if current.BillID != billID {
			return fmt.Errorf("%w: la línea %d cambió de factura durante la operación", domain.ErrConflict, id)
		}
		if err := details.Delete(ctx, id); err != nil {
			return err
		}
		return uc.recompute(ctx, bills, details, billID)
	})
}

// List todas las líneas.
func (uc *BillDetailUseCase) List(ctx context.Context) ([]*dto.BillDetailResponse, error) {
	list, err := uc.details.List(ctx)
	if err != nil {
		return nil, err
	}
	return toDetailResponses(list), nil
}

// ListByBill líneas de una factura. NotFound si la factura no existe.
func (uc *BillDetailUseCase) ListByBill(ctx context.Context, billID int64) ([]*dto.BillDetailResponse, error) {
	bill, err := uc.bills.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, fmt.Errorf("%w: factura %d", domain.ErrNotFound, billID)
	}
	list, err := uc.details.ListByBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	return toDetailResponses(list), nil
}

// GetByID una línea.
func (uc *BillDetailUseCase) GetByID(ctx context.Context, id int64) (*dto.BillDetailResponse, error) {
	d, err := getDetail(ctx, uc.details, id)
	if err != nil {
		return nil, err
	}
	return toDetailResponse(d), nil
}

// recompute relee todas las líneas de la factura y persiste la suma.
func (uc *BillDetailUseCase) recompute(
	ctx context.Context,
	bills repository.BillRepository,
	details repository.BillDetailRepository,
	billID int64,
) (err error) {
	defer func() { uc.recorder.RecordRecompute(err) }()

	list, err := details.ListByBill(ctx, billID)
	if err != nil {
		return fmt.Errorf("recalcular factura %d: %w", billID, err)
	}
	if err := bills.SetGrandTotal(ctx, billID, ledger.GrandTotal(list)); err != nil {
		return fmt.Errorf("recalcular factura %d: %w", billID, err)
	}
	return nil
}

// lockBills bloquea las facturas en orden ascendente de id para evitar deadlocks
// entre dos movimientos cruzados.
func lockBills(ctx context.Context, bills repository.BillRepository, ids ...int64) error {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, id := range sorted {
		ok, err := bills.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: factura %d", domain.ErrNotFound, id)
		}
	}
	return nil
}

func getDetail(ctx context.Context, details repository.BillDetailRepository, id int64) (*entity.BillDetail, error) {
	d, err := details.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: detalle %d", domain.ErrNotFound, id)
	}
	return d, nil
}

func toDetailResponses(list []*entity.BillDetail) []*dto.BillDetailResponse {
	out := make([]*dto.BillDetailResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDetailResponse(d))
	}
	return out
}
