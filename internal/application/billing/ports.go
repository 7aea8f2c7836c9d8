package billing

import (
	"context"

	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con repos de facturación atados a ella.
// Si fn retorna error, nada de lo hecho dentro de fn queda persistido.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		bills repository.BillRepository,
		details repository.BillDetailRepository,
	) error) error
}

// BillPDFGenerator renderiza una factura (con Owner y Details cargados) a PDF.
type BillPDFGenerator interface {
	GenerateBillPDF(ctx context.Context, bill *entity.Bill) ([]byte, error)
}

// RecomputeRecorder observa cada recálculo de grandTotal (métricas).
type RecomputeRecorder interface {
	RecordRecompute(err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordRecompute(error) {}
