package billing

import (
	"context"
	"fmt"

	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/repository"
)

// PDFUseCase genera el PDF imprimible de una factura.
type PDFUseCase struct {
	bills     repository.BillRepository
	details   repository.BillDetailRepository
	generator BillPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(bills repository.BillRepository, details repository.BillDetailRepository, generator BillPDFGenerator) *PDFUseCase {
	return &PDFUseCase{bills: bills, details: details, generator: generator}
}

// DownloadBillPDF carga la factura con dueño y líneas y la renderiza.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la factura no existe.
func (uc *PDFUseCase) DownloadBillPDF(ctx context.Context, billID int64) (pdfBytes []byte, filename string, err error) {
	bill, err := uc.bills.GetByID(ctx, billID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if bill == nil {
		return nil, "", fmt.Errorf("%w: factura %d", domain.ErrNotFound, billID)
	}
	if bill.Details, err = uc.details.ListByBill(ctx, billID); err != nil {
		return nil, "", fmt.Errorf("pdf: obtener detalles: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateBillPDF(ctx, bill)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", bill.BillNumber), nil
}
