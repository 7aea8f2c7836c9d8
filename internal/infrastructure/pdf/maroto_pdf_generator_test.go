package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecai/factu-core/internal/domain/entity"
)

func testGenerator() *MarotoPDFGenerator {
	return NewMarotoPDFGenerator(Issuer{
		Name:    "FACTURACIÓN CODECAI S.A.",
		RUC:     "1723456789001",
		Address: "Av. Amazonas y Naciones Unidas",
	})
}

func TestGenerateBillPDF_DevuelvePDF(t *testing.T) {
	bill := &entity.Bill{
		ID:         1,
		BillNumber: "0001",
		Date:       time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		GrandTotal: decimal.RequireFromString("55.00"),
		Owner:      &entity.BillOwner{ID: 1, FirstName: "Ana", LastName: "Pérez", Email: "ana@factucore.com"},
		Details: []*entity.BillDetail{
			{Name: "Mouse", Amount: 2, ItemPrice: decimal.NewFromInt(15), TotalItem: decimal.NewFromInt(30)},
			{Name: "Teclado", Description: "mecánico", Amount: 1, ItemPrice: decimal.NewFromInt(25), TotalItem: decimal.NewFromInt(25)},
		},
	}

	out, err := testGenerator().GenerateBillPDF(context.Background(), bill)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "el documento debe empezar con la firma PDF")
}

func TestGenerateBillPDF_SinDetallesNiDueño(t *testing.T) {
	out, err := testGenerator().GenerateBillPDF(context.Background(), &entity.Bill{BillNumber: "0002", Date: time.Now()})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateBillPDF_Nil(t *testing.T) {
	_, err := testGenerator().GenerateBillPDF(context.Background(), nil)
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	g := testGenerator()
	assert.Equal(t, "$30.00", g.formatMoney(decimal.NewFromInt(30)))
	assert.Equal(t, "$1,234.50", g.formatMoney(decimal.RequireFromString("1234.5")))
}
