package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/domain/ledger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

// ─── NewDetail ────────────────────────────────────────────────────────────────

func TestNewDetail_TotalPorDefecto(t *testing.T) {
	d, err := ledger.NewDetail(ledger.DetailInput{BillID: 1, Name: "Café", Amount: 3, ItemPrice: dec("10.00")})
	require.NoError(t, err)
	assert.True(t, d.TotalItem.Equal(dec("30.00")), "got %s", d.TotalItem)
}

func TestNewDetail_TotalExplicitoSeRespeta(t *testing.T) {
	d, err := ledger.NewDetail(ledger.DetailInput{
		BillID: 1, Name: "Café", Amount: 3, ItemPrice: dec("10.00"), TotalItem: ptr(dec("25.00")),
	})
	require.NoError(t, err)
	assert.True(t, d.TotalItem.Equal(dec("25.00")), "got %s", d.TotalItem)
}

func TestNewDetail_Validaciones(t *testing.T) {
	cases := map[string]ledger.DetailInput{
		"amount cero":       {BillID: 1, Name: "x", Amount: 0, ItemPrice: dec("1")},
		"amount negativo":   {BillID: 1, Name: "x", Amount: -2, ItemPrice: dec("1")},
		"precio cero":       {BillID: 1, Name: "x", Amount: 1, ItemPrice: decimal.Zero},
		"precio negativo":   {BillID: 1, Name: "x", Amount: 1, ItemPrice: dec("-5")},
		"total negativo":    {BillID: 1, Name: "x", Amount: 1, ItemPrice: dec("1"), TotalItem: ptr(dec("-1"))},
		"sin nombre":        {BillID: 1, Name: "  ", Amount: 1, ItemPrice: dec("1")},
		"sin factura padre": {BillID: 0, Name: "x", Amount: 1, ItemPrice: dec("1")},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ledger.NewDetail(in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// ─── ApplyPatch ───────────────────────────────────────────────────────────────

func stored() *entity.BillDetail {
	return &entity.BillDetail{ID: 7, BillID: 1, Name: "Té", Amount: 2, ItemPrice: dec("5"), TotalItem: dec("10")}
}

func TestApplyPatch_CambioDeAmountRecalcula(t *testing.T) {
	d := stored()
	require.NoError(t, ledger.ApplyPatch(d, ledger.DetailPatch{Amount: ptr(4)}))
	assert.True(t, d.TotalItem.Equal(dec("20")), "got %s", d.TotalItem)
}

func TestApplyPatch_CambioDePrecioUsaAmountAlmacenado(t *testing.T) {
	d := stored()
	require.NoError(t, ledger.ApplyPatch(d, ledger.DetailPatch{ItemPrice: ptr(dec("7.50"))}))
	assert.True(t, d.TotalItem.Equal(dec("15")), "got %s", d.TotalItem)
}

func TestApplyPatch_TotalExplicitoGanaSobreRecalculo(t *testing.T) {
	d := stored()
	require.NoError(t, ledger.ApplyPatch(d, ledger.DetailPatch{Amount: ptr(4), TotalItem: ptr(dec("18"))}))
	assert.Equal(t, 4, d.Amount)
	assert.True(t, d.TotalItem.Equal(dec("18")), "got %s", d.TotalItem)
}

func TestApplyPatch_SoloNombreNoTocaTotal(t *testing.T) {
	d := stored()
	d.TotalItem = dec("9")
	require.NoError(t, ledger.ApplyPatch(d, ledger.DetailPatch{Name: ptr("Té verde")}))
	assert.Equal(t, "Té verde", d.Name)
	assert.True(t, d.TotalItem.Equal(dec("9")))
}

func TestApplyPatch_InvalidoNoModifica(t *testing.T) {
	d := stored()
	err := ledger.ApplyPatch(d, ledger.DetailPatch{Name: ptr("nuevo"), Amount: ptr(0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Té", d.Name)
	assert.Equal(t, 2, d.Amount)
}

func TestDetailPatch_MovesBill(t *testing.T) {
	d := stored()
	assert.False(t, ledger.DetailPatch{}.MovesBill(d))
	assert.False(t, ledger.DetailPatch{BillID: ptr(int64(1))}.MovesBill(d))
	assert.True(t, ledger.DetailPatch{BillID: ptr(int64(2))}.MovesBill(d))
}

// ─── Totales ──────────────────────────────────────────────────────────────────

func TestGrandTotal_SumaTodasLasLineas(t *testing.T) {
	details := []*entity.BillDetail{
		{TotalItem: dec("30.00")},
		{TotalItem: dec("25.50")},
		{TotalItem: dec("0.25")},
	}
	assert.True(t, ledger.GrandTotal(details).Equal(dec("55.75")))
	assert.True(t, ledger.GrandTotal(nil).IsZero())
}

func TestValidateGrandTotal(t *testing.T) {
	assert.NoError(t, ledger.ValidateGrandTotal(decimal.Zero))
	assert.ErrorIs(t, ledger.ValidateGrandTotal(dec("-0.01")), domain.ErrInvalidInput)
}

func TestNewDetail_MasDeDosDecimalesEsInvalido(t *testing.T) {
	cases := map[string]ledger.DetailInput{
		"precio 0.335":    {BillID: 1, Name: "x", Amount: 3, ItemPrice: dec("0.335")},
		"precio 0.004":    {BillID: 1, Name: "x", Amount: 1, ItemPrice: dec("0.004")},
		"totalItem 1.005": {BillID: 1, Name: "x", Amount: 3, ItemPrice: dec("0.33"), TotalItem: ptr(dec("1.005"))},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ledger.NewDetail(in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestNewDetail_CerosFinalesNoCuentanComoDecimales(t *testing.T) {
	d, err := ledger.NewDetail(ledger.DetailInput{BillID: 1, Name: "x", Amount: 3, ItemPrice: dec("0.3400")})
	require.NoError(t, err)
	assert.True(t, d.TotalItem.Equal(dec("1.02")), "got %s", d.TotalItem)
}

func TestApplyPatch_MasDeDosDecimalesNoModifica(t *testing.T) {
	d := &entity.BillDetail{BillID: 1, Name: "x", Amount: 3, ItemPrice: dec("0.34"), TotalItem: dec("1.02")}

	assert.ErrorIs(t, ledger.ApplyPatch(d, ledger.DetailPatch{ItemPrice: ptr(dec("0.335"))}), domain.ErrInvalidInput)
	assert.ErrorIs(t, ledger.ApplyPatch(d, ledger.DetailPatch{TotalItem: ptr(dec("0.004"))}), domain.ErrInvalidInput)
	assert.True(t, d.ItemPrice.Equal(dec("0.34")))
	assert.True(t, d.TotalItem.Equal(dec("1.02")))
}

func TestValidateGrandTotal_Decimales(t *testing.T) {
	assert.NoError(t, ledger.ValidateGrandTotal(dec("10.50")))
	assert.ErrorIs(t, ledger.ValidateGrandTotal(dec("10.505")), domain.ErrInvalidInput)
}
