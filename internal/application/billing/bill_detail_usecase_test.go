package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecai/factu-core/internal/application/billing"
	"github.com/codecai/factu-core/internal/application/dto"
	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
	"github.com/codecai/factu-core/internal/testutil/memstore"
)

type fixture struct {
	store   *memstore.Store
	bills   *billing.BillUseCase
	details *billing.BillDetailUseCase
	rec     *countingRecorder
	owner   *entity.User
}

type countingRecorder struct{ ok, failed int }

func (r *countingRecorder) RecordRecompute(err error) {
	if err != nil {
		r.failed++
		return
	}
	r.ok++
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memstore.New()
	role := s.MustRole(t, entity.RoleAdmin)
	owner := s.MustUser(t, "admin@factucore.com", role.ID, "")
	rec := &countingRecorder{}
	return &fixture{
		store:   s,
		bills:   billing.NewBillUseCase(s.Bills(), s.Details(), s.Users(), s),
		details: billing.NewBillDetailUseCase(s.Bills(), s.Details(), s, rec),
		rec:     rec,
		owner:   owner,
	}
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func ptr[T any](v T) *T { return &v }

func (f *fixture) newBill(t *testing.T, number string) *dto.BillResponse {
	t.Helper()
	b, err := f.bills.Create(context.Background(), dto.CreateBillRequest{
		BillNumber: number, Date: "2024-03-01", UserID: f.owner.ID,
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) addDetail(t *testing.T, billID int64, amount int, price string, total *decimal.Decimal) *dto.BillDetailResponse {
	t.Helper()
	d, err := f.details.Create(context.Background(), dto.CreateBillDetailRequest{
		BillID: billID, Name: "Item", Amount: amount, ItemPrice: dec(price), TotalItem: total,
	})
	require.NoError(t, err)
	return d
}

// assertTotals grandTotal == suma de totalItem para todas las facturas.
func (f *fixture) assertTotals(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	all, err := f.bills.List(ctx)
	require.NoError(t, err)
	for _, b := range all {
		sum := decimal.Zero
		for _, d := range b.Details {
			sum = sum.Add(d.TotalItem)
		}
		assert.True(t, b.GrandTotal.Equal(sum), "factura %s: grandTotal %s != suma %s", b.BillNumber, b.GrandTotal, sum)
	}
}

func (f *fixture) grandTotal(t *testing.T, billID int64) decimal.Decimal {
	t.Helper()
	b, err := f.bills.GetByID(context.Background(), billID)
	require.NoError(t, err)
	return b.GrandTotal
}

// ─── Creación ─────────────────────────────────────────────────────────────────

func TestCreateDetail_TotalPorDefectoYRecalculo(t *testing.T) {
	f := newFixture(t)
	bill := f.newBill(t, "1001")

	d := f.addDetail(t, bill.ID, 3, "10.00", nil)
	assert.True(t, d.TotalItem.Equal(dec("30")), "totalItem %s", d.TotalItem)
	assert.True(t, f.grandTotal(t, bill.ID).Equal(dec("30")))
	assert.Equal(t, 1, f.rec.ok)
	f.assertTotals(t)
}

func TestCreateDetail_TotalExplicitoSePreserva(t *testing.T) {
	f := newFixture(t)
	bill := f.newBill(t, "1002")

	d := f.addDetail(t, bill.ID, 3, "10.00", ptr(dec("25.00")))
	assert.True(t, d.TotalItem.Equal(dec("25")), "totalItem %s", d.TotalItem)
	assert.True(t, f.grandTotal(t, bill.ID).Equal(dec("25")))
}

func TestCreateDetail_FacturaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.details.Create(context.Background(), dto.CreateBillDetailRequest{
		BillID: 999, Name: "x", Amount: 1, ItemPrice: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateDetail_PrecioNoPositivo(t *testing.T) {
	f := newFixture(t)
	bill := f.newBill(t, "1003")
	_, err := f.details.Create(context.Background(), dto.CreateBillDetailRequest{
		BillID: bill.ID, Name: "x", Amount: 1, ItemPrice: dec("0"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Actualización ────────────────────────────────────────────────────────────

func TestUpdateDetail_CambioDeAmountRecalculaLineaYFactura(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bill := f.newBill(t, "2001")
	d := f.addDetail(t, bill.ID, 2, "5", nil)
	require.True(t, f.grandTotal(t, bill.ID).Equal(dec("10")))

	updated, err := f.details.Update(ctx, d.ID, dto.UpdateBillDetailRequest{Amount: ptr(4)})
	require.NoError(t, err)

	assert.True(t, updated.TotalItem.Equal(dec("20")), "totalItem %s", updated.TotalItem)
	assert.True(t, f.grandTotal(t, bill.ID).Equal(dec("20")))
	f.assertTotals(t)
}

func TestUpdateDetail_TotalExplicitoGanaEnElMismoPatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bill := f.newBill(t, "2002")
	d := f.addDetail(t, bill.ID, 2, "5", nil)

	updated, err := f.details.Update(ctx, d.ID, dto.UpdateBillDetailRequest{Amount: ptr(4), TotalItem: ptr(dec("18"))})
	require.NoError(t, err)
	assert.True(t, updated.TotalItem.Equal(dec("18")))
	assert.True(t, f.grandTotal(t, bill.ID).Equal(dec("18")))
}

func TestUpdateDetail_MoverEntreFacturasRecalculaAmbas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.newBill(t, "3001")
	b := f.newBill(t, "3002")
	moving := f.addDetail(t, a.ID, 1, "40", nil)
	f.addDetail(t, a.ID, 2, "5", nil)
	f.addDetail(t, b.ID, 1, "7", nil)

	require.True(t, f.grandTotal(t, a.ID).Equal(dec("50")))
	require.True(t, f.grandTotal(t, b.ID).Equal(dec("7")))

	_, err := f.details.Update(ctx, moving.ID, dto.UpdateBillDetailRequest{BillID: ptr(b.ID)})
	require.NoError(t, err)

	assert.True(t, f.grandTotal(t, a.ID).Equal(dec("10")), "A: %s", f.grandTotal(t, a.ID))
	assert.True(t, f.grandTotal(t, b.ID).Equal(dec("47")), "B: %s", f.grandTotal(t, b.ID))
	f.assertTotals(t)
}

func TestUpdateDetail_MoverAFacturaInexistente(t *testing.T) {
	f := newFixture(t)
	bill := f.newBill(t, "3003")
	d := f.addDetail(t, bill.ID, 1, "9", nil)

	_, err := f.details.Update(context.Background(), d.ID, dto.UpdateBillDetailRequest{BillID: ptr(int64(12345))})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.details.GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, bill.ID, got.BillID)
}

func TestUpdateDetail_Inexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.details.Update(context.Background(), 777, dto.UpdateBillDetailRequest{Amount: ptr(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Eliminación ──────────────────────────────────────────────────────────────

func TestDeleteDetail_RecalculaFacturaPadre(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bill := f.newBill(t, "4001")
	d1 := f.addDetail(t, bill.ID, 1, "10", nil)
	f.addDetail(t, bill.ID, 1, "15", nil)

	require.NoError(t, f.details.Delete(ctx, d1.ID))
	assert.True(t, f.grandTotal(t, bill.ID).Equal(dec("15")))

	_, err := f.details.GetByID(ctx, d1.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.details.Delete(ctx, d1.ID), domain.ErrNotFound)
	f.assertTotals(t)
}

func TestDeleteBill_BorraTodosSusDetalles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bill := f.newBill(t, "5001")
	ids := []int64{
		f.addDetail(t, bill.ID, 1, "1", nil).ID,
		f.addDetail(t, bill.ID, 2, "2", nil).ID,
		f.addDetail(t, bill.ID, 3, "3", nil).ID,
	}

	require.NoError(t, f.bills.Delete(ctx, bill.ID))

	for _, id := range ids {
		_, err := f.details.GetByID(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	_, err := f.bills.GetByID(ctx, bill.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.bills.Delete(ctx, bill.ID), domain.ErrNotFound)
}

// ─── Atomicidad ───────────────────────────────────────────────────────────────

func TestCreateDetail_FalloEnRecalculoRevierteLaLinea(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bill := f.newBill(t, "6001")
	f.addDetail(t, bill.ID, 1, "10", nil)

	f.store.SetFailSetGrandTotal(memstore.ErrInjected)
	_, err := f.details.Create(ctx, dto.CreateBillDetailRequest{BillID: bill.ID, Name: "x", Amount: 5, ItemPrice: dec("3")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, memstore.ErrInjected))
	assert.Equal(t, 1, f.rec.failed)
	f.store.SetFailSetGrandTotal(nil)

	list, err := f.details.ListByBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1, "la línea creada antes del fallo no debe persistir")
	assert.True(t, f.grandTotal(t, bill.ID).Equal(dec("10")))
	f.assertTotals(t)
}

func TestUpdateDetail_FalloEnRecalculoRevierteElCambio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bill := f.newBill(t, "6002")
	d := f.addDetail(t, bill.ID, 2, "5", nil)

	f.store.SetFailSetGrandTotal(memstore.ErrInjected)
	_, err := f.details.Update(ctx, d.ID, dto.UpdateBillDetailRequest{Amount: ptr(9)})
	require.Error(t, err)
	f.store.SetFailSetGrandTotal(nil)

	got, err := f.details.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Amount)
	assert.True(t, got.TotalItem.Equal(dec("10")))
}

// ─── Secuencia mixta ──────────────────────────────────────────────────────────

func TestGrandTotal_SecuenciaDeOperaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.newBill(t, "7001")
	b := f.newBill(t, "7002")

	d1 := f.addDetail(t, a.ID, 3, "2.50", nil)
	d2 := f.addDetail(t, a.ID, 1, "99.99", ptr(dec("80")))
	d3 := f.addDetail(t, b.ID, 4, "0.25", nil)
	f.assertTotals(t)

	_, err := f.details.Update(ctx, d1.ID, dto.UpdateBillDetailRequest{ItemPrice: ptr(dec("3"))})
	require.NoError(t, err)
	f.assertTotals(t)

	_, err = f.details.Update(ctx, d2.ID, dto.UpdateBillDetailRequest{BillID: ptr(b.ID), Name: ptr("movido")})
	require.NoError(t, err)
	f.assertTotals(t)

	require.NoError(t, f.details.Delete(ctx, d3.ID))
	f.assertTotals(t)

	assert.True(t, f.grandTotal(t, a.ID).Equal(dec("9")))
	assert.True(t, f.grandTotal(t, b.ID).Equal(dec("80")))
}
