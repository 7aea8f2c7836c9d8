package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/codecai/factu-core/internal/domain/entity"
)

// LineTotal total de una línea: amount * itemPrice.
func LineTotal(amount int, itemPrice decimal.Decimal) decimal.Decimal {
	return itemPrice.Mul(decimal.NewFromInt(int64(amount)))
}

// GrandTotal suma de totalItem de todos los detalles recibidos.
// El caller debe pasar la lista completa leída del store, nunca un subconjunto.
func GrandTotal(details []*entity.BillDetail) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range details {
		sum = sum.Add(d.TotalItem)
	}
	return sum
}
