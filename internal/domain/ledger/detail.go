package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/codecai/factu-core/internal/domain"
	"github.com/codecai/factu-core/internal/domain/entity"
)

// DetailInput datos para crear una línea. TotalItem nil significa "calcular".
type DetailInput struct {
	BillID      int64
	Name        string
	Description string
	Amount      int
	ItemPrice   decimal.Decimal
	TotalItem   *decimal.Decimal
}

// DetailPatch cambios parciales sobre una línea. Campos nil no se tocan.
type DetailPatch struct {
	BillID      *int64
	Name        *string
	Description *string
	Amount      *int
	ItemPrice   *decimal.Decimal
	TotalItem   *decimal.Decimal
}

// MovesBill indica si el patch cambia la factura padre de d.
func (p DetailPatch) MovesBill(d *entity.BillDetail) bool {
	return p.BillID != nil && *p.BillID != d.BillID
}

// NewDetail valida la entrada y construye la línea con su total.
func NewDetail(in DetailInput) (*entity.BillDetail, error) {
	if in.BillID <= 0 {
		return nil, fmt.Errorf("%w: billId debe ser positivo", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	if err := validatePositive("itemPrice", in.ItemPrice); err != nil {
		return nil, err
	}
	total := LineTotal(in.Amount, in.ItemPrice)
	if in.TotalItem != nil {
		if err := validatePositive("totalItem", *in.TotalItem); err != nil {
			return nil, err
		}
		total = *in.TotalItem
	}
	return &entity.BillDetail{
		BillID:      in.BillID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Amount:      in.Amount,
		ItemPrice:   in.ItemPrice,
		TotalItem:   total,
	}, nil
}

// ApplyPatch aplica p sobre d.
//
// Precedencia de totalItem: un totalItem explícito en el mismo patch gana; si no viene
// y cambia amount o itemPrice, se recalcula con los valores finales (los no enviados
// conservan el valor almacenado). Si no cambia nada de eso, totalItem queda igual.
func ApplyPatch(d *entity.BillDetail, p DetailPatch) error {
	if p.BillID != nil && *p.BillID <= 0 {
		return fmt.Errorf("%w: billId debe ser positivo", domain.ErrInvalidInput)
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("%w: name no puede estar vacío", domain.ErrInvalidInput)
	}
	if p.Amount != nil {
		if err := validateAmount(*p.Amount); err != nil {
			return err
		}
	}
	if p.ItemPrice != nil {
		if err := validatePositive("itemPrice", *p.ItemPrice); err != nil {
			return err
		}
	}
	if p.TotalItem != nil {
		if err := validatePositive("totalItem", *p.TotalItem); err != nil {
			return err
		}
	}

	if p.BillID != nil {
		d.BillID = *p.BillID
	}
	if p.Name != nil {
		d.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Amount != nil {
		d.Amount = *p.Amount
	}
	if p.ItemPrice != nil {
		d.ItemPrice = *p.ItemPrice
	}

	switch {
	case p.TotalItem != nil:
		d.TotalItem = *p.TotalItem
	case p.Amount != nil || p.ItemPrice != nil:
		d.TotalItem = LineTotal(d.Amount, d.ItemPrice)
	}
	return nil
}

// MoneyScale decimales que guarda la base (NUMERIC(14,2)).
const MoneyScale = 2

// ValidateGrandTotal el total inicial de una factura no puede ser negativo.
func ValidateGrandTotal(v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%w: grandTotal no puede ser negativo", domain.ErrInvalidInput)
	}
	return validateScale("grandTotal", v)
}

func validateAmount(amount int) error {
	if amount < 1 {
		return fmt.Errorf("%w: amount debe ser un entero positivo", domain.ErrInvalidInput)
	}
	return nil
}

func validatePositive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return fmt.Errorf("%w: %s debe ser mayor a 0", domain.ErrInvalidInput, field)
	}
	return validateScale(field, v)
}

// validateScale rechaza montos que la base redondearía en silencio.
func validateScale(field string, v decimal.Decimal) error {
	if !v.Equal(v.Truncate(MoneyScale)) {
		return fmt.Errorf("%w: %s admite como máximo %d decimales", domain.ErrInvalidInput, field, MoneyScale)
	}
	return nil
}
